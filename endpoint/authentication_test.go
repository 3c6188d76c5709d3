package endpoint

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	"github.com/ariebrainware/therapist-booking/middleware"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginData struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	UserID      uint       `json:"id_user"`
	Role        model.Role `json:"role"`
	TherapistID *uint      `json:"therapist_id"`
}

func login(t *testing.T, ts *testServer, email, password string) (int, loginData) {
	t.Helper()
	w, env := performRequest(t, ts, requestSpec{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	})
	var data loginData
	if w.Code == http.StatusOK {
		decodeData(t, env, &data)
	}
	return w.Code, data
}

func TestRegisterLoginProfile(t *testing.T) {
	ts := newTestServer(t)

	w, env := performRequest(t, ts, requestSpec{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   map[string]string{"name": "Budi", "email": "Budi@Example.com", "password": "password123"},
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.Equal(t, "Register success", env.Message)
	assert.NotContains(t, string(env.Data), "password")
	var created struct {
		ID    uint       `json:"id"`
		Email string     `json:"email"`
		Role  model.Role `json:"role"`
	}
	decodeData(t, env, &created)
	assert.Equal(t, "budi@example.com", created.Email)
	assert.Equal(t, model.RoleUser, created.Role)

	code, data := login(t, ts, "budi@example.com", "password123")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bearer", data.TokenType)
	assert.Equal(t, created.ID, data.UserID)
	assert.NotEmpty(t, data.AccessToken)

	w, env = performRequest(t, ts, requestSpec{method: http.MethodGet, path: "/auth/profile", token: data.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Name      string          `json:"name"`
		Therapist *map[string]any `json:"therapist_profile"`
	}
	decodeData(t, env, &profile)
	assert.Equal(t, "Budi", profile.Name)
	assert.Nil(t, profile.Therapist)
}

func TestRegisterRejections(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAccount(t, "taken", model.RoleUser)

	tests := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"admin role", map[string]string{"name": "A", "email": "a@example.com", "password": "password123", "role": "admin"}, "Admin accounts cannot be self-registered"},
		{"unknown role", map[string]string{"name": "A", "email": "a@example.com", "password": "password123", "role": "root"}, "Invalid role"},
		{"duplicate email", map[string]string{"name": "A", "email": "TAKEN@example.com", "password": "password123"}, "Email already registered"},
		{"short password", map[string]string{"name": "A", "email": "a@example.com", "password": "short"}, "Name, email and password are required"},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "password123"}, "Name, email and password are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := performRequest(t, ts, requestSpec{method: http.MethodPost, path: "/auth/register", body: tt.body})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.msg, env.Message)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

func TestRegisterTherapistCreatesProfile(t *testing.T) {
	ts := newTestServer(t)

	w, env := performRequest(t, ts, requestSpec{
		method: http.MethodPost,
		path:   "/auth/register/therapist",
		body: map[string]interface{}{
			"name":             "Dr. Sari",
			"email":            "sari@example.com",
			"password":         "password123",
			"specialization":   "Reflexology",
			"experience_years": 4,
			"working_hours":    map[string]string{"mon": "09:00-17:00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	code, data := login(t, ts, "sari@example.com", "password123")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.RoleTherapist, data.Role)
	require.NotNil(t, data.TherapistID)

	w, env = performRequest(t, ts, requestSpec{method: http.MethodGet, path: "/auth/profile", token: data.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Therapist *model.TherapistProfile `json:"therapist_profile"`
	}
	decodeData(t, env, &profile)
	require.NotNil(t, profile.Therapist)
	assert.Equal(t, *data.TherapistID, profile.Therapist.ID)
	assert.Equal(t, "Reflexology", profile.Therapist.Specialization)
	assert.Equal(t, model.TherapistAvailable, profile.Therapist.StatusTherapist)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAccount(t, "login", model.RoleUser)

	code, _ := login(t, ts, "login@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = login(t, ts, "ghost@example.com", "password123")
	assert.Equal(t, http.StatusUnauthorized, code)

	w, env := performRequest(t, ts, requestSpec{method: http.MethodPost, path: "/auth/login", body: `{"email":`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", env.Message)
}

func TestLoginRateLimited(t *testing.T) {
	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	ts := newServerOn(db)
	h := NewHandler(ts.store, ts.tokens, nil)
	ts.router = NewRouter(h, RouterOptions{
		DB:        db,
		Verifier:  ts.tokens,
		RateLimit: middleware.RateLimitConfig{Limit: 2, Window: time.Minute},
	})

	for i := 0; i < 2; i++ {
		code, _ := login(t, ts, "nobody@example.com", "password123")
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	w, env := performRequest(t, ts, requestSpec{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": "nobody@example.com", "password": "password123"},
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestLoginSuccessResetsRateLimit(t *testing.T) {
	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	ts := newServerOn(db)
	h := NewHandler(ts.store, ts.tokens, nil)
	ts.router = NewRouter(h, RouterOptions{
		DB:        db,
		Verifier:  ts.tokens,
		RateLimit: middleware.RateLimitConfig{Limit: 2, Window: time.Minute},
	})
	ts.seedAccount(t, "reset", model.RoleUser)

	code, _ := login(t, ts, "reset@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = login(t, ts, "reset@example.com", "password123")
	require.Equal(t, http.StatusOK, code)

	// The counter starts over after the successful login.
	for i := 0; i < 2; i++ {
		code, _ = login(t, ts, "reset@example.com", "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, _ = login(t, ts, "reset@example.com", "wrong-password")
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	acct := ts.seedAccount(t, "leaver", model.RoleUser)
	claims, err := ts.tokens.Verify(acct.token)
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(client)
	t.Cleanup(config.ResetRedisClientForTest)

	revokedKey := "revoked_token:" + claims.ID
	mock.ExpectExists(revokedKey).SetVal(0)
	// The TTL depends on the wall clock; only the key and value are checked.
	mock.CustomMatch(func(expected, actual []interface{}) error {
		if len(actual) < 3 || actual[1] != revokedKey || actual[2] != "1" {
			return fmt.Errorf("unexpected SET %v", actual)
		}
		return nil
	}).ExpectSet(revokedKey, "1", time.Hour).SetVal("OK")
	w, _ := performRequest(t, ts, requestSpec{method: http.MethodDelete, path: "/auth/logout", token: acct.token})
	require.Equal(t, http.StatusOK, w.Code)

	mock.ExpectExists(revokedKey).SetVal(1)
	w, _ = performRequest(t, ts, requestSpec{method: http.MethodGet, path: "/auth/profile", token: acct.token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
