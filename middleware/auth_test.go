package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T) *util.TokenService {
	t.Helper()
	util.SetJWTSecret("middleware-test-secret")
	t.Cleanup(func() { util.SetJWTSecret("") })
	return util.NewTokenService(time.Hour)
}

func runAuthRequest(verifier TokenVerifier, header string, handlers ...gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	chain := append([]gin.HandlerFunc{Authenticate(verifier)}, handlers...)
	r.GET("/test", chain...)
	req := httptest.NewRequest("GET", "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) { c.Status(http.StatusOK) }

func TestAuthenticate_SetsActor(t *testing.T) {
	setGinTestMode()
	config.ResetRedisClientForTest()
	tokens := newTokenService(t)
	issued, err := tokens.Issue(42, "therapist")
	require.NoError(t, err)

	w := runAuthRequest(tokens, "Bearer "+issued.Token, func(c *gin.Context) {
		actor, found := GetActor(c)
		assert.True(t, found)
		assert.Equal(t, uint(42), actor.ID)
		assert.Equal(t, model.RoleTherapist, actor.Role)
		jti, exp := GetToken(c)
		assert.Equal(t, issued.ID, jti)
		assert.WithinDuration(t, issued.ExpiresAt, exp, time.Second)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_Rejects(t *testing.T) {
	setGinTestMode()
	config.ResetRedisClientForTest()
	tokens := newTokenService(t)

	other := util.NewTokenService(time.Hour)
	util.SetJWTSecret("another-secret")
	foreign, err := other.Issue(1, "admin")
	require.NoError(t, err)
	util.SetJWTSecret("middleware-test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage", "Bearer not-a-jwt"},
		{"foreign signature", "Bearer " + foreign.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runAuthRequest(tokens, tt.header, okHandler)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"error"`)
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	setGinTestMode()
	tokens := newTokenService(t)
	issued, err := tokens.Issue(7, "user")
	require.NoError(t, err)

	mock := setupRedisMock(t)
	mock.ExpectExists("revoked_token:" + issued.ID).SetVal(1)
	w := runAuthRequest(tokens, "Bearer "+issued.Token, okHandler)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mock.ExpectExists("revoked_token:" + issued.ID).SetVal(0)
	w = runAuthRequest(tokens, "Bearer "+issued.Token, okHandler)
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectExists("revoked_token:" + issued.ID).SetErr(errors.New("redis down"))
	w = runAuthRequest(tokens, "Bearer "+issued.Token, okHandler)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis down")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireRole(t *testing.T) {
	setGinTestMode()
	config.ResetRedisClientForTest()
	tokens := newTokenService(t)

	userTok, err := tokens.Issue(3, "user")
	require.NoError(t, err)
	adminTok, err := tokens.Issue(1, "admin")
	require.NoError(t, err)

	w := runAuthRequest(tokens, "Bearer "+userTok.Token, RequireRole(model.RoleAdmin), okHandler)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = runAuthRequest(tokens, "Bearer "+adminTok.Token, RequireRole(model.RoleAdmin), okHandler)
	assert.Equal(t, http.StatusOK, w.Code)

	w = runAuthRequest(tokens, "Bearer "+userTok.Token, RequireRole(model.RoleAdmin, model.RoleUser), okHandler)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.GET("/test", RequireRole(model.RoleUser), okHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
