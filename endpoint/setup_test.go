package endpoint

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	"github.com/ariebrainware/therapist-booking/middleware"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestMain pins the environment every endpoint test relies on.
func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("GINMODE", "test")
	util.SetJWTSecret("endpoint-test-secret")
	config.ResetRedisClientForTest()
	util.InitUserEmailCache(time.Minute)
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router *gin.Engine
	store  *repository.Store
	tokens *util.TokenService
}

func newServerOn(db *gorm.DB) *testServer {
	store := repository.New(db)
	tokens := util.NewTokenService(time.Hour)
	h := NewHandler(store, tokens, nil)
	router := NewRouter(h, RouterOptions{
		AppName:  "Therapist Booking",
		DB:       db,
		Verifier: tokens,
		// Generous so the auth flow tests never trip it.
		RateLimit: middleware.RateLimitConfig{Limit: 1000, Window: time.Minute},
	})
	return &testServer{router: router, store: store, tokens: tokens}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return newServerOn(db)
}

type account struct {
	id    uint
	role  model.Role
	token string
}

// seedAccount stores an active account with password "password123" and
// returns a signed token for it.
func (ts *testServer) seedAccount(t *testing.T, name string, role model.Role) account {
	t.Helper()
	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	u := &model.User{Name: name, Email: name + "@example.com", Password: hash, Role: role}
	require.NoError(t, ts.store.CreateUser(context.Background(), u))
	issued, err := ts.tokens.Issue(u.ID, string(role))
	require.NoError(t, err)
	return account{id: u.ID, role: role, token: issued.Token}
}

// seedTherapist returns the therapist account and its profile id.
func (ts *testServer) seedTherapist(t *testing.T, name string) (account, uint) {
	t.Helper()
	acct := ts.seedAccount(t, name, model.RoleTherapist)
	p := &model.TherapistProfile{UserID: acct.id, Specialization: "Sports massage"}
	require.NoError(t, ts.store.CreateTherapistProfile(context.Background(), p))
	return acct, p.ID
}
