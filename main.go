// main.go
package main

import (
	"fmt"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	_ "github.com/ariebrainware/therapist-booking/docs"
	"github.com/ariebrainware/therapist-booking/endpoint"
	"github.com/ariebrainware/therapist-booking/middleware"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
)

// @title           Therapist Booking API
// @version         1.0
// @description     Role-based booking of massage therapists with reviews and notifications.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// Load the configuration
	cfg := config.LoadConfig()
	util.ConfigureLogger(cfg.GinMode)
	if cfg.JWTSecret == "" {
		util.Log.Fatal("JWTSECRET must be set")
	}
	util.SetJWTSecret(cfg.JWTSecret)

	db, err := config.ConnectMySQL()
	if err != nil {
		util.Log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		util.Log.Fatalf("Error migrating schema: %v", err)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hash, err := util.HashPassword(cfg.AdminPassword)
		if err != nil {
			util.Log.Fatalf("Error hashing admin password: %v", err)
		}
		if err := model.SeedAdmin(db, cfg.AdminName, util.NormalizeEmail(cfg.AdminEmail), hash); err != nil {
			util.Log.Fatalf("Error seeding admin: %v", err)
		}
	}
	util.SetSecurityLoggerDB(db)
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		util.Log.WithError(err).Warn("GeoIP database unavailable, security events will carry no location")
	}
	defer util.CloseGeoIP()

	if _, err := config.ConnectRedis(); err != nil {
		util.Log.WithError(err).Warn("Redis unavailable, token revocation and rate limiting fall back to local state")
	}
	util.InitUserEmailCache(10 * time.Minute)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	tokens := util.NewTokenService(cfg.TokenTTL)
	mailer := util.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	handler := endpoint.NewHandler(repository.New(db), tokens, mailer)
	router := endpoint.NewRouter(handler, endpoint.RouterOptions{
		AppName:  cfg.AppName,
		DB:       db,
		Verifier: tokens,
		RateLimit: middleware.RateLimitConfig{
			Limit:  cfg.RateLimit,
			Window: cfg.RateWindow,
		},
	})

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		util.Log.Fatalf("error starting server: %v", err)
	}
}
