package endpoint

import (
	"fmt"
	"net/http"

	"github.com/ariebrainware/therapist-booking/middleware"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterOptions carries what the router needs beyond the handlers.
type RouterOptions struct {
	AppName   string
	DB        *gorm.DB
	Verifier  middleware.TokenVerifier
	RateLimit middleware.RateLimitConfig
}

// NewRouter registers every route on a fresh engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.Metrics())
	if opts.DB != nil {
		router.Use(middleware.DatabaseMiddleware(opts.DB))
	}
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", opts.AppName),
		})
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := router.Group("/auth")
	{
		limited := auth.Group("", middleware.RateLimiter(opts.RateLimit))
		limited.POST("/login", h.Login)
		limited.POST("/register", h.Register)
		limited.POST("/register/therapist", h.RegisterTherapist)

		session := auth.Group("", middleware.Authenticate(opts.Verifier))
		session.GET("/profile", h.Profile)
		session.DELETE("/logout", h.Logout)
	}

	api := router.Group("", middleware.Authenticate(opts.Verifier))
	admin := middleware.RequireRole(model.RoleAdmin)

	users := api.Group("/users")
	{
		users.GET("", admin, h.ListUsers)
		users.POST("", admin, h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", admin, h.DeleteUser)
	}

	therapists := api.Group("/therapists")
	{
		therapists.GET("", h.ListTherapists)
		therapists.POST("", admin, h.CreateTherapist)
		therapists.GET("/:id", h.GetTherapist)
		therapists.PUT("/:id", h.UpdateTherapist)
		therapists.PUT("/:id/status", h.UpdateTherapistStatus)
		therapists.DELETE("/:id", admin, h.DeleteTherapist)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id/status", h.UpdateBookingStatus)
		bookings.DELETE("/:id", h.DeleteBooking)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("/:id", h.GetReview)
		reviews.GET("/therapist/:id", h.ListTherapistReviews)
	}

	notifications := api.Group("/notifications")
	{
		notifications.POST("", admin, h.CreateNotification)
		notifications.GET("", h.ListNotifications)
		notifications.PUT("/:id/read", h.MarkNotificationRead)
	}

	return router
}
