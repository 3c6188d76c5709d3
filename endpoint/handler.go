package endpoint

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ariebrainware/therapist-booking/middleware"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/service"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler carries the services behind every route.
type Handler struct {
	Accounts      *service.AccountService
	Users         *service.UserService
	Therapists    *service.TherapistService
	Bookings      *service.BookingService
	Reviews       *service.ReviewService
	Notifications *service.NotificationService
}

// NewHandler wires the services over store. sender may be nil.
func NewHandler(store *repository.Store, tokens *util.TokenService, sender service.Sender) *Handler {
	return &Handler{
		Accounts:      service.NewAccountService(store, tokens),
		Users:         service.NewUserService(store, tokens.TTL()),
		Therapists:    service.NewTherapistService(store, tokens.TTL()),
		Bookings:      service.NewBookingService(store),
		Reviews:       service.NewReviewService(store),
		Notifications: service.NewNotificationService(store, sender),
	}
}

// respondError maps a service failure to its status code and envelope.
// Store failures are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindStore, Message: "unexpected", Err: err}
	}
	params := util.APIErrorParams{Msg: se.Message, Err: err}

	switch se.Kind {
	case service.KindValidation, service.KindConflict, service.KindIneligibleReview:
		util.CallUserError(c, params)
	case service.KindAuthentication:
		util.CallUserNotAuthorized(c, params)
	case service.KindForbidden:
		actor, _ := middleware.GetActor(c)
		util.LogAccessDenied(util.UnauthorizedAccessParams{
			UserID:   strconv.FormatUint(uint64(actor.ID), 10),
			Role:     string(actor.Role),
			IP:       c.ClientIP(),
			Resource: c.Request.URL.Path,
			Reason:   se.Message,
		})
		util.CallForbidden(c, params)
	case service.KindNotFoundOrForbidden:
		util.CallErrorNotFound(c, params)
	default:
		util.Log.WithFields(logrus.Fields{
			"op":     se.Message,
			"error":  se.Err,
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("store failure")
		util.CallServerError(c, util.APIErrorParams{Msg: "Internal server error", Err: err})
	}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// actorOrRespond returns the authenticated caller or answers 401.
func actorOrRespond(c *gin.Context) (policy.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Unauthorized",
			Err: fmt.Errorf("no actor in context"),
		})
		return policy.Actor{}, false
	}
	return actor, true
}

// parseIDParam parses the "id" path parameter into a uint and returns an error if invalid.
func parseIDParam(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("ID must be a valid integer")
	}
	if id <= 0 {
		return 0, fmt.Errorf("ID must be a positive integer")
	}
	return uint(id), nil
}

func idOrRespond(c *gin.Context) (uint, bool) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return 0, false
	}
	return id, true
}

// parsePaginationParams extracts and validates limit, cursor, and offset query parameters.
func parsePaginationParams(c *gin.Context) (limit int, cursor uint, offset int) {
	limit = parsePositiveInt(c.Query("limit"), 10, 100)
	cursor = parseUintQuery(c, "cursor")
	offset = parsePositiveInt(c.Query("offset"), 0, 0)
	return limit, cursor, offset
}

// parsePositiveInt parses a positive integer from a query value returning a default
// when the value is missing or invalid. If max > 0 it caps the returned value.
func parsePositiveInt(q string, defaultVal, max int) int {
	if q == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(q)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// parseUintQuery parses an unsigned integer query parameter and returns 0 on error.
func parseUintQuery(c *gin.Context, name string) uint {
	s := c.Query(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0
	}
	return uint(v)
}
