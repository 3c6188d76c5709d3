package endpoint

import (
	"github.com/ariebrainware/therapist-booking/middleware"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/service"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type RegisterRequest struct {
	Name     string     `json:"name" binding:"required" example:"John Doe"`
	Email    string     `json:"email" binding:"required,email" example:"john@example.com"`
	Password string     `json:"password" binding:"required,min=8" example:"password123"`
	Phone    *string    `json:"phone" example:"081234567890"`
	Role     model.Role `json:"role" example:"user"`
}

type RegisterTherapistRequest struct {
	Name            string                 `json:"name" binding:"required" example:"Dr. Jane Doe"`
	Email           string                 `json:"email" binding:"required,email" example:"jane@example.com"`
	Password        string                 `json:"password" binding:"required,min=8" example:"password123"`
	Phone           *string                `json:"phone" example:"081234567890"`
	Bio             *string                `json:"bio" example:"Sports massage specialist"`
	ExperienceYears *int                   `json:"experience_years" example:"5"`
	Specialization  *string                `json:"specialization" example:"Sports massage"`
	StatusTherapist *model.TherapistStatus `json:"status_therapist" example:"available"`
	WorkingHours    datatypes.JSON         `json:"working_hours" swaggertype:"object"`
}

func (r RegisterTherapistRequest) input() service.RegisterInput {
	return service.RegisterInput{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		Phone:           r.Phone,
		Role:            model.RoleTherapist,
		Bio:             r.Bio,
		ExperienceYears: r.ExperienceYears,
		Specialization:  r.Specialization,
		StatusTherapist: r.StatusTherapist,
		WorkingHours:    r.WorkingHours,
	}
}

func logSignup(c *gin.Context, acct *service.Account) {
	util.LogSignupSuccess(util.LoginParams{
		UserID:    acct.ID,
		Role:      string(acct.Role),
		Email:     acct.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
}

// Register godoc
// @Summary      Register an account
// @Description  Self-service sign-up. Role defaults to user; therapist also creates a profile. Admin cannot self-register.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Sign-up details"
// @Success      201 {object} util.APIResponse{data=service.Account} "Register success"
// @Failure      400 {object} util.APIResponse "Invalid request or email already registered"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSONOrRespond(c, &req, "Name, email and password are required") {
		return
	}

	acct, err := h.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	logSignup(c, acct)
	util.CallCreated(c, util.APISuccessParams{Msg: "Register success", Data: acct})
}

// RegisterTherapist godoc
// @Summary      Register a therapist
// @Description  Creates a therapist account and its profile in one transaction
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterTherapistRequest true "Therapist sign-up details"
// @Success      201 {object} util.APIResponse{data=service.Account} "Therapist register success"
// @Failure      400 {object} util.APIResponse "Invalid request or email already registered"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/register/therapist [post]
func (h *Handler) RegisterTherapist(c *gin.Context) {
	var req RegisterTherapistRequest
	if !bindJSONOrRespond(c, &req, "Name, email and password are required") {
		return
	}

	acct, err := h.Accounts.RegisterTherapist(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	logSignup(c, acct)
	util.CallCreated(c, util.APISuccessParams{Msg: "Therapist register success", Data: acct})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password and receive a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=service.LoginResult} "Login success"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid email or password"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	res, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if service.KindOf(err) == service.KindAuthentication {
			util.LogLoginFailure(util.LoginParams{
				Email:     util.NormalizeEmail(req.Email),
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				Reason:    err.Error(),
			})
		}
		respondError(c, err)
		return
	}

	util.LogLoginSuccess(util.LoginParams{
		UserID:    res.UserID,
		Role:      string(res.Role),
		Email:     res.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	util.UserEmailCacheSet(res.UserID, res.Email)
	if err := middleware.ResetRateLimit(c.Request.Context(), c.ClientIP(), c.Request.URL.Path); err != nil {
		util.Log.WithError(err).Warn("failed to reset login rate limit")
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Login success", Data: res})
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the presented bearer token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/logout [delete]
func (h *Handler) Logout(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	jti, exp := middleware.GetToken(c)
	if err := h.Accounts.Logout(c.Request.Context(), jti, exp); err != nil {
		respondError(c, err)
		return
	}
	util.LogLogout(util.LoginParams{
		UserID:    actor.ID,
		Role:      string(actor.Role),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}

// Profile godoc
// @Summary      Current account
// @Description  Returns the caller's own account, with the therapist profile for therapists
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=service.Profile} "Profile retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "User not found"
// @Router       /auth/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	p, err := h.Accounts.Profile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile retrieved", Data: p})
}
