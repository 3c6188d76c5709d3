package endpoint

import (
	"strings"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/service"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Name     string     `json:"name" binding:"required" example:"John Doe"`
	Email    string     `json:"email" binding:"required,email" example:"john@example.com"`
	Password string     `json:"password" binding:"required,min=8" example:"password123"`
	Phone    *string    `json:"phone" example:"081234567890"`
	Role     model.Role `json:"role" example:"user"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" example:"John Doe"`
	Phone    *string `json:"phone" example:"081234567890"`
	Password *string `json:"password" example:"newpassword123"`
}

// ListUsers godoc
// @Summary      List all users (admin only)
// @Description  Get a paginated list of active users using cursor-based pagination
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Limit number of results (default 10, max 100)"
// @Param        cursor query int false "Cursor for pagination (User ID)"
// @Param        offset query int false "Offset, ignored when cursor is set"
// @Param        keyword query string false "Search keyword for name or email"
// @Success      200 {object} util.APIResponse{data=service.UserPage} "Users retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	limit, cursor, offset := parsePaginationParams(c)
	page, err := h.Users.List(c.Request.Context(), actor, repository.UserFilter{
		Keyword: strings.TrimSpace(c.Query("keyword")),
		Limit:   limit,
		Cursor:  cursor,
		Offset:  offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Users retrieved", Data: page})
}

// CreateUser godoc
// @Summary      Create a user (admin only)
// @Description  Admins may create accounts of any role
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "New account"
// @Success      201 {object} util.APIResponse{data=service.Account} "User created"
// @Failure      400 {object} util.APIResponse "Invalid request or email already registered"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !bindJSONOrRespond(c, &req, "Name, email and password are required") {
		return
	}
	acct, err := h.Users.Create(c.Request.Context(), actor, service.RegisterInput{
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
	util.CallCreated(c, util.APISuccessParams{Msg: "User created", Data: acct})
}

// GetUser godoc
// @Summary      Get a user
// @Description  Admins may read any user; everyone else only themselves
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} util.APIResponse{data=model.User} "User retrieved"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "User not found"
// @Router       /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User retrieved", Data: u})
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Update name, phone and/or password. A password change revokes the user's tokens.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body UpdateUserRequest true "Update details"
// @Success      200 {object} util.APIResponse{data=model.User} "User updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "User not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	u, err := h.Users.Update(c.Request.Context(), actor, id, service.UpdateUserInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Password != nil {
		util.LogPasswordChanged(util.LoginParams{
			UserID:    u.ID,
			Role:      string(actor.Role),
			Email:     u.Email,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User updated", Data: u})
}

// DeleteUser godoc
// @Summary      Delete a user (admin only)
// @Description  Soft-deletes the user and any therapist profile they own
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} util.APIResponse "User deleted"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "User not found"
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	if err := h.Users.SoftDelete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User deleted"})
}
