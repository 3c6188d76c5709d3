package endpoint

import (
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/service"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type UpdateTherapistRequest struct {
	Bio             *string                `json:"bio" example:"Sports massage specialist"`
	ExperienceYears *int                   `json:"experience_years" example:"6"`
	Specialization  *string                `json:"specialization" example:"Sports massage"`
	StatusTherapist *model.TherapistStatus `json:"status_therapist" example:"busy"`
	WorkingHours    *datatypes.JSON        `json:"working_hours" swaggertype:"object"`
}

type UpdateTherapistStatusRequest struct {
	StatusTherapist model.TherapistStatus `json:"status_therapist" binding:"required" example:"off"`
}

// ListTherapists godoc
// @Summary      List therapists
// @Description  Active therapist profiles joined with their account, optionally filtered by status
// @Tags         Therapists
// @Produce      json
// @Security     BearerAuth
// @Param        status_therapist query string false "available, busy or off"
// @Success      200 {object} util.APIResponse{data=[]model.TherapistView} "Therapists retrieved"
// @Failure      400 {object} util.APIResponse "Invalid status"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapists [get]
func (h *Handler) ListTherapists(c *gin.Context) {
	var status *model.TherapistStatus
	if q, ok := c.GetQuery("status_therapist"); ok {
		s := model.TherapistStatus(q)
		status = &s
	}
	list, err := h.Therapists.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Therapists retrieved", Data: list})
}

// GetTherapist godoc
// @Summary      Get a therapist
// @Tags         Therapists
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Therapist profile ID"
// @Success      200 {object} util.APIResponse{data=model.TherapistView} "Therapist retrieved"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Router       /therapists/{id} [get]
func (h *Handler) GetTherapist(c *gin.Context) {
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	t, err := h.Therapists.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Therapist retrieved", Data: t})
}

// CreateTherapist godoc
// @Summary      Create a therapist (admin only)
// @Description  Creates the therapist account and its profile together
// @Tags         Therapists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RegisterTherapistRequest true "Therapist details"
// @Success      201 {object} util.APIResponse{data=service.Account} "Therapist created"
// @Failure      400 {object} util.APIResponse "Invalid request or email already registered"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapists [post]
func (h *Handler) CreateTherapist(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	var req RegisterTherapistRequest
	if !bindJSONOrRespond(c, &req, "Name, email and password are required") {
		return
	}
	acct, err := h.Therapists.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Therapist created", Data: acct})
}

// UpdateTherapist godoc
// @Summary      Update a therapist profile
// @Description  Admins or the profile owner may patch bio, experience, specialization, status and working hours
// @Tags         Therapists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Therapist profile ID"
// @Param        request body UpdateTherapistRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.TherapistView} "Therapist updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /therapists/{id} [put]
func (h *Handler) UpdateTherapist(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	var req UpdateTherapistRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	t, err := h.Therapists.Update(c.Request.Context(), actor, id, service.UpdateTherapistInput{
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		Specialization:  req.Specialization,
		StatusTherapist: req.StatusTherapist,
		WorkingHours:    req.WorkingHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Therapist updated", Data: t})
}

// UpdateTherapistStatus godoc
// @Summary      Set therapist availability
// @Tags         Therapists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Therapist profile ID"
// @Param        request body UpdateTherapistStatusRequest true "New status"
// @Success      200 {object} util.APIResponse{data=model.TherapistView} "Therapist status updated"
// @Failure      400 {object} util.APIResponse "Invalid status"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Router       /therapists/{id}/status [put]
func (h *Handler) UpdateTherapistStatus(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	var req UpdateTherapistStatusRequest
	if !bindJSONOrRespond(c, &req, "status_therapist is required") {
		return
	}
	t, err := h.Therapists.UpdateStatus(c.Request.Context(), actor, id, req.StatusTherapist)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Therapist status updated", Data: t})
}

// DeleteTherapist godoc
// @Summary      Delete a therapist (admin only)
// @Description  Soft-deletes the profile and the owning account
// @Tags         Therapists
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Therapist profile ID"
// @Success      200 {object} util.APIResponse "Therapist deleted"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Therapist not found"
// @Router       /therapists/{id} [delete]
func (h *Handler) DeleteTherapist(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	if err := h.Therapists.SoftDelete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Therapist deleted"})
}
