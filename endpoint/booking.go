package endpoint

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/service"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
)

const bookingTimeLayout = "2006-01-02 15:04:05"

type CreateBookingRequest struct {
	TherapistID uint    `json:"therapist_id" binding:"required" example:"1"`
	Location    string  `json:"location" binding:"required" example:"Jl. Sudirman 1, Jakarta"`
	BookingTime string  `json:"booking_time" binding:"required" example:"2026-11-01 10:00:00"`
	Notes       *string `json:"notes" example:"Lower back pain"`
}

type UpdateBookingStatusRequest struct {
	StatusBooking model.BookingStatus `json:"status_booking" example:"accepted"`
}

// parseBookingTime accepts "2006-01-02 15:04:05" in local time or RFC 3339.
func parseBookingTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(bookingTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking_time must be YYYY-MM-DD HH:MM:SS or RFC 3339")
	}
	return t, nil
}

// CreateBooking godoc
// @Summary      Book a therapist
// @Description  Users book an active therapist profile. The booking starts pending.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBookingRequest true "Booking details"
// @Success      201 {object} util.APIResponse{data=model.BookingView} "Booking created"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown therapist"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Only users can book"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !bindJSONOrRespond(c, &req, "therapist_id, location and booking_time are required") {
		return
	}
	at, err := parseBookingTime(req.BookingTime)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return
	}
	b, err := h.Bookings.Create(c.Request.Context(), actor, service.CreateBookingInput{
		TherapistID: req.TherapistID,
		Location:    req.Location,
		BookingTime: at,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Booking created", Data: b})
}

// ListBookings godoc
// @Summary      List bookings
// @Description  Admins see every booking, users their own, therapists those assigned to them
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.BookingView} "Bookings retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	list, err := h.Bookings.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.BookingView{}
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Bookings retrieved", Data: list})
}

// GetBooking godoc
// @Summary      Get a booking
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      200 {object} util.APIResponse{data=model.BookingView} "Booking retrieved"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Booking not found"
// @Router       /bookings/{id} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	b, err := h.Bookings.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Booking retrieved", Data: b})
}

// UpdateBookingStatus godoc
// @Summary      Change booking status
// @Description  Allowed moves: pending to accepted or rejected, accepted to completed. The status may come from the body or the status_booking query parameter.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Param        status_booking query string false "New status"
// @Param        request body UpdateBookingStatusRequest false "New status"
// @Success      200 {object} util.APIResponse{data=model.BookingView} "Booking status updated"
// @Failure      400 {object} util.APIResponse "Invalid status or transition"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Booking not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /bookings/{id}/status [put]
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	var req UpdateBookingStatusRequest
	if c.Request.ContentLength != 0 {
		if !bindJSONOrRespond(c, &req, "Invalid request payload") {
			return
		}
	}
	if req.StatusBooking == "" {
		req.StatusBooking = model.BookingStatus(c.Query("status_booking"))
	}
	b, err := h.Bookings.UpdateStatus(c.Request.Context(), actor, id, req.StatusBooking)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Booking status updated", Data: b})
}

// DeleteBooking godoc
// @Summary      Delete a booking
// @Description  Soft-deletes a booking the caller may manage
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      200 {object} util.APIResponse{data=model.Booking} "Booking deleted"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Booking not found"
// @Router       /bookings/{id} [delete]
func (h *Handler) DeleteBooking(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	b, err := h.Bookings.SoftDelete(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Booking deleted", Data: b})
}
