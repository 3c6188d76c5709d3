package endpoint

import (
	"github.com/ariebrainware/therapist-booking/service"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
)

type CreateReviewRequest struct {
	BookingID uint    `json:"booking_id" binding:"required" example:"1"`
	Rating    int     `json:"rating" binding:"required" example:"5"`
	Comment   *string `json:"comment" example:"Great session"`
}

// CreateReview godoc
// @Summary      Review a completed booking
// @Description  One review per completed booking, by the user who made it. Updates the therapist rating.
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateReviewRequest true "Review"
// @Success      201 {object} util.APIResponse{data=model.Review} "Review created"
// @Failure      400 {object} util.APIResponse "Invalid rating or booking not eligible for review"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Only users can review"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if !bindJSONOrRespond(c, &req, "booking_id and rating are required") {
		return
	}
	r, err := h.Reviews.Create(c.Request.Context(), actor, service.CreateReviewInput{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Review created", Data: r})
}

// GetReview godoc
// @Summary      Get a review
// @Tags         Reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Review ID"
// @Success      200 {object} util.APIResponse{data=model.ReviewView} "Review retrieved"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Review not found"
// @Router       /reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	r, err := h.Reviews.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Review retrieved", Data: r})
}

// ListTherapistReviews godoc
// @Summary      Reviews of a therapist
// @Tags         Reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Therapist profile ID"
// @Success      200 {object} util.APIResponse{data=[]model.ReviewView} "Reviews retrieved"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /reviews/therapist/{id} [get]
func (h *Handler) ListTherapistReviews(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	list, err := h.Reviews.ListByTherapist(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reviews retrieved", Data: list})
}
