package endpoint

import (
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/gin-gonic/gin"
)

type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" example:"2"`
	Message string `json:"message" example:"Your booking was accepted"`
}

// CreateNotification godoc
// @Summary      Send a notification (admin only)
// @Description  Stores an in-app notification and emails the recipient when SMTP is configured
// @Tags         Notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateNotificationRequest true "Notification"
// @Success      201 {object} util.APIResponse{data=model.Notification} "Notification created"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown recipient"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /notifications [post]
func (h *Handler) CreateNotification(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	var req CreateNotificationRequest
	if !bindJSONOrRespond(c, &req, "user_id and message are required") {
		return
	}
	n, err := h.Notifications.Create(c.Request.Context(), actor, req.UserID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Notification created", Data: n})
}

// ListNotifications godoc
// @Summary      My notifications
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.Notification} "Notifications retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	list, err := h.Notifications.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notifications retrieved", Data: list})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification read
// @Description  Only the recipient may mark a notification
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200 {object} util.APIResponse{data=model.Notification} "Notification marked as read"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Notification not found"
// @Router       /notifications/{id}/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actor, ok := actorOrRespond(c)
	if !ok {
		return
	}
	id, ok := idOrRespond(c)
	if !ok {
		return
	}
	n, err := h.Notifications.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notification marked as read", Data: n})
}
