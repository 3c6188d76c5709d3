package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/util"
	"github.com/sirupsen/logrus"
)

const msgNotificationHidden = "Notification not found"

// Sender delivers a copy of a notification out of band. *util.Mailer implements it.
type Sender interface {
	Send(to, subject, body string) error
}

type NotificationService struct {
	store  *repository.Store
	sender Sender
}

// NewNotificationService returns the service. sender may be nil.
func NewNotificationService(store *repository.Store, sender Sender) *NotificationService {
	return &NotificationService{store: store, sender: sender}
}

// Create stores a notification for an active user and e-mails it afterwards.
func (s *NotificationService) Create(ctx context.Context, actor policy.Actor, userID uint, message string) (*model.Notification, error) {
	if !policy.Decide(policy.NotificationCreate, actor, policy.Resource{}) {
		return nil, forbidden("Forbidden: admin only")
	}
	message = strings.TrimSpace(message)
	if userID == 0 || message == "" {
		return nil, validationErr("user_id and message are required")
	}

	n := model.Notification{UserID: userID, Message: message, Status: model.StatusActive}
	var recipient *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.FindUser(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return validationErr("Recipient not found")
		}
		if err != nil {
			return storeErr("find recipient", err)
		}
		recipient = u
		if err := tx.CreateNotification(ctx, &n); err != nil {
			return storeErr("create notification", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.sender != nil {
		if err := s.sender.Send(recipient.Email, "New notification", message); err != nil {
			util.Log.WithFields(logrus.Fields{"notification_id": n.ID, "error": err}).Warn("notification e-mail failed")
		}
	}
	return &n, nil
}

// List returns the caller's own notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor policy.Actor) ([]model.Notification, error) {
	if !policy.Decide(policy.NotificationRead, actor, policy.Resource{OwnerID: actor.ID}) {
		return []model.Notification{}, nil
	}
	out, err := s.store.ListNotifications(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	if out == nil {
		out = []model.Notification{}
	}
	return out, nil
}

// MarkRead flags notification id as read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actor policy.Actor, id uint) (*model.Notification, error) {
	n, err := s.store.FindNotification(ctx, id)
	if err != nil {
		return nil, lookupErr("find notification", msgNotificationHidden, err)
	}
	if !policy.Decide(policy.NotificationMarkRead, actor, policy.Resource{OwnerID: n.UserID}) {
		return nil, notFoundOrForbidden(msgNotificationHidden)
	}
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return nil, storeErr("mark notification read", err)
	}
	n.IsRead = true
	return n, nil
}
