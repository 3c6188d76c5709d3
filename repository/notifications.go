package repository

import (
	"context"

	"github.com/ariebrainware/therapist-booking/model"
)

func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	if n.Status == 0 {
		n.Status = model.StatusActive
	}
	return s.conn(ctx).Create(n).Error
}

func (s *Store) FindNotification(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	err := active(s.conn(ctx), "").Where("id = ?", id).First(&n).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// ListNotifications returns the active notifications addressed to userID, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID uint) ([]model.Notification, error) {
	var out []model.Notification
	err := active(s.conn(ctx), "").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// MarkNotificationRead sets is_read. Marking an already read notification is
// not an error, so the affected row count is not checked.
func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	return active(s.conn(ctx).Model(&model.Notification{}), "").Where("id = ?", id).Update("is_read", true).Error
}
