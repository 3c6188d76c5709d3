package repository

import (
	"context"

	"github.com/ariebrainware/therapist-booking/model"
	"gorm.io/gorm"
)

func (s *Store) reviewViews(ctx context.Context) *gorm.DB {
	q := s.conn(ctx).Table("reviews").
		Select("reviews.*, users.name AS user_name").
		Joins("JOIN users ON users.id = reviews.user_id")
	return active(q, "reviews")
}

func (s *Store) CreateReview(ctx context.Context, r *model.Review) error {
	if r.Status == 0 {
		r.Status = model.StatusActive
	}
	return s.conn(ctx).Create(r).Error
}

// ReviewExists reports whether an active review references bookingID.
func (s *Store) ReviewExists(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	err := active(s.conn(ctx).Model(&model.Review{}), "").Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, err
}

func (s *Store) FindReview(ctx context.Context, id uint) (*model.ReviewView, error) {
	var v model.ReviewView
	err := s.reviewViews(ctx).Where("reviews.id = ?", id).Take(&v).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// ListReviewsByTherapist returns the active reviews of profile id, newest first.
func (s *Store) ListReviewsByTherapist(ctx context.Context, therapistID uint) ([]model.ReviewView, error) {
	var out []model.ReviewView
	err := s.reviewViews(ctx).
		Where("reviews.therapist_id = ?", therapistID).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Find(&out).Error
	return out, err
}
