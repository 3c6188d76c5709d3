package repository

import (
	"context"

	"github.com/ariebrainware/therapist-booking/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TherapistPatch holds the optional columns of a profile update.
type TherapistPatch struct {
	Bio             *string
	ExperienceYears *int
	Specialization  *string
	StatusTherapist *model.TherapistStatus
	WorkingHours    *datatypes.JSON
}

// Empty reports whether the patch changes nothing.
func (p TherapistPatch) Empty() bool {
	return p.Bio == nil && p.ExperienceYears == nil && p.Specialization == nil &&
		p.StatusTherapist == nil && p.WorkingHours == nil
}

func (p TherapistPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Bio != nil {
		cols["bio"] = *p.Bio
	}
	if p.ExperienceYears != nil {
		cols["experience_years"] = *p.ExperienceYears
	}
	if p.Specialization != nil {
		cols["specialization"] = *p.Specialization
	}
	if p.StatusTherapist != nil {
		cols["status_therapist"] = *p.StatusTherapist
	}
	if p.WorkingHours != nil {
		cols["working_hours"] = *p.WorkingHours
	}
	return cols
}

const therapistViewColumns = "therapist_profiles.*, users.name AS name, users.email AS email, users.phone AS phone"

func (s *Store) therapistViews(ctx context.Context) *gorm.DB {
	q := s.conn(ctx).Table("therapist_profiles").
		Select(therapistViewColumns).
		Joins("JOIN users ON users.id = therapist_profiles.user_id")
	q = active(q, "therapist_profiles")
	return active(q, "users")
}

func (s *Store) CreateTherapistProfile(ctx context.Context, p *model.TherapistProfile) error {
	if p.Status == 0 {
		p.Status = model.StatusActive
	}
	if p.StatusTherapist == "" {
		p.StatusTherapist = model.TherapistAvailable
	}
	return s.conn(ctx).Create(p).Error
}

// FindTherapist returns the active profile id joined with its active owner.
func (s *Store) FindTherapist(ctx context.Context, id uint) (*model.TherapistView, error) {
	var v model.TherapistView
	err := s.therapistViews(ctx).Where("therapist_profiles.id = ?", id).Take(&v).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// FindTherapistProfile returns the active profile id without its owner.
func (s *Store) FindTherapistProfile(ctx context.Context, id uint) (*model.TherapistProfile, error) {
	var p model.TherapistProfile
	err := active(s.conn(ctx), "").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindTherapistByUserID returns the active profile owned by userID.
func (s *Store) FindTherapistByUserID(ctx context.Context, userID uint) (*model.TherapistProfile, error) {
	var p model.TherapistProfile
	err := active(s.conn(ctx), "").Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListTherapists returns active profiles, best rated first.
func (s *Store) ListTherapists(ctx context.Context, status *model.TherapistStatus) ([]model.TherapistView, error) {
	q := s.therapistViews(ctx)
	if status != nil {
		q = q.Where("therapist_profiles.status_therapist = ?", *status)
	}
	var out []model.TherapistView
	err := q.Order("therapist_profiles.average_rating DESC").
		Order("therapist_profiles.created_at DESC").
		Order("therapist_profiles.id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) UpdateTherapist(ctx context.Context, id uint, p TherapistPatch) error {
	res := active(s.conn(ctx).Model(&model.TherapistProfile{}), "").Where("id = ?", id).Updates(p.columns())
	return expectOne(res)
}

func (s *Store) SoftDeleteTherapist(ctx context.Context, id uint) error {
	res := active(s.conn(ctx).Model(&model.TherapistProfile{}), "").Where("id = ?", id).Update("status", model.StatusDeleted)
	return expectOne(res)
}

// SoftDeleteTherapistByUserID deactivates the profile owned by userID, if any.
func (s *Store) SoftDeleteTherapistByUserID(ctx context.Context, userID uint) error {
	return active(s.conn(ctx).Model(&model.TherapistProfile{}), "").
		Where("user_id = ?", userID).
		Update("status", model.StatusDeleted).Error
}

// RecomputeRating rewrites the rating aggregate of profile id from its
// active reviews. Call it in the same transaction as the review insert.
func (s *Store) RecomputeRating(ctx context.Context, id uint) error {
	res := s.conn(ctx).Model(&model.TherapistProfile{}).Where("id = ?", id).Updates(map[string]interface{}{
		"average_rating": gorm.Expr("(SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE therapist_id = ? AND status = ?)", id, model.StatusActive),
		"total_reviews":  gorm.Expr("(SELECT COUNT(*) FROM reviews WHERE therapist_id = ? AND status = ?)", id, model.StatusActive),
	})
	return expectOne(res)
}
