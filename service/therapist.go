package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/ariebrainware/therapist-booking/util"
	"gorm.io/datatypes"
)

const msgTherapistHidden = "Therapist not found"

// TherapistService manages therapist profiles.
type TherapistService struct {
	store    *repository.Store
	tokenTTL time.Duration
}

// NewTherapistService returns a service over store. tokenTTL bounds how long
// revocations of a deleted therapist's tokens are kept.
func NewTherapistService(store *repository.Store, tokenTTL time.Duration) *TherapistService {
	return &TherapistService{store: store, tokenTTL: tokenTTL}
}

// List returns active therapists, optionally filtered by availability.
func (s *TherapistService) List(ctx context.Context, status *model.TherapistStatus) ([]model.TherapistView, error) {
	if status != nil && !status.Valid() {
		return nil, validationErr("Invalid status_therapist")
	}
	out, err := s.store.ListTherapists(ctx, status)
	if err != nil {
		return nil, storeErr("list therapists", err)
	}
	if out == nil {
		out = []model.TherapistView{}
	}
	return out, nil
}

func (s *TherapistService) Get(ctx context.Context, id uint) (*model.TherapistView, error) {
	v, err := s.store.FindTherapist(ctx, id)
	if err != nil {
		return nil, lookupErr("find therapist", msgTherapistHidden, err)
	}
	return v, nil
}

// Create adds a therapist account and its profile. Admin only.
func (s *TherapistService) Create(ctx context.Context, actor policy.Actor, in RegisterInput) (*Account, error) {
	if !policy.Decide(policy.TherapistCreate, actor, policy.Resource{}) {
		return nil, forbidden("Forbidden: admin only")
	}
	in.Role = model.RoleTherapist
	return createAccount(ctx, s.store, in)
}

// UpdateTherapistInput holds the optional fields of a profile update.
type UpdateTherapistInput struct {
	Bio             *string
	ExperienceYears *int
	Specialization  *string
	StatusTherapist *model.TherapistStatus
	WorkingHours    *datatypes.JSON
}

// Update patches profile id for an admin or the owning therapist.
func (s *TherapistService) Update(ctx context.Context, actor policy.Actor, id uint, in UpdateTherapistInput) (*model.TherapistView, error) {
	patch := repository.TherapistPatch{
		Bio:             in.Bio,
		ExperienceYears: in.ExperienceYears,
		StatusTherapist: in.StatusTherapist,
		WorkingHours:    in.WorkingHours,
	}
	if in.Specialization != nil {
		spec := strings.TrimSpace(*in.Specialization)
		patch.Specialization = &spec
	}
	if patch.Empty() {
		return nil, validationErr("At least one field must be provided")
	}
	return s.patch(ctx, actor, policy.TherapistUpdate, id, patch)
}

// UpdateStatus sets the advertised availability of profile id.
func (s *TherapistService) UpdateStatus(ctx context.Context, actor policy.Actor, id uint, status model.TherapistStatus) (*model.TherapistView, error) {
	if status == "" {
		return nil, validationErr("status_therapist is required")
	}
	return s.patch(ctx, actor, policy.TherapistUpdateStatus, id, repository.TherapistPatch{StatusTherapist: &status})
}

func (s *TherapistService) patch(ctx context.Context, actor policy.Actor, op policy.Operation, id uint, patch repository.TherapistPatch) (*model.TherapistView, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.FindTherapistProfile(ctx, id)
		if err != nil {
			return lookupErr("find therapist", msgTherapistHidden, err)
		}
		if !policy.Decide(op, actor, policy.Resource{AssigneeID: p.UserID}) {
			return notFoundOrForbidden(msgTherapistHidden)
		}
		if patch.StatusTherapist != nil && !patch.StatusTherapist.Valid() {
			return validationErr("Invalid status_therapist")
		}
		if patch.ExperienceYears != nil && *patch.ExperienceYears < 0 {
			return validationErr("experience_years must not be negative")
		}
		if err := tx.UpdateTherapist(ctx, id, patch); err != nil {
			return lookupErr("update therapist", msgTherapistHidden, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SoftDelete deactivates profile id and the account that owns it.
func (s *TherapistService) SoftDelete(ctx context.Context, actor policy.Actor, id uint) error {
	if !policy.Decide(policy.TherapistDelete, actor, policy.Resource{}) {
		return forbidden("Forbidden: admin only")
	}
	var ownerID uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.FindTherapistProfile(ctx, id)
		if err != nil {
			return lookupErr("find therapist", msgTherapistHidden, err)
		}
		if err := tx.SoftDeleteTherapist(ctx, id); err != nil {
			return lookupErr("delete therapist", msgTherapistHidden, err)
		}
		if err := tx.SoftDeleteUser(ctx, p.UserID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storeErr("delete therapist user", err)
		}
		ownerID = p.UserID
		return nil
	})
	if err != nil {
		return err
	}
	util.UserEmailCacheDelete(ownerID)
	if err := util.RevokeUserTokens(ctx, ownerID, s.tokenTTL); err != nil {
		util.Log.WithError(err).WithField("user_id", ownerID).Warn("failed to revoke tokens of deleted therapist")
	}
	return nil
}
