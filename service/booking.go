package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
)

const msgBookingHidden = "Booking not found or forbidden"

// transitions lists the status moves a booking may make.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:  {model.BookingAccepted, model.BookingRejected},
	model.BookingAccepted: {model.BookingCompleted},
}

// CanTransition reports whether a booking in from may move to to.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingService implements the booking lifecycle.
type BookingService struct {
	store *repository.Store
}

func NewBookingService(store *repository.Store) *BookingService {
	return &BookingService{store: store}
}

// CreateBookingInput is the payload of a new booking request.
type CreateBookingInput struct {
	TherapistID uint
	Location    string
	BookingTime time.Time
	Notes       *string
}

// Create books therapist profile in.TherapistID for actor. The booking
// starts pending.
func (s *BookingService) Create(ctx context.Context, actor policy.Actor, in CreateBookingInput) (*model.BookingView, error) {
	if !policy.Decide(policy.BookingCreate, actor, policy.Resource{}) {
		return nil, forbidden("Forbidden: only user can create booking")
	}
	in.Location = strings.TrimSpace(in.Location)
	switch {
	case in.TherapistID == 0:
		return nil, validationErr("therapist_id is required")
	case in.Location == "":
		return nil, validationErr("location is required")
	case in.BookingTime.IsZero():
		return nil, validationErr("booking_time is required")
	}

	booking := model.Booking{
		UserID:        actor.ID,
		TherapistID:   in.TherapistID,
		Location:      in.Location,
		BookingTime:   in.BookingTime,
		StatusBooking: model.BookingPending,
		Notes:         in.Notes,
		Status:        model.StatusActive,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.FindTherapist(ctx, in.TherapistID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return validationErr("Therapist not found")
			}
			return storeErr("find therapist", err)
		}
		if err := tx.CreateBooking(ctx, &booking); err != nil {
			return storeErr("create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, booking.ID)
}

// List returns the bookings actor may see.
func (s *BookingService) List(ctx context.Context, actor policy.Actor) ([]model.BookingView, error) {
	filter := repository.BookingFilter{}
	switch scope := policy.BookingScope(actor); scope.Kind {
	case policy.ScopeAll:
	case policy.ScopeOwner:
		filter.UserID = scope.UserID
	case policy.ScopeAssignee:
		filter.TherapistUserID = scope.UserID
	default:
		filter.None = true
	}
	out, err := s.store.ListBookings(ctx, filter)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

// Get returns booking id if actor may read it.
func (s *BookingService) Get(ctx context.Context, actor policy.Actor, id uint) (*model.BookingView, error) {
	v, err := s.store.FindBooking(ctx, id)
	if err != nil {
		return nil, lookupErr("find booking", msgBookingHidden, err)
	}
	if !policy.Decide(policy.BookingRead, actor, bookingResource(v.UserID, v.TherapistUserID)) {
		return nil, notFoundOrForbidden(msgBookingHidden)
	}
	return v, nil
}

// UpdateStatus moves booking id to status. Authorization is checked before
// the transition so a denied actor learns nothing about the booking.
func (s *BookingService) UpdateStatus(ctx context.Context, actor policy.Actor, id uint, status model.BookingStatus) (*model.BookingView, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := s.authorize(ctx, tx, policy.BookingUpdateStatus, actor, id)
		if err != nil {
			return err
		}
		if status == "" {
			return validationErr("status_booking is required")
		}
		if !status.Valid() {
			return validationErr("Invalid status_booking")
		}
		if !CanTransition(b.StatusBooking, status) {
			return validationErr("Cannot change booking status from " + string(b.StatusBooking) + " to " + string(status))
		}
		if err := tx.UpdateBookingStatus(ctx, id, status); err != nil {
			return storeErr("update booking status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, id)
}

// SoftDelete hides booking id. status_booking is preserved.
func (s *BookingService) SoftDelete(ctx context.Context, actor policy.Actor, id uint) (*model.Booking, error) {
	var deleted *model.Booking
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := s.authorize(ctx, tx, policy.BookingDelete, actor, id)
		if err != nil {
			return err
		}
		if err := tx.SoftDeleteBooking(ctx, id); err != nil {
			return storeErr("delete booking", err)
		}
		b.Status = model.StatusDeleted
		deleted = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// authorize locks booking id, resolves the owner of its profile and applies op.
func (s *BookingService) authorize(ctx context.Context, tx *repository.Store, op policy.Operation, actor policy.Actor, id uint) (*model.Booking, error) {
	b, err := tx.LockBooking(ctx, id)
	if err != nil {
		return nil, lookupErr("lock booking", msgBookingHidden, err)
	}
	profile, err := tx.FindTherapistProfile(ctx, b.TherapistID)
	if err != nil {
		return nil, lookupErr("find booking therapist", msgBookingHidden, err)
	}
	if !policy.Decide(op, actor, bookingResource(b.UserID, profile.UserID)) {
		return nil, notFoundOrForbidden(msgBookingHidden)
	}
	return b, nil
}

func (s *BookingService) view(ctx context.Context, id uint) (*model.BookingView, error) {
	v, err := s.store.FindBooking(ctx, id)
	if err != nil {
		return nil, lookupErr("find booking", msgBookingHidden, err)
	}
	return v, nil
}

func bookingResource(userID, therapistUserID uint) policy.Resource {
	return policy.Resource{OwnerID: userID, AssigneeID: therapistUserID}
}
