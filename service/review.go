package service

import (
	"context"
	"errors"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"gorm.io/gorm"
)

const msgIneligibleReview = "Booking not found, not completed, or already reviewed"

// Internal reasons behind an ineligible review. They are wrapped in the
// returned error for logging while the message stays uniform.
var (
	errBookingMissing   = errors.New("booking missing")
	errBookingNotDone   = errors.New("booking not completed")
	errBookingNotOwned  = errors.New("booking not owned by reviewer")
	errAlreadyReviewed  = errors.New("booking already reviewed")
	errDuplicateReview  = errors.New("duplicate review insert")
	errRatingOutOfRange = errors.New("rating out of range")
)

func ineligible(reason error) error {
	return &Error{Kind: KindIneligibleReview, Message: msgIneligibleReview, Err: reason}
}

// ReviewService implements the review gate.
type ReviewService struct {
	store *repository.Store
}

func NewReviewService(store *repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

// CreateReviewInput is the payload of a new review.
type CreateReviewInput struct {
	BookingID uint
	Rating    int
	Comment   *string
}

// Create stores the review of a completed booking and refreshes the
// therapist's rating aggregate in the same transaction.
func (s *ReviewService) Create(ctx context.Context, actor policy.Actor, in CreateReviewInput) (*model.Review, error) {
	if actor.Role != model.RoleUser {
		return nil, forbidden("Forbidden: only users can create reviews")
	}
	if in.BookingID == 0 {
		return nil, validationErr("booking_id and rating are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, &Error{Kind: KindValidation, Message: "Rating must be between 1 and 5", Err: errRatingOutOfRange}
	}

	var review model.Review
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := tx.LockBooking(ctx, in.BookingID)
		if errors.Is(err, repository.ErrNotFound) {
			return ineligible(errBookingMissing)
		}
		if err != nil {
			return storeErr("lock booking", err)
		}
		if b.StatusBooking != model.BookingCompleted {
			return ineligible(errBookingNotDone)
		}
		if !policy.Decide(policy.ReviewCreate, actor, policy.Resource{OwnerID: b.UserID}) {
			return ineligible(errBookingNotOwned)
		}

		exists, err := tx.ReviewExists(ctx, b.ID)
		if err != nil {
			return storeErr("check review", err)
		}
		if exists {
			return ineligible(errAlreadyReviewed)
		}

		review = model.Review{
			BookingID:   b.ID,
			UserID:      actor.ID,
			TherapistID: b.TherapistID,
			Rating:      in.Rating,
			Comment:     in.Comment,
			Status:      model.StatusActive,
		}
		if err := tx.CreateReview(ctx, &review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ineligible(errDuplicateReview)
			}
			return storeErr("create review", err)
		}
		if err := tx.RecomputeRating(ctx, b.TherapistID); err != nil {
			return storeErr("recompute rating", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Get returns review id. Every authenticated role may read reviews.
func (s *ReviewService) Get(ctx context.Context, actor policy.Actor, id uint) (*model.ReviewView, error) {
	if !policy.Decide(policy.ReviewRead, actor, policy.Resource{}) {
		return nil, notFoundOrForbidden("Review not found")
	}
	v, err := s.store.FindReview(ctx, id)
	if err != nil {
		return nil, lookupErr("find review", "Review not found", err)
	}
	return v, nil
}

// ListByTherapist returns the reviews of therapist profile id, newest first.
func (s *ReviewService) ListByTherapist(ctx context.Context, actor policy.Actor, therapistID uint) ([]model.ReviewView, error) {
	if !policy.Decide(policy.ReviewRead, actor, policy.Resource{}) {
		return nil, notFoundOrForbidden("Reviews not found")
	}
	out, err := s.store.ListReviewsByTherapist(ctx, therapistID)
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	if out == nil {
		out = []model.ReviewView{}
	}
	return out, nil
}
