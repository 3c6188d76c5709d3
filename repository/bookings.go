package repository

import (
	"context"

	"github.com/ariebrainware/therapist-booking/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingFilter restricts ListBookings. Zero fields are ignored; None
// short-circuits to an empty result.
type BookingFilter struct {
	UserID          uint
	TherapistUserID uint
	None            bool
}

const bookingViewColumns = "bookings.*, u.name AS user_name, tu.name AS therapist_name, " +
	"tp.user_id AS therapist_user_id, r.id AS review_id"

func (s *Store) bookingViews(ctx context.Context) *gorm.DB {
	q := s.conn(ctx).Table("bookings").
		Select(bookingViewColumns).
		Joins("JOIN users u ON u.id = bookings.user_id AND u.status = ?", model.StatusActive).
		Joins("JOIN therapist_profiles tp ON tp.id = bookings.therapist_id AND tp.status = ?", model.StatusActive).
		Joins("JOIN users tu ON tu.id = tp.user_id AND tu.status = ?", model.StatusActive).
		Joins("LEFT JOIN reviews r ON r.booking_id = bookings.id AND r.status = ?", model.StatusActive)
	return active(q, "bookings")
}

func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.Status == 0 {
		b.Status = model.StatusActive
	}
	if b.StatusBooking == "" {
		b.StatusBooking = model.BookingPending
	}
	return s.conn(ctx).Create(b).Error
}

// FindBooking returns the active booking id with both parties' names and
// the owning user of the assigned profile.
func (s *Store) FindBooking(ctx context.Context, id uint) (*model.BookingView, error) {
	var v model.BookingView
	err := s.bookingViews(ctx).Where("bookings.id = ?", id).Take(&v).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// LockBooking reads the active booking id holding a row lock until the
// surrounding transaction ends.
func (s *Store) LockBooking(ctx context.Context, id uint) (*model.Booking, error) {
	var b model.Booking
	err := active(s.conn(ctx), "").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// ListBookings returns active bookings matching f, newest first.
func (s *Store) ListBookings(ctx context.Context, f BookingFilter) ([]model.BookingView, error) {
	if f.None {
		return []model.BookingView{}, nil
	}
	q := s.bookingViews(ctx)
	if f.UserID != 0 {
		q = q.Where("bookings.user_id = ?", f.UserID)
	}
	if f.TherapistUserID != 0 {
		q = q.Where("tp.user_id = ?", f.TherapistUserID)
	}
	var out []model.BookingView
	err := q.Order("bookings.booking_time DESC").Order("bookings.id DESC").Find(&out).Error
	return out, err
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uint, status model.BookingStatus) error {
	res := active(s.conn(ctx).Model(&model.Booking{}), "").Where("id = ?", id).Update("status_booking", status)
	return expectOne(res)
}

// SoftDeleteBooking clears the active flag and leaves status_booking untouched.
func (s *Store) SoftDeleteBooking(ctx context.Context, id uint) error {
	res := active(s.conn(ctx).Model(&model.Booking{}), "").Where("id = ?", id).Update("status", model.StatusDeleted)
	return expectOne(res)
}
