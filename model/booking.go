package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

// Booking represents a session requested by a user with a therapist
// @Description Booking information
type Booking struct {
	ID            uint          `json:"id" gorm:"primaryKey" example:"1"`
	UserID        uint          `json:"user_id" gorm:"not null;index" example:"3"`
	TherapistID   uint          `json:"therapist_id" gorm:"not null;index" example:"1"`
	Location      string        `json:"location" gorm:"type:varchar(255);not null" example:"Jl. Sudirman 1, Jakarta"`
	BookingTime   time.Time     `json:"booking_time" gorm:"not null" example:"2025-01-15T10:00:00Z"`
	StatusBooking BookingStatus `json:"status_booking" gorm:"type:varchar(16);not null;default:pending;index" example:"pending"`
	Notes         *string       `json:"notes" gorm:"type:text" example:"Lower back pain"`
	Status        int           `json:"status" gorm:"not null;default:1;index" example:"1"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BookingView is a booking joined with the names of both parties
// @Description Booking list/detail response
type BookingView struct {
	Booking
	UserName        string `json:"user_name" gorm:"column:user_name" example:"John Doe"`
	TherapistName   string `json:"therapist_name" gorm:"column:therapist_name" example:"Dr. Jane Doe"`
	TherapistUserID uint   `json:"-" gorm:"column:therapist_user_id"`
	ReviewID        *uint  `json:"review_id" gorm:"column:review_id" example:"7"`
}
