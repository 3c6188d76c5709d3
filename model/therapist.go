package model

import (
	"time"

	"gorm.io/datatypes"
)

// TherapistStatus is the availability a therapist advertises.
type TherapistStatus string

const (
	TherapistAvailable TherapistStatus = "available"
	TherapistBusy      TherapistStatus = "busy"
	TherapistOff       TherapistStatus = "off"
)

// Valid reports whether s is a known availability value.
func (s TherapistStatus) Valid() bool {
	switch s {
	case TherapistAvailable, TherapistBusy, TherapistOff:
		return true
	}
	return false
}

// TherapistProfile represents the professional profile owned by a therapist account
// @Description Therapist profile information
type TherapistProfile struct {
	ID              uint            `json:"id" gorm:"primaryKey" example:"1"`
	UserID          uint            `json:"user_id" gorm:"not null;uniqueIndex" example:"2"`
	Bio             string          `json:"bio" gorm:"type:text" example:"Sports massage specialist"`
	ExperienceYears int             `json:"experience_years" gorm:"not null;default:0" example:"5"`
	Specialization  string          `json:"specialization" gorm:"type:varchar(150)" example:"Sports massage"`
	AverageRating   float64         `json:"average_rating" gorm:"not null;default:0" example:"4.5"`
	TotalReviews    int             `json:"total_reviews" gorm:"not null;default:0" example:"10"`
	StatusTherapist TherapistStatus `json:"status_therapist" gorm:"type:varchar(16);not null;default:available;index" example:"available"`
	WorkingHours    datatypes.JSON  `json:"working_hours" gorm:"type:json" swaggertype:"object"`
	Status          int             `json:"status" gorm:"not null;default:1;index" example:"1"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TherapistView is a therapist profile joined with its owning account
// @Description Therapist list/detail response
type TherapistView struct {
	TherapistProfile
	Name  string  `json:"name" gorm:"column:name" example:"Dr. Jane Doe"`
	Email string  `json:"email" gorm:"column:email" example:"jane@example.com"`
	Phone *string `json:"phone" gorm:"column:phone" example:"081234567890"`
}
