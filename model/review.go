package model

import "time"

// Review is the single rating a user leaves on a completed booking
// @Description Review information
type Review struct {
	ID          uint      `json:"id" gorm:"primaryKey" example:"1"`
	BookingID   uint      `json:"booking_id" gorm:"not null;uniqueIndex" example:"1"`
	UserID      uint      `json:"user_id" gorm:"not null;index" example:"3"`
	TherapistID uint      `json:"therapist_id" gorm:"not null;index" example:"1"`
	Rating      int       `json:"rating" gorm:"not null" example:"5"`
	Comment     *string   `json:"comment" gorm:"type:text" example:"Great session"`
	Status      int       `json:"status" gorm:"not null;default:1;index" example:"1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewView is a review joined with the reviewer's name
type ReviewView struct {
	Review
	UserName string `json:"user_name" gorm:"column:user_name" example:"John Doe"`
}
