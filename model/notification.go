package model

import "time"

// Notification is a message addressed to a single account
// @Description Notification information
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey" example:"1"`
	UserID    uint      `json:"user_id" gorm:"not null;index" example:"5"`
	Message   string    `json:"message" gorm:"type:text;not null" example:"Your booking was accepted"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false" example:"false"`
	Status    int       `json:"status" gorm:"not null;default:1;index" example:"1"`
	CreatedAt time.Time `json:"created_at"`
}
