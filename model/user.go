package model

import "time"

// User represents an account of any role
// @Description User account information
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey" example:"1"`
	Name      string    `json:"name" gorm:"type:varchar(150);not null" example:"John Doe"`
	Email     string    `json:"email" gorm:"type:varchar(191);not null;index" example:"john@example.com"`
	Password  string    `json:"-" gorm:"column:password;type:varchar(255);not null"`
	Phone     *string   `json:"phone" gorm:"type:varchar(32)" example:"081234567890"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:user" example:"user"`
	Status    int       `json:"status" gorm:"not null;default:1;index" example:"1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
