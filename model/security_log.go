package model

import (
	"time"

	"gorm.io/datatypes"
)

// SecurityLog represents a persisted audit event (logins, denials, endpoint calls)
type SecurityLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType string         `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	UserID    string         `json:"user_id" gorm:"column:user_id;type:varchar(64);index"`
	Role      string         `json:"role" gorm:"column:role;type:varchar(16)"`
	Email     string         `json:"email" gorm:"column:email;type:varchar(191);index"`
	IP        string         `json:"ip" gorm:"column:ip;type:varchar(45)"`
	UserAgent string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	City      string         `json:"city" gorm:"column:city;type:varchar(100)"`
	Country   string         `json:"country" gorm:"column:country;type:varchar(100)"`
	Details   datatypes.JSON `json:"details" gorm:"column:details;type:json"`
	CreatedAt time.Time      `json:"created_at"`
}
