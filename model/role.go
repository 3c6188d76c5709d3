package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Role is the account role carried in identity token claims.
type Role string

const (
	RoleUser      Role = "user"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}

// Soft-delete flag values shared by every table.
const (
	StatusDeleted = 0
	StatusActive  = 1
)

// SeedAdmin makes sure an active admin account exists for the given email.
// passwordHash must already be hashed by the caller.
func SeedAdmin(db *gorm.DB, name, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return nil
	}

	var existing User
	err := db.Where("email = ? AND status = ?", email, StatusActive).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	admin := User{Name: name, Email: email, Password: passwordHash, Role: RoleAdmin, Status: StatusActive}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin %s: %w", email, err)
	}
	return nil
}
