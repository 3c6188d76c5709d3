package model

import "gorm.io/gorm"

// AllModels lists every table owned by the service, in dependency order.
var AllModels = []interface{}{
	&User{},
	&TherapistProfile{},
	&Booking{},
	&Review{},
	&Notification{},
	&SecurityLog{},
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels...)
}
