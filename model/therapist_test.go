package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestTherapistStatus_Valid(t *testing.T) {
	for _, s := range []TherapistStatus{TherapistAvailable, TherapistBusy, TherapistOff} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TherapistStatus("vacation").Valid())
	assert.False(t, TherapistStatus("").Valid())
}

func TestTherapistProfile_CreateDefaults(t *testing.T) {
	db := setupTestDB(t, "therapist", &User{}, &TherapistProfile{})

	u := User{Name: "Dr. John Smith", Email: "dr.john@test.com", Password: "hash", Role: RoleTherapist}
	assert.NoError(t, db.Create(&u).Error)

	p := TherapistProfile{UserID: u.ID, Specialization: "Sports massage"}
	assert.NoError(t, db.Create(&p).Error)
	assert.NotZero(t, p.ID)

	var found TherapistProfile
	assert.NoError(t, db.First(&found, p.ID).Error)
	assert.Equal(t, TherapistAvailable, found.StatusTherapist)
	assert.Equal(t, 0, found.TotalReviews)
	assert.Equal(t, 0.0, found.AverageRating)
	assert.Equal(t, StatusActive, found.Status)
}

func TestTherapistProfile_OneProfilePerUser(t *testing.T) {
	db := setupTestDB(t, "therapist_unique", &TherapistProfile{})

	assert.NoError(t, db.Create(&TherapistProfile{UserID: 9}).Error)
	assert.Error(t, db.Create(&TherapistProfile{UserID: 9}).Error)
}

func TestTherapistProfile_WorkingHoursRoundTrip(t *testing.T) {
	db := setupTestDB(t, "therapist_hours", &TherapistProfile{})

	hours := datatypes.JSON(`{"mon":"09:00-17:00","sat":"10:00-14:00"}`)
	p := TherapistProfile{UserID: 1, WorkingHours: hours}
	assert.NoError(t, db.Create(&p).Error)

	var found TherapistProfile
	assert.NoError(t, db.First(&found, p.ID).Error)
	assert.JSONEq(t, string(hours), string(found.WorkingHours))
}
