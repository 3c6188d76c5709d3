package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariebrainware/therapist-booking/config"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/ariebrainware/therapist-booking/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	t.Setenv("APPENV", "test")
	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return repository.New(db)
}

func seedUser(t *testing.T, s *repository.Store, name string, role model.Role) policy.Actor {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Password: "hash", Role: role}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return policy.Actor{ID: u.ID, Role: role}
}

// seedTherapist returns the therapist actor and the id of its profile.
func seedTherapist(t *testing.T, s *repository.Store, name string) (policy.Actor, uint) {
	t.Helper()
	actor := seedUser(t, s, name, model.RoleTherapist)
	p := &model.TherapistProfile{UserID: actor.ID, Specialization: "massage"}
	require.NoError(t, s.CreateTherapistProfile(context.Background(), p))
	return actor, p.ID
}

func createBooking(t *testing.T, svc *BookingService, actor policy.Actor, profileID uint) *model.BookingView {
	t.Helper()
	b, err := svc.Create(context.Background(), actor, CreateBookingInput{
		TherapistID: profileID,
		Location:    "Jl. Merdeka 1",
		BookingTime: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return b
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se), "expected *service.Error, got %T", err)
	assert.Equal(t, want, se.Kind, se.Error())
}
