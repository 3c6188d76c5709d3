package service

import (
	"context"
	"testing"
	"time"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/ariebrainware/therapist-booking/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.BookingStatus
		want     bool
	}{
		{model.BookingPending, model.BookingAccepted, true},
		{model.BookingPending, model.BookingRejected, true},
		{model.BookingAccepted, model.BookingCompleted, true},
		{model.BookingPending, model.BookingCompleted, false},
		{model.BookingCompleted, model.BookingPending, false},
		{model.BookingRejected, model.BookingAccepted, false},
		{model.BookingAccepted, model.BookingPending, false},
		{model.BookingPending, "archived", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBookingCreate(t *testing.T) {
	store := setupStore(t)
	svc := NewBookingService(store)
	ctx := context.Background()
	user := seedUser(t, store, "alice", model.RoleUser)
	therapist, profileID := seedTherapist(t, store, "terry")
	admin := seedUser(t, store, "root", model.RoleAdmin)

	b := createBooking(t, svc, user, profileID)
	assert.Equal(t, model.BookingPending, b.StatusBooking)
	assert.Equal(t, user.ID, b.UserID)
	assert.Equal(t, "alice", b.UserName)
	assert.Equal(t, "terry", b.TherapistName)
	assert.Nil(t, b.ReviewID)

	in := CreateBookingInput{TherapistID: profileID, Location: "x", BookingTime: time.Now()}
	_, err := svc.Create(ctx, therapist, in)
	assertKind(t, err, KindForbidden)
	_, err = svc.Create(ctx, admin, in)
	assertKind(t, err, KindForbidden)

	_, err = svc.Create(ctx, user, CreateBookingInput{TherapistID: 999, Location: "x", BookingTime: time.Now()})
	assertKind(t, err, KindValidation)

	_, err = svc.Create(ctx, user, CreateBookingInput{TherapistID: profileID, Location: "  ", BookingTime: time.Now()})
	assertKind(t, err, KindValidation)
	_, err = svc.Create(ctx, user, CreateBookingInput{TherapistID: profileID, Location: "x"})
	assertKind(t, err, KindValidation)
}

func TestBookingListIsScoped(t *testing.T) {
	store := setupStore(t)
	svc := NewBookingService(store)
	ctx := context.Background()
	alice := seedUser(t, store, "alice", model.RoleUser)
	bob := seedUser(t, store, "bob", model.RoleUser)
	terry, terryProfile := seedTherapist(t, store, "terry")
	tina, tinaProfile := seedTherapist(t, store, "tina")
	admin := seedUser(t, store, "root", model.RoleAdmin)

	createBooking(t, svc, alice, terryProfile)
	createBooking(t, svc, alice, tinaProfile)
	gone := createBooking(t, svc, bob, terryProfile)
	_, err := svc.SoftDelete(ctx, admin, gone.ID)
	require.NoError(t, err)

	count := func(a policy.Actor) int {
		out, err := svc.List(ctx, a)
		require.NoError(t, err)
		return len(out)
	}
	assert.Equal(t, 2, count(admin), "soft-deleted bookings are never listed")
	assert.Equal(t, 2, count(alice))
	assert.Equal(t, 0, count(bob))
	assert.Equal(t, 1, count(terry))
	assert.Equal(t, 1, count(tina))
	assert.Equal(t, 0, count(policy.Actor{ID: alice.ID, Role: "ghost"}))
}

func TestBookingGetHidesForeignRows(t *testing.T) {
	store := setupStore(t)
	svc := NewBookingService(store)
	ctx := context.Background()
	alice := seedUser(t, store, "alice", model.RoleUser)
	bob := seedUser(t, store, "bob", model.RoleUser)
	_, profileID := seedTherapist(t, store, "terry")
	tina, _ := seedTherapist(t, store, "tina")

	b := createBooking(t, svc, alice, profileID)

	got, err := svc.Get(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, errForeign := svc.Get(ctx, bob, b.ID)
	_, errMissing := svc.Get(ctx, bob, 9999)
	assertKind(t, errForeign, KindNotFoundOrForbidden)
	assertKind(t, errMissing, KindNotFoundOrForbidden)
	assert.Equal(t, errMissing.Error(), errForeign.Error())

	_, err = svc.Get(ctx, tina, b.ID)
	assertKind(t, err, KindNotFoundOrForbidden)
}

func TestBookingUpdateStatus(t *testing.T) {
	store := setupStore(t)
	svc := NewBookingService(store)
	ctx := context.Background()
	alice := seedUser(t, store, "alice", model.RoleUser)
	terry, profileID := seedTherapist(t, store, "terry")
	tina, _ := seedTherapist(t, store, "tina")
	admin := seedUser(t, store, "root", model.RoleAdmin)

	b := createBooking(t, svc, alice, profileID)

	_, err := svc.UpdateStatus(ctx, alice, b.ID, model.BookingAccepted)
	assertKind(t, err, KindNotFoundOrForbidden)
	_, err = svc.UpdateStatus(ctx, tina, b.ID, model.BookingAccepted)
	assertKind(t, err, KindNotFoundOrForbidden)

	// Denied actors see the uniform outcome even for an invalid status.
	_, err = svc.UpdateStatus(ctx, alice, b.ID, "bogus")
	assertKind(t, err, KindNotFoundOrForbidden)
	_, err = svc.UpdateStatus(ctx, tina, b.ID, "")
	assertKind(t, err, KindNotFoundOrForbidden)
	_, err = svc.UpdateStatus(ctx, alice, 9999, "")
	assertKind(t, err, KindNotFoundOrForbidden)

	_, err = svc.UpdateStatus(ctx, terry, b.ID, "bogus")
	assertKind(t, err, KindValidation)
	_, err = svc.UpdateStatus(ctx, terry, b.ID, model.BookingCompleted)
	assertKind(t, err, KindValidation)
	_, err = svc.UpdateStatus(ctx, terry, b.ID, "")
	assertKind(t, err, KindValidation)

	v, err := svc.UpdateStatus(ctx, terry, b.ID, model.BookingAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.BookingAccepted, v.StatusBooking)

	v, err = svc.UpdateStatus(ctx, admin, b.ID, model.BookingCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, v.StatusBooking)

	_, err = svc.UpdateStatus(ctx, admin, b.ID, model.BookingPending)
	assertKind(t, err, KindValidation)

	_, err = svc.UpdateStatus(ctx, admin, 9999, model.BookingAccepted)
	assertKind(t, err, KindNotFoundOrForbidden)
}

func TestBookingSoftDelete(t *testing.T) {
	store := setupStore(t)
	svc := NewBookingService(store)
	ctx := context.Background()
	alice := seedUser(t, store, "alice", model.RoleUser)
	bob := seedUser(t, store, "bob", model.RoleUser)
	terry, profileID := seedTherapist(t, store, "terry")

	b := createBooking(t, svc, alice, profileID)
	_, err := svc.UpdateStatus(ctx, terry, b.ID, model.BookingAccepted)
	require.NoError(t, err)

	_, errForeign := svc.SoftDelete(ctx, bob, b.ID)
	_, errMissing := svc.SoftDelete(ctx, bob, 9999)
	assertKind(t, errForeign, KindNotFoundOrForbidden)
	assert.Equal(t, errMissing.Error(), errForeign.Error())

	deleted, err := svc.SoftDelete(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeleted, deleted.Status)
	assert.Equal(t, model.BookingAccepted, deleted.StatusBooking)

	_, err = svc.Get(ctx, alice, b.ID)
	assertKind(t, err, KindNotFoundOrForbidden)
	_, err = svc.SoftDelete(ctx, alice, b.ID)
	assertKind(t, err, KindNotFoundOrForbidden)

	var raw model.Booking
	require.NoError(t, store.DB().First(&raw, b.ID).Error)
	assert.Equal(t, model.BookingAccepted, raw.StatusBooking)
}

func TestBookingTherapistCanDeleteAssigned(t *testing.T) {
	store := setupStore(t)
	svc := NewBookingService(store)
	ctx := context.Background()
	alice := seedUser(t, store, "alice", model.RoleUser)
	terry, profileID := seedTherapist(t, store, "terry")

	b := createBooking(t, svc, alice, profileID)
	_, err := svc.SoftDelete(ctx, terry, b.ID)
	require.NoError(t, err)
}
