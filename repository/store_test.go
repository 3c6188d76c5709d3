package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ariebrainware/therapist-booking/config"
	"github.com/ariebrainware/therapist-booking/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("APPENV", "test")
	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return New(db)
}

func seedUser(t *testing.T, s *Store, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Password: "hash", Role: role}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedTherapist(t *testing.T, s *Store, name string) (*model.User, *model.TherapistProfile) {
	t.Helper()
	u := seedUser(t, s, name, model.RoleTherapist)
	p := &model.TherapistProfile{UserID: u.ID, Specialization: "massage"}
	require.NoError(t, s.CreateTherapistProfile(context.Background(), p))
	return u, p
}

func seedBooking(t *testing.T, s *Store, userID, profileID uint) *model.Booking {
	t.Helper()
	b := &model.Booking{UserID: userID, TherapistID: profileID, Location: "Home", BookingTime: time.Now().Add(time.Hour)}
	require.NoError(t, s.CreateBooking(context.Background(), b))
	return b
}

func TestUsers_FindAndSoftDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "alice", model.RoleUser)

	found, err := s.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	inUse, err := s.EmailInUse(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, inUse)

	require.NoError(t, s.SoftDeleteUser(ctx, u.ID))

	_, err = s.FindUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindUserByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SoftDeleteUser(ctx, u.ID), ErrNotFound)

	inUse, err = s.EmailInUse(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestUsers_ListPaginatesAndFilters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	for _, n := range []string{"anna", "bert", "carl", "dina"} {
		seedUser(t, s, n, model.RoleUser)
	}
	gone := seedUser(t, s, "erin", model.RoleUser)
	require.NoError(t, s.SoftDeleteUser(ctx, gone.ID))

	users, total, err := s.ListUsers(ctx, UserFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, users, 3, "one extra row signals another page")

	users, total, err = s.ListUsers(ctx, UserFilter{Limit: 10, Cursor: users[1].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, users, 2)

	users, total, err = s.ListUsers(ctx, UserFilter{Keyword: "bert", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "bert", users[0].Name)
}

func TestUsers_UpdateAppliesOnlyPatchedColumns(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "alice", model.RoleUser)

	assert.True(t, UserPatch{}.Empty())

	phone := "0812"
	require.NoError(t, s.UpdateUser(ctx, u.ID, UserPatch{Phone: &phone}))

	found, err := s.FindUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Name)
	assert.Equal(t, "hash", found.Password)
	require.NotNil(t, found.Phone)
	assert.Equal(t, phone, *found.Phone)

	assert.ErrorIs(t, s.UpdateUser(ctx, 9999, UserPatch{Phone: &phone}), ErrNotFound)
}

func TestTherapists_ListOrderAndFilter(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, low := seedTherapist(t, s, "low")
	_, high := seedTherapist(t, s, "high")
	_, hidden := seedTherapist(t, s, "hidden")

	require.NoError(t, s.conn(ctx).Model(&model.TherapistProfile{}).Where("id = ?", high.ID).Update("average_rating", 4.5).Error)
	busy := model.TherapistBusy
	require.NoError(t, s.UpdateTherapist(ctx, low.ID, TherapistPatch{StatusTherapist: &busy}))
	require.NoError(t, s.SoftDeleteTherapist(ctx, hidden.ID))

	all, err := s.ListTherapists(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, high.ID, all[0].ID)
	assert.Equal(t, "high", all[0].Name)
	assert.Equal(t, "high@example.com", all[0].Email)

	onlyBusy, err := s.ListTherapists(ctx, &busy)
	require.NoError(t, err)
	require.Len(t, onlyBusy, 1)
	assert.Equal(t, low.ID, onlyBusy[0].ID)
}

func TestTherapists_HiddenWhenOwnerDeleted(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u, p := seedTherapist(t, s, "jane")

	_, err := s.FindTherapist(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteUser(ctx, u.ID))
	_, err = s.FindTherapist(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecomputeRating(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", model.RoleUser)
	_, p := seedTherapist(t, s, "jane")

	require.NoError(t, s.RecomputeRating(ctx, p.ID))
	v, err := s.FindTherapist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.AverageRating)
	assert.Equal(t, 0, v.TotalReviews)

	for i, rating := range []int{5, 4, 2} {
		b := seedBooking(t, s, alice.ID, p.ID)
		require.NoError(t, s.CreateReview(ctx, &model.Review{BookingID: b.ID, UserID: alice.ID, TherapistID: p.ID, Rating: rating}), i)
	}
	require.NoError(t, s.RecomputeRating(ctx, p.ID))

	v, err = s.FindTherapist(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3.0, v.AverageRating, 1e-9)
	assert.Equal(t, 3, v.TotalReviews)
}

func TestBookings_ViewAndFilters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", model.RoleUser)
	bob := seedUser(t, s, "bob", model.RoleUser)
	janeUser, jane := seedTherapist(t, s, "jane")
	_, mark := seedTherapist(t, s, "mark")

	b1 := seedBooking(t, s, alice.ID, jane.ID)
	seedBooking(t, s, bob.ID, jane.ID)
	seedBooking(t, s, alice.ID, mark.ID)

	v, err := s.FindBooking(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.UserName)
	assert.Equal(t, "jane", v.TherapistName)
	assert.Equal(t, janeUser.ID, v.TherapistUserID)
	assert.Equal(t, model.BookingPending, v.StatusBooking)
	assert.Nil(t, v.ReviewID)

	all, err := s.ListBookings(ctx, BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := s.ListBookings(ctx, BookingFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	assigned, err := s.ListBookings(ctx, BookingFilter{TherapistUserID: janeUser.ID})
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	none, err := s.ListBookings(ctx, BookingFilter{None: true})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookings_SoftDeleteKeepsStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", model.RoleUser)
	_, jane := seedTherapist(t, s, "jane")
	b := seedBooking(t, s, alice.ID, jane.ID)

	require.NoError(t, s.UpdateBookingStatus(ctx, b.ID, model.BookingAccepted))
	require.NoError(t, s.SoftDeleteBooking(ctx, b.ID))

	_, err := s.FindBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.LockBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var raw model.Booking
	require.NoError(t, s.DB().First(&raw, b.ID).Error)
	assert.Equal(t, model.BookingAccepted, raw.StatusBooking)
	assert.Equal(t, model.StatusDeleted, raw.Status)
}

func TestReviews_ViewAndExists(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", model.RoleUser)
	_, jane := seedTherapist(t, s, "jane")
	b := seedBooking(t, s, alice.ID, jane.ID)

	exists, err := s.ReviewExists(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	r := &model.Review{BookingID: b.ID, UserID: alice.ID, TherapistID: jane.ID, Rating: 4}
	require.NoError(t, s.CreateReview(ctx, r))

	exists, err = s.ReviewExists(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	v, err := s.FindReview(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.UserName)

	list, err := s.ListReviewsByTherapist(ctx, jane.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	bv, err := s.FindBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, bv.ReviewID)
	assert.Equal(t, r.ID, *bv.ReviewID)
}

func TestNotifications_ListAndMarkRead(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	n1 := &model.Notification{UserID: 5, Message: "first"}
	n2 := &model.Notification{UserID: 5, Message: "second"}
	require.NoError(t, s.CreateNotification(ctx, n1))
	require.NoError(t, s.CreateNotification(ctx, n2))
	require.NoError(t, s.CreateNotification(ctx, &model.Notification{UserID: 6, Message: "other"}))

	list, err := s.ListNotifications(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, n2.ID, list[0].ID)

	require.NoError(t, s.MarkNotificationRead(ctx, n1.ID))
	require.NoError(t, s.MarkNotificationRead(ctx, n1.ID))
	found, err := s.FindNotification(ctx, n1.ID)
	require.NoError(t, err)
	assert.True(t, found.IsRead)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *Store) error {
		u := &model.User{Name: "temp", Email: "temp@example.com", Password: "x", Role: model.RoleUser}
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	inUse, err := s.EmailInUse(ctx, "temp@example.com")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestStoreFailureSurfaces(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err = New(db).FindUser(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
