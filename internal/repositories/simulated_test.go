package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/localstore"
)

type seatLog struct {
	released []string
}

func (s *seatLog) ReleaseSeat(_ context.Context, shuttleID string) error {
	s.released = append(s.released, shuttleID)
	return nil
}

func TestSimulatedBookings_CapIsPerUser(t *testing.T) {
	ctx := context.Background()
	seats := &seatLog{}
	repo := NewSimulatedBookingRepository(localstore.NewMemoryStore(), seats)

	_, err := repo.Create(ctx, models.Booking{ID: "sim-victim", UserID: "victim", ShuttleID: "s1", Status: models.BookingConfirmed})
	require.NoError(t, err)
	for i := 0; i < 150; i++ {
		_, err := repo.Create(ctx, models.Booking{
			ID: fmt.Sprintf("sim-%03d", i), UserID: fmt.Sprintf("u%d", i%3), ShuttleID: "s1",
			Status: models.BookingConfirmed,
		})
		require.NoError(t, err)
	}

	got, err := repo.ListByUser(ctx, "victim")
	require.NoError(t, err)
	require.Len(t, got, 1)
	_, err = repo.GetByID(ctx, "sim-victim")
	assert.NoError(t, err)
	assert.Empty(t, seats.released, "no user reached the cap")
}

func TestSimulatedBookings_OverflowDropsSettledFirst(t *testing.T) {
	ctx := context.Background()
	seats := &seatLog{}
	repo := NewSimulatedBookingRepository(localstore.NewMemoryStore(), seats)

	_, err := repo.Create(ctx, models.Booking{ID: "sim-old", UserID: "u1", ShuttleID: "s1", Status: models.BookingConfirmed})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.Booking{ID: "sim-cancelled", UserID: "u1", ShuttleID: "s1", Status: models.BookingCancelled})
	require.NoError(t, err)
	for i := 0; i < 98; i++ {
		_, err := repo.Create(ctx, models.Booking{ID: fmt.Sprintf("sim-%03d", i), UserID: "u1", ShuttleID: "s1", Status: models.BookingConfirmed})
		require.NoError(t, err)
	}

	_, err = repo.Create(ctx, models.Booking{ID: "sim-new1", UserID: "u1", ShuttleID: "s1", Status: models.BookingConfirmed})
	require.NoError(t, err)
	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 100)
	_, err = repo.GetByID(ctx, "sim-cancelled")
	assert.True(t, domain.IsNotFound(err), "the settled booking goes first")
	_, err = repo.GetByID(ctx, "sim-old")
	assert.NoError(t, err)
	assert.Empty(t, seats.released)

	_, err = repo.Create(ctx, models.Booking{ID: "sim-new2", UserID: "u1", ShuttleID: "s1", Status: models.BookingConfirmed})
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, "sim-old")
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, []string{"s1"}, seats.released, "a dropped confirmed booking gives its seat back")
}

func TestSimulatedBookings_NoReleaserKeepsConfirmed(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedBookingRepository(localstore.NewMemoryStore(), nil)

	for i := 0; i < 105; i++ {
		_, err := repo.Create(ctx, models.Booking{ID: fmt.Sprintf("sim-%03d", i), UserID: "u1", Status: models.BookingConfirmed})
		require.NoError(t, err)
	}
	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 105)
}

func TestSimulatedBookings_PaymentReferenceSpentOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedBookingRepository(localstore.NewMemoryStore(), nil)

	_, err := repo.Create(ctx, models.Booking{ID: "sim-a", UserID: "u1", PaymentReference: "pi_123", Status: models.BookingConfirmed})
	require.NoError(t, err)

	_, err = repo.Create(ctx, models.Booking{ID: "sim-b", UserID: "u2", PaymentReference: "pi_123", Status: models.BookingConfirmed})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))

	got, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSimulatedBookings_ListFiltersByUserAndSortsByDeparture(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedBookingRepository(localstore.NewMemoryStore(), nil)

	for _, b := range []models.Booking{
		{ID: "sim-a", UserID: "u1", BookingDate: "2025-01-08", BookingTime: "08:00"},
		{ID: "sim-b", UserID: "u2", BookingDate: "2025-01-09", BookingTime: "08:00"},
		{ID: "sim-c", UserID: "u1", BookingDate: "2025-01-10"},
		{ID: "sim-d", UserID: "u1", BookingDate: "2025-01-08", BookingTime: "17:30"},
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	ids := []string{}
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"sim-c", "sim-d", "sim-a"}, ids)
}

func TestSimulatedBookings_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedBookingRepository(localstore.NewMemoryStore(), nil)
	_, err := repo.Create(ctx, models.Booking{ID: "sim-a", UserID: "u1", Status: models.BookingConfirmed})
	require.NoError(t, err)

	b, err := repo.UpdateStatus(ctx, "sim-a", models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)

	stored, err := repo.GetByID(ctx, "sim-a")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)

	_, err = repo.UpdateStatus(ctx, "sim-missing", models.BookingCancelled)
	assert.True(t, domain.IsNotFound(err))
}

func TestSimulatedNotifications_CapPerUserAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedNotificationRepository(localstore.NewMemoryStore())
	u1, u2 := "u1", "u2"

	base := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		_, err := repo.Create(ctx, models.Notification{
			ID: fmt.Sprintf("n%02d", i), UserID: &u1, Title: "t", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, models.Notification{ID: "mine", UserID: &u2, Title: "t", CreatedAt: base})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.Notification{ID: "broadcast", Title: "Service update"})
	require.NoError(t, err)

	got, err := repo.ListForUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, "broadcast", got[0].ID)
	assert.Equal(t, "n54", got[1].ID)
	for _, n := range got {
		assert.True(t, n.VisibleTo("u1"))
	}
	// 50 kept for u1 plus the broadcast
	assert.Len(t, got, 51)

	other, err := repo.ListForUser(ctx, "u2", 0)
	require.NoError(t, err)
	require.Len(t, other, 2, "u1 filling their list does not push out u2's notification")
	assert.Equal(t, "mine", other[1].ID)

	limited, err := repo.ListForUser(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Len(t, limited, 5)
}

func TestSimulatedNotifications_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedNotificationRepository(localstore.NewMemoryStore())
	u1, u2 := "u1", "u2"
	_, _ = repo.Create(ctx, models.Notification{ID: "a", UserID: &u1})
	_, _ = repo.Create(ctx, models.Notification{ID: "b", UserID: &u2})
	_, _ = repo.Create(ctx, models.Notification{ID: "c", UserID: &u1})

	require.NoError(t, repo.MarkRead(ctx, "u1", "a"))
	assert.True(t, domain.IsNotFound(repo.MarkRead(ctx, "u1", "b")), "other users' notifications are invisible")

	require.NoError(t, repo.MarkAllRead(ctx, "u1"))
	got, err := repo.ListForUser(ctx, "u2", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsRead)
}

func TestSimulatedNotifications_MarkReadReachesBroadcasts(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedNotificationRepository(localstore.NewMemoryStore())
	_, _ = repo.Create(ctx, models.Notification{ID: "all"})

	require.NoError(t, repo.MarkRead(ctx, "u1", "all"))
	got, err := repo.ListForUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRead)
	assert.True(t, domain.IsNotFound(repo.MarkRead(ctx, "u1", "missing")))
}

func TestSimulatedFeedback_PerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedFeedbackRepository(localstore.NewMemoryStore())
	for i := 0; i < 60; i++ {
		_, err := repo.Create(ctx, models.Feedback{ID: fmt.Sprintf("f%02d", i), UserID: "u1", Rating: 4})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, models.Feedback{ID: "other", UserID: "u2", Rating: 5})
	require.NoError(t, err)

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 50)
	assert.Equal(t, "f59", mine[0].ID)

	theirs, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestSimulatedUsers_RegisterAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedUserRepository(localstore.NewMemoryStore())

	require.NoError(t, repo.Create(ctx, models.User{ID: "u1", Email: "Ama@St.UG.edu.gh", FullName: "Ama", Role: "student", PasswordHash: "hash"}))
	err := repo.Create(ctx, models.User{ID: "u2", Email: "ama@st.ug.edu.gh", PasswordHash: "x"})
	assert.True(t, domain.IsConflict(err))

	u, err := repo.GetByEmail(ctx, " AMA@st.ug.edu.gh")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash, "the hash survives the round trip")

	_, err = repo.GetByID(ctx, "u2")
	assert.True(t, domain.IsNotFound(err))
}

func TestSimulatedProfiles_UpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulatedProfileRepository(localstore.NewMemoryStore())

	_, err := repo.GetByUserID(ctx, "u1")
	assert.True(t, domain.IsNotFound(err))

	first, err := repo.Upsert(ctx, models.Profile{ID: "p1", UserID: "u1", Email: "ama@st.ug.edu.gh", FullName: "Ama"})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, models.Profile{ID: "p2", UserID: "u1", Email: "other@x.com", FullName: "Ama Owusu", Department: "CS"})
	require.NoError(t, err)

	got, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "ama@st.ug.edu.gh", got.Email)
	assert.Equal(t, "Ama Owusu", got.FullName)
	assert.Equal(t, "CS", got.Department)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt))
}
