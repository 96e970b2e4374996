package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddSlotRejectsInvertedRange(t *testing.T) {
	svc := NewAvailability(NewMemoryRepository())

	start := time.Now().Add(24 * time.Hour)

	_, err := svc.AddSlot(context.Background(), uuid.New(), start, start.Add(-time.Hour))
	require.ErrorIs(t, err, ErrInvalidRange)

	// Zero-length intervals are inverted too.
	_, err = svc.AddSlot(context.Background(), uuid.New(), start, start)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestAddSlotRejectsPastStart(t *testing.T) {
	svc := NewAvailability(NewMemoryRepository())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	start := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	_, err := svc.AddSlot(context.Background(), uuid.New(), start, start.Add(time.Hour))
	require.ErrorIs(t, err, ErrPastSlot)

	// A start at exactly the current instant is not in the future.
	now := svc.now()
	_, err = svc.AddSlot(context.Background(), uuid.New(), now, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrPastSlot)
}

func TestListFreeUpcomingOrdersAndFilters(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewAvailability(repo)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	supervisor := uuid.New()
	other := uuid.New()

	// Created out of chronological order on purpose.
	late, err := svc.AddSlot(context.Background(), supervisor, base.Add(3*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, err)
	early, err := svc.AddSlot(context.Background(), supervisor, base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), other, base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)

	free, err := svc.ListFreeUpcoming(context.Background(), supervisor)
	require.NoError(t, err)
	require.Len(t, free, 2)
	require.Equal(t, early.ID, free[0].ID)
	require.Equal(t, late.ID, free[1].ID)

	// Booked slots drop out of the free view but stay in the full one.
	student := uuid.New()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())
	_, err = booking.Book(context.Background(), student, supervisor, early.ID, "Catch up", "")
	require.NoError(t, err)

	free, err = svc.ListFreeUpcoming(context.Background(), supervisor)
	require.NoError(t, err)
	require.Len(t, free, 1)
	require.Equal(t, late.ID, free[0].ID)

	all, err := svc.ListAll(context.Background(), supervisor)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].Booked)
	require.False(t, all[1].Booked)
}
