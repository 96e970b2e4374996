package scheduling

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/locking"
)

type allowAllDirectory struct{}

func (allowAllDirectory) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

// knownUsers resolves only the ids it was built with.
type knownUsers map[uuid.UUID]bool

func (d knownUsers) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return d[id], nil
}

func newTestLocker() locking.Locker {
	return locking.NewKeyedMutex()
}

func zapNop() *zap.Logger {
	return zap.NewNop()
}

func addFreeSlot(t *testing.T, repo *MemoryRepository, supervisorID uuid.UUID, start time.Time) *AvailabilitySlot {
	t.Helper()
	slot := &AvailabilitySlot{
		ID:           uuid.New(),
		SupervisorID: supervisorID,
		Start:        start,
		End:          start.Add(time.Hour),
	}
	require.NoError(t, repo.CreateSlot(context.Background(), slot))
	return slot
}

func TestBookClaimsSlotOnce(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	slot := addFreeSlot(t, repo, supervisor, start)

	m, err := booking.Book(context.Background(), student, supervisor, slot.ID, "First meeting", "quick check-in")
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, m.Status)
	require.Equal(t, slot.ID, m.SlotID)
	require.Equal(t, start, m.ScheduledAt)

	// The same slot cannot be claimed twice.
	_, err = booking.Book(context.Background(), uuid.New(), supervisor, slot.ID, "Second meeting", "")
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookUnknownSlot(t *testing.T) {
	booking := NewBooking(NewMemoryRepository(), allowAllDirectory{}, newTestLocker(), zapNop())

	_, err := booking.Book(context.Background(), uuid.New(), uuid.New(), uuid.New(), "Meeting", "")
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookUnknownParticipant(t *testing.T) {
	repo := NewMemoryRepository()
	supervisor := uuid.New()
	student := uuid.New()
	slot := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Hour))

	booking := NewBooking(repo, knownUsers{student: true}, newTestLocker(), zapNop())

	_, err := booking.Book(context.Background(), student, supervisor, slot.ID, "Meeting", "")
	require.ErrorIs(t, err, ErrUnknownParticipant)

	// The failed attempt must not consume the slot.
	got, err := repo.GetSlot(context.Background(), slot.ID)
	require.NoError(t, err)
	require.False(t, got.Booked)
}

func TestBookValidatesTitleAndDescription(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())
	slot := addFreeSlot(t, repo, uuid.New(), time.Now().Add(time.Hour))

	_, err := booking.Book(context.Background(), uuid.New(), uuid.New(), slot.ID, "   ", "")
	require.ErrorIs(t, err, ErrTitleInvalid)

	_, err = booking.Book(context.Background(), uuid.New(), uuid.New(), slot.ID, strings.Repeat("x", MaxTitleLen+1), "")
	require.ErrorIs(t, err, ErrTitleInvalid)

	_, err = booking.Book(context.Background(), uuid.New(), uuid.New(), slot.ID, "Meeting", strings.Repeat("x", MaxDescriptionLen+1))
	require.ErrorIs(t, err, ErrDescriptionTooLong)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	slot := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Hour))

	const contenders = 20
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := booking.Book(context.Background(), uuid.New(), supervisor, slot.ID, "Race", "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case err == ErrSlotUnavailable:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, contenders-1, conflicts)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()
	slot := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Hour))

	m, err := booking.Book(context.Background(), student, supervisor, slot.ID, "Meeting", "")
	require.NoError(t, err)

	cancelled, err := booking.Cancel(context.Background(), m.ID, student)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	// Capacity is restored; another student can take the slot.
	m2, err := booking.Book(context.Background(), uuid.New(), supervisor, slot.ID, "Meeting again", "")
	require.NoError(t, err)
	require.NotEqual(t, m.ID, m2.ID)
}

func TestCancelByEitherParticipant(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()
	slot := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Hour))

	m, err := booking.Book(context.Background(), student, supervisor, slot.ID, "Meeting", "")
	require.NoError(t, err)

	// The supervisor sits in the booked-with seat and may cancel too.
	_, err = booking.Cancel(context.Background(), m.ID, supervisor)
	require.NoError(t, err)
}

func TestCancelRejectsOutsiders(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()
	slot := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Hour))

	m, err := booking.Book(context.Background(), student, supervisor, slot.ID, "Meeting", "")
	require.NoError(t, err)

	_, err = booking.Cancel(context.Background(), m.ID, uuid.New())
	require.ErrorIs(t, err, ErrMeetingNotFound)

	// Still booked, still visible to its participants.
	upcoming, err := booking.ListForUser(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
}

func TestCancelIsNotRepeatable(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()
	slot := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Hour))

	m, err := booking.Book(context.Background(), student, supervisor, slot.ID, "Meeting", "")
	require.NoError(t, err)

	_, err = booking.Cancel(context.Background(), m.ID, student)
	require.NoError(t, err)

	_, err = booking.Cancel(context.Background(), m.ID, student)
	require.ErrorIs(t, err, ErrMeetingNotFound)
}

func TestListForUserExcludesClosedMeetings(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()

	s1 := addFreeSlot(t, repo, supervisor, time.Now().Add(2*time.Hour))
	s2 := addFreeSlot(t, repo, supervisor, time.Now().Add(3*time.Hour))

	m1, err := booking.Book(context.Background(), student, supervisor, s1.ID, "Stays", "")
	require.NoError(t, err)
	m2, err := booking.Book(context.Background(), student, supervisor, s2.ID, "Goes", "")
	require.NoError(t, err)

	_, err = booking.Cancel(context.Background(), m2.ID, student)
	require.NoError(t, err)

	upcoming, err := booking.ListForUser(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, m1.ID, upcoming[0].ID)
}

func TestSweepCompletesElapsedMeetings(t *testing.T) {
	repo := NewMemoryRepository()
	booking := NewBooking(repo, allowAllDirectory{}, newTestLocker(), zapNop())

	supervisor := uuid.New()
	student := uuid.New()

	past := addFreeSlot(t, repo, supervisor, time.Now().Add(time.Minute))
	future := addFreeSlot(t, repo, supervisor, time.Now().Add(48*time.Hour))

	elapsed, err := booking.Book(context.Background(), student, supervisor, past.ID, "Elapsed", "")
	require.NoError(t, err)
	pending, err := booking.Book(context.Background(), student, supervisor, future.ID, "Pending", "")
	require.NoError(t, err)

	sweep := NewSweep(repo, 30*time.Minute, zapNop())
	sweep.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	require.NoError(t, sweep.Run(context.Background()))

	got, err := repo.GetMeeting(context.Background(), elapsed.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, got.Status)

	got, err = repo.GetMeeting(context.Background(), pending.ID)
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, got.Status)
}
