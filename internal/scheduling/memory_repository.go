package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository used by tests and by the
// single-node demo wiring. A single mutex stands in for the transaction
// boundary of the Postgres implementation, so the two compound
// operations keep their all-or-nothing behavior.
type MemoryRepository struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]*AvailabilitySlot
	meetings map[uuid.UUID]*Meeting
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		slots:    make(map[uuid.UUID]*AvailabilitySlot),
		meetings: make(map[uuid.UUID]*Meeting),
	}
}

func (r *MemoryRepository) CreateSlot(ctx context.Context, s *AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	r.slots[s.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetSlot(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, ErrSlotUnavailable
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) ListFreeUpcomingSlots(ctx context.Context, supervisorID uuid.UUID, now time.Time) ([]AvailabilitySlot, error) {
	return r.listSlots(func(s *AvailabilitySlot) bool {
		return s.SupervisorID == supervisorID && !s.Booked && s.Start.After(now)
	}), nil
}

func (r *MemoryRepository) ListAllSlots(ctx context.Context, supervisorID uuid.UUID) ([]AvailabilitySlot, error) {
	return r.listSlots(func(s *AvailabilitySlot) bool {
		return s.SupervisorID == supervisorID
	}), nil
}

func (r *MemoryRepository) BookSlot(ctx context.Context, m *Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[m.SlotID]
	if !ok || s.Booked {
		return ErrSlotUnavailable
	}

	now := time.Now()
	s.Booked = true
	s.UpdatedAt = now

	m.ScheduledAt = s.Start
	m.Status = StatusScheduled
	m.CreatedAt = now
	m.UpdatedAt = now

	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetMeeting(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryRepository) ListScheduledForUser(ctx context.Context, userID uuid.UUID) ([]Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Meeting
	for _, m := range r.meetings {
		if m.Status != StatusScheduled {
			continue
		}
		if m.BookedByID == userID || m.BookedWithID == userID {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.Before(result[j].ScheduledAt)
	})
	return result, nil
}

func (r *MemoryRepository) CancelMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[meetingID]
	if !ok || m.Status != StatusScheduled {
		return nil, ErrMeetingNotFound
	}
	if m.BookedByID != userID && m.BookedWithID != userID {
		return nil, ErrMeetingNotFound
	}

	now := time.Now()
	m.Status = StatusCancelled
	m.UpdatedAt = now

	if s, ok := r.slots[m.SlotID]; ok && s.Booked {
		s.Booked = false
		s.UpdatedAt = now
	}

	cp := *m
	return &cp, nil
}

func (r *MemoryRepository) CompleteElapsed(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	swept := 0
	for _, m := range r.meetings {
		if m.Status == StatusScheduled && m.ScheduledAt.Before(cutoff) {
			m.Status = StatusCompleted
			m.UpdatedAt = time.Now()
			swept++
		}
	}
	return swept, nil
}

func (r *MemoryRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, m := range r.meetings {
		if m.Status == StatusCompleted && !m.ScheduledAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) CountWithUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, m := range r.meetings {
		if m.BookedByID != userID && m.BookedWithID != userID {
			continue
		}
		if !m.ScheduledAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) listSlots(keep func(*AvailabilitySlot) bool) []AvailabilitySlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []AvailabilitySlot
	for _, s := range r.slots {
		if keep(s) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result
}
