package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type MeetingStatus string

const (
	StatusScheduled MeetingStatus = "scheduled"
	StatusCompleted MeetingStatus = "completed"
	StatusCancelled MeetingStatus = "cancelled"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// AvailabilitySlot is a supervisor-owned time interval that at most one
// booking can consume. Slots are never deleted; a cancelled booking
// flips Booked back to false and the slot becomes claimable again.
type AvailabilitySlot struct {
	ID           uuid.UUID
	SupervisorID uuid.UUID
	Start        time.Time
	End          time.Time
	Booked       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Meeting is a confirmed appointment between two users. SlotID points
// at the consumed slot directly so cancellation frees exactly the slot
// that was claimed, even if the supervisor holds several slots with the
// same start time. ScheduledAt is copied from the slot at booking time
// and never changes.
type Meeting struct {
	ID           uuid.UUID
	SlotID       uuid.UUID
	BookedByID   uuid.UUID
	BookedWithID uuid.UUID
	Title        string
	Description  string
	ScheduledAt  time.Time
	Status       MeetingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OtherParty returns the participant that is not the given user.
func (m *Meeting) OtherParty(userID uuid.UUID) uuid.UUID {
	if m.BookedByID == userID {
		return m.BookedWithID
	}
	return m.BookedByID
}
