package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange       = errors.New("slot end must be after its start")
	ErrPastSlot           = errors.New("slot start must be in the future")
	ErrSlotUnavailable    = errors.New("slot does not exist or is already booked")
	ErrUnknownParticipant = errors.New("participant does not resolve to a known user")
	ErrMeetingNotFound    = errors.New("no scheduled meeting with that id for this user")
	ErrTitleInvalid       = errors.New("title is required and limited to 100 characters")
	ErrDescriptionTooLong = errors.New("description limited to 500 characters")
)

// Repository contains all slot and meeting storage interactions. The
// two compound operations, BookSlot and CancelMeeting, must apply both
// of their mutations as one unit: a claimed slot without a meeting, or
// a cancelled meeting with a still-claimed slot, is a correctness
// violation.
type Repository interface {
	CreateSlot(ctx context.Context, s *AvailabilitySlot) error
	GetSlot(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error)
	ListFreeUpcomingSlots(ctx context.Context, supervisorID uuid.UUID, now time.Time) ([]AvailabilitySlot, error)
	ListAllSlots(ctx context.Context, supervisorID uuid.UUID) ([]AvailabilitySlot, error)

	// BookSlot claims the slot (booked = false -> true) and inserts the
	// meeting atomically. Returns ErrSlotUnavailable when the slot is
	// missing or already claimed.
	BookSlot(ctx context.Context, m *Meeting) error

	GetMeeting(ctx context.Context, id uuid.UUID) (*Meeting, error)
	ListScheduledForUser(ctx context.Context, userID uuid.UUID) ([]Meeting, error)

	// CancelMeeting transitions scheduled -> cancelled for a meeting the
	// user participates in and frees the referenced slot, atomically.
	// Returns ErrMeetingNotFound when no such scheduled meeting exists.
	CancelMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error)

	// CompleteElapsed transitions scheduled meetings that started before
	// the cutoff to completed, returning how many were swept.
	CompleteElapsed(ctx context.Context, cutoff time.Time) (int, error)

	CountCompletedSince(ctx context.Context, since time.Time) (int, error)
	CountWithUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}
