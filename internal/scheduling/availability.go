package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Availability manages the bookable slots of one supervisor at a time.
// Claiming and freeing happen only through the Booking engine.
type Availability struct {
	repo Repository

	now func() time.Time
}

func NewAvailability(repo Repository) *Availability {
	return &Availability{
		repo: repo,
		now:  time.Now,
	}
}

// AddSlot validates the interval and creates a free slot. The start
// must be strictly in the future at call time and the end strictly
// after the start.
func (a *Availability) AddSlot(ctx context.Context, supervisorID uuid.UUID, start, end time.Time) (*AvailabilitySlot, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}
	if !start.After(a.now()) {
		return nil, ErrPastSlot
	}

	slot := &AvailabilitySlot{
		ID:           uuid.New(),
		SupervisorID: supervisorID,
		Start:        start,
		End:          end,
		Booked:       false,
	}

	if err := a.repo.CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

// ListFreeUpcoming returns the supervisor's unbooked future slots,
// ascending by start time.
func (a *Availability) ListFreeUpcoming(ctx context.Context, supervisorID uuid.UUID) ([]AvailabilitySlot, error) {
	return a.repo.ListFreeUpcomingSlots(ctx, supervisorID, a.now())
}

// ListAll returns every slot the supervisor owns, booked or free,
// ascending by start time. Used for the supervisor's management view.
func (a *Availability) ListAll(ctx context.Context, supervisorID uuid.UUID) ([]AvailabilitySlot, error) {
	return a.repo.ListAllSlots(ctx, supervisorID)
}
