package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/locking"
	"github.com/campuscare/student-engagement/internal/metrics"
)

// UserDirectory resolves participant ids. Satisfied by the identity
// repository.
type UserDirectory interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Booking is the only component that creates or cancels meetings.
// The per-slot lock bounds the claim's critical section; the
// repository's conditional claim makes the claim itself atomic, so two
// racing callers yield exactly one meeting.
type Booking struct {
	repo   Repository
	users  UserDirectory
	locker locking.Locker
	log    *zap.Logger
}

func NewBooking(repo Repository, users UserDirectory, locker locking.Locker, log *zap.Logger) *Booking {
	return &Booking{
		repo:   repo,
		users:  users,
		locker: locker,
		log:    log,
	}
}

// Book converts a free slot plus two participants into a scheduled
// meeting. The slot claim and the meeting insert apply as one unit.
func (b *Booking) Book(ctx context.Context, bookedBy, bookedWith, slotID uuid.UUID, title, description string) (*Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > MaxTitleLen {
		return nil, ErrTitleInvalid
	}
	if len(description) > MaxDescriptionLen {
		return nil, ErrDescriptionTooLong
	}

	for _, id := range []uuid.UUID{bookedBy, bookedWith} {
		ok, err := b.users.UserExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve participant: %w", err)
		}
		if !ok {
			return nil, ErrUnknownParticipant
		}
	}

	meeting := &Meeting{
		ID:           uuid.New(),
		SlotID:       slotID,
		BookedByID:   bookedBy,
		BookedWithID: bookedWith,
		Title:        title,
		Description:  description,
	}

	err := b.locker.WithLock(ctx, "slot:"+slotID.String(), func(lockCtx context.Context) error {
		return b.repo.BookSlot(lockCtx, meeting)
	})
	if err != nil {
		// A contended lock means another caller holds the slot claim;
		// from this caller's view the slot is simply not available.
		if errors.Is(err, locking.ErrNotAcquired) {
			err = ErrSlotUnavailable
		}
		if errors.Is(err, ErrSlotUnavailable) {
			metrics.ObserveBooking("conflict")
			return nil, ErrSlotUnavailable
		}
		metrics.ObserveBooking("error")
		return nil, err
	}

	metrics.ObserveBooking("success")
	b.log.Info("meeting booked",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("slot_id", slotID.String()),
		zap.Time("scheduled_at", meeting.ScheduledAt))

	return meeting, nil
}

// ListForUser returns the user's scheduled meetings from either seat,
// ascending by scheduled time. Completed and cancelled meetings stay
// out of this upcoming view.
func (b *Booking) ListForUser(ctx context.Context, userID uuid.UUID) ([]Meeting, error) {
	return b.repo.ListScheduledForUser(ctx, userID)
}

// Cancel transitions a scheduled meeting to cancelled on behalf of one
// of its participants and frees the consumed slot. A requester who is
// not a participant gets ErrMeetingNotFound, indistinguishable from a
// missing meeting.
func (b *Booking) Cancel(ctx context.Context, meetingID, requestingUserID uuid.UUID) (*Meeting, error) {
	var cancelled *Meeting

	err := b.locker.WithLock(ctx, "meeting:"+meetingID.String(), func(lockCtx context.Context) error {
		m, err := b.repo.CancelMeeting(lockCtx, meetingID, requestingUserID)
		if err != nil {
			return err
		}
		cancelled = m
		return nil
	})
	if err != nil {
		if errors.Is(err, locking.ErrNotAcquired) {
			err = ErrMeetingNotFound
		}
		if errors.Is(err, ErrMeetingNotFound) {
			metrics.ObserveCancellation("not_found")
			return nil, ErrMeetingNotFound
		}
		metrics.ObserveCancellation("error")
		return nil, err
	}

	metrics.ObserveCancellation("success")
	b.log.Info("meeting cancelled",
		zap.String("meeting_id", meetingID.String()),
		zap.String("slot_id", cancelled.SlotID.String()),
		zap.String("cancelled_by", requestingUserID.String()))

	return cancelled, nil
}
