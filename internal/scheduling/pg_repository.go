package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanSlot(row pgx.Row) (*AvailabilitySlot, error) {
	var s AvailabilitySlot

	err := row.Scan(
		&s.ID,
		&s.SupervisorID,
		&s.Start,
		&s.End,
		&s.Booked,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	return &s, nil
}

func scanMeeting(row pgx.Row) (*Meeting, error) {
	var m Meeting

	err := row.Scan(
		&m.ID,
		&m.SlotID,
		&m.BookedByID,
		&m.BookedWithID,
		&m.Title,
		&m.Description,
		&m.ScheduledAt,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}

	return &m, nil
}

const slotColumns = `id, supervisor_id, start_time, end_time, booked, created_at, updated_at`
const meetingColumns = `id, slot_id, booked_by, booked_with, title, description, scheduled_at, status, created_at, updated_at`

// Interface methods

func (r *PgRepository) CreateSlot(ctx context.Context, s *AvailabilitySlot) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO availability_slots (id, supervisor_id, start_time, end_time, booked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, now(), now())
		RETURNING created_at, updated_at
	`, s.ID, s.SupervisorID, s.Start, s.End)

	return row.Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *PgRepository) GetSlot(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) ListFreeUpcomingSlots(ctx context.Context, supervisorID uuid.UUID, now time.Time) ([]AvailabilitySlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE supervisor_id = $1 AND booked = false AND start_time > $2
		ORDER BY start_time
	`, supervisorID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *PgRepository) ListAllSlots(ctx context.Context, supervisorID uuid.UUID) ([]AvailabilitySlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE supervisor_id = $1
		ORDER BY start_time
	`, supervisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

// BookSlot claims the slot with a conditional update and inserts the
// meeting in the same transaction. The `booked = false` guard makes the
// claim safe even when two transactions race: only one sees the row.
func (r *PgRepository) BookSlot(ctx context.Context, m *Meeting) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var start time.Time
	err = tx.QueryRow(ctx, `
		UPDATE availability_slots
		SET booked = true,
		    updated_at = now()
		WHERE id = $1
		  AND booked = false
		RETURNING start_time
	`, m.SlotID).Scan(&start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("claim slot: %w", err)
	}

	m.ScheduledAt = start
	m.Status = StatusScheduled

	err = tx.QueryRow(ctx, `
		INSERT INTO meetings (id, slot_id, booked_by, booked_with, title, description, scheduled_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled', now(), now())
		RETURNING created_at, updated_at
	`, m.ID, m.SlotID, m.BookedByID, m.BookedWithID, m.Title, m.Description, m.ScheduledAt).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

func (r *PgRepository) GetMeeting(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE id = $1
	`, id)
	return scanMeeting(row)
}

func (r *PgRepository) ListScheduledForUser(ctx context.Context, userID uuid.UUID) ([]Meeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE (booked_by = $1 OR booked_with = $1)
		  AND status = 'scheduled'
		ORDER BY scheduled_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMeetings(rows)
}

func (r *PgRepository) CancelMeeting(ctx context.Context, meetingID, userID uuid.UUID) (*Meeting, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE meetings
		SET status = 'cancelled',
		    updated_at = now()
		WHERE id = $1
		  AND status = 'scheduled'
		  AND (booked_by = $2 OR booked_with = $2)
		RETURNING `+meetingColumns+`
	`, meetingID, userID)

	m, err := scanMeeting(row)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE availability_slots
		SET booked = false,
		    updated_at = now()
		WHERE id = $1
		  AND booked = true
	`, m.SlotID)
	if err != nil {
		return nil, fmt.Errorf("free slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel tx: %w", err)
	}
	return m, nil
}

func (r *PgRepository) CompleteElapsed(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE meetings
		SET status = 'completed',
		    updated_at = now()
		WHERE status = 'scheduled'
		  AND scheduled_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed meetings: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *PgRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM meetings
		WHERE status = 'completed' AND scheduled_at >= $1
	`, since).Scan(&n)
	return n, err
}

func (r *PgRepository) CountWithUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM meetings
		WHERE (booked_by = $1 OR booked_with = $1)
		  AND scheduled_at >= $2
	`, userID, since).Scan(&n)
	return n, err
}

func collectSlots(rows pgx.Rows) ([]AvailabilitySlot, error) {
	var result []AvailabilitySlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func collectMeetings(rows pgx.Rows) ([]Meeting, error) {
	var result []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
