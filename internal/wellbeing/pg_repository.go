package wellbeing

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

func scanReport(row pgx.Row) (*Report, error) {
	var (
		r      Report
		status string
	)

	err := row.Scan(
		&r.ID,
		&r.StudentID,
		&status,
		&r.Notes,
		&r.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status, err = ParseSeverity(status)
	if err != nil {
		return nil, fmt.Errorf("stored report %s: %w", r.ID, err)
	}
	return &r, nil
}

const reportColumns = `id, student_id, status, notes, submitted_at`

func (r *PgRepository) Create(ctx context.Context, rep *Report) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wellbeing_reports (id, student_id, status, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rep.ID, rep.StudentID, rep.Status.String(), rep.Notes, rep.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *PgRepository) LatestFor(ctx context.Context, studentID uuid.UUID) (*Report, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM wellbeing_reports
		WHERE student_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`, studentID)

	rep, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rep, nil
}

func (r *PgRepository) HistoryFor(ctx context.Context, studentID uuid.UUID) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM wellbeing_reports
		WHERE student_id = $1
		ORDER BY submitted_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReports(rows)
}

func (r *PgRepository) ForSupervisor(ctx context.Context, supervisorID uuid.UUID) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.student_id, r.status, r.notes, r.submitted_at
		FROM wellbeing_reports r
		JOIN users u ON u.id = r.student_id
		WHERE u.supervisor_id = $1
		ORDER BY r.submitted_at DESC
	`, supervisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReports(rows)
}

func (r *PgRepository) LatestPerStudent(ctx context.Context, supervisorID uuid.UUID) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (r.student_id) r.id, r.student_id, r.status, r.notes, r.submitted_at
		FROM wellbeing_reports r
		JOIN users u ON u.id = r.student_id
		WHERE u.supervisor_id = $1
		ORDER BY r.student_id, r.submitted_at DESC
	`, supervisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReports(rows)
}

func (r *PgRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM wellbeing_reports WHERE submitted_at >= $1
	`, since).Scan(&n)
	return n, err
}

func (r *PgRepository) SeverityCountsSince(ctx context.Context, since time.Time) (map[Severity]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*)
		FROM wellbeing_reports
		WHERE submitted_at >= $1
		GROUP BY status
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Severity]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		sev, err := ParseSeverity(status)
		if err != nil {
			return nil, err
		}
		counts[sev] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func collectReports(rows pgx.Rows) ([]Report, error) {
	var result []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rep)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
