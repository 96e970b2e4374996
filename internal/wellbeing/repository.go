package wellbeing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCadenceViolation = errors.New("only one well-being report may be submitted per week")
	ErrNotesTooLong     = errors.New("notes limited to 500 characters")
	ErrInvalidSeverity  = errors.New("unknown severity status")
	ErrUnknownStudent   = errors.New("student does not resolve to a known user")
)

// Repository contains all report storage interactions. LatestFor
// returns (nil, nil) when the student has never submitted.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	LatestFor(ctx context.Context, studentID uuid.UUID) (*Report, error)

	// HistoryFor returns the student's reports, newest first.
	HistoryFor(ctx context.Context, studentID uuid.UUID) ([]Report, error)

	// ForSupervisor returns reports of every student assigned to the
	// supervisor, newest first.
	ForSupervisor(ctx context.Context, supervisorID uuid.UUID) ([]Report, error)

	// LatestPerStudent returns the most recent report of each of the
	// supervisor's students, one per student.
	LatestPerStudent(ctx context.Context, supervisorID uuid.UUID) ([]Report, error)

	// Aggregations for the cohort analytics view.
	CountSince(ctx context.Context, since time.Time) (int, error)
	SeverityCountsSince(ctx context.Context, since time.Time) (map[Severity]int, error)
}
