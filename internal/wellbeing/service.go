package wellbeing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/locking"
	"github.com/campuscare/student-engagement/internal/metrics"
)

// StudentDirectory resolves student ids. Satisfied by the identity
// repository.
type StudentDirectory interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service enforces the one-report-per-week cadence and routes severe
// reports to the escalation hook. The check-then-write in Submit runs
// under a per-student lock so two racing submissions inside the window
// cannot both land.
type Service struct {
	repo     Repository
	students StudentDirectory
	locker   locking.Locker
	hook     EscalationHook
	log      *zap.Logger

	now func() time.Time
}

func NewService(repo Repository, students StudentDirectory, locker locking.Locker, hook EscalationHook, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		students: students,
		locker:   locker,
		hook:     hook,
		log:      log,
		now:      time.Now,
	}
}

// CanSubmit reports whether the student is outside the cadence window.
// The boundary is inclusive: exactly CadenceWindow after the last
// submission the student may submit again.
func (s *Service) CanSubmit(ctx context.Context, studentID uuid.UUID) (bool, error) {
	latest, err := s.repo.LatestFor(ctx, studentID)
	if err != nil {
		return false, fmt.Errorf("load latest report: %w", err)
	}
	if latest == nil {
		return true, nil
	}
	return !latest.SubmittedAt.After(s.now().Add(-CadenceWindow)), nil
}

// Submit validates, persists, and possibly escalates a report. The
// escalation hook runs after the durable write and can neither fail nor
// roll back the submission.
func (s *Service) Submit(ctx context.Context, studentID uuid.UUID, status Severity, notes string) (*Report, error) {
	if !status.Valid() {
		return nil, ErrInvalidSeverity
	}

	ok, err := s.students.UserExists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("resolve student: %w", err)
	}
	if !ok {
		return nil, ErrUnknownStudent
	}

	var report *Report

	err = s.locker.WithLock(ctx, "student:"+studentID.String(), func(lockCtx context.Context) error {
		can, err := s.CanSubmit(lockCtx, studentID)
		if err != nil {
			return err
		}
		if !can {
			return ErrCadenceViolation
		}
		if len(notes) > MaxNotesLen {
			return ErrNotesTooLong
		}

		report = &Report{
			ID:          uuid.New(),
			StudentID:   studentID,
			Status:      status,
			Notes:       notes,
			SubmittedAt: s.now(),
		}
		if err := s.repo.Create(lockCtx, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		return nil
	})
	if err != nil {
		// A contended lock means another submission from this student is
		// mid-flight; treat it as the cadence rejection it will become.
		if errors.Is(err, locking.ErrNotAcquired) {
			err = ErrCadenceViolation
		}
		if errors.Is(err, ErrCadenceViolation) || errors.Is(err, ErrNotesTooLong) {
			metrics.ObserveReport("rejected", status.String())
			return nil, err
		}
		metrics.ObserveReport("error", status.String())
		return nil, err
	}

	metrics.ObserveReport("success", status.String())

	if status.Escalates() {
		s.escalate(ctx, report)
	}

	return report, nil
}

func (s *Service) HistoryFor(ctx context.Context, studentID uuid.UUID) ([]Report, error) {
	return s.repo.HistoryFor(ctx, studentID)
}

func (s *Service) ForSupervisor(ctx context.Context, supervisorID uuid.UUID) ([]Report, error) {
	return s.repo.ForSupervisor(ctx, supervisorID)
}

// NeedingAttention is the triage view: the latest report of each of the
// supervisor's students, filtered to those at Struggling or worse.
func (s *Service) NeedingAttention(ctx context.Context, supervisorID uuid.UUID) ([]Report, error) {
	latest, err := s.repo.LatestPerStudent(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	var flagged []Report
	for _, rep := range latest {
		if rep.Status.Escalates() {
			flagged = append(flagged, rep)
		}
	}
	return flagged, nil
}

// escalate invokes the hook behind a recover guard. A panicking hook is
// a hook bug; the submission already succeeded and stays that way.
func (s *Service) escalate(ctx context.Context, r *Report) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("escalation hook panicked",
				zap.Any("panic", p),
				zap.String("report_id", r.ID.String()))
		}
	}()

	metrics.ObserveEscalation()
	s.hook.Escalate(ctx, r)
}
