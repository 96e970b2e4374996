package wellbeing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository used by tests and by the
// single-node demo wiring. Supervisor assignments are registered
// explicitly since there is no users table to join against.
type MemoryRepository struct {
	mu          sync.RWMutex
	reports     []Report
	supervisors map[uuid.UUID]uuid.UUID // studentID -> supervisorID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{supervisors: make(map[uuid.UUID]uuid.UUID)}
}

// AssignStudent records the student's supervisor so ForSupervisor and
// LatestPerStudent can resolve ownership.
func (r *MemoryRepository) AssignStudent(studentID, supervisorID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supervisors[studentID] = supervisorID
}

func (r *MemoryRepository) Create(ctx context.Context, rep *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, *rep)
	return nil
}

func (r *MemoryRepository) LatestFor(ctx context.Context, studentID uuid.UUID) (*Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Report
	for i := range r.reports {
		rep := r.reports[i]
		if rep.StudentID != studentID {
			continue
		}
		if latest == nil || rep.SubmittedAt.After(latest.SubmittedAt) {
			cp := rep
			latest = &cp
		}
	}
	return latest, nil
}

func (r *MemoryRepository) HistoryFor(ctx context.Context, studentID uuid.UUID) ([]Report, error) {
	return r.collect(func(rep Report) bool { return rep.StudentID == studentID }), nil
}

func (r *MemoryRepository) ForSupervisor(ctx context.Context, supervisorID uuid.UUID) ([]Report, error) {
	r.mu.RLock()
	owned := make(map[uuid.UUID]bool)
	for student, supervisor := range r.supervisors {
		if supervisor == supervisorID {
			owned[student] = true
		}
	}
	r.mu.RUnlock()

	return r.collect(func(rep Report) bool { return owned[rep.StudentID] }), nil
}

func (r *MemoryRepository) LatestPerStudent(ctx context.Context, supervisorID uuid.UUID) ([]Report, error) {
	all, err := r.ForSupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	var result []Report
	for _, rep := range all { // newest first, so first hit per student wins
		if seen[rep.StudentID] {
			continue
		}
		seen[rep.StudentID] = true
		result = append(result, rep)
	}
	return result, nil
}

func (r *MemoryRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	return len(r.collect(func(rep Report) bool { return !rep.SubmittedAt.Before(since) })), nil
}

func (r *MemoryRepository) SeverityCountsSince(ctx context.Context, since time.Time) (map[Severity]int, error) {
	counts := make(map[Severity]int)
	for _, rep := range r.collect(func(rep Report) bool { return !rep.SubmittedAt.Before(since) }) {
		counts[rep.Status]++
	}
	return counts, nil
}

func (r *MemoryRepository) collect(keep func(Report) bool) []Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Report
	for _, rep := range r.reports {
		if keep(rep) {
			result = append(result, rep)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result
}
