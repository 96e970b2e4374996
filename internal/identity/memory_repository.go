package identity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository used by tests and by the
// single-node demo wiring. It holds copies, never aliases.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[uuid.UUID]User)}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

func (r *MemoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *MemoryRepository) StudentRefExists(ctx context.Context, ref string) (bool, error) {
	ref = NormalizeRef(ref)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Student != nil && u.Student.StudentRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) StaffRefExists(ctx context.Context, ref string) (bool, error) {
	ref = NormalizeRef(ref)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Staff != nil && u.Staff.StaffRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryRepository) ListSupervisors(ctx context.Context) ([]User, error) {
	return r.listByRole(RoleSupervisor, func(u User) bool { return true }), nil
}

func (r *MemoryRepository) ListStudentsOf(ctx context.Context, supervisorID uuid.UUID) ([]User, error) {
	return r.listByRole(RoleStudent, func(u User) bool {
		return u.Student != nil && u.Student.SupervisorID == supervisorID
	}), nil
}

func (r *MemoryRepository) CountStudents(ctx context.Context) (int, error) {
	return len(r.listByRole(RoleStudent, func(u User) bool { return true })), nil
}

func (r *MemoryRepository) listByRole(role Role, keep func(User) bool) []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []User
	for _, u := range r.users {
		if u.Role == role && keep(u) {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
