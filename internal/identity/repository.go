package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSupervisorNotFound = errors.New("personal supervisor not found")
)

// Repository contains all user storage interactions needed by the
// registration service and the engines that resolve participants.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)

	// Uniqueness probes used during registration
	EmailExists(ctx context.Context, email string) (bool, error)
	StudentRefExists(ctx context.Context, ref string) (bool, error)
	StaffRefExists(ctx context.Context, ref string) (bool, error)

	Create(ctx context.Context, u *User) error

	// ListSupervisors returns all personal supervisors ordered by name,
	// for the registration flow's supervisor picker.
	ListSupervisors(ctx context.Context) ([]User, error)
	ListStudentsOf(ctx context.Context, supervisorID uuid.UUID) ([]User, error)
	CountStudents(ctx context.Context) (int, error)
}
