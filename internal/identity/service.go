package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrStudentRefTaken    = errors.New("student identifier already registered")
	ErrStaffRefTaken      = errors.New("staff identifier already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
)

// Service handles registration and authentication. Both are external
// collaborators from the booking engine's point of view; they live here
// so the API layer has a single place to resolve users.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) RegisterStudent(ctx context.Context, name, email, studentRef, password string, supervisorID uuid.UUID) (*User, error) {
	if err := s.checkCommon(ctx, name, email); err != nil {
		return nil, err
	}

	ref := NormalizeRef(studentRef)
	taken, err := s.repo.StudentRefExists(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("check student ref: %w", err)
	}
	if taken {
		return nil, ErrStudentRefTaken
	}

	supervisor, err := s.repo.GetByID(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("load supervisor: %w", err)
	}
	if supervisor.Role != RoleSupervisor {
		return nil, ErrSupervisorNotFound
	}

	u, err := s.newUser(name, email, password, RoleStudent)
	if err != nil {
		return nil, err
	}
	u.Student = &StudentProfile{StudentRef: ref, SupervisorID: supervisorID}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return u, nil
}

func (s *Service) RegisterSupervisor(ctx context.Context, name, email, staffRef, password string) (*User, error) {
	return s.registerStaff(ctx, name, email, staffRef, password, RoleSupervisor)
}

func (s *Service) RegisterSeniorTutor(ctx context.Context, name, email, staffRef, password string) (*User, error) {
	return s.registerStaff(ctx, name, email, staffRef, password, RoleSeniorTutor)
}

func (s *Service) registerStaff(ctx context.Context, name, email, staffRef, password string, role Role) (*User, error) {
	if err := s.checkCommon(ctx, name, email); err != nil {
		return nil, err
	}

	ref := NormalizeRef(staffRef)
	taken, err := s.repo.StaffRefExists(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("check staff ref: %w", err)
	}
	if taken {
		return nil, ErrStaffRefTaken
	}

	u, err := s.newUser(name, email, password, role)
	if err != nil {
		return nil, err
	}
	u.Staff = &StaffProfile{StaffRef: ref}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create %s: %w", role, err)
	}
	return u, nil
}

// Authenticate verifies credentials and returns the matching user.
// Missing user and wrong password collapse into one error so the API
// does not leak which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordDigest) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Supervisors(ctx context.Context) ([]User, error) {
	return s.repo.ListSupervisors(ctx)
}

func (s *Service) checkCommon(ctx context.Context, name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}

	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) newUser(name, email, password string, role Role) (*User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		Email:          NormalizeEmail(email),
		PasswordDigest: digest,
		Role:           role,
	}, nil
}
