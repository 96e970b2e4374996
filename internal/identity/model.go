package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent     Role = "student"
	RoleSupervisor  Role = "personal_supervisor"
	RoleSeniorTutor Role = "senior_tutor"
)

// User is a role-tagged record. Shared fields live here; role-specific
// data hangs off exactly one of the profile pointers, selected by Role:
// Student is non-nil iff the role is RoleStudent, Staff is non-nil for
// the two staff roles.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordDigest string
	Role           Role
	Student        *StudentProfile
	Staff          *StaffProfile
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StudentProfile carries the student's external identifier and the one
// personal supervisor assigned at registration.
type StudentProfile struct {
	StudentRef   string
	SupervisorID uuid.UUID
}

type StaffProfile struct {
	StaffRef string
}

// IsStaff reports whether the user holds one of the staff roles.
func (u *User) IsStaff() bool {
	return u.Role == RoleSupervisor || u.Role == RoleSeniorTutor
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeRef upper-cases and trims a student or staff identifier.
func NormalizeRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}
