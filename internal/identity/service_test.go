package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, BcryptHasher{Cost: bcrypt.MinCost}), repo
}

func registerSupervisor(t *testing.T, svc *Service) *User {
	t.Helper()
	u, err := svc.RegisterSupervisor(context.Background(), "Dana Holt", "dana.holt@campus.test", "PS0001", "secret")
	require.NoError(t, err)
	return u
}

func TestRegisterStudent(t *testing.T) {
	svc, _ := newTestService()
	supervisor := registerSupervisor(t, svc)

	u, err := svc.RegisterStudent(context.Background(), "  Ari Chen ", "Ari.Chen@Campus.Test", "se001234", "secret", supervisor.ID)
	require.NoError(t, err)
	require.Equal(t, RoleStudent, u.Role)
	require.Equal(t, "Ari Chen", u.Name)
	require.Equal(t, "ari.chen@campus.test", u.Email)
	require.NotNil(t, u.Student)
	require.Equal(t, "SE001234", u.Student.StudentRef)
	require.Equal(t, supervisor.ID, u.Student.SupervisorID)
	require.NotEqual(t, "secret", u.PasswordDigest)
}

func TestRegisterStudentRequiresExistingSupervisor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RegisterStudent(context.Background(), "Ari Chen", "ari@campus.test", "SE001234", "secret", uuid.New())
	require.ErrorIs(t, err, ErrSupervisorNotFound)
}

func TestRegisterStudentRejectsNonSupervisorRole(t *testing.T) {
	svc, _ := newTestService()
	tutor, err := svc.RegisterSeniorTutor(context.Background(), "May Osei", "may@campus.test", "ST0001", "secret")
	require.NoError(t, err)

	// A senior tutor exists but cannot supervise students.
	_, err = svc.RegisterStudent(context.Background(), "Ari Chen", "ari@campus.test", "SE001234", "secret", tutor.ID)
	require.ErrorIs(t, err, ErrSupervisorNotFound)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	registerSupervisor(t, svc)

	// Same address, different case.
	_, err := svc.RegisterSupervisor(context.Background(), "Other Person", "DANA.HOLT@campus.test", "PS0002", "secret")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsDuplicateRefs(t *testing.T) {
	svc, _ := newTestService()
	supervisor := registerSupervisor(t, svc)

	_, err := svc.RegisterStudent(context.Background(), "Ari Chen", "ari@campus.test", "SE001234", "secret", supervisor.ID)
	require.NoError(t, err)

	_, err = svc.RegisterStudent(context.Background(), "Bo Lund", "bo@campus.test", "se001234", "secret", supervisor.ID)
	require.ErrorIs(t, err, ErrStudentRefTaken)

	_, err = svc.RegisterSupervisor(context.Background(), "Kim Ade", "kim@campus.test", "ps0001", "secret")
	require.ErrorIs(t, err, ErrStaffRefTaken)
}

func TestRegisterRequiresName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RegisterSupervisor(context.Background(), "   ", "x@campus.test", "PS0001", "secret")
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	supervisor := registerSupervisor(t, svc)

	u, err := svc.Authenticate(context.Background(), "DANA.HOLT@campus.test", "secret")
	require.NoError(t, err)
	require.Equal(t, supervisor.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "dana.holt@campus.test", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error as a wrong password.
	_, err = svc.Authenticate(context.Background(), "nobody@campus.test", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSupervisorsListing(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RegisterSupervisor(context.Background(), "Zoe Park", "zoe@campus.test", "PS0002", "secret")
	require.NoError(t, err)
	registerSupervisor(t, svc)
	_, err = svc.RegisterSeniorTutor(context.Background(), "May Osei", "may@campus.test", "ST0001", "secret")
	require.NoError(t, err)

	supervisors, err := svc.Supervisors(context.Background())
	require.NoError(t, err)
	require.Len(t, supervisors, 2)
	require.Equal(t, "Dana Holt", supervisors[0].Name)
	require.Equal(t, "Zoe Park", supervisors[1].Name)
}
