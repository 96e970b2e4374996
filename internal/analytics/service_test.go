package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuscare/student-engagement/internal/identity"
	"github.com/campuscare/student-engagement/internal/scheduling"
	"github.com/campuscare/student-engagement/internal/wellbeing"
)

type fixture struct {
	users    *identity.MemoryRepository
	meetings *scheduling.MemoryRepository
	reports  *wellbeing.MemoryRepository
	identity *identity.Service
	svc      *Service
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		users:    identity.NewMemoryRepository(),
		meetings: scheduling.NewMemoryRepository(),
		reports:  wellbeing.NewMemoryRepository(),
	}
	f.identity = identity.NewService(f.users, identity.BcryptHasher{Cost: bcrypt.MinCost})
	f.svc = NewService(f.users, f.meetings, f.reports)
	f.svc.now = func() time.Time { return now }
	return f
}

func (f *fixture) addSupervisor(t *testing.T, name, email, ref string) *identity.User {
	t.Helper()
	u, err := f.identity.RegisterSupervisor(context.Background(), name, email, ref, "secret")
	require.NoError(t, err)
	return u
}

func (f *fixture) addStudent(t *testing.T, name, email, ref string, supervisorID uuid.UUID) *identity.User {
	t.Helper()
	u, err := f.identity.RegisterStudent(context.Background(), name, email, ref, "secret", supervisorID)
	require.NoError(t, err)
	return u
}

func (f *fixture) addReport(t *testing.T, studentID uuid.UUID, status wellbeing.Severity, at time.Time) {
	t.Helper()
	err := f.reports.Create(context.Background(), &wellbeing.Report{
		ID:          uuid.New(),
		StudentID:   studentID,
		Status:      status,
		SubmittedAt: at,
	})
	require.NoError(t, err)
}

func (f *fixture) addMeeting(t *testing.T, studentID, supervisorID uuid.UUID, at time.Time, completed bool) {
	t.Helper()
	slot := &scheduling.AvailabilitySlot{
		ID:           uuid.New(),
		SupervisorID: supervisorID,
		Start:        at,
		End:          at.Add(time.Hour),
	}
	require.NoError(t, f.meetings.CreateSlot(context.Background(), slot))
	m := &scheduling.Meeting{
		ID:           uuid.New(),
		SlotID:       slot.ID,
		BookedByID:   studentID,
		BookedWithID: supervisorID,
		Title:        "Check-in",
	}
	require.NoError(t, f.meetings.BookSlot(context.Background(), m))
	if completed {
		_, err := f.meetings.CompleteElapsed(context.Background(), at.Add(time.Minute))
		require.NoError(t, err)
	}
}

func TestCohortSnapshot(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	sup := f.addSupervisor(t, "Dana Holt", "dana@campus.test", "PS0001")
	s1 := f.addStudent(t, "Ari Chen", "ari@campus.test", "SE000001", sup.ID)
	s2 := f.addStudent(t, "Bo Lund", "bo@campus.test", "SE000002", sup.ID)

	f.addReport(t, s1.ID, wellbeing.SeverityOkay, now.Add(-24*time.Hour))
	f.addReport(t, s2.ID, wellbeing.SeverityInCrisis, now.Add(-48*time.Hour))
	// Outside the 30-day window; must not be counted.
	f.addReport(t, s1.ID, wellbeing.SeverityOkay, now.Add(-40*24*time.Hour))

	f.addMeeting(t, s1.ID, sup.ID, now.Add(-72*time.Hour), true)
	f.addMeeting(t, s2.ID, sup.ID, now.Add(24*time.Hour), false)

	snap, err := f.svc.Cohort(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, snap.TotalStudents)
	require.Equal(t, 2, snap.TotalReports)
	require.Equal(t, 1, snap.SeverityBreakdown["okay"])
	require.Equal(t, 1, snap.SeverityBreakdown["in_crisis"])
	require.Equal(t, 1, snap.CompletedMeetings)
	require.Equal(t, 30, snap.WindowDays)
}

func TestSupervisorEngagement(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	busy := f.addSupervisor(t, "Dana Holt", "dana@campus.test", "PS0001")
	quiet := f.addSupervisor(t, "Zoe Park", "zoe@campus.test", "PS0002")

	s1 := f.addStudent(t, "Ari Chen", "ari@campus.test", "SE000001", busy.ID)
	s2 := f.addStudent(t, "Bo Lund", "bo@campus.test", "SE000002", busy.ID)
	f.addStudent(t, "Cy Wren", "cy@campus.test", "SE000003", quiet.ID)

	f.addMeeting(t, s1.ID, busy.ID, now.Add(-24*time.Hour), true)
	f.addMeeting(t, s2.ID, busy.ID, now.Add(48*time.Hour), false)

	engagement, err := f.svc.SupervisorEngagement(context.Background())
	require.NoError(t, err)
	require.Len(t, engagement, 2)

	// Listed alphabetically by name.
	require.Equal(t, "Dana Holt", engagement[0].SupervisorName)
	require.Equal(t, 2, engagement[0].StudentCount)
	require.Equal(t, 2, engagement[0].MeetingCount)

	require.Equal(t, "Zoe Park", engagement[1].SupervisorName)
	require.Equal(t, 1, engagement[1].StudentCount)
	require.Equal(t, 0, engagement[1].MeetingCount)
}
