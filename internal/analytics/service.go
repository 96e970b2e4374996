// Package analytics builds cohort-level read models over the identity,
// scheduling, and wellbeing stores. Pure aggregation; it owns no state
// and enforces no invariants.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/campuscare/student-engagement/internal/identity"
	"github.com/campuscare/student-engagement/internal/scheduling"
	"github.com/campuscare/student-engagement/internal/wellbeing"
)

// Window is how far back the cohort aggregations look.
const Window = 30 * 24 * time.Hour

type CohortSnapshot struct {
	TotalStudents     int            `json:"total_students"`
	TotalReports      int            `json:"total_reports"`
	SeverityBreakdown map[string]int `json:"severity_breakdown"`
	CompletedMeetings int            `json:"completed_meetings"`
	WindowDays        int            `json:"window_days"`
}

type SupervisorEngagement struct {
	SupervisorID   string `json:"supervisor_id"`
	SupervisorName string `json:"supervisor_name"`
	StudentCount   int    `json:"student_count"`
	MeetingCount   int    `json:"meeting_count"`
}

type Service struct {
	users    identity.Repository
	meetings scheduling.Repository
	reports  wellbeing.Repository

	now func() time.Time
}

func NewService(users identity.Repository, meetings scheduling.Repository, reports wellbeing.Repository) *Service {
	return &Service{
		users:    users,
		meetings: meetings,
		reports:  reports,
		now:      time.Now,
	}
}

func (s *Service) Cohort(ctx context.Context) (*CohortSnapshot, error) {
	since := s.now().Add(-Window)

	students, err := s.users.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}

	reports, err := s.reports.CountSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	severities, err := s.reports.SeverityCountsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("severity counts: %w", err)
	}
	breakdown := make(map[string]int, len(severities))
	for sev, n := range severities {
		breakdown[sev.String()] = n
	}

	completed, err := s.meetings.CountCompletedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count completed meetings: %w", err)
	}

	return &CohortSnapshot{
		TotalStudents:     students,
		TotalReports:      reports,
		SeverityBreakdown: breakdown,
		CompletedMeetings: completed,
		WindowDays:        int(Window.Hours() / 24),
	}, nil
}

func (s *Service) SupervisorEngagement(ctx context.Context) ([]SupervisorEngagement, error) {
	since := s.now().Add(-Window)

	supervisors, err := s.users.ListSupervisors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list supervisors: %w", err)
	}

	result := make([]SupervisorEngagement, 0, len(supervisors))
	for _, sup := range supervisors {
		students, err := s.users.ListStudentsOf(ctx, sup.ID)
		if err != nil {
			return nil, fmt.Errorf("list students of %s: %w", sup.ID, err)
		}

		meetings, err := s.meetings.CountWithUserSince(ctx, sup.ID, since)
		if err != nil {
			return nil, fmt.Errorf("count meetings of %s: %w", sup.ID, err)
		}

		result = append(result, SupervisorEngagement{
			SupervisorID:   sup.ID.String(),
			SupervisorName: sup.Name,
			StudentCount:   len(students),
			MeetingCount:   meetings,
		})
	}
	return result, nil
}
