package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuscare/student-engagement/internal/identity"
	"github.com/campuscare/student-engagement/internal/scheduling"
	"github.com/campuscare/student-engagement/internal/wellbeing"
)

type AddSlotRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotResponse struct {
	ID           uuid.UUID `json:"id"`
	SupervisorID uuid.UUID `json:"supervisor_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Booked       bool      `json:"booked"`
}

func toSlotResponse(s *scheduling.AvailabilitySlot) SlotResponse {
	return SlotResponse{
		ID:           s.ID,
		SupervisorID: s.SupervisorID,
		Start:        s.Start,
		End:          s.End,
		Booked:       s.Booked,
	}
}

type BookMeetingRequest struct {
	SlotID      string `json:"slot_id"`
	BookedBy    string `json:"booked_by"`
	BookedWith  string `json:"booked_with"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type CancelMeetingRequest struct {
	CancelledBy string `json:"cancelled_by"`
}

type MeetingResponse struct {
	ID          uuid.UUID `json:"id"`
	SlotID      uuid.UUID `json:"slot_id"`
	BookedBy    uuid.UUID `json:"booked_by"`
	BookedWith  uuid.UUID `json:"booked_with"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}

func toMeetingResponse(m *scheduling.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:          m.ID,
		SlotID:      m.SlotID,
		BookedBy:    m.BookedByID,
		BookedWith:  m.BookedWithID,
		Title:       m.Title,
		Description: m.Description,
		ScheduledAt: m.ScheduledAt,
		Status:      string(m.Status),
	}
}

type SubmitReportRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type ReportResponse struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func toReportResponse(r *wellbeing.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		StudentID:   r.StudentID,
		Status:      r.Status.String(),
		Notes:       r.Notes,
		SubmittedAt: r.SubmittedAt,
	}
}

type EligibilityResponse struct {
	CanSubmit bool `json:"can_submit"`
}

type RegisterStudentRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	StudentRef   string `json:"student_ref"`
	Password     string `json:"password"`
	SupervisorID string `json:"supervisor_id"`
}

type RegisterStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	StaffRef string `json:"staff_ref"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	StudentRef string    `json:"student_ref,omitempty"`
	StaffRef   string    `json:"staff_ref,omitempty"`
	Supervisor string    `json:"supervisor_id,omitempty"`
}

func toUserResponse(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
	if u.Student != nil {
		resp.StudentRef = u.Student.StudentRef
		resp.Supervisor = u.Student.SupervisorID.String()
	}
	if u.Staff != nil {
		resp.StaffRef = u.Staff.StaffRef
	}
	return resp
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
