package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/campuscare/student-engagement/internal/scheduling"
)

func bookMeetingHandler(svc *scheduling.Booking) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookMeetingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		slotID, err := uuid.Parse(req.SlotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slot_id must be a valid UUID")
			return
		}

		bookedBy, err := uuid.Parse(req.BookedBy)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booked_by", "booked_by must be a valid UUID")
			return
		}

		bookedWith, err := uuid.Parse(req.BookedWith)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booked_with", "booked_with must be a valid UUID")
			return
		}

		meeting, err := svc.Book(r.Context(), bookedBy, bookedWith, slotID, req.Title, req.Description)
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMeetingResponse(meeting))
	}
}

func cancelMeetingHandler(svc *scheduling.Booking) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meetingID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req CancelMeetingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		cancelledBy, err := uuid.Parse(req.CancelledBy)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_cancelled_by", "cancelled_by must be a valid UUID")
			return
		}

		meeting, err := svc.Cancel(r.Context(), meetingID, cancelledBy)
		if err != nil {
			if errors.Is(err, scheduling.ErrMeetingNotFound) {
				writeError(w, http.StatusNotFound, "meeting_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toMeetingResponse(meeting))
	}
}

func listUserMeetingsHandler(svc *scheduling.Booking) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		meetings, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]MeetingResponse, 0, len(meetings))
		for i := range meetings {
			out = append(out, toMeetingResponse(&meetings[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, scheduling.ErrUnknownParticipant):
		writeError(w, http.StatusNotFound, "unknown_participant", err.Error())
	case errors.Is(err, scheduling.ErrTitleInvalid):
		writeError(w, http.StatusUnprocessableEntity, "invalid_title", err.Error())
	case errors.Is(err, scheduling.ErrDescriptionTooLong):
		writeError(w, http.StatusUnprocessableEntity, "description_too_long", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
