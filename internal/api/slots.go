package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuscare/student-engagement/internal/scheduling"
)

func addSlotHandler(svc *scheduling.Availability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisorID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req AddSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		slot, err := svc.AddSlot(r.Context(), supervisorID, req.Start, req.End)
		if err != nil {
			handleSlotError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSlotResponse(slot))
	}
}

func listAllSlotsHandler(svc *scheduling.Availability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisorID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		slots, err := svc.ListAll(r.Context(), supervisorID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, slotResponses(slots))
	}
}

func listFreeSlotsHandler(svc *scheduling.Availability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisorID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		slots, err := svc.ListFreeUpcoming(r.Context(), supervisorID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, slotResponses(slots))
	}
}

func handleSlotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrInvalidRange):
		writeError(w, http.StatusUnprocessableEntity, "invalid_range", err.Error())
	case errors.Is(err, scheduling.ErrPastSlot):
		writeError(w, http.StatusUnprocessableEntity, "past_slot", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func slotResponses(slots []scheduling.AvailabilitySlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return out
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
