package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campuscare/student-engagement/internal/wellbeing"
)

func reportEligibilityHandler(svc *wellbeing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		can, err := svc.CanSubmit(r.Context(), studentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, EligibilityResponse{CanSubmit: can})
	}
}

func submitReportHandler(svc *wellbeing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req SubmitReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		status, err := wellbeing.ParseSeverity(req.Status)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid_status", err.Error())
			return
		}

		report, err := svc.Submit(r.Context(), studentID, status, req.Notes)
		if err != nil {
			handleSubmitError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(report))
	}
}

func reportHistoryHandler(svc *wellbeing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		reports, err := svc.HistoryFor(r.Context(), studentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, reportResponses(reports))
	}
}

func supervisorReportsHandler(svc *wellbeing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisorID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		reports, err := svc.ForSupervisor(r.Context(), supervisorID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, reportResponses(reports))
	}
}

func needingAttentionHandler(svc *wellbeing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisorID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		reports, err := svc.NeedingAttention(r.Context(), supervisorID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, reportResponses(reports))
	}
}

func handleSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wellbeing.ErrCadenceViolation):
		writeError(w, http.StatusConflict, "cadence_violation", err.Error())
	case errors.Is(err, wellbeing.ErrNotesTooLong):
		writeError(w, http.StatusUnprocessableEntity, "notes_too_long", err.Error())
	case errors.Is(err, wellbeing.ErrInvalidSeverity):
		writeError(w, http.StatusUnprocessableEntity, "invalid_status", err.Error())
	case errors.Is(err, wellbeing.ErrUnknownStudent):
		writeError(w, http.StatusNotFound, "unknown_student", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func reportResponses(reports []wellbeing.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, toReportResponse(&reports[i]))
	}
	return out
}
