package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/campuscare/student-engagement/internal/identity"
)

func registerStudentHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterStudentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		supervisorID, err := uuid.Parse(req.SupervisorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_supervisor_id", "supervisor_id must be a valid UUID")
			return
		}

		user, err := svc.RegisterStudent(r.Context(), req.Name, req.Email, req.StudentRef, req.Password, supervisorID)
		if err != nil {
			handleRegisterError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(user))
	}
}

func registerStaffHandler(register func(r *http.Request, req RegisterStaffRequest) (*identity.User, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		user, err := register(r, req)
		if err != nil {
			handleRegisterError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(user))
	}
}

func loginHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		user, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}

func listSupervisorsHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supervisors, err := svc.Supervisors(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]UserResponse, 0, len(supervisors))
		for i := range supervisors {
			out = append(out, toUserResponse(&supervisors[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, identity.ErrStudentRefTaken):
		writeError(w, http.StatusConflict, "student_ref_taken", err.Error())
	case errors.Is(err, identity.ErrStaffRefTaken):
		writeError(w, http.StatusConflict, "staff_ref_taken", err.Error())
	case errors.Is(err, identity.ErrSupervisorNotFound):
		writeError(w, http.StatusNotFound, "supervisor_not_found", err.Error())
	case errors.Is(err, identity.ErrNameRequired):
		writeError(w, http.StatusUnprocessableEntity, "name_required", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
