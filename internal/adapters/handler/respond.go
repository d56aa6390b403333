package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
)

// response is the body contract shared by every endpoint: callers branch on
// the status field, not the HTTP code, so the envelope is always present.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type dataResponse struct {
	response
	Data any `json:"data"`
}

// pagedResponse is the admin appointment listing envelope.
type pagedResponse struct {
	response
	Data         []domain.AppointmentRow `json:"data"`
	TotalResults int                     `json:"total_results"`
	TotalPages   int                     `json:"total_pages"`
}

// staffListResponse is the staff listing envelope.
type staffListResponse struct {
	response
	Data  []domain.StaffRow `json:"data"`
	Total int               `json:"total"`
}

func success(message string) response {
	return response{Status: "success", Message: message}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, response{Status: "error", Message: message})
}

// writeDomainError renders a core error into the envelope. Authorization
// failures stay deliberately uniform; anything outside the taxonomy is a
// store error and gets logged with its cause.
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingIdentity):
		writeError(w, http.StatusUnauthorized, "Missing user ID or role")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized access")
	case errors.Is(err, domain.ErrMissingFilterParameter):
		writeError(w, http.StatusBadRequest, "Missing parameter for this filter")
	case errors.Is(err, domain.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, "Invalid filter")
	case errors.Is(err, domain.ErrMissingParameter):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, domain.ErrAlreadyFinalized):
		writeError(w, http.StatusConflict, "Cannot modify this appointment")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Invalid status transition")
	case errors.Is(err, domain.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "Invalid staff ID or user is not a staff member")
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		writeError(w, http.StatusConflict, "Already checked in")
	case errors.Is(err, domain.ErrNotCheckedIn):
		writeError(w, http.StatusConflict, "Not checked in")
	default:
		logger.Error("store error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "SQL execution error")
	}
}
