package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

type AppointmentHandler struct {
	guard        ports.AuthorizationGuard
	appointments ports.AppointmentService
	logger       *zap.Logger
}

func NewAppointmentHandler(guard ports.AuthorizationGuard, appointments ports.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{guard: guard, appointments: appointments, logger: logger}
}

// Cancel lets a client cancel their own pending or confirmed appointment.
// The returned data block is the pre-cancel snapshot used for notification.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Appointment cancellation failure")
		return
	}

	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleClient); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	appointmentID, err := formID(r, "appointment_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing appointment ID")
		return
	}

	snapshot, err := h.appointments.Cancel(r.Context(), appointmentID, ident.ActorID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{
		response: success("Appointment cancelled successfully!"),
		Data:     snapshot,
	})
}

// Edit rewrites service, date and time on the client's own appointment.
func (h *AppointmentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleClient); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	appointmentID, err := formID(r, "appointment_id")
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	serviceID, err := formID(r, "service_id")
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	err = h.appointments.Edit(r.Context(), appointmentID, ident.ActorID, serviceID,
		r.FormValue("date"), r.FormValue("time"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, success("Appointment updated successfully!"))
}

// Mine lists the calling client's own appointments, newest first.
func (h *AppointmentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleClient); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	rows, err := h.appointments.ListForClient(r.Context(), ident.ActorID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if rows == nil {
		rows = []domain.AppointmentRow{}
	}
	writeJSON(w, http.StatusOK, dataResponse{response: success(""), Data: rows})
}

// List is the admin listing: named filter plus filter-specific parameter
// plus page number, fixed page size.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleAdmin); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	filter, err := domain.ParseAppointmentFilter(r.FormValue("filter"), map[string]string{
		"client_name": r.FormValue("client_name"),
		"staff_name":  r.FormValue("staff_name"),
		"date":        r.FormValue("date"),
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	page := domain.NewPage(r.FormValue("page"), domain.DefaultPageSize)

	out, err := h.appointments.ListAll(r.Context(), filter, page)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if out.Rows == nil {
		out.Rows = []domain.AppointmentRow{}
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		response:     success(""),
		Data:         out.Rows,
		TotalResults: out.TotalResults,
		TotalPages:   out.TotalPages,
	})
}

// Assign points an appointment at a staff member. Admin only.
func (h *AppointmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleAdmin); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	appointmentID, err := formID(r, "appointment_id")
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	staffID, err := formID(r, "staff_id")
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	if err := h.appointments.AssignStaff(r.Context(), appointmentID, staffID); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, success("Staff assigned successfully!"))
}

// UpdateStatus moves an appointment forward through its lifecycle. Admins
// may touch any row; staff only rows assigned to them.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	actor, err := h.guard.Authorize(r.Context(), ident, domain.RoleAdmin, domain.RoleStaff)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	appointmentID, err := formID(r, "appointment_id")
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	snapshot, err := h.appointments.UpdateStatus(r.Context(), appointmentID, r.FormValue("status"), actor)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{
		response: success("Appointment status updated successfully!"),
		Data:     snapshot,
	})
}
