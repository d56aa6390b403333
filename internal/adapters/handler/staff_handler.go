package handler

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

type StaffHandler struct {
	guard  ports.AuthorizationGuard
	staff  ports.StaffService
	logger *zap.Logger
}

func NewStaffHandler(guard ports.AuthorizationGuard, staff ports.StaffService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{guard: guard, staff: staff, logger: logger}
}

// List returns one page of staff rows with their details. Admin only.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleAdmin); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	size, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil || size < 1 {
		size = domain.DefaultPageSize
	}
	page := domain.NewPage(r.FormValue("page"), size)

	out, err := h.staff.List(r.Context(), page)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if out.Rows == nil {
		out.Rows = []domain.StaffRow{}
	}
	writeJSON(w, http.StatusOK, staffListResponse{
		response: success(""),
		Data:     out.Rows,
		Total:    out.Total,
	})
}

// UpdateDetails applies a partial update: fields absent from the request
// keep their stored value, while supplied-but-empty fields overwrite.
func (h *StaffHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleAdmin); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	staffID, err := formID(r, "staff_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing staff ID")
		return
	}

	patch := domain.StaffPatch{StaffID: staffID}
	if v, ok := formField(r, "full_name"); ok {
		patch.FullName = &v
	}
	if v, ok := formField(r, "phone"); ok {
		patch.Phone = &v
	}
	if v, ok := formField(r, "dob"); ok {
		patch.DOB = &v
	}
	if v, ok := formField(r, "notes"); ok {
		patch.Notes = &v
	}
	if v, ok := formField(r, "salary_per_hour"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid salary value")
			return
		}
		patch.SalaryPerHour = &rate
	}

	if err := h.staff.UpdateDetails(r.Context(), patch); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, success("Staff details updated successfully!"))
}

// Salary reports hours worked, hourly rate and the computed total for the
// requested period. Admins may target anyone; staff only themselves, and
// the target defaults to the caller.
func (h *StaffHandler) Salary(w http.ResponseWriter, r *http.Request) {
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

	targetID := ident.ActorID
	if raw := r.FormValue("staff_id"); raw != "" {
		targetID, err = formID(r, "staff_id")
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
	}
	if actor.Role == domain.RoleStaff && targetID != actor.ID {
		writeDomainError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	period, err := domain.ParsePeriod(r.FormValue("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing period value (day/week/month/all)")
		return
	}

	statement, err := h.staff.Salary(r.Context(), targetID, period)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{response: success(""), Data: statement})
}

// Schedule lists a staff member's appointments, optionally narrowed to
// today or a date range. mode=today wins over a supplied range.
func (h *StaffHandler) Schedule(w http.ResponseWriter, r *http.Request) {
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

	targetID := ident.ActorID
	if raw := r.FormValue("staff_id"); raw != "" {
		targetID, err = formID(r, "staff_id")
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
	} else if actor.Role == domain.RoleAdmin {
		writeError(w, http.StatusBadRequest, "Missing staff ID")
		return
	}
	if actor.Role == domain.RoleStaff && targetID != actor.ID {
		writeDomainError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	window := domain.ScheduleWindow{
		Today: r.FormValue("mode") == "today",
		From:  r.FormValue("date_from"),
		To:    r.FormValue("date_to"),
	}

	rows, err := h.staff.Schedule(r.Context(), targetID, window)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if rows == nil {
		rows = []domain.AppointmentRow{}
	}
	writeJSON(w, http.StatusOK, dataResponse{response: success(""), Data: rows})
}

// CheckIn opens a work log entry for the calling staff member.
func (h *StaffHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.attendance(w, r, h.staff.CheckIn, "Checked in successfully!")
}

// CheckOut closes the open work log entry and derives its duration.
func (h *StaffHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.attendance(w, r, h.staff.CheckOut, "Checked out successfully!")
}

func (h *StaffHandler) attendance(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, staffID int64) (domain.WorkLogEntry, error),
	message string,
) {
	ident, err := resolveIdentity(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.guard.Authorize(r.Context(), ident, domain.RoleStaff); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	entry, err := op(r.Context(), ident.ActorID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{response: success(message), Data: entry})
}
