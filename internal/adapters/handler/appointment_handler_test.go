package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

func newAppointmentHandler(guard *mockGuard, svc *mockAppointmentService) *AppointmentHandler {
	return NewAppointmentHandler(guard, svc, zap.NewNop())
}

func clientForm(extra url.Values) url.Values {
	form := url.Values{"user_id": {"7"}, "role": {"client"}}
	for k, vs := range extra {
		form[k] = vs
	}
	return form
}

func TestCancelRejectsNonPost(t *testing.T) {
	h := newAppointmentHandler(&mockGuard{}, &mockAppointmentService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/appointments/cancel", nil)
	h.Cancel(rec, req)

	assertEnvelope(t, rec, http.StatusMethodNotAllowed, "error", "Appointment cancellation failure")
}

func TestCancelMissingIdentity(t *testing.T) {
	h := newAppointmentHandler(&mockGuard{}, &mockAppointmentService{})

	rec := httptest.NewRecorder()
	h.Cancel(rec, postForm("/api/appointments/cancel", url.Values{"appointment_id": {"11"}}))

	assertEnvelope(t, rec, http.StatusUnauthorized, "error", "Missing user ID or role")
}

func TestCancelUnauthorizedIsUniform(t *testing.T) {
	guard := &mockGuard{Err: domain.ErrUnauthorized}
	h := newAppointmentHandler(guard, &mockAppointmentService{})

	rec := httptest.NewRecorder()
	h.Cancel(rec, postForm("/api/appointments/cancel", clientForm(url.Values{"appointment_id": {"11"}})))

	assertEnvelope(t, rec, http.StatusUnauthorized, "error", "Unauthorized access")
	if len(guard.AllowedCalls) != 1 || guard.AllowedCalls[0][0] != domain.RoleClient {
		t.Errorf("cancel must be client-gated, got %v", guard.AllowedCalls)
	}
}

func TestCancelMissingAppointmentID(t *testing.T) {
	h := newAppointmentHandler(&mockGuard{}, &mockAppointmentService{})

	rec := httptest.NewRecorder()
	h.Cancel(rec, postForm("/api/appointments/cancel", clientForm(nil)))

	assertEnvelope(t, rec, http.StatusBadRequest, "error", "Missing appointment ID")
}

func TestCancelSuccessReturnsSnapshot(t *testing.T) {
	svc := &mockAppointmentService{
		CancelSnapshot: domain.AppointmentSnapshot{
			AppointmentID: 11,
			ServiceName:   "Haircut",
			Status:        domain.StatusConfirmed,
		},
	}
	h := newAppointmentHandler(&mockGuard{}, svc)

	rec := httptest.NewRecorder()
	h.Cancel(rec, postForm("/api/appointments/cancel", clientForm(url.Values{"appointment_id": {"11"}})))

	body := assertEnvelope(t, rec, http.StatusOK, "success", "Appointment cancelled successfully!")
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data block: %v", body)
	}
	if data["appointment_id"] != float64(11) || data["service_name"] != "Haircut" {
		t.Errorf("snapshot data mismatch: %v", data)
	}
}

func TestCancelFinalizedConflict(t *testing.T) {
	svc := &mockAppointmentService{CancelErr: domain.ErrAlreadyFinalized}
	h := newAppointmentHandler(&mockGuard{}, svc)

	rec := httptest.NewRecorder()
	h.Cancel(rec, postForm("/api/appointments/cancel", clientForm(url.Values{"appointment_id": {"11"}})))

	assertEnvelope(t, rec, http.StatusConflict, "error", "Cannot modify this appointment")
}

func TestMineReturnsEmptyArrayNotNull(t *testing.T) {
	h := newAppointmentHandler(&mockGuard{}, &mockAppointmentService{})

	rec := httptest.NewRecorder()
	h.Mine(rec, postForm("/api/appointments/mine", clientForm(nil)))

	body := assertEnvelope(t, rec, http.StatusOK, "success", "")
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("data must be an array, got %T", body["data"])
	}
	if len(data) != 0 {
		t.Errorf("expected empty array, got %v", data)
	}
}

func TestListRequiresAdmin(t *testing.T) {
	guard := &mockGuard{}
	h := newAppointmentHandler(guard, &mockAppointmentService{})

	rec := httptest.NewRecorder()
	form := url.Values{"user_id": {"1"}, "role": {"admin"}}
	h.List(rec, postForm("/api/appointments", form))

	if len(guard.AllowedCalls) != 1 || len(guard.AllowedCalls[0]) != 1 || guard.AllowedCalls[0][0] != domain.RoleAdmin {
		t.Errorf("listing must be admin-gated, got %v", guard.AllowedCalls)
	}
}

func TestListEnvelopeCarriesTotals(t *testing.T) {
	svc := &mockAppointmentService{
		ListOut: ports.AppointmentList{
			Rows:         []domain.AppointmentRow{{AppointmentID: 1, ClientName: "Maria"}},
			TotalResults: 95,
			TotalPages:   10,
		},
	}
	h := newAppointmentHandler(&mockGuard{}, svc)

	rec := httptest.NewRecorder()
	form := url.Values{"user_id": {"1"}, "role": {"admin"}, "filter": {"pending"}, "page": {"2"}}
	h.List(rec, postForm("/api/appointments", form))

	body := assertEnvelope(t, rec, http.StatusOK, "success", "")
	if body["total_results"] != float64(95) || body["total_pages"] != float64(10) {
		t.Errorf("totals mismatch: %v", body)
	}
	if svc.ListFilter[0].Kind != domain.FilterPending {
		t.Errorf("filter kind = %d, want pending", svc.ListFilter[0].Kind)
	}
	if svc.ListPages[0].Number != 2 || svc.ListPages[0].Size != domain.DefaultPageSize {
		t.Errorf("page = %+v", svc.ListPages[0])
	}
}

func TestListFilterErrors(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		wantMessage string
	}{
		{
			"unknown_filter",
			url.Values{"filter": {"tomorrow"}},
			"Invalid filter",
		},
		{
			"filter_missing_parameter",
			url.Values{"filter": {"by_client_name"}},
			"Missing parameter for this filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAppointmentHandler(&mockGuard{}, &mockAppointmentService{})

			form := url.Values{"user_id": {"1"}, "role": {"admin"}}
			for k, vs := range tt.form {
				form[k] = vs
			}
			rec := httptest.NewRecorder()
			h.List(rec, postForm("/api/appointments", form))

			assertEnvelope(t, rec, http.StatusBadRequest, "error", tt.wantMessage)
		})
	}
}

func TestAssignStaffNotFound(t *testing.T) {
	svc := &mockAppointmentService{AssignErr: domain.ErrStaffNotFound}
	h := newAppointmentHandler(&mockGuard{}, svc)

	rec := httptest.NewRecorder()
	form := url.Values{"user_id": {"1"}, "role": {"admin"}, "appointment_id": {"20"}, "staff_id": {"99"}}
	h.Assign(rec, postForm("/api/appointments/assign", form))

	assertEnvelope(t, rec, http.StatusNotFound, "error", "Invalid staff ID or user is not a staff member")
}

func TestUpdateStatusPassesGuardActor(t *testing.T) {
	staff := &domain.User{ID: 5, Role: domain.RoleStaff, IsActive: true}
	guard := &mockGuard{User: staff}
	svc := &mockAppointmentService{
		StatusSnapshot: domain.AppointmentSnapshot{AppointmentID: 20, Status: domain.StatusCompleted},
	}
	h := newAppointmentHandler(guard, svc)

	rec := httptest.NewRecorder()
	form := url.Values{"user_id": {"5"}, "role": {"staff"}, "appointment_id": {"20"}, "status": {"completed"}}
	h.UpdateStatus(rec, postForm("/api/appointments/status", form))

	assertEnvelope(t, rec, http.StatusOK, "success", "Appointment status updated successfully!")
	if len(svc.StatusActors) != 1 || svc.StatusActors[0] != staff {
		t.Error("the guard-verified actor must reach the service")
	}
	if svc.StatusRaw[0] != "completed" {
		t.Errorf("raw status = %q", svc.StatusRaw[0])
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	svc := &mockAppointmentService{StatusErr: domain.ErrInvalidTransition}
	h := newAppointmentHandler(&mockGuard{}, svc)

	rec := httptest.NewRecorder()
	form := url.Values{"user_id": {"1"}, "role": {"admin"}, "appointment_id": {"20"}, "status": {"pending"}}
	h.UpdateStatus(rec, postForm("/api/appointments/status", form))

	assertEnvelope(t, rec, http.StatusConflict, "error", "Invalid status transition")
}

func TestEditMissingFields(t *testing.T) {
	svc := &mockAppointmentService{EditErr: domain.ErrMissingParameter}
	h := newAppointmentHandler(&mockGuard{}, svc)

	rec := httptest.NewRecorder()
	form := clientForm(url.Values{"appointment_id": {"11"}, "service_id": {"3"}})
	h.Edit(rec, postForm("/api/appointments/edit", form))

	assertEnvelope(t, rec, http.StatusBadRequest, "error", "Missing required fields")
}
