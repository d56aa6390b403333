package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

// mockGuard approves or rejects every authorization uniformly and records
// the allowed-role sets it was asked about.
type mockGuard struct {
	User         *domain.User
	Err          error
	AllowedCalls [][]domain.Role
}

func (m *mockGuard) Authorize(ctx context.Context, id domain.Identity, allowed ...domain.Role) (*domain.User, error) {
	m.AllowedCalls = append(m.AllowedCalls, allowed)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.User != nil {
		return m.User, nil
	}
	return &domain.User{ID: id.ActorID, Role: id.Role, IsActive: true}, nil
}

type mockAppointmentService struct {
	CancelSnapshot domain.AppointmentSnapshot
	CancelErr      error

	AssignErr error

	StatusSnapshot domain.AppointmentSnapshot
	StatusErr      error
	StatusActors   []*domain.User
	StatusRaw      []string

	EditErr error

	ListOut    ports.AppointmentList
	ListErr    error
	ListFilter []domain.AppointmentFilter
	ListPages  []domain.Page

	ClientRows []domain.AppointmentRow
	ClientErr  error
}

func (m *mockAppointmentService) Cancel(ctx context.Context, appointmentID, clientID int64) (domain.AppointmentSnapshot, error) {
	return m.CancelSnapshot, m.CancelErr
}

func (m *mockAppointmentService) AssignStaff(ctx context.Context, appointmentID, staffID int64) error {
	return m.AssignErr
}

func (m *mockAppointmentService) UpdateStatus(ctx context.Context, appointmentID int64, rawStatus string, actor *domain.User) (domain.AppointmentSnapshot, error) {
	m.StatusActors = append(m.StatusActors, actor)
	m.StatusRaw = append(m.StatusRaw, rawStatus)
	return m.StatusSnapshot, m.StatusErr
}

func (m *mockAppointmentService) Edit(ctx context.Context, appointmentID, clientID, serviceID int64, date, timeOfDay string) error {
	return m.EditErr
}

func (m *mockAppointmentService) ListAll(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) (ports.AppointmentList, error) {
	m.ListFilter = append(m.ListFilter, filter)
	m.ListPages = append(m.ListPages, page)
	return m.ListOut, m.ListErr
}

func (m *mockAppointmentService) ListForClient(ctx context.Context, clientID int64) ([]domain.AppointmentRow, error) {
	return m.ClientRows, m.ClientErr
}

type mockStaffService struct {
	ListOut ports.StaffList
	ListErr error
	Pages   []domain.Page

	UpdateErr     error
	UpdatePatches []domain.StaffPatch

	ScheduleRows    []domain.AppointmentRow
	ScheduleErr     error
	ScheduleTargets []int64
	ScheduleWindows []domain.ScheduleWindow

	Statement     domain.SalaryStatement
	SalaryErr     error
	SalaryTargets []int64
	SalaryPeriods []domain.Period

	Entry       domain.WorkLogEntry
	CheckInErr  error
	CheckOutErr error
}

func (m *mockStaffService) List(ctx context.Context, page domain.Page) (ports.StaffList, error) {
	m.Pages = append(m.Pages, page)
	return m.ListOut, m.ListErr
}

func (m *mockStaffService) UpdateDetails(ctx context.Context, patch domain.StaffPatch) error {
	m.UpdatePatches = append(m.UpdatePatches, patch)
	return m.UpdateErr
}

func (m *mockStaffService) Schedule(ctx context.Context, staffID int64, window domain.ScheduleWindow) ([]domain.AppointmentRow, error) {
	m.ScheduleTargets = append(m.ScheduleTargets, staffID)
	m.ScheduleWindows = append(m.ScheduleWindows, window)
	return m.ScheduleRows, m.ScheduleErr
}

func (m *mockStaffService) Salary(ctx context.Context, staffID int64, period domain.Period) (domain.SalaryStatement, error) {
	m.SalaryTargets = append(m.SalaryTargets, staffID)
	m.SalaryPeriods = append(m.SalaryPeriods, period)
	return m.Statement, m.SalaryErr
}

func (m *mockStaffService) CheckIn(ctx context.Context, staffID int64) (domain.WorkLogEntry, error) {
	return m.Entry, m.CheckInErr
}

func (m *mockStaffService) CheckOut(ctx context.Context, staffID int64) (domain.WorkLogEntry, error) {
	return m.Entry, m.CheckOutErr
}

// postForm builds a form-encoded request the way the frontend submits them.
func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func assertEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantCode int, wantStatus, wantMessage string) map[string]any {
	t.Helper()
	if rec.Code != wantCode {
		t.Errorf("http status = %d, want %d (%s)", rec.Code, wantCode, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != wantStatus {
		t.Errorf("body status = %v, want %q", body["status"], wantStatus)
	}
	if wantMessage != "" && body["message"] != wantMessage {
		t.Errorf("body message = %v, want %q", body["message"], wantMessage)
	}
	return body
}
