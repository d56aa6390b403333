package services

import (
	"context"
	"time"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

// Hand-written mocks with call tracking and error injection. Each mock
// implements the corresponding port so services can be tested in isolation.

type mockUserRepository struct {
	Users          map[int64]*domain.User
	FindByIDErr    error
	FindByIDCalls  []int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{Users: make(map[int64]*domain.User)}
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.FindByIDCalls = append(m.FindByIDCalls, id)
	if m.FindByIDErr != nil {
		return nil, m.FindByIDErr
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

type mockAppointmentRepository struct {
	CancelSnapshot domain.AppointmentSnapshot
	CancelErr      error
	CancelCalls    []int64

	AssignErr   error
	AssignCalls [][2]int64

	UpdateStatusSnapshot domain.AppointmentSnapshot
	UpdateStatusErr      error
	UpdateStatusCalls    []struct {
		AppointmentID   int64
		Next            domain.Status
		AssignedStaffID *int64
	}

	EditErr   error
	EditCalls []int64

	ListRows  []domain.AppointmentRow
	ListTotal int
	ListErr   error

	ClientRows []domain.AppointmentRow
	ClientErr  error

	ScheduleRows    []domain.AppointmentRow
	ScheduleErr     error
	ScheduleWindows []domain.ScheduleWindow
}

func (m *mockAppointmentRepository) CancelByClient(ctx context.Context, appointmentID, clientID int64) (domain.AppointmentSnapshot, error) {
	m.CancelCalls = append(m.CancelCalls, appointmentID)
	return m.CancelSnapshot, m.CancelErr
}

func (m *mockAppointmentRepository) AssignStaff(ctx context.Context, appointmentID, staffID int64) error {
	m.AssignCalls = append(m.AssignCalls, [2]int64{appointmentID, staffID})
	return m.AssignErr
}

func (m *mockAppointmentRepository) UpdateStatus(ctx context.Context, appointmentID int64, next domain.Status, assignedStaffID *int64) (domain.AppointmentSnapshot, error) {
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, struct {
		AppointmentID   int64
		Next            domain.Status
		AssignedStaffID *int64
	}{appointmentID, next, assignedStaffID})
	return m.UpdateStatusSnapshot, m.UpdateStatusErr
}

func (m *mockAppointmentRepository) EditByClient(ctx context.Context, appointmentID, clientID, serviceID int64, date, timeOfDay string) error {
	m.EditCalls = append(m.EditCalls, appointmentID)
	return m.EditErr
}

func (m *mockAppointmentRepository) List(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) ([]domain.AppointmentRow, int, error) {
	return m.ListRows, m.ListTotal, m.ListErr
}

func (m *mockAppointmentRepository) ListForClient(ctx context.Context, clientID int64) ([]domain.AppointmentRow, error) {
	return m.ClientRows, m.ClientErr
}

func (m *mockAppointmentRepository) Schedule(ctx context.Context, staffID int64, window domain.ScheduleWindow) ([]domain.AppointmentRow, error) {
	m.ScheduleWindows = append(m.ScheduleWindows, window)
	return m.ScheduleRows, m.ScheduleErr
}

type mockStaffRepository struct {
	ListRows  []domain.StaffRow
	ListTotal int
	ListErr   error

	UpdateErr     error
	UpdateCalls   []domain.StaffPatch
	Rate          float64
	RateErr       error
	RateForCalls  []int64
}

func (m *mockStaffRepository) List(ctx context.Context, page domain.Page) ([]domain.StaffRow, int, error) {
	return m.ListRows, m.ListTotal, m.ListErr
}

func (m *mockStaffRepository) UpdateDetails(ctx context.Context, patch domain.StaffPatch) error {
	m.UpdateCalls = append(m.UpdateCalls, patch)
	return m.UpdateErr
}

func (m *mockStaffRepository) RateFor(ctx context.Context, staffID int64) (float64, error) {
	m.RateForCalls = append(m.RateForCalls, staffID)
	return m.Rate, m.RateErr
}

type sumMinutesCall struct {
	StaffID int64
	From    *time.Time
	To      *time.Time
}

type mockWorkLogRepository struct {
	Minutes         int
	SumErr          error
	SumMinutesCalls []sumMinutesCall

	OpenedEntry domain.WorkLogEntry
	OpenErr     error
	ClosedEntry domain.WorkLogEntry
	CloseErr    error
}

func (m *mockWorkLogRepository) SumMinutes(ctx context.Context, staffID int64, from, to *time.Time) (int, error) {
	m.SumMinutesCalls = append(m.SumMinutesCalls, sumMinutesCall{staffID, from, to})
	return m.Minutes, m.SumErr
}

func (m *mockWorkLogRepository) OpenEntry(ctx context.Context, staffID int64, at time.Time) (domain.WorkLogEntry, error) {
	return m.OpenedEntry, m.OpenErr
}

func (m *mockWorkLogRepository) CloseEntry(ctx context.Context, staffID int64, at time.Time) (domain.WorkLogEntry, error) {
	return m.ClosedEntry, m.CloseErr
}

type mockOutboxRepository struct {
	EnqueueErr   error
	EnqueueCalls []ports.AppointmentEvent
}

func (m *mockOutboxRepository) Enqueue(ctx context.Context, event ports.AppointmentEvent) error {
	m.EnqueueCalls = append(m.EnqueueCalls, event)
	return m.EnqueueErr
}
