package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

func newAppointmentService(
	appointments *mockAppointmentRepository,
	users *mockUserRepository,
	outbox *mockOutboxRepository,
) *AppointmentService {
	return NewAppointmentService(appointments, users, outbox, zap.NewNop())
}

func TestAppointmentServiceCancelEnqueuesEvent(t *testing.T) {
	appointments := &mockAppointmentRepository{
		CancelSnapshot: domain.AppointmentSnapshot{
			AppointmentID: 11,
			ClientID:      7,
			ServiceName:   "Haircut",
			Date:          "2026-09-01",
			TimeOfDay:     "14:00:00",
			Status:        domain.StatusConfirmed,
		},
	}
	outbox := &mockOutboxRepository{}
	service := newAppointmentService(appointments, newMockUserRepository(), outbox)

	snapshot, err := service.Cancel(context.Background(), 11, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.AppointmentID != 11 {
		t.Errorf("snapshot id = %d, want 11", snapshot.AppointmentID)
	}

	if len(outbox.EnqueueCalls) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(outbox.EnqueueCalls))
	}
	evt := outbox.EnqueueCalls[0]
	if evt.Type != ports.EventAppointmentCancelled {
		t.Errorf("event type = %q, want %q", evt.Type, ports.EventAppointmentCancelled)
	}
	if evt.EventID == "" {
		t.Error("expected non-empty event ID")
	}
	if evt.AppointmentID != 11 || evt.ClientID != 7 || evt.ServiceName != "Haircut" {
		t.Errorf("event payload mismatch: %+v", evt)
	}
}

func TestAppointmentServiceCancelFailureSkipsEvent(t *testing.T) {
	appointments := &mockAppointmentRepository{CancelErr: domain.ErrAlreadyFinalized}
	outbox := &mockOutboxRepository{}
	service := newAppointmentService(appointments, newMockUserRepository(), outbox)

	_, err := service.Cancel(context.Background(), 11, 7)
	if !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	if len(outbox.EnqueueCalls) != 0 {
		t.Errorf("no event must be enqueued for a failed cancel, got %d", len(outbox.EnqueueCalls))
	}
}

func TestAppointmentServiceCancelSurvivesOutboxFailure(t *testing.T) {
	appointments := &mockAppointmentRepository{
		CancelSnapshot: domain.AppointmentSnapshot{AppointmentID: 11},
	}
	outbox := &mockOutboxRepository{EnqueueErr: context.DeadlineExceeded}
	service := newAppointmentService(appointments, newMockUserRepository(), outbox)

	if _, err := service.Cancel(context.Background(), 11, 7); err != nil {
		t.Fatalf("outbox failure must not surface to the caller, got %v", err)
	}
	if len(outbox.EnqueueCalls) != 1 {
		t.Errorf("expected the enqueue to have been attempted")
	}
}

func TestAppointmentServiceAssignStaff(t *testing.T) {
	tests := []struct {
		name    string
		target  *domain.User
		wantErr error
	}{
		{"target_missing", nil, domain.ErrStaffNotFound},
		{"target_is_client", &domain.User{ID: 5, Role: domain.RoleClient, IsActive: true}, domain.ErrStaffNotFound},
		{"target_is_admin", &domain.User{ID: 5, Role: domain.RoleAdmin, IsActive: true}, domain.ErrStaffNotFound},
		{"target_inactive_staff", &domain.User{ID: 5, Role: domain.RoleStaff, IsActive: false}, domain.ErrStaffNotFound},
		{"target_active_staff", &domain.User{ID: 5, Role: domain.RoleStaff, IsActive: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserRepository()
			if tt.target != nil {
				users.Users[tt.target.ID] = tt.target
			}
			appointments := &mockAppointmentRepository{}
			service := newAppointmentService(appointments, users, &mockOutboxRepository{})

			err := service.AssignStaff(context.Background(), 20, 5)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(appointments.AssignCalls) != 0 {
					t.Error("repository must not be reached for an invalid target")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(appointments.AssignCalls) != 1 || appointments.AssignCalls[0] != [2]int64{20, 5} {
				t.Errorf("assign calls = %v", appointments.AssignCalls)
			}
		})
	}
}

func TestAppointmentServiceUpdateStatusUnknownValue(t *testing.T) {
	appointments := &mockAppointmentRepository{}
	service := newAppointmentService(appointments, newMockUserRepository(), &mockOutboxRepository{})

	actor := &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: true}
	_, err := service.UpdateStatus(context.Background(), 20, "archived", actor)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(appointments.UpdateStatusCalls) != 0 {
		t.Error("repository must not be reached for an unparseable status")
	}
}

func TestAppointmentServiceUpdateStatusStaffScopedToOwnRows(t *testing.T) {
	appointments := &mockAppointmentRepository{
		UpdateStatusSnapshot: domain.AppointmentSnapshot{AppointmentID: 20, Status: domain.StatusCompleted},
	}
	outbox := &mockOutboxRepository{}
	service := newAppointmentService(appointments, newMockUserRepository(), outbox)

	staff := &domain.User{ID: 5, Role: domain.RoleStaff, IsActive: true}
	if _, err := service.UpdateStatus(context.Background(), 20, "completed", staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := appointments.UpdateStatusCalls[0]
	if call.AssignedStaffID == nil || *call.AssignedStaffID != 5 {
		t.Errorf("staff actor must constrain the row to their own assignment, got %v", call.AssignedStaffID)
	}
	if call.Next != domain.StatusCompleted {
		t.Errorf("next = %q, want completed", call.Next)
	}
	if len(outbox.EnqueueCalls) != 1 || outbox.EnqueueCalls[0].Type != ports.EventAppointmentStatusChanged {
		t.Errorf("expected one status_changed event, got %+v", outbox.EnqueueCalls)
	}
}

func TestAppointmentServiceUpdateStatusAdminUnscoped(t *testing.T) {
	appointments := &mockAppointmentRepository{}
	service := newAppointmentService(appointments, newMockUserRepository(), &mockOutboxRepository{})

	admin := &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: true}
	if _, err := service.UpdateStatus(context.Background(), 20, "confirmed", admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := appointments.UpdateStatusCalls[0].AssignedStaffID; got != nil {
		t.Errorf("admin actor must not be row-scoped, got %v", got)
	}
}

func TestAppointmentServiceEditRequiresDateAndTime(t *testing.T) {
	appointments := &mockAppointmentRepository{}
	service := newAppointmentService(appointments, newMockUserRepository(), &mockOutboxRepository{})

	if err := service.Edit(context.Background(), 1, 2, 3, "", "10:00:00"); !errors.Is(err, domain.ErrMissingParameter) {
		t.Errorf("missing date: expected ErrMissingParameter, got %v", err)
	}
	if err := service.Edit(context.Background(), 1, 2, 3, "2026-09-01", ""); !errors.Is(err, domain.ErrMissingParameter) {
		t.Errorf("missing time: expected ErrMissingParameter, got %v", err)
	}
	if len(appointments.EditCalls) != 0 {
		t.Error("repository must not be reached without date and time")
	}

	if err := service.Edit(context.Background(), 1, 2, 3, "2026-09-01", "10:00:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appointments.EditCalls) != 1 {
		t.Errorf("expected 1 edit call, got %d", len(appointments.EditCalls))
	}
}

func TestAppointmentServiceListAllComputesPages(t *testing.T) {
	appointments := &mockAppointmentRepository{
		ListRows:  []domain.AppointmentRow{{AppointmentID: 1}},
		ListTotal: 95,
	}
	service := newAppointmentService(appointments, newMockUserRepository(), &mockOutboxRepository{})

	page := domain.NewPage("2", domain.DefaultPageSize)
	list, err := service.ListAll(context.Background(), domain.AppointmentFilter{Kind: domain.FilterAll}, page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.TotalResults != 95 {
		t.Errorf("total results = %d, want 95", list.TotalResults)
	}
	if list.TotalPages != 10 {
		t.Errorf("total pages = %d, want 10", list.TotalPages)
	}
}
