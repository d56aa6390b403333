package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

// AppointmentService owns the appointment lifecycle. Transition rules live
// in the domain status machine; the repository enforces them atomically
// inside single-row transactions. After a committed mutation the service
// records a notification event in the outbox, best-effort: an outbox
// failure is logged and dropped so it can never undo the mutation.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	outbox       ports.OutboxRepository
	logger       *zap.Logger
}

var _ ports.AppointmentService = (*AppointmentService)(nil)

func NewAppointmentService(
	appointments ports.AppointmentRepository,
	users ports.UserRepository,
	outbox ports.OutboxRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		outbox:       outbox,
		logger:       logger,
	}
}

// Cancel cancels the client's own appointment while it is still pending or
// confirmed, returning the pre-cancel snapshot for the notification payload.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, clientID int64) (domain.AppointmentSnapshot, error) {
	snapshot, err := s.appointments.CancelByClient(ctx, appointmentID, clientID)
	if err != nil {
		return domain.AppointmentSnapshot{}, err
	}

	s.enqueueEvent(ctx, ports.EventAppointmentCancelled, snapshot)
	return snapshot, nil
}

// AssignStaff points an appointment at an active staff member. Status is
// untouched and no schedule-conflict check is performed against the staff
// member's existing appointments.
func (s *AppointmentService) AssignStaff(ctx context.Context, appointmentID, staffID int64) error {
	staff, err := s.users.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrStaffNotFound
		}
		return err
	}
	if staff.Role != domain.RoleStaff || !staff.IsActive {
		return domain.ErrStaffNotFound
	}

	return s.appointments.AssignStaff(ctx, appointmentID, staffID)
}

// UpdateStatus applies a forward transition on behalf of an admin or the
// assigned staff member. For staff actors the repository's row guard
// restricts the update to appointments assigned to them.
func (s *AppointmentService) UpdateStatus(ctx context.Context, appointmentID int64, rawStatus string, actor *domain.User) (domain.AppointmentSnapshot, error) {
	next, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return domain.AppointmentSnapshot{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, rawStatus)
	}

	var assignedStaffID *int64
	if actor.Role == domain.RoleStaff {
		assignedStaffID = &actor.ID
	}

	snapshot, err := s.appointments.UpdateStatus(ctx, appointmentID, next, assignedStaffID)
	if err != nil {
		return domain.AppointmentSnapshot{}, err
	}

	s.enqueueEvent(ctx, ports.EventAppointmentStatusChanged, snapshot)
	return snapshot, nil
}

// Edit rewrites service, date and time on the client's own non-finalized
// appointment. Status is untouched.
func (s *AppointmentService) Edit(ctx context.Context, appointmentID, clientID, serviceID int64, date, timeOfDay string) error {
	if date == "" || timeOfDay == "" {
		return fmt.Errorf("%w: date and time are required", domain.ErrMissingParameter)
	}
	return s.appointments.EditByClient(ctx, appointmentID, clientID, serviceID, date, timeOfDay)
}

// ListAll returns one filtered, paginated page of the admin listing. The
// count query runs under the same predicates as the page query, so
// total_results and total_pages stay consistent with the filter.
func (s *AppointmentService) ListAll(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) (ports.AppointmentList, error) {
	rows, total, err := s.appointments.List(ctx, filter, page)
	if err != nil {
		return ports.AppointmentList{}, err
	}
	return ports.AppointmentList{
		Rows:         rows,
		TotalResults: total,
		TotalPages:   page.TotalPages(total),
	}, nil
}

func (s *AppointmentService) ListForClient(ctx context.Context, clientID int64) ([]domain.AppointmentRow, error) {
	return s.appointments.ListForClient(ctx, clientID)
}

func (s *AppointmentService) enqueueEvent(ctx context.Context, eventType string, snapshot domain.AppointmentSnapshot) {
	evt := ports.AppointmentEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		AppointmentID: snapshot.AppointmentID,
		ClientID:      snapshot.ClientID,
		ServiceName:   snapshot.ServiceName,
		Date:          snapshot.Date,
		Time:          snapshot.TimeOfDay,
		Status:        string(snapshot.Status),
	}
	if err := s.outbox.Enqueue(ctx, evt); err != nil {
		s.logger.Warn("notification event dropped",
			zap.String("event_type", eventType),
			zap.Int64("appointment_id", snapshot.AppointmentID),
			zap.Error(err),
		)
	}
}
