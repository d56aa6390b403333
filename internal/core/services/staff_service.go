package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

// StaffService covers staff management: the admin listing, partial detail
// updates, schedule views, salary computation and attendance.
type StaffService struct {
	users        ports.UserRepository
	staff        ports.StaffRepository
	appointments ports.AppointmentRepository
	worklog      ports.WorkLogRepository
	logger       *zap.Logger
	now          func() time.Time
}

var _ ports.StaffService = (*StaffService)(nil)

func NewStaffService(
	users ports.UserRepository,
	staff ports.StaffRepository,
	appointments ports.AppointmentRepository,
	worklog ports.WorkLogRepository,
	logger *zap.Logger,
) *StaffService {
	return &StaffService{
		users:        users,
		staff:        staff,
		appointments: appointments,
		worklog:      worklog,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *StaffService) List(ctx context.Context, page domain.Page) (ports.StaffList, error) {
	rows, total, err := s.staff.List(ctx, page)
	if err != nil {
		return ports.StaffList{}, err
	}
	return ports.StaffList{Rows: rows, Total: total}, nil
}

// UpdateDetails merges the patch over the stored snapshot; nil fields keep
// their current value. An empty patch is accepted and changes nothing.
func (s *StaffService) UpdateDetails(ctx context.Context, patch domain.StaffPatch) error {
	if _, err := s.requireStaff(ctx, patch.StaffID); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	return s.staff.UpdateDetails(ctx, patch)
}

func (s *StaffService) Schedule(ctx context.Context, staffID int64, window domain.ScheduleWindow) ([]domain.AppointmentRow, error) {
	if _, err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.appointments.Schedule(ctx, staffID, window)
}

// Salary aggregates worked minutes over the period window, converts to
// hours and multiplies by the staff member's current hourly rate. Zero
// matching work log rows yields a zero statement, not an error.
func (s *StaffService) Salary(ctx context.Context, staffID int64, period domain.Period) (domain.SalaryStatement, error) {
	if _, err := s.requireStaff(ctx, staffID); err != nil {
		return domain.SalaryStatement{}, err
	}

	from, to := period.Window(s.now())
	minutes, err := s.worklog.SumMinutes(ctx, staffID, from, to)
	if err != nil {
		return domain.SalaryStatement{}, err
	}
	rate, err := s.staff.RateFor(ctx, staffID)
	if err != nil {
		return domain.SalaryStatement{}, err
	}

	hours := float64(minutes) / 60
	return domain.SalaryStatement{
		StaffID:       staffID,
		Period:        period,
		HoursWorked:   hours,
		SalaryPerHour: rate,
		Salary:        roundMoney(hours * rate),
	}, nil
}

func (s *StaffService) CheckIn(ctx context.Context, staffID int64) (domain.WorkLogEntry, error) {
	if _, err := s.requireStaff(ctx, staffID); err != nil {
		return domain.WorkLogEntry{}, err
	}
	entry, err := s.worklog.OpenEntry(ctx, staffID, s.now())
	if err != nil {
		return domain.WorkLogEntry{}, err
	}
	s.logger.Info("staff checked in", zap.Int64("staff_id", staffID))
	return entry, nil
}

func (s *StaffService) CheckOut(ctx context.Context, staffID int64) (domain.WorkLogEntry, error) {
	if _, err := s.requireStaff(ctx, staffID); err != nil {
		return domain.WorkLogEntry{}, err
	}
	entry, err := s.worklog.CloseEntry(ctx, staffID, s.now())
	if err != nil {
		return domain.WorkLogEntry{}, err
	}
	s.logger.Info("staff checked out",
		zap.Int64("staff_id", staffID),
		zap.Intp("duration_minutes", entry.DurationMinutes),
	)
	return entry, nil
}

// requireStaff confirms the target references an active staff user.
func (s *StaffService) requireStaff(ctx context.Context, staffID int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, err
	}
	if user.Role != domain.RoleStaff || !user.IsActive {
		return nil, domain.ErrStaffNotFound
	}
	return user, nil
}

// roundMoney rounds half away from zero to 2 decimal places.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
