package ports

import (
	"context"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
)

// AuthorizationGuard gates every entry point. It confirms the claimed
// identity exists, matches the stored role, is among the allowed roles and,
// for admin access, is active. All failures collapse into
// domain.ErrUnauthorized.
type AuthorizationGuard interface {
	Authorize(ctx context.Context, id domain.Identity, allowed ...domain.Role) (*domain.User, error)
}

// AppointmentList is one page of the admin listing.
type AppointmentList struct {
	Rows         []domain.AppointmentRow
	TotalResults int
	TotalPages   int
}

type AppointmentService interface {
	Cancel(ctx context.Context, appointmentID, clientID int64) (domain.AppointmentSnapshot, error)
	AssignStaff(ctx context.Context, appointmentID, staffID int64) error
	UpdateStatus(ctx context.Context, appointmentID int64, rawStatus string, actor *domain.User) (domain.AppointmentSnapshot, error)
	Edit(ctx context.Context, appointmentID, clientID, serviceID int64, date, timeOfDay string) error
	ListAll(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) (AppointmentList, error)
	ListForClient(ctx context.Context, clientID int64) ([]domain.AppointmentRow, error)
}

// StaffList is one page of the staff listing.
type StaffList struct {
	Rows  []domain.StaffRow
	Total int
}

type StaffService interface {
	List(ctx context.Context, page domain.Page) (StaffList, error)
	UpdateDetails(ctx context.Context, patch domain.StaffPatch) error
	Schedule(ctx context.Context, staffID int64, window domain.ScheduleWindow) ([]domain.AppointmentRow, error)
	Salary(ctx context.Context, staffID int64, period domain.Period) (domain.SalaryStatement, error)
	CheckIn(ctx context.Context, staffID int64) (domain.WorkLogEntry, error)
	CheckOut(ctx context.Context, staffID int64) (domain.WorkLogEntry, error)
}
