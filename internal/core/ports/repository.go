package ports

import (
	"context"
	"time"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
)

type UserRepository interface {
	// FindByID returns domain.ErrNotFound when no such user exists.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// AppointmentRepository owns every appointment read and mutation. Mutations
// are single-row transactions guarded by id plus an ownership or role
// condition; a zero-row update is reported through the domain error
// taxonomy, never as a store error.
type AppointmentRepository interface {
	// CancelByClient sets status to cancelled for the client's own
	// appointment and returns the pre-cancel snapshot read in the same
	// transaction.
	CancelByClient(ctx context.Context, appointmentID, clientID int64) (domain.AppointmentSnapshot, error)

	// AssignStaff sets the staff reference without touching status.
	AssignStaff(ctx context.Context, appointmentID, staffID int64) error

	// UpdateStatus applies a validated forward transition. When
	// assignedStaffID is non-nil the row must be assigned to that staff
	// member; absence of a matching row surfaces as domain.ErrNotFound.
	UpdateStatus(ctx context.Context, appointmentID int64, next domain.Status, assignedStaffID *int64) (domain.AppointmentSnapshot, error)

	// EditByClient rewrites service, date and time on a non-finalized
	// appointment owned by the client, re-snapshotting the price from the
	// service row.
	EditByClient(ctx context.Context, appointmentID, clientID, serviceID int64, date, timeOfDay string) error

	// List returns one filtered page plus the total count under the same
	// predicates.
	List(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) ([]domain.AppointmentRow, int, error)

	// ListForClient returns the client's own appointments, newest first.
	ListForClient(ctx context.Context, clientID int64) ([]domain.AppointmentRow, error)

	// Schedule returns a staff member's appointments inside the window,
	// ordered by date then time.
	Schedule(ctx context.Context, staffID int64, window domain.ScheduleWindow) ([]domain.AppointmentRow, error)
}

type StaffRepository interface {
	List(ctx context.Context, page domain.Page) ([]domain.StaffRow, int, error)

	// UpdateDetails merges the patch over the stored snapshot inside one
	// transaction; nil patch fields keep their current value.
	UpdateDetails(ctx context.Context, patch domain.StaffPatch) error

	// RateFor returns the current hourly rate, zero when no detail row
	// exists yet.
	RateFor(ctx context.Context, staffID int64) (float64, error)
}

type WorkLogRepository interface {
	// SumMinutes aggregates duration_minutes over [from, to); nil bounds
	// mean unbounded.
	SumMinutes(ctx context.Context, staffID int64, from, to *time.Time) (int, error)

	// OpenEntry starts a work log entry; a second open entry for the same
	// staff member is domain.ErrAlreadyCheckedIn.
	OpenEntry(ctx context.Context, staffID int64, at time.Time) (domain.WorkLogEntry, error)

	// CloseEntry closes the most recent open entry and returns it with the
	// derived duration; no open entry is domain.ErrNotCheckedIn.
	CloseEntry(ctx context.Context, staffID int64, at time.Time) (domain.WorkLogEntry, error)
}

// OutboxRepository records notification events for the relay to publish.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event AppointmentEvent) error
}
