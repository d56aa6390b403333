package domain

import "strings"

// Status is the closed appointment status enumeration. The machine only
// moves forward: pending -> confirmed -> completed, with cancelled reachable
// from pending or confirmed. Completed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal move from s. Everything
// not listed, including no-op transitions and any move back to pending, is
// rejected.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Cancellable reports whether a client may still cancel an appointment in
// this state.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment is the central entity. StaffID is nil until an admin assigns
// a staff member. Price is the snapshot taken at booking or edit time, not
// re-derived from the service row at read time. Date is "2006-01-02" and
// TimeOfDay "15:04:05", matching the wire format.
type Appointment struct {
	ID        int64   `json:"id"`
	ClientID  int64   `json:"client_id"`
	StaffID   *int64  `json:"staff_id"`
	ServiceID int64   `json:"service_id"`
	Date      string  `json:"date"`
	TimeOfDay string  `json:"time"`
	Price     float64 `json:"price"`
	Status    Status  `json:"status"`
}

// AppointmentRow is the listing projection joined with client, staff and
// service names.
type AppointmentRow struct {
	AppointmentID int64   `json:"appointment_id"`
	ClientName    string  `json:"client_name"`
	StaffName     string  `json:"staff_name,omitempty"`
	ServiceName   string  `json:"service_name"`
	Price         float64 `json:"price"`
	Date          string  `json:"date"`
	TimeOfDay     string  `json:"time"`
	Status        Status  `json:"status"`
}

// AppointmentSnapshot is the pre-mutation state captured inside the same
// transaction as a lifecycle change, used to build the notification payload.
type AppointmentSnapshot struct {
	AppointmentID int64  `json:"appointment_id"`
	ClientID      int64  `json:"client_id"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	TimeOfDay     string `json:"time"`
	Status        Status `json:"status"`
}

// Service is read-only reference data for this core.
type Service struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ScheduleWindow narrows a staff schedule view. Today wins over a supplied
// date range; with neither set the whole schedule is returned.
type ScheduleWindow struct {
	Today bool
	From  string
	To    string
}

func (w ScheduleWindow) Ranged() bool {
	return !w.Today && w.From != "" && w.To != ""
}
