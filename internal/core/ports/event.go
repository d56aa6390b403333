package ports

import "context"

// Event types recorded in the notification outbox.
const (
	EventAppointmentCancelled     = "appointment.cancelled"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent is the notification payload produced by lifecycle
// mutations. It carries the pre-mutation service/date/time snapshot so the
// delivery side can describe what was booked.
type AppointmentEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	AppointmentID int64  `json:"appointment_id"`
	ClientID      int64  `json:"client_id"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
}

// NotificationPublisher delivers events to the notification sink. Publishing
// happens strictly after the originating mutation has committed; failures
// are logged and dropped, never propagated back into the request.
type NotificationPublisher interface {
	PublishAppointmentEvent(ctx context.Context, evt AppointmentEvent) error
}
