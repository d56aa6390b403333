package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

// OutboxRepository records notification events for the relay binary. The
// table carries an AFTER INSERT trigger issuing pg_notify, so the relay
// wakes up without polling.
type OutboxRepository struct {
	db *sql.DB
}

var _ ports.OutboxRepository = (*OutboxRepository)(nil)

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, event ports.AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notification_outbox (id, event_type, payload) VALUES ($1, $2, $3)`,
		event.EventID, event.Type, payload,
	)
	if err != nil {
		return fmt.Errorf("enqueue notification event: %w", err)
	}
	return nil
}
