package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/config"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "notification_outbox"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// Relay listens for PostgreSQL NOTIFY signals on the notification_outbox
// channel and publishes appointment events to RabbitMQ.
type Relay struct {
	db            *sql.DB
	publisher     ports.NotificationPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	logger        *zap.Logger
	lastProcessed time.Time
	isHealthy     bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.NotificationPublisher, logger *zap.Logger) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL", logger),
		logger:        logger,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports whether the relay process is alive and responsive.
// Liveness only; an open circuit breaker is degraded-but-recoverable and
// should not kill the pod.
func (r *Relay) IsHealthy() bool {
	return r.isHealthy
}

// IsReady reports whether the relay can currently process events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

// Start begins listening for outbox notifications and processing events.
// Blocks until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Error("listener error", zap.Error(err))
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	r.logger.Info("listening for outbox notifications", zap.String("channel", outboxChannelName))

	// Catch up on any backlog accumulated while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.logger.Error("startup backlog processing failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.logger.Warn("received nil notification, reconnecting")
				r.isHealthy = false
				continue
			}

			r.logger.Debug("received notification", zap.String("event_id", notification.Extra))

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.logger.Error("event processing failed",
					zap.String("event_id", notification.Extra), zap.Error(err))
			} else {
				r.lastProcessed = time.Now()
				r.isHealthy = true
			}

		case <-time.After(periodicProcessInterval):
			// Keep the connection alive and sweep any missed events
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.logger.Error("periodic processing failed", zap.Error(err))
			} else {
				r.lastProcessed = time.Now()
			}
		}
	}
}

// processEventByID publishes a single outbox event and marks it processed.
func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM notification_outbox
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		var evt ports.AppointmentEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			r.logger.Warn("invalid payload, marking processed",
				zap.String("event_id", id), zap.Error(err))
			// Mark processed to avoid infinite retries on bad data
			_, _ = tx.ExecContext(ctx, `UPDATE notification_outbox SET processed_at = NOW() WHERE id = $1`, id)
			return nil, tx.Commit()
		}

		if err := r.publisher.PublishAppointmentEvent(ctx, evt); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE notification_outbox SET processed_at = NOW() WHERE id = $1`, id); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents sweeps the whole unprocessed backlog.
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM notification_outbox
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			var evt ports.AppointmentEvent
			if err := json.Unmarshal(rec.Payload, &evt); err != nil {
				r.logger.Warn("invalid payload, marking processed",
					zap.String("event_id", rec.ID), zap.Error(err))
				_, _ = tx.ExecContext(ctx, `UPDATE notification_outbox SET processed_at = NOW() WHERE id = $1`, rec.ID)
				continue
			}

			if err := r.publisher.PublishAppointmentEvent(ctx, evt); err != nil {
				r.logger.Error("publish failed", zap.String("event_id", rec.ID), zap.Error(err))
				continue
			}

			if _, err := tx.ExecContext(ctx, `UPDATE notification_outbox SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}

			r.logger.Debug("processed event", zap.String("event_id", rec.ID))
		}

		return nil, tx.Commit()
	})
	return err
}
