package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

const dateLayout = "2006-01-02"

// AppointmentRepository implements every appointment read and mutation over
// postgres. Mutations run as single-row transactions with a WHERE guard on
// id plus ownership or assignment; a zero-row update is the authoritative
// signal of an unauthorized or already-finalized target.
type AppointmentRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db, now: time.Now}
}

// listProjection is shared by every listing query so rows scan identically.
const listProjection = `
	a.id,
	u.full_name,
	COALESCE(st.full_name, ''),
	s.name,
	%s,
	to_char(a.date, 'YYYY-MM-DD'),
	to_char(a.time, 'HH24:MI:SS'),
	a.status`

func (r *AppointmentRepository) CancelByClient(ctx context.Context, appointmentID, clientID int64) (domain.AppointmentSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AppointmentSnapshot{}, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback()

	// Snapshot read and ownership check happen under the same row lock as
	// the update, so the notification payload reflects the pre-cancel state.
	var snap domain.AppointmentSnapshot
	err = tx.QueryRowContext(ctx, `
		SELECT a.id, a.client_id, s.name,
		       to_char(a.date, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI:SS'),
		       a.status
		FROM appointments a
		JOIN services s ON a.service_id = s.id
		WHERE a.id = $1 AND a.client_id = $2
		FOR UPDATE OF a`,
		appointmentID, clientID,
	).Scan(&snap.AppointmentID, &snap.ClientID, &snap.ServiceName, &snap.Date, &snap.TimeOfDay, &snap.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AppointmentSnapshot{}, domain.ErrNotFound
		}
		return domain.AppointmentSnapshot{}, fmt.Errorf("load appointment for cancel: %w", err)
	}

	if !snap.Status.Cancellable() {
		return domain.AppointmentSnapshot{}, domain.ErrAlreadyFinalized
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE appointments
		SET status = $1
		WHERE id = $2 AND client_id = $3 AND status IN ('pending', 'confirmed')`,
		domain.StatusCancelled, appointmentID, clientID,
	)
	if err != nil {
		return domain.AppointmentSnapshot{}, fmt.Errorf("cancel appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.AppointmentSnapshot{}, domain.ErrAlreadyFinalized
	}

	if err := tx.Commit(); err != nil {
		return domain.AppointmentSnapshot{}, fmt.Errorf("commit cancel: %w", err)
	}
	return snap, nil
}

func (r *AppointmentRepository) AssignStaff(ctx context.Context, appointmentID, staffID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET staff_id = $1 WHERE id = $2`,
		staffID, appointmentID,
	)
	if err != nil {
		return fmt.Errorf("assign staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, appointmentID int64, next domain.Status, assignedStaffID *int64) (domain.AppointmentSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AppointmentSnapshot{}, fmt.Errorf("begin status tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT a.id, a.client_id, s.name,
		       to_char(a.date, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI:SS'),
		       a.status
		FROM appointments a
		JOIN services s ON a.service_id = s.id
		WHERE a.id = $1`
	args := []any{appointmentID}
	if assignedStaffID != nil {
		query += ` AND a.staff_id = $2`
		args = append(args, *assignedStaffID)
	}
	query += ` FOR UPDATE OF a`

	var snap domain.AppointmentSnapshot
	err = tx.QueryRowContext(ctx, query, args...).
		Scan(&snap.AppointmentID, &snap.ClientID, &snap.ServiceName, &snap.Date, &snap.TimeOfDay, &snap.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown id and not-assigned-to-this-staff are indistinguishable
			// on purpose.
			return domain.AppointmentSnapshot{}, domain.ErrNotFound
		}
		return domain.AppointmentSnapshot{}, fmt.Errorf("load appointment for status update: %w", err)
	}

	if !snap.Status.CanTransitionTo(next) {
		return domain.AppointmentSnapshot{}, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, snap.Status, next)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE appointments SET status = $1 WHERE id = $2 AND status = $3`,
		next, appointmentID, snap.Status,
	)
	if err != nil {
		return domain.AppointmentSnapshot{}, fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.AppointmentSnapshot{}, domain.ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		return domain.AppointmentSnapshot{}, fmt.Errorf("commit status update: %w", err)
	}

	snap.Status = next
	return snap, nil
}

func (r *AppointmentRepository) EditByClient(ctx context.Context, appointmentID, clientID, serviceID int64, date, timeOfDay string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edit tx: %w", err)
	}
	defer tx.Rollback()

	// Re-snapshot the price from the newly chosen service.
	var price float64
	err = tx.QueryRowContext(ctx, `SELECT price FROM services WHERE id = $1`, serviceID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load service price: %w", err)
	}

	var status domain.Status
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM appointments
		WHERE id = $1 AND client_id = $2
		FOR UPDATE`,
		appointmentID, clientID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load appointment for edit: %w", err)
	}
	if !status.Cancellable() {
		return domain.ErrAlreadyFinalized
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE appointments
		SET service_id = $1, date = $2, time = $3, price = $4
		WHERE id = $5 AND client_id = $6 AND status IN ('pending', 'confirmed')`,
		serviceID, date, timeOfDay, price, appointmentID, clientID,
	)
	if err != nil {
		return fmt.Errorf("edit appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAlreadyFinalized
	}

	return tx.Commit()
}

func (r *AppointmentRepository) List(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) ([]domain.AppointmentRow, int, error) {
	b := &whereBuilder{}
	compileAppointmentFilter(b, filter, r.now().Format(dateLayout))

	// The admin listing intentionally inner-joins staff, so unassigned
	// appointments stay out of it, and shows the service's current price.
	const joins = `
		FROM appointments a
		JOIN users u ON a.client_id = u.id
		JOIN services s ON a.service_id = s.id
		JOIN users st ON a.staff_id = st.id`

	var total int
	countQuery := `SELECT COUNT(*)` + joins + ` ` + b.clause()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+fmt.Sprintf(listProjection, "s.price")+` %s %s ORDER BY a.date, a.time LIMIT $%d OFFSET $%d`,
		joins, b.clause(), b.next(), b.next()+1,
	)
	args := append(b.args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	list, err := scanAppointmentRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *AppointmentRepository) ListForClient(ctx context.Context, clientID int64) ([]domain.AppointmentRow, error) {
	query := `SELECT ` + fmt.Sprintf(listProjection, "a.price") + `
		FROM appointments a
		JOIN users u ON a.client_id = u.id
		JOIN services s ON a.service_id = s.id
		LEFT JOIN users st ON a.staff_id = st.id
		WHERE a.client_id = $1
		ORDER BY a.date DESC, a.time DESC`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	defer rows.Close()
	return scanAppointmentRows(rows)
}

func (r *AppointmentRepository) Schedule(ctx context.Context, staffID int64, window domain.ScheduleWindow) ([]domain.AppointmentRow, error) {
	b := &whereBuilder{}
	b.add("a.staff_id = ?", staffID)
	switch {
	case window.Today:
		b.add("a.date = ?", r.now().Format(dateLayout))
	case window.Ranged():
		b.add("a.date BETWEEN ? AND ?", window.From, window.To)
	}

	query := fmt.Sprintf(
		`SELECT `+fmt.Sprintf(listProjection, "a.price")+`
		FROM appointments a
		JOIN users u ON a.client_id = u.id
		JOIN services s ON a.service_id = s.id
		LEFT JOIN users st ON a.staff_id = st.id
		%s
		ORDER BY a.date, a.time`,
		b.clause(),
	)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("staff schedule: %w", err)
	}
	defer rows.Close()
	return scanAppointmentRows(rows)
}

func scanAppointmentRows(rows *sql.Rows) ([]domain.AppointmentRow, error) {
	var list []domain.AppointmentRow
	for rows.Next() {
		var row domain.AppointmentRow
		if err := rows.Scan(
			&row.AppointmentID,
			&row.ClientName,
			&row.StaffName,
			&row.ServiceName,
			&row.Price,
			&row.Date,
			&row.TimeOfDay,
			&row.Status,
		); err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointment rows: %w", err)
	}
	return list, nil
}
