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

type WorkLogRepository struct {
	db *sql.DB
}

var _ ports.WorkLogRepository = (*WorkLogRepository)(nil)

func NewWorkLogRepository(db *sql.DB) *WorkLogRepository {
	return &WorkLogRepository{db: db}
}

func (r *WorkLogRepository) SumMinutes(ctx context.Context, staffID int64, from, to *time.Time) (int, error) {
	b := &whereBuilder{}
	b.add("staff_id = ?", staffID)
	if from != nil && to != nil {
		b.add("check_in >= ?", *from)
		b.add("check_in < ?", *to)
	}

	var minutes int
	query := `SELECT COALESCE(SUM(duration_minutes), 0) FROM work_log ` + b.clause()
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("sum worked minutes: %w", err)
	}
	return minutes, nil
}

func (r *WorkLogRepository) OpenEntry(ctx context.Context, staffID int64, at time.Time) (domain.WorkLogEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WorkLogEntry{}, fmt.Errorf("begin check-in tx: %w", err)
	}
	defer tx.Rollback()

	var openID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM work_log
		WHERE staff_id = $1 AND check_out IS NULL
		FOR UPDATE`,
		staffID,
	).Scan(&openID)
	if err == nil {
		return domain.WorkLogEntry{}, domain.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.WorkLogEntry{}, fmt.Errorf("check open work log entry: %w", err)
	}

	entry := domain.WorkLogEntry{StaffID: staffID, CheckIn: at}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO work_log (staff_id, check_in) VALUES ($1, $2) RETURNING id`,
		staffID, at,
	).Scan(&entry.ID)
	if err != nil {
		return domain.WorkLogEntry{}, fmt.Errorf("open work log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WorkLogEntry{}, fmt.Errorf("commit check-in: %w", err)
	}
	return entry, nil
}

func (r *WorkLogRepository) CloseEntry(ctx context.Context, staffID int64, at time.Time) (domain.WorkLogEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WorkLogEntry{}, fmt.Errorf("begin check-out tx: %w", err)
	}
	defer tx.Rollback()

	entry := domain.WorkLogEntry{StaffID: staffID}
	err = tx.QueryRowContext(ctx, `
		SELECT id, check_in FROM work_log
		WHERE staff_id = $1 AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
		FOR UPDATE`,
		staffID,
	).Scan(&entry.ID, &entry.CheckIn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WorkLogEntry{}, domain.ErrNotCheckedIn
		}
		return domain.WorkLogEntry{}, fmt.Errorf("load open work log entry: %w", err)
	}

	minutes := int(at.Sub(entry.CheckIn).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE work_log SET check_out = $1, duration_minutes = $2 WHERE id = $3`,
		at, minutes, entry.ID,
	); err != nil {
		return domain.WorkLogEntry{}, fmt.Errorf("close work log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WorkLogEntry{}, fmt.Errorf("commit check-out: %w", err)
	}

	entry.CheckOut = &at
	entry.DurationMinutes = &minutes
	return entry, nil
}
