package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

type StaffRepository struct {
	db *sql.DB
}

var _ ports.StaffRepository = (*StaffRepository)(nil)

func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) List(ctx context.Context, page domain.Page) ([]domain.StaffRow, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM users u
		JOIN staff_details sd ON u.id = sd.staff_id
		WHERE u.role = 'staff'`,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.full_name, u.email, COALESCE(u.phone, ''),
		       COALESCE(to_char(u.dob, 'YYYY-MM-DD'), ''),
		       COALESCE(sd.salary_per_hour, 0), COALESCE(sd.notes, ''),
		       COALESCE(to_char(sd.date_registered, 'YYYY-MM-DD'), '')
		FROM users u
		JOIN staff_details sd ON u.id = sd.staff_id
		WHERE u.role = 'staff'
		ORDER BY u.id
		LIMIT $1 OFFSET $2`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var list []domain.StaffRow
	for rows.Next() {
		var row domain.StaffRow
		if err := rows.Scan(
			&row.StaffID,
			&row.FullName,
			&row.Email,
			&row.Phone,
			&row.DOB,
			&row.SalaryPerHour,
			&row.Notes,
			&row.DateRegistered,
		); err != nil {
			return nil, 0, fmt.Errorf("scan staff row: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate staff rows: %w", err)
	}
	return list, total, nil
}

// UpdateDetails reads the current snapshot under a row lock, merges the
// patch over it and writes both users and staff_details in one transaction.
// Nil patch fields keep their stored value.
func (r *StaffRepository) UpdateDetails(ctx context.Context, patch domain.StaffPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin staff update tx: %w", err)
	}
	defer tx.Rollback()

	var (
		fullName, phone, dob, notes string
		salaryPerHour               float64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT u.full_name, COALESCE(u.phone, ''),
		       COALESCE(to_char(u.dob, 'YYYY-MM-DD'), ''),
		       COALESCE(sd.salary_per_hour, 0), COALESCE(sd.notes, '')
		FROM users u
		JOIN staff_details sd ON u.id = sd.staff_id
		WHERE u.id = $1 AND u.role = 'staff'
		FOR UPDATE`,
		patch.StaffID,
	).Scan(&fullName, &phone, &dob, &salaryPerHour, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrStaffNotFound
		}
		return fmt.Errorf("load staff snapshot: %w", err)
	}

	if patch.FullName != nil {
		fullName = *patch.FullName
	}
	if patch.Phone != nil {
		phone = *patch.Phone
	}
	if patch.DOB != nil {
		dob = *patch.DOB
	}
	if patch.SalaryPerHour != nil {
		salaryPerHour = *patch.SalaryPerHour
	}
	if patch.Notes != nil {
		notes = *patch.Notes
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE staff_details SET salary_per_hour = $1, notes = $2 WHERE staff_id = $3`,
		salaryPerHour, notes, patch.StaffID,
	); err != nil {
		return fmt.Errorf("update staff details: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET full_name = $1, phone = $2, dob = NULLIF($3, '')::date WHERE id = $4`,
		fullName, phone, dob, patch.StaffID,
	); err != nil {
		return fmt.Errorf("update staff user: %w", err)
	}

	return tx.Commit()
}

func (r *StaffRepository) RateFor(ctx context.Context, staffID int64) (float64, error) {
	var rate float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(salary_per_hour, 0) FROM staff_details WHERE staff_id = $1`,
		staffID,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No detail row yet means no rate has been set.
			return 0, nil
		}
		return 0, fmt.Errorf("staff hourly rate: %w", err)
	}
	return rate, nil
}
