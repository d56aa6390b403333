package domain

import (
	"fmt"
	"strings"
	"time"
)

// WorkLogEntry records a staff check-in/check-out pair. CheckOut and
// DurationMinutes stay nil while the entry is open.
type WorkLogEntry struct {
	ID              int64      `json:"id"`
	StaffID         int64      `json:"staff_id"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// Period selects the salary aggregation window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodDay:
		return PeriodDay, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodAll:
		return PeriodAll, nil
	case "":
		return "", fmt.Errorf("%w: missing period value (day/week/month/all)", ErrMissingParameter)
	}
	return "", fmt.Errorf("%w: period must be day, week, month or all", ErrMissingParameter)
}

// Window returns the half-open [from, to) aggregation interval containing
// now: the calendar day, the ISO week (Monday start) or the calendar month.
// PeriodAll returns nil bounds, meaning unbounded.
func (p Period) Window(now time.Time) (from, to *time.Time) {
	switch p {
	case PeriodDay:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 0, 1)
		return &start, &end
	case PeriodWeek:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		// time.Weekday puts Sunday at 0; shift so the week starts on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		end := start.AddDate(0, 0, 7)
		return &start, &end
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0)
		return &start, &end
	}
	return nil, nil
}

// SalaryStatement mirrors the salary endpoint payload.
type SalaryStatement struct {
	StaffID       int64   `json:"staff_id"`
	Period        Period  `json:"period"`
	HoursWorked   float64 `json:"hours_worked"`
	SalaryPerHour float64 `json:"salary_per_hour"`
	Salary        float64 `json:"calculated_salary"`
}
