package domain

import (
	"fmt"
	"strings"
)

// FilterKind tags an appointment listing filter variant. Each kind compiles
// to exactly one parameterized predicate in the repository; user input never
// reaches the query text itself.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterToday
	FilterUpcoming
	FilterPast
	FilterCompleted
	FilterPending
	FilterCancelled
	FilterByClientName
	FilterByStaffName
	FilterBySpecificDate
)

// AppointmentFilter is the tagged variant produced by
// ParseAppointmentFilter. Only the field matching Kind is populated.
type AppointmentFilter struct {
	Kind       FilterKind
	ClientName string
	StaffName  string
	Date       string
}

// StatusName returns the status literal for the three status-equality kinds.
func (f AppointmentFilter) StatusName() string {
	switch f.Kind {
	case FilterCompleted:
		return string(StatusCompleted)
	case FilterPending:
		return string(StatusPending)
	case FilterCancelled:
		return string(StatusCancelled)
	}
	return ""
}

// ParseAppointmentFilter validates a requested filter name plus its
// free-form parameters. An absent or literal "all" name selects no
// predicate; any other unknown name is rejected. Filters that require a
// parameter fail when it is absent or empty rather than degrading to "all".
func ParseAppointmentFilter(name string, params map[string]string) (AppointmentFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return AppointmentFilter{Kind: FilterAll}, nil
	case "today":
		return AppointmentFilter{Kind: FilterToday}, nil
	case "upcoming":
		return AppointmentFilter{Kind: FilterUpcoming}, nil
	case "past":
		return AppointmentFilter{Kind: FilterPast}, nil
	case "completed":
		return AppointmentFilter{Kind: FilterCompleted}, nil
	case "pending":
		return AppointmentFilter{Kind: FilterPending}, nil
	case "cancelled":
		return AppointmentFilter{Kind: FilterCancelled}, nil
	case "by_client_name":
		v, err := requiredParam(params, "client_name")
		if err != nil {
			return AppointmentFilter{}, err
		}
		return AppointmentFilter{Kind: FilterByClientName, ClientName: v}, nil
	case "by_staff_name":
		v, err := requiredParam(params, "staff_name")
		if err != nil {
			return AppointmentFilter{}, err
		}
		return AppointmentFilter{Kind: FilterByStaffName, StaffName: v}, nil
	case "by_specific_date":
		v, err := requiredParam(params, "date")
		if err != nil {
			return AppointmentFilter{}, err
		}
		return AppointmentFilter{Kind: FilterBySpecificDate, Date: v}, nil
	}
	return AppointmentFilter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, name)
}

func requiredParam(params map[string]string, key string) (string, error) {
	v := strings.TrimSpace(params[key])
	if v == "" {
		return "", fmt.Errorf("%w: missing %s for this filter", ErrMissingFilterParameter, key)
	}
	return v, nil
}
