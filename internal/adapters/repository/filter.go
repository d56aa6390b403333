package repository

import (
	"fmt"
	"strings"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
)

// whereBuilder accumulates AND-composed predicates. Each ? in a predicate is
// rewritten to the next ordinal $n placeholder and its value appended to the
// argument list, so user input can only ever travel as a bound parameter.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, args ...any) {
	var sb strings.Builder
	next := 0
	for _, r := range cond {
		if r == '?' {
			b.args = append(b.args, args[next])
			next++
			fmt.Fprintf(&sb, "$%d", len(b.args))
			continue
		}
		sb.WriteRune(r)
	}
	b.conds = append(b.conds, sb.String())
}

// clause renders the WHERE clause, or an empty string when no predicate was
// added.
func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the ordinal of the next placeholder, for callers appending
// LIMIT/OFFSET parameters after the predicates.
func (b *whereBuilder) next() int {
	return len(b.args) + 1
}

// compileAppointmentFilter maps one filter variant onto exactly one
// predicate over the appointment listing join (a = appointments, u = client
// users, st = staff users). today is the injected current date so date
// comparisons stay deterministic under test.
func compileAppointmentFilter(b *whereBuilder, f domain.AppointmentFilter, today string) {
	switch f.Kind {
	case domain.FilterToday:
		b.add("a.date = ?", today)
	case domain.FilterUpcoming:
		b.add("a.date > ?", today)
	case domain.FilterPast:
		b.add("a.date < ?", today)
	case domain.FilterCompleted, domain.FilterPending, domain.FilterCancelled:
		b.add("LOWER(a.status) = ?", f.StatusName())
	case domain.FilterByClientName:
		b.add("u.full_name ILIKE ?", "%"+f.ClientName+"%")
	case domain.FilterByStaffName:
		b.add("st.full_name ILIKE ?", "%"+f.StaffName+"%")
	case domain.FilterBySpecificDate:
		b.add("a.date = ?", f.Date)
	}
}
