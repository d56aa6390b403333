package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/avelarb/lumina-salon/booking-service/internal/adapters/middleware"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/services"
)

// resolveIdentity combines explicit user_id/role request fields with the
// established session attached by the middleware. Explicit fields win.
func resolveIdentity(r *http.Request) (domain.Identity, error) {
	return services.ResolveIdentity(
		r.FormValue("user_id"),
		r.FormValue("role"),
		middleware.SessionFromContext(r.Context()),
	)
}

func formID(r *http.Request, key string) (int64, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingParameter, key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed %s", domain.ErrMissingParameter, key)
	}
	return id, nil
}

// formField reports a field's value together with whether it was supplied
// at all, so partial updates can tell "absent" apart from "set to empty".
// r.Form is populated by the first FormValue call in the handler.
func formField(r *http.Request, key string) (string, bool) {
	vals, ok := r.Form[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
