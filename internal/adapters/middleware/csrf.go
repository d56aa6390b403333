package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	csrfHeader    = "X-CSRF-Token"
	csrfKeyPrefix = "csrf:"
)

// TokenStore is the slice of the redis client used for CSRF verification.
type TokenStore interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// CSRFMiddleware verifies request CSRF tokens against the token store.
// Issuance happens elsewhere (the session frontend); only verification is
// this service's contract. Applied to mutating endpoints.
type CSRFMiddleware struct {
	store  TokenStore
	logger *zap.Logger
}

func NewCSRFMiddleware(store TokenStore, logger *zap.Logger) *CSRFMiddleware {
	return &CSRFMiddleware{store: store, logger: logger}
}

func (m *CSRFMiddleware) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(csrfHeader)
		if token == "" {
			writeMiddlewareError(w, http.StatusForbidden, "Invalid CSRF token")
			return
		}

		n, err := m.store.Exists(r.Context(), csrfKeyPrefix+token).Result()
		if err != nil {
			m.logger.Error("csrf token lookup failed", zap.Error(err))
			writeMiddlewareError(w, http.StatusServiceUnavailable, "CSRF validation unavailable")
			return
		}
		if n == 0 {
			writeMiddlewareError(w, http.StatusForbidden, "Invalid CSRF token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeMiddlewareError renders the same envelope the handlers use; the
// middleware package cannot import the handler package without a cycle.
func writeMiddlewareError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
