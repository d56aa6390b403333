package middleware

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/services"
)

type contextKey string

const sessionContextKey contextKey = "session"

const revokedKeyPrefix = "session:revoked:"

// RevocationStore is the slice of the redis client the session middleware
// needs, kept narrow so tests can stand in for it.
type RevocationStore interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionMiddleware extracts an established session from a Bearer token and
// attaches its claims to the request context. It never rejects a request:
// identity may still arrive through explicit request fields, and whether
// the identity is genuine is decided by the authorization guard downstream.
type SessionMiddleware struct {
	publicKey   *rsa.PublicKey
	revocations RevocationStore
	logger      *zap.Logger
}

func NewSessionMiddleware(publicKey *rsa.PublicKey, revocations RevocationStore, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{publicKey: publicKey, revocations: revocations, logger: logger}
}

func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := m.extract(r); claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionMiddleware) extract(r *http.Request) *services.SessionClaims {
	if m.publicKey == nil {
		return nil
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})
	if err != nil || !token.Valid {
		m.logger.Debug("session token rejected", zap.Error(err))
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || role == "" {
		return nil
	}

	if jti != "" && m.revocations != nil {
		n, err := m.revocations.Exists(r.Context(), revokedKeyPrefix+jti).Result()
		if err != nil {
			m.logger.Warn("session revocation check failed", zap.Error(err))
			return nil
		}
		if n > 0 {
			return nil
		}
	}

	return &services.SessionClaims{Subject: sub, Role: role, TokenID: jti}
}

// SessionFromContext returns the established session claims, or nil when
// the request carried none.
func SessionFromContext(ctx context.Context) *services.SessionClaims {
	claims, _ := ctx.Value(sessionContextKey).(*services.SessionClaims)
	return claims
}
