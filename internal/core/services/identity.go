package services

import (
	"fmt"
	"strconv"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
)

// SessionClaims is the identity half carried by an established session
// token. The middleware extracts it; this package only consumes it.
type SessionClaims struct {
	Subject string
	Role    string
	TokenID string
}

// ResolveIdentity produces the acting (actorId, role) pair from explicit
// request fields and, where those are absent, the established session.
// Explicit fields take precedence when both are present. It performs no
// lookups and no side effects; whether the identity is genuine is the
// authorization guard's concern.
func ResolveIdentity(explicitID, explicitRole string, session *SessionClaims) (domain.Identity, error) {
	rawID := explicitID
	rawRole := explicitRole
	if session != nil {
		if rawID == "" {
			rawID = session.Subject
		}
		if rawRole == "" {
			rawRole = session.Role
		}
	}
	if rawID == "" || rawRole == "" {
		return domain.Identity{}, domain.ErrMissingIdentity
	}

	actorID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || actorID <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: malformed user ID", domain.ErrMissingIdentity)
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: malformed role", domain.ErrMissingIdentity)
	}
	return domain.Identity{ActorID: actorID, Role: role}, nil
}
