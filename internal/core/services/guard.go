package services

import (
	"context"
	"errors"

	"github.com/avelarb/lumina-salon/booking-service/internal/core/domain"
	"github.com/avelarb/lumina-salon/booking-service/internal/core/ports"
)

// GuardService verifies a resolved identity against the user store. It is
// idempotent and side-effect free, and runs before any read or write in
// every entry point.
type GuardService struct {
	users ports.UserRepository
}

var _ ports.AuthorizationGuard = (*GuardService)(nil)

func NewGuardService(users ports.UserRepository) *GuardService {
	return &GuardService{users: users}
}

// Authorize checks, in order: the actor exists, the stored role matches the
// claimed role, the stored role is among the allowed ones and, for admins,
// the account is active. The existence check runs first so a caller cannot
// probe whether a role string is valid for a nonexistent user, and every
// rejection is the same opaque domain.ErrUnauthorized.
func (g *GuardService) Authorize(ctx context.Context, id domain.Identity, allowed ...domain.Role) (*domain.User, error) {
	user, err := g.users.FindByID(ctx, id.ActorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if user.Role != id.Role {
		return nil, domain.ErrUnauthorized
	}

	permitted := false
	for _, role := range allowed {
		if user.Role == role {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, domain.ErrUnauthorized
	}

	if user.Role == domain.RoleAdmin && !user.IsActive {
		return nil, domain.ErrUnauthorized
	}

	return user, nil
}
