package resolver

import (
	"context"

	"session-gate/internal/auth"
	"session-gate/internal/session"
)

// Resolver decides which user an external identity signs in as.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*session.User, error)
}
