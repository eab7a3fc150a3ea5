package resolver

import (
	"context"
	"errors"

	"session-gate/internal/auth"
	"session-gate/internal/session"
)

// ErrEmptyIdentity is returned for identities without a provider user id.
var ErrEmptyIdentity = errors.New("resolver: identity has no provider user id")

// ProfileResolver signs the user in as the provider's own id. Nothing is
// persisted; the session carries the id and nothing else.
type ProfileResolver struct{}

func NewProfileResolver() *ProfileResolver {
	return &ProfileResolver{}
}

func (r *ProfileResolver) Resolve(
	_ context.Context,
	identity *auth.Identity,
) (*session.User, error) {
	if identity == nil || identity.ProviderUserID == "" {
		return nil, ErrEmptyIdentity
	}
	return &session.User{ID: identity.ProviderUserID}, nil
}
