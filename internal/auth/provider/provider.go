package provider

import (
	"context"

	"session-gate/internal/auth"
)

// OAuthProvider is one external identity provider. Implementations perform
// the code exchange and return identity facts only; sessions are not their
// concern.
type OAuthProvider interface {
	// Name is the path segment used in /auth/:provider.
	Name() string

	// AuthCodeURL returns the provider's authorization URL for the given
	// state and PKCE S256 challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode redeems an authorization code and returns the verified
	// identity. Any error means the sign-in failed.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}
