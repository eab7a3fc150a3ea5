package auth

// Identity is what a provider asserts about the person who completed the
// OAuth handshake. Only ProviderUserID is guaranteed to be set.
type Identity struct {
	Provider       string // registry name, e.g. "google"
	ProviderUserID string // stable per-user id (OIDC sub)
	Email          string // may be empty when the scope was not granted
	EmailVerified  bool
}
