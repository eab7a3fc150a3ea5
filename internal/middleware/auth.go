package middleware

import (
	"net/http"

	"session-gate/internal/metrics"
	"session-gate/internal/session"
)

// AnonymousLanding is where unauthenticated page requests are sent.
const AnonymousLanding = "/"

// AuthMiddleware is the HTTP session gate.
type AuthMiddleware struct {
	metrics *metrics.Metrics
}

func NewAuthMiddleware(m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{metrics: m}
}

// RequireAuth lets a request through only when the session attached by the
// Session middleware is authenticated; anything else is redirected to the
// anonymous landing page and next is not called.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFromContext(r.Context())

		if !session.IsAuthenticated(s) {
			a.metrics.ObserveGate(metrics.GateHTTP, false)
			http.Redirect(w, r, AnonymousLanding, http.StatusFound)
			return
		}

		a.metrics.ObserveGate(metrics.GateHTTP, true)
		next.ServeHTTP(w, r)
	})
}
