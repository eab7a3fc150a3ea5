package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"session-gate/internal/auth/provider"
	"session-gate/internal/auth/resolver"
	"session-gate/internal/logger"
	"session-gate/internal/metrics"
	"session-gate/internal/session"
)

const (
	// FailureRedirect is where every failed sign-in ends up.
	FailureRedirect = "/login"
	// SuccessRedirect is where a completed sign-in lands.
	SuccessRedirect = "/loggedin"
	// LogoutRedirect is where logout sends the browser.
	LogoutRedirect = "/"
)

type Handler struct {
	providers *provider.Registry
	sessions  *session.Manager
	resolver  resolver.Resolver
	metrics   *metrics.Metrics
	flow      flowCookies
}

func NewHandler(
	registry *provider.Registry,
	sessions *session.Manager,
	resolver resolver.Resolver,
	m *metrics.Metrics,
	secureCookies bool,
) *Handler {
	return &Handler{
		providers: registry,
		sessions:  sessions,
		resolver:  resolver,
		metrics:   m,
		flow:      flowCookies{secure: secureCookies},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/auth/:provider", h.login)
	r.GET("/auth/:provider/callback", h.callback)
	r.POST("/auth/logout", h.Logout)
}

// login redirects the browser to the provider's consent screen.
func (h *Handler) login(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state, err := h.flow.generateState(c)
	if err != nil {
		h.fail(c, p.Name(), "state generation failed", err)
		return
	}

	_, codeChallenge, err := h.flow.generatePKCE(c)
	if err != nil {
		h.fail(c, p.Name(), "pkce generation failed", err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

// callback completes the handshake. Every failure path lands on /login with
// no session change; success rotates the session and lands on /loggedin.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	validState := h.flow.validateState(c)
	codeVerifier := h.flow.pkceVerifier(c)
	h.flow.clear(c, stateCookieName)
	h.flow.clear(c, pkceCookieName)

	if !validState {
		h.fail(c, providerName, "invalid oauth state", nil)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.fail(c, providerName, "provider returned error", errors.New(errParam))
		return
	}

	code := c.Query("code")
	if code == "" {
		h.fail(c, providerName, "callback missing code", nil)
		return
	}

	if codeVerifier == "" {
		h.fail(c, providerName, "missing pkce verifier", nil)
		return
	}

	ctx := c.Request.Context()

	identity, err := p.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		h.fail(c, providerName, "code exchange failed", err)
		return
	}

	user, err := h.resolver.Resolve(ctx, identity)
	if err != nil {
		h.fail(c, providerName, "identity resolve failed", err)
		return
	}

	prev, err := h.sessions.LoadRequest(c.Request)
	if err != nil && !errors.Is(err, session.ErrInvalidCookie) {
		logger.Warn("previous session lookup failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := h.sessions.Login(ctx, c.Writer, prev, user); err != nil {
		h.fail(c, providerName, "session login failed", err)
		return
	}

	h.metrics.ObserveLogin(providerName, true)
	logger.Info("login succeeded", map[string]any{
		"provider":  providerName,
		"user_id":   user.ID,
		"client_ip": c.ClientIP(),
	})

	c.Redirect(http.StatusFound, SuccessRedirect)
}

// Logout ends the caller's session, if any, and always redirects home.
func (h *Handler) Logout(c *gin.Context) {
	s, err := h.sessions.LoadRequest(c.Request)
	if err != nil && !errors.Is(err, session.ErrInvalidCookie) {
		logger.Warn("logout session lookup failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := h.sessions.Destroy(c.Request.Context(), c.Writer, s); err != nil {
		logger.Error("logout delete failed", map[string]any{
			"error": err.Error(),
		})
	}

	if s != nil {
		logger.Info("logout", map[string]any{
			"user_id":   s.UserID,
			"client_ip": c.ClientIP(),
		})
	}

	c.Redirect(http.StatusSeeOther, LogoutRedirect)
}

func (h *Handler) fail(c *gin.Context, providerName, reason string, err error) {
	fields := map[string]any{
		"provider": providerName,
		"reason":   reason,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.Warn("login failed", fields)

	h.metrics.ObserveLogin(providerName, false)
	c.Redirect(http.StatusFound, FailureRedirect)
}
