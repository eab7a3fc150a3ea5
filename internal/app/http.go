package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"session-gate/internal/auth/handler"
	"session-gate/internal/auth/provider"
	"session-gate/internal/auth/provider/google"
	"session-gate/internal/auth/resolver"
	"session-gate/internal/config"
	"session-gate/internal/gate"
	"session-gate/internal/metrics"
	"session-gate/internal/middleware"
	"session-gate/internal/realtime"
	"session-gate/internal/session"
	"session-gate/internal/telemetry"
	"session-gate/internal/web"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Sessions     *session.Manager
	Providers    *provider.Registry
	Resolver     resolver.Resolver
	Metrics      *metrics.Metrics
	Hub          *realtime.Hub
	CookieSecure bool
	Tracing      bool
}

// NewRouter mounts every route. Page routes get a session (anonymous when
// needed); /loggedin and /api sit behind the HTTP session gate; /ws applies
// the connection gate itself and never creates sessions.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handler.NewHandler(
		d.Providers,
		d.Sessions,
		d.Resolver,
		d.Metrics,
		d.CookieSecure,
	)
	authMiddleware := middleware.NewAuthMiddleware(d.Metrics)
	wsServer := realtime.NewServer(gate.New(d.Sessions), d.Hub, d.Metrics, realtime.Options{})

	router := gin.New()
	router.Use(gin.Recovery())
	if d.Tracing {
		router.Use(otelgin.Middleware(telemetry.ServiceName))
	}
	router.Use(
		d.Metrics.GinMiddleware(),
		middleware.Correlation(),
		middleware.RequestLog(),
	)
	router.SetHTMLTemplate(web.Templates())

	// ----------------------------
	// Public Routes
	// ----------------------------

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	authHandler.RegisterRoutes(router)

	router.GET("/ws", gin.WrapH(wsServer))

	pages := router.Group("")
	pages.Use(middleware.Session(d.Sessions))

	pages.GET("/", web.Index)
	pages.GET("/login", web.Index)

	// ----------------------------
	// Protected Routes
	// ----------------------------

	protected := pages.Group("")
	protected.Use(middleware.GinRequireAuth(authMiddleware))

	protected.GET("/loggedin", web.LoggedIn)
	protected.GET("/loggedin/*path", web.LoggedIn)
	protected.GET("/api/me", web.Me)

	return router
}

func setupHTTP(ctx context.Context, cfg config.Config, infra *Infra, m *metrics.Metrics, hub *realtime.Hub) (*gin.Engine, error) {
	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(infra.Store, codec, cfg.Session.TTL, session.CookieOptions{
		Secure:   cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	googleProvider, err := google.New(
		ctx,
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.CallbackURL,
	)
	if err != nil {
		return nil, err
	}

	return NewRouter(Deps{
		Sessions:     sessions,
		Providers:    provider.NewRegistry(googleProvider),
		Resolver:     resolver.NewProfileResolver(),
		Metrics:      m,
		Hub:          hub,
		CookieSecure: cfg.Session.CookieSecure,
		Tracing:      cfg.OTelEndpoint != "",
	}), nil
}
