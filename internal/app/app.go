package app

import (
	"context"
	"errors"
	"net/http"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"session-gate/internal/config"
	"session-gate/internal/logger"
	"session-gate/internal/metrics"
	"session-gate/internal/realtime"
	"session-gate/internal/telemetry"
)

type App struct {
	httpServer *http.Server
	cleanup    func(ctx context.Context) error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	var tp *sdktrace.TracerProvider
	if cfg.OTelEndpoint != "" {
		var err error
		tp, err = telemetry.InitTracer(ctx, cfg.OTelEndpoint)
		if err != nil {
			return nil, err
		}
		logger.Info("tracing enabled", map[string]any{
			"endpoint": cfg.OTelEndpoint,
		})
	}

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub()
	router, err := setupHTTP(ctx, cfg, infra, metrics.New(), hub)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}
	// Shutdown does not track hijacked connections.
	server.RegisterOnShutdown(hub.Close)

	return &App{
		httpServer: server,
		cleanup: func(ctx context.Context) error {
			var errs []error
			errs = append(errs, infra.Close())
			if tp != nil {
				errs = append(errs, tp.Shutdown(ctx))
			}
			return errors.Join(errs...)
		},
	}, nil
}

// Run blocks serving HTTP. It returns nil after a graceful Shutdown.
func (a *App) Run() error {
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup(ctx)
	}
	return nil
}
