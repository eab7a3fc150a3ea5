package app

import (
	"context"
	"fmt"

	"session-gate/internal/config"
	"session-gate/internal/logger"
	"session-gate/internal/redis"
	"session-gate/internal/session"
)

type Infra struct {
	Store session.Store
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	switch cfg.Session.Store {
	case "redis":
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("redis ready", map[string]any{
			"addr": cfg.Redis.Addr,
		})
		return &Infra{
			Store: session.NewRedisStore(redisClient.Client, ""),
			Redis: redisClient,
		}, nil

	case "memory", "":
		logger.Info("using in-memory session store", nil)
		return &Infra{Store: session.NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("app: unknown session store %q", cfg.Session.Store)
	}
}

// Close releases the store and its connection.
func (i *Infra) Close() error {
	if m, ok := i.Store.(*session.MemoryStore); ok {
		_ = m.Close()
	}
	if i.Redis != nil {
		return i.Redis.Close()
	}
	return nil
}
