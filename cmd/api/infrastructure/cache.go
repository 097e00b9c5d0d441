package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"user-directory/internal/adapter/cache"
	"user-directory/internal/config"
	redisclient "user-directory/pkg/redis"
)

// NewRedisClient creates a new Redis client with configuration
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	redisConfig := redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}

	rdb, err := redisclient.NewClient(ctx, redisConfig, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// NewUserCache selects the cache backend. It returns nil for "none", which
// the cached repository treats as pass-through.
func NewUserCache(cfg *config.Config, rdb *redisclient.Client, l *zap.Logger) (cache.UserCache, error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	switch cfg.Cache.Backend {
	case "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryUserCache(ttl, l), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis cache requested without a redis client")
		}
		return cache.NewRedisUserCache(rdb.Client, ttl, l), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}
