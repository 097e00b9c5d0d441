package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory/cmd/api/infrastructure"
	"user-directory/internal/adapter/db/gormdb"
	ginhandler "user-directory/internal/adapter/gin/handler"
	"user-directory/internal/adapter/gin/middleware"
	ginrouter "user-directory/internal/adapter/gin/router"
	"user-directory/internal/adapter/repository/cached"
	"user-directory/internal/config"
	"user-directory/internal/usecase/user"
	"user-directory/pkg/metrics"
	redisclient "user-directory/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil unless cache or rate limiter need it
	Registry    *prometheus.Registry
	Metrics     *metrics.AppMetrics
	UserUC      user.Usecase
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		// release whatever was opened before the failure
		if err != nil {
			_ = c.Close()
		}
	}()

	c.DB, err = infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.UsesRedis() {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewAppMetrics(c.Registry)
	if sqlDB, dbErr := c.DB.DB(); dbErr == nil {
		c.Registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, cfg.DB.Driver))
	}
	if c.RedisClient != nil {
		c.Registry.MustRegister(redisclient.NewPoolCollector(c.RedisClient))
	}

	userCache, err := infrastructure.NewUserCache(cfg, c.RedisClient, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	dbRepo := gormdb.NewUserRepo(c.DB, l)
	repo := cached.NewCachedUserRepository(dbRepo, userCache, l)

	c.UserUC = user.New(repo, l, user.WithMetrics(c.Metrics))
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	if c.RedisClient != nil {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				WindowSeconds:     cfg.RateLimit.WindowSeconds,
				Enabled:           cfg.RateLimit.Enabled,
			},
			c.Metrics,
			l,
		)
	}

	c.Router = ginrouter.SetupRouter(ginrouter.Options{
		ServiceName:    cfg.Logger.ServiceName,
		CORSOrigin:     cfg.App.CORSOrigin,
		UserHandler:    c.GinHandler,
		RateLimiter:    c.RateLimiter,
		Metrics:        c.Metrics,
		MetricsHandler: promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}),
		HealthChecks:   c.healthChecks(),
		Log:            l,
	})

	return c, nil
}

// Handler is the root HTTP handler of the API.
func (c *Container) Handler() http.Handler {
	return c.Router
}

func (c *Container) healthChecks() map[string]ginrouter.HealthCheck {
	checks := map[string]ginrouter.HealthCheck{
		"database": infrastructure.PingDatabase(c.DB),
	}
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Ping
	}
	return checks
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
