package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-directory/api"
	"user-directory/internal/adapter/gin/handler"
	"user-directory/internal/adapter/gin/middleware"
	"user-directory/pkg/logger"
	"user-directory/pkg/metrics"
)

const swaggerDocPath = "/users.swagger.json"

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Options carries everything the router wires together.
type Options struct {
	ServiceName    string
	CORSOrigin     string
	UserHandler    *handler.UserHandler
	RateLimiter    *middleware.RateLimiter // nil disables limiting
	Metrics        *metrics.AppMetrics
	MetricsHandler http.Handler // nil hides /metrics
	HealthChecks   map[string]HealthCheck
	Log            *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middleware
	router.Use(
		middleware.Recovery(opts.Log),
		middleware.RequestID(),
		middleware.Logger(opts.Log),
		middleware.Metrics(opts.Metrics),
		middleware.CORS(opts.CORSOrigin),
		opts.RateLimiter.Handler(),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Message: "Route not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponse{Message: "Method not allowed"})
	})

	router.GET("/health", healthHandler(opts.ServiceName, opts.HealthChecks, opts.Log))

	if opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	swaggerUI := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger" + swaggerDocPath)))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == swaggerDocPath {
			c.Data(http.StatusOK, "application/json", api.SwaggerJSON)
			return
		}
		swaggerUI(c)
	})

	users := router.Group("/users")
	{
		users.GET("", opts.UserHandler.ListUsers)
		users.POST("", opts.UserHandler.CreateUser)
		users.GET("/:id", opts.UserHandler.GetUser)
		users.PUT("/:id", opts.UserHandler.UpdateUser)
		users.DELETE("/:id", opts.UserHandler.DeleteUser)
	}

	return router
}

// healthHandler reports per-dependency state. Failure detail goes to the log,
// never to the caller.
func healthHandler(service string, checks map[string]HealthCheck, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WithContext(c.Request.Context(), log).Warn("health check failed",
					zap.String("dependency", name), zap.Error(err))
				deps[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":       state,
			"service":      service,
			"dependencies": deps,
		})
	}
}
