package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-directory/pkg/logger"
	"user-directory/pkg/metrics"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// MaxRequests is the number of requests admitted per window.
func (c RateLimiterConfig) MaxRequests() int64 {
	n := int64(c.RequestsPerSecond * float64(c.WindowSeconds))
	if n < 1 {
		n = 1
	}
	return n
}

// fixedWindow increments the per-key counter and starts the window on the first hit.
var fixedWindow = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	end
	return count
`)

// RateLimiter implements a Redis fixed-window limiter keyed by method, route and client IP.
type RateLimiter struct {
	client  redis.Scripter
	config  RateLimiterConfig
	metrics *metrics.AppMetrics
	log     *zap.Logger
}

// NewRateLimiter creates a new rate limiter. A nil client disables limiting.
func NewRateLimiter(client redis.Scripter, config RateLimiterConfig, m *metrics.AppMetrics, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client:  client,
		config:  config,
		metrics: m,
		log:     log,
	}
}

// Handler returns the gin middleware. Redis failures let the request through.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled || rl.client == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, route, c.ClientIP())
		limit := rl.config.MaxRequests()

		count, err := fixedWindow.Run(c.Request.Context(), rl.client, []string{key}, rl.config.WindowSeconds).Int64()
		if err != nil {
			// fail open
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limiter redis error, allowing request",
				zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if count > limit {
			rl.metrics.RecordRateLimitHit(route)
			rl.log.Debug("rate limit exceeded", zap.String("key", key), zap.Int64("count", count))
			c.Header("Retry-After", fmt.Sprint(rl.config.WindowSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": fmt.Sprintf("Rate limit exceeded: %d requests per %d seconds", limit, rl.config.WindowSeconds),
			})
			return
		}

		c.Next()
	}
}
