package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"user-directory/pkg/metrics"
)

// Metrics records request count and latency per route template so ids do
// not explode label cardinality.
func Metrics(m *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.IncrementActiveConnections()
		defer m.DecrementActiveConnections()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
