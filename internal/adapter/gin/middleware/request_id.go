package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-directory/pkg/logger"
)

// RequestID reuses an inbound X-Request-ID or generates one, echoes it on the
// response and stores it on the request context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logger.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Header(logger.RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
