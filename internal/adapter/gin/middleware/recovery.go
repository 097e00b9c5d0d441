package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "user-directory/pkg/errors"
	"user-directory/pkg/logger"
)

// Recovery turns a panic into a 500 {message} response and logs the stack.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": pkgerrors.InternalMessage,
				})
			}
		}()

		c.Next()
	}
}
