package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// RequestIDKey is the context key for request ID
var RequestIDKey = contextKey{}

// RequestIDHeader carries the request id in and out of HTTP calls
const RequestIDHeader = "X-Request-ID"

// ContextWithRequestID stores a request id on the context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithContext returns logger tagged with the request_id found on ctx, if any.
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := GetRequestID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
