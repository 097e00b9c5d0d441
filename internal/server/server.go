package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory/internal/config"
)

const (
	readHeaderTimeout = 2 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server owns one HTTP listener. The API and the web frontend each run one.
type Server struct {
	Logger *zap.Logger
	Gin    *http.Server
}

// New wraps handler in an http.Server listening on addr. Server errors are
// routed through l instead of the standard logger.
func New(addr string, l *zap.Logger, handler http.Handler) *Server {
	errLog, err := zap.NewStdLogAt(l.Named("http"), zap.WarnLevel)
	if err != nil {
		errLog = nil
	}
	return &Server{
		Logger: l,
		Gin: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ErrorLog:          errLog,
		},
	}
}

// APIAddress returns the listen address of the REST API.
func APIAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}

// WebAddress returns the listen address of the HTML frontend.
func WebAddress(cfg *config.Config) string {
	return ":" + cfg.Web.Port
}

// ConfigureMode sets gin's global mode from APP_ENV. It must run before any
// router is built.
func ConfigureMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Gin.Shutdown(ctx)
}
