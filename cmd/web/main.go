// Command web serves the HTML frontend. It talks to the user API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"user-directory/internal/server"
	"user-directory/internal/client"
	"user-directory/internal/config"
	"user-directory/internal/web"
	"user-directory/pkg/logger"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("web frontend exited with error: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "."
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateWeb(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.NewWithConfig(cfg.LoggerOptions("web"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := l.Sync(); err != nil && !logger.IsSyncNoise(err) {
			log.Printf("logger sync: %v", err)
		}
	}()

	server.ConfigureMode(cfg.App.Env)

	api, err := client.New(cfg.Web.APIBaseURL,
		client.WithTimeout(time.Duration(cfg.Web.APITimeoutSeconds)*time.Second),
		client.WithLogger(l),
	)
	if err != nil {
		return err
	}

	router, err := web.NewRouter(api, l)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	srv := server.New(server.WebAddress(cfg), l, router)
	l.Info("starting web frontend",
		zap.String("api_base_url", cfg.Web.APIBaseURL),
		zap.String("environment", cfg.App.Env),
	)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()

	var serveErr error
	select {
	case <-ctx.Done():
		l.Info("shutting down web frontend...")
	case serveErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.App.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("failed to shutdown HTTP server", zap.Error(err))
		serveErr = errors.Join(serveErr, err)
	}
	return serveErr
}
