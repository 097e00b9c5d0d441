package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"user-directory/cmd/api/app"
	"user-directory/internal/server"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		a.Logger.Error("application exited with error", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
