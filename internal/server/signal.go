package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignal returns a context canceled on the first SIGINT or SIGTERM.
// Calling stop restores default signal handling, so a second signal kills
// the process even while shutdown is still draining.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
