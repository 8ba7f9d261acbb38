package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cyra/apachelogs/internal/cmd"
)

var version = "dev" // Set via ldflags: -X main.version=v1.0.0

func main() {
	// Set up root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signalContext()
	defer cancel()

	if err := cmd.Execute(ctx, version); err != nil {
		cancel()
		os.Exit(1)
	}
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
