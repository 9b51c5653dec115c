package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignal returns a context that is canceled on SIGINT or SIGTERM.
// A second signal during shutdown exits the process with status 1.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
			return
		}
		if _, ok := <-sigCh; ok {
			os.Exit(1)
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
