// File: cmd/titan/main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Ancillary-AGI/titan/cmd"
)

// main is the entry point of the application.
func main() {
	// Set up a context that listens for interrupt signals (SIGINT, SIGTERM)
	// for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.ExecuteContext(ctx)
}
