// Command atlasctl browses the cloud atlas catalog from a terminal and talks to
// the classification service.
//
// Usage:
//
//	atlasctl genera --level high
//	atlasctl index supplementary -q 비
//	atlasctl classify sky.jpg --classifier-url http://127.0.0.1:8000/predict
//	atlasctl watch
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
