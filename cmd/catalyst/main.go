// Command catalyst converts tuist project graphs into bazel workspaces
// and drives builds and simulator deploys from them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/catalyst-labs/catalyst/internal/cli"
)

func main() {
	// Ctrl+C cancels in-flight tuist, bazel and simctl invocations.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
