// Command ragsec runs the guarded RAG platform: API servers, ingestion
// and query tooling, an interactive chat and an MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driving/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
