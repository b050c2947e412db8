// Command opsrag is a CLI assistant that answers Cloud & DevOps
// questions from a locally built documentation knowledge base.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cloudops-labs/opsrag-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func init() {
	// Load .env file if exists
	_ = godotenv.Load()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
