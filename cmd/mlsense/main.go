// Package main is the entry point for the mlsense CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/mlsense/internal/cli"
	"github.com/yaklabco/mlsense/internal/logging"
	"github.com/yaklabco/mlsense/internal/lsp"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// ErrIssuesFound and an unclean language-server exit only set the exit code.
		if !errors.Is(err, cli.ErrIssuesFound) && !errors.Is(err, lsp.ErrExitWithoutShutdown) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}

	return 0
}
