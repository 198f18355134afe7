package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hugo-lorenzo-mato/postmortem/cmd/postmortem/cmd"
	"github.com/hugo-lorenzo-mato/postmortem/internal/diagctx"
	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
)

// Version information - set by goreleaser at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	diagctx.SetProgramNameFromArgs()
	cmd.SetVersion(version, commit, date)

	// Interrupts cancel supervised children instead of killing the CLI.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil && !cmd.IsExitError(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	postmortem.Exit(cmd.ExitCode(err))
}
