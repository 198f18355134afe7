package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
)

// Exit statuses for outcomes that have no child status of their own.
const (
	exitTimedOut      = 124
	exitCouldNotStart = supervise.ExecFailedStatus
	exitInterrupted   = 130
)

var (
	superviseTimeout  time.Duration
	superviseDetach   bool
	superviseProgress bool
)

var superviseCmd = &cobra.Command{
	Use:   "supervise [flags] -- <path> [args...]",
	Short: "Run a command under a wall-clock timeout",
	Long: `Run a command the way the postmortem handler is run: in its own process
group, killed and reaped when the timeout expires. Exits with the child's
status, 124 on timeout, 127 when the command cannot be launched and
128+signal when the child dies by signal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSupervise,
}

func init() {
	superviseCmd.Flags().DurationVar(&superviseTimeout, "timeout", 30*time.Second,
		"kill the command after this long (0 disables)")
	superviseCmd.Flags().BoolVar(&superviseDetach, "detach", false,
		"start the command in a new session (default: only with a controlling terminal)")
	superviseCmd.Flags().BoolVar(&superviseProgress, "progress", false,
		"print elapsed time while waiting")
	rootCmd.AddCommand(superviseCmd)
}

func runSupervise(cmd *cobra.Command, args []string) error {
	opts := supervise.Options{Timeout: superviseTimeout}
	if cmd.Flags().Changed("detach") {
		detach := superviseDetach
		opts.Detach = &detach
	}
	if superviseProgress {
		errOut := cmd.ErrOrStderr()
		opts.Periodic = func(elapsed time.Duration) {
			fmt.Fprintf(errOut, "waiting for %s (%s)\n", args[0], elapsed.Truncate(time.Second))
		}
	}

	if app != nil {
		app.logger.Debug("supervising command", "command", args[0], "timeout", superviseTimeout)
	}
	res, err := supervise.Supervise(commandContext(cmd), args[0], args, opts)
	return printOutcome(cmd.OutOrStdout(), args[0], res, err)
}

// printOutcome describes a supervised run and converts it to an exit status.
func printOutcome(w io.Writer, path string, res supervise.Result, err error) error {
	elapsed := res.Elapsed.Round(time.Millisecond)
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s (pid %d) exited with status %d after %s\n", path, res.Pid, res.ExitCode, elapsed)
		if res.ExitCode != 0 {
			return &ExitError{Code: res.ExitCode}
		}
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(w, "%s (pid %d) was interrupted after %s and killed\n", path, res.Pid, elapsed)
		return &ExitError{Code: exitInterrupted}
	case core.IsTimeout(err):
		fmt.Fprintf(w, "%s (pid %d) timed out after %s and was killed\n", path, res.Pid, elapsed)
		return &ExitError{Code: exitTimedOut}
	case core.IsCouldNotLaunch(err):
		fmt.Fprintf(w, "%s could not be launched: %v\n", path, err)
		return &ExitError{Code: exitCouldNotStart}
	}
	if sig, ok := core.SignalOf(err); ok {
		fmt.Fprintf(w, "%s (pid %d) was killed by signal %d (%s)\n", path, res.Pid, int(sig), sig)
		return &ExitError{Code: 128 + int(sig)}
	}
	return err
}
