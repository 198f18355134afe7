package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportReason     string
	reportMessage    string
	reportFatal      bool
	reportSessionLog string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a report for this process",
	Long: `Write a stack-trace report for this process using the configured
directory and commands.

Without --fatal the report is non-fatal: it includes a resource snapshot and
the contents of --session-log. With --fatal the postmortem handler runs on
the report and the command exits with status 1.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportReason, "reason", "", "why the report is written (required)")
	reportCmd.Flags().StringVar(&reportMessage, "message", "", "detail line added to the report")
	reportCmd.Flags().BoolVar(&reportFatal, "fatal", false, "write a fatal report and exit 1")
	reportCmd.Flags().StringVar(&reportSessionLog, "session-log", "", "file appended to a non-fatal report")
	_ = reportCmd.MarkFlagRequired("reason")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reportReason == "" {
		return errors.New("--reason must not be empty")
	}
	out := cmd.OutOrStdout()
	r := app.reporter

	if reportFatal {
		path, err := r.ReportFatal(reportReason, reportMessage, "")
		if err != nil {
			return fmt.Errorf("writing fatal report: %w", err)
		}
		if path != "" {
			fmt.Fprintln(out, path)
		}
		return &ExitError{Code: 1}
	}

	reason := reportReason
	if reportMessage != "" {
		reason += ": " + reportMessage
	}
	path, err := r.LogStackTrace(reason, false, reportSessionLog)
	if path != "" {
		fmt.Fprintln(out, path)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
