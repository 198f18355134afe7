package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/postmortem/internal/diagctx"
	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
)

var (
	latestDir      string
	latestProg     string
	latestPathOnly bool
)

// reportFs holds the reports that latest reads and stress writes.
var reportFs afero.Fs = afero.NewOsFs()

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the newest report of a program",
	Args:  cobra.NoArgs,
	RunE:  runLatest,
}

func init() {
	latestCmd.Flags().StringVar(&latestDir, "dir", "", "report directory (default: configured report.dir)")
	latestCmd.Flags().StringVar(&latestProg, "prog", "", "program name (default: this program)")
	latestCmd.Flags().BoolVar(&latestPathOnly, "path", false, "print the report path only")
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, _ []string) error {
	dir := latestDir
	if dir == "" {
		dir = app.cfg.Report.Dir
	}
	if dir == "" {
		dir = os.TempDir()
	}
	prog := latestProg
	if prog == "" {
		prog = diagctx.ProgramName()
	}

	path, err := postmortem.LatestReport(reportFs, dir, app.cfg.Report.Prefix, prog)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if latestPathOnly {
		fmt.Fprintln(out, path)
		return nil
	}
	data, err := afero.ReadFile(reportFs, path)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	_, err = out.Write(data)
	return err
}
