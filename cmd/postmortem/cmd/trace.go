package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
)

var traceDepth int

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the symbolized stack of this command",
	Long: `Print the stack of the trace command itself through the configured
symbolicator. Useful to check that symbols and demangling work on this
platform.`,
	Args: cobra.NoArgs,
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().IntVar(&traceDepth, "depth", stack.DefaultMaxDepth, "maximum frames to print")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, _ []string) error {
	if traceDepth <= 0 {
		return fmt.Errorf("--depth must be positive, got %d", traceDepth)
	}
	out := cmd.OutOrStdout()
	for _, line := range postmortem.GetStackTrace(traceDepth) {
		fmt.Fprintln(out, line)
	}
	return nil
}
