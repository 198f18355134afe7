package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
)

var (
	stressWorkers int
	stressVerbose bool
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Race concurrent fatal reports against each other",
	Long: `Start N goroutines that all write a fatal report at once through a fresh
reporter with no handlers. At most one report is written at a time; the
others are dropped. Prints how many reports were written and how many were
dropped. The process does not exit.`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

func init() {
	stressCmd.Flags().IntVar(&stressWorkers, "workers", 8, "concurrent reporters")
	stressCmd.Flags().BoolVar(&stressVerbose, "verbose", false, "print every report path")
	rootCmd.AddCommand(stressCmd)
}

func runStress(cmd *cobra.Command, _ []string) error {
	if stressWorkers <= 0 {
		return fmt.Errorf("--workers must be positive, got %d", stressWorkers)
	}
	opts, err := app.cfg.ReporterOptions(postmortem.Options{
		Fs:      reportFs,
		Logger:  app.logger,
		Console: io.Discard,
	})
	if err != nil {
		return err
	}

	res, err := stress(commandContext(cmd), postmortem.New(opts), stressWorkers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d workers: %d report(s) written, %d dropped\n", stressWorkers, len(res.paths), res.dropped)
	if stressVerbose {
		for _, p := range res.paths {
			fmt.Fprintln(out, "  "+p)
		}
	}
	return nil
}

type stressResult struct {
	paths   []string
	dropped int64
}

// stress releases workers goroutines at once into r.ReportFatal.
func stress(ctx context.Context, r *postmortem.Reporter, workers int) (stressResult, error) {
	var (
		mu    sync.Mutex
		res   stressResult
		start = make(chan struct{})
	)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			select {
			case <-start:
			case <-ctx.Done():
				return ctx.Err()
			}
			path, err := r.ReportFatal("stress", fmt.Sprintf("worker %d", i), "")
			if err != nil {
				return err
			}
			if path != "" {
				mu.Lock()
				res.paths = append(res.paths, path)
				mu.Unlock()
			}
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.dropped = r.Dropped()
	return res, nil
}
