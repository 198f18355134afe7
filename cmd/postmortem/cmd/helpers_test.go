package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/postmortem/internal/config"
	"github.com/hugo-lorenzo-mato/postmortem/internal/logging"
	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
)

const testReportDir = "/reports"

// testEnv installs an env backed by an in-memory file system and restores
// the previous one when the test ends. Tests using it must not run in
// parallel.
type testEnv struct {
	fs      afero.Fs
	console *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{fs: afero.NewMemMapFs(), console: &bytes.Buffer{}}

	cfg := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Report: config.ReportConfig{Dir: testReportDir, Prefix: "postmortem", MaxSuffix: 100, ConsoleLines: 3, MaxDepth: 64},
		Handler: config.HandlerConfig{
			Args:    []string{"$cmd", "$pid", "$log"},
			Timeout: "60s",
		},
		SessionLog: config.SessionLogConfig{Timeout: "10s"},
	}
	r := postmortem.New(postmortem.Options{})
	r.SetProgramNameForErrors("cli")
	if err := config.Apply(cfg, r, postmortem.Options{Fs: te.fs, Console: te.console}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	prevApp, prevFs := app, reportFs
	app = &env{cfg: cfg, logger: logging.NewNop(), reporter: r}
	reportFs = te.fs
	t.Cleanup(func() {
		app, reportFs = prevApp, prevFs
	})
	return te
}

// newCommand returns a bare command whose output lands in the returned
// buffers.
func newCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	c := &cobra.Command{}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetContext(context.Background())
	return c, out, errOut
}
