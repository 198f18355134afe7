package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/postmortem/internal/config"
	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that reports can be written and commands resolve",
	Long: `Verify the configuration, that the report directory is writable and that
the postmortem handler and session-log commands can be found, including
any POSTMORTEM_HANDLER or POSTMORTEM_SESSION_LOG override.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// check is one doctor finding.
type check struct {
	name     string
	ok       bool
	detail   string
	required bool
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	checks := doctorChecks(app.cfg, reportFs, exec.LookPath, os.LookupEnv)
	if !printChecks(cmd.OutOrStdout(), checks) {
		return errors.New("doctor found problems")
	}
	return nil
}

func printChecks(w io.Writer, checks []check) bool {
	ok := true
	for _, c := range checks {
		icon := "✓"
		switch {
		case !c.ok && c.required:
			icon = "✗"
			ok = false
		case !c.ok:
			icon = "○"
		}
		fmt.Fprintf(w, "  %s %s: %s\n", icon, c.name, c.detail)
	}
	return ok
}

func doctorChecks(
	cfg *config.Config,
	fs afero.Fs,
	lookPath func(string) (string, error),
	lookupEnv func(string) (string, bool),
) []check {
	checks := []check{configCheck(cfg), reportDirCheck(fs, cfg.Report.Dir)}

	checks = append(checks, commandCheck("postmortem handler", cfg.Handler.Command, false, lookPath))
	if p, ok := lookupEnv(postmortem.HandlerEnv); ok && p != "" {
		checks = append(checks, commandCheck(postmortem.HandlerEnv, p, true, lookPath))
	}

	sl := cfg.SessionLog
	checks = append(checks, commandCheck("session log", sl.Command, sl.Enabled, lookPath))
	if p, ok := lookupEnv(postmortem.SessionLogEnv); ok && p != "" {
		checks = append(checks, commandCheck(postmortem.SessionLogEnv, p, true, lookPath))
	}
	return checks
}

func configCheck(cfg *config.Config) check {
	if err := config.ValidateConfig(cfg); err != nil {
		return check{name: "configuration", detail: err.Error(), required: true}
	}
	return check{name: "configuration", ok: true, detail: "valid", required: true}
}

func reportDirCheck(fs afero.Fs, dir string) check {
	if dir == "" {
		dir = os.TempDir()
	}
	c := check{name: "report directory", required: true}
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		c.detail = fmt.Sprintf("%s: %v", dir, err)
		return c
	}
	f, err := afero.TempFile(fs, dir, ".postmortem-doctor-")
	if err != nil {
		c.detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return c
	}
	name := f.Name()
	_ = f.Close()
	_ = fs.Remove(name)

	c.ok = true
	c.detail = dir
	return c
}

func commandCheck(name, command string, required bool, lookPath func(string) (string, error)) check {
	if command == "" {
		return check{name: name, detail: "not configured", required: required}
	}
	resolved, err := lookPath(command)
	if err != nil {
		return check{name: name, detail: fmt.Sprintf("%s not found", command), required: required}
	}
	return check{name: name, ok: true, detail: resolved, required: required}
}
