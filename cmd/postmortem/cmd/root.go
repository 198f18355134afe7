package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/postmortem/internal/config"
	"github.com/hugo-lorenzo-mato/postmortem/internal/logging"
	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	reportDir string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

// env is what subcommands share once configuration is loaded.
type env struct {
	cfg      *config.Config
	logger   *logging.Logger
	reporter *postmortem.Reporter
}

var app *env

var rootCmd = &cobra.Command{
	Use:   "postmortem",
	Short: "Crash reports, stack traces and supervised diagnostic commands",
	Long: `postmortem writes crash reports with symbolized stack traces, hands them
to a configured postmortem handler and forwards session logs, all under
hard timeouts.

Configuration is read from .postmortem.yaml, ~/.config/postmortem/config.yaml
and POSTMORTEM_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initApp(cmd.ErrOrStderr())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .postmortem.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "",
		"report directory (default: system temp dir)")

	// Bind flags to viper (errors are nil when flag exists)
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("report.dir", rootCmd.PersistentFlags().Lookup("report-dir"))
}

// initApp loads configuration and applies it to the default reporter.
func initApp(stderr io.Writer) error {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
	})

	r := postmortem.Default()
	if err := config.Apply(cfg, r, postmortem.Options{Logger: logger}); err != nil {
		return fmt.Errorf("applying config: %w", err)
	}
	if appVersion != "" {
		r.SetProgramInfo("version", appVersion)
	}

	app = &env{cfg: cfg, logger: logger, reporter: r}
	logger.Debug("configuration loaded", "file", loader.ConfigFile())
	return nil
}

// skipConfig replaces initApp for commands that must work with a broken or
// missing configuration.
func skipConfig(*cobra.Command, []string) error { return nil }

// ExitError carries a process exit status out of a command. Its message is
// not printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// IsExitError reports whether err only carries an exit status.
func IsExitError(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee)
}

// ExitCode maps a command result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
