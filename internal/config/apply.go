package config

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/postmortem/internal/postmortem"
	"github.com/hugo-lorenzo-mato/postmortem/internal/symbolize"
)

// ReporterOptions overlays the report settings on base. Durations must
// already be valid; an unparsable one is returned as an error.
func (c *Config) ReporterOptions(base postmortem.Options) (postmortem.Options, error) {
	opts := base
	opts.Dir = c.Report.Dir
	opts.Prefix = c.Report.Prefix
	opts.MaxSuffix = c.Report.MaxSuffix
	opts.ConsoleLines = c.Report.ConsoleLines
	opts.MaxDepth = c.Report.MaxDepth

	var err error
	if opts.HandlerTimeout, err = parseDuration("handler.timeout", c.Handler.Timeout); err != nil {
		return base, err
	}
	if opts.SessionLogTimeout, err = parseDuration("session_log.timeout", c.SessionLog.Timeout); err != nil {
		return base, err
	}
	return opts, nil
}

// Apply validates cfg, configures r with it, installs the configured
// symbolicator and registers the configured commands. Session logging is enabled last, after both commands are in
// place.
func Apply(cfg *Config, r *postmortem.Reporter, base postmortem.Options) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	opts, err := cfg.ReporterOptions(base)
	if err != nil {
		return err
	}
	r.Configure(opts)
	cb, _ := symbolize.CallbackByName(cfg.Report.Symbolicator)
	r.SetSymbolicator(cb)

	if err := r.SetPostmortemHandler(cfg.Handler.Command, template(cfg.Handler.Args)); err != nil {
		return fmt.Errorf("registering postmortem handler: %w", err)
	}
	sl := cfg.SessionLog
	if err := r.SetSessionLogHandler(sl.Command, template(sl.Args), template(sl.CrashArgs)); err != nil {
		return fmt.Errorf("registering session log handler: %w", err)
	}
	if sl.Enabled {
		r.EnableSessionLogging()
	}
	return nil
}

// template maps an empty configured list to nil, which selects the default.
func template(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", field, err)
	}
	return d, nil
}
