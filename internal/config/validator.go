package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
	"github.com/hugo-lorenzo-mato/postmortem/internal/symbolize"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// ValidationError describes one rejected key.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is every rejected key of one configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return "config validation: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any key was rejected.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator accumulates problems instead of stopping at the first one, so
// `postmortem doctor` can list them all.
type Validator struct {
	errs ValidationErrors
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks cfg and returns ValidationErrors when anything is wrong.
func (v *Validator) Validate(cfg *Config) error {
	v.check(slices.Contains(logLevels, cfg.Log.Level), "log.level", cfg.Log.Level,
		"must be one of: "+strings.Join(logLevels, ", "))
	v.check(slices.Contains(logFormats, cfg.Log.Format), "log.format", cfg.Log.Format,
		"must be one of: "+strings.Join(logFormats, ", "))

	r := cfg.Report
	switch {
	case r.Prefix == "":
		v.fail("report.prefix", r.Prefix, "prefix required")
	case strings.ContainsAny(r.Prefix, `/\`):
		v.fail("report.prefix", r.Prefix, "must not contain path separators")
	}
	v.nonNegative("report.max_suffix", r.MaxSuffix)
	v.nonNegative("report.console_lines", r.ConsoleLines)
	v.nonNegative("report.max_depth", r.MaxDepth)
	_, known := symbolize.CallbackByName(r.Symbolicator)
	v.check(known, "report.symbolicator", r.Symbolicator,
		"must be one of: "+symbolize.NameDefault+", "+symbolize.NameFileLine)

	v.duration("handler.timeout", cfg.Handler.Timeout)
	if cfg.Handler.Command != "" {
		v.template("handler.args", cfg.Handler.Args)
	}

	sl := cfg.SessionLog
	v.duration("session_log.timeout", sl.Timeout)
	v.check(!sl.Enabled || sl.Command != "", "session_log.command", sl.Command, "command required when enabled")
	if sl.Command != "" {
		v.template("session_log.args", sl.Args)
		v.template("session_log.crash_args", sl.CrashArgs)
	}

	if v.errs.HasErrors() {
		return v.errs
	}
	return nil
}

// Errors returns what the last Validate call collected.
func (v *Validator) Errors() ValidationErrors {
	return v.errs
}

func (v *Validator) fail(field string, value any, msg string) {
	v.errs = append(v.errs, ValidationError{Field: field, Value: value, Message: msg})
}

func (v *Validator) check(ok bool, field string, value any, msg string) {
	if !ok {
		v.fail(field, value, msg)
	}
}

func (v *Validator) nonNegative(field string, n int) {
	v.check(n >= 0, field, n, "must not be negative")
}

// duration accepts "" as unset.
func (v *Validator) duration(field, value string) {
	if value == "" {
		return
	}
	d, err := time.ParseDuration(value)
	switch {
	case err != nil:
		v.fail(field, value, "invalid duration format")
	case d < 0:
		v.fail(field, value, "must not be negative")
	}
}

// template leaves room for the command path in argv[0]. An empty template
// selects the reporter's default.
func (v *Validator) template(field string, args []string) {
	limit := supervise.MaxArgs - 1
	v.check(len(args) <= limit, field, len(args), fmt.Sprintf("at most %d entries", limit))
}

// ValidateConfig validates cfg. Failures carry the validation category and
// wrap ValidationErrors.
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return core.ErrValidation(core.CodeInvalidConfig, "invalid configuration").WithCause(err)
	}
	return nil
}
