package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Output formats accepted by Config.Format.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Logger is the structured logger shared by the reporter, the supervisor
// and the CLI. Every record goes through a Sanitizer before it is written.
type Logger struct {
	*slog.Logger
	sanitizer *Sanitizer
}

// Config configures the logger.
type Config struct {
	Level string
	// Format is auto, text or json. Auto picks the console handler on a
	// terminal and JSON otherwise.
	Format    string
	Output    io.Writer
	AddSource bool
	// NoColor disables ANSI colors on the console handler. The NO_COLOR
	// environment variable has the same effect.
	NoColor bool
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatAuto,
		Output: os.Stderr,
	}
}

// New creates a logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	s := NewSanitizer()
	return &Logger{
		Logger:    slog.New(NewSanitizingHandler(newHandler(cfg), s)),
		sanitizer: s,
	}
}

func newHandler(cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.AddSource}
	switch cfg.Format {
	case FormatText:
		return slog.NewTextHandler(cfg.Output, opts)
	case FormatJSON:
		return slog.NewJSONHandler(cfg.Output, opts)
	}
	if !isTerminal(cfg.Output) {
		return slog.NewJSONHandler(cfg.Output, opts)
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return NewConsoleHandler(cfg.Output, opts.Level.Level(), !(cfg.NoColor || noColor))
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		Logger:    slog.New(slog.DiscardHandler),
		sanitizer: NewSanitizer(),
	}
}

// ParseLevel maps a level name to its slog level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WithReport tags records with a report file path.
func (l *Logger) WithReport(path string) *Logger { return l.With(KeyReport, path) }

// WithPID tags records with a process id.
func (l *Logger) WithPID(pid int) *Logger { return l.With(KeyPID, pid) }

// WithCommand tags records with an external command path.
func (l *Logger) WithCommand(path string) *Logger { return l.With(KeyCommand, path) }

// WithSession tags records with the process session id.
func (l *Logger) WithSession(id string) *Logger { return l.With(KeySession, id) }

// With returns a logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		sanitizer: l.sanitizer,
	}
}

// Sanitizer returns the sanitizer used by this logger.
func (l *Logger) Sanitizer() *Sanitizer {
	return l.sanitizer
}

// Sanitize redacts credentials from input.
func (l *Logger) Sanitize(input string) string {
	return l.sanitizer.Sanitize(input)
}
