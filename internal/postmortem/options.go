package postmortem

import (
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
	"github.com/hugo-lorenzo-mato/postmortem/internal/logging"
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
)

const (
	DefaultPrefix            = "postmortem"
	DefaultMaxSuffix         = 100
	DefaultConsoleLines      = 3
	DefaultHandlerTimeout    = 60 * time.Second
	DefaultSessionLogTimeout = 10 * time.Second

	// HandlerEnv overrides the registered postmortem command path at report
	// time. SessionLogEnv does the same for the session-log command.
	HandlerEnv    = "POSTMORTEM_HANDLER"
	SessionLogEnv = "POSTMORTEM_SESSION_LOG"
)

// Options tune a Reporter. Zero values select the defaults.
type Options struct {
	// Fs holds report files. Defaults to the OS file system.
	Fs afero.Fs
	// Dir is the report directory; empty means os.TempDir().
	Dir string
	// Prefix starts every report file name.
	Prefix string
	// MaxSuffix bounds the numeric suffixes tried on name collisions.
	MaxSuffix int
	// ConsoleLines caps each extra-log key on the console.
	ConsoleLines int
	// MaxDepth bounds captured frames.
	MaxDepth int

	HandlerTimeout    time.Duration
	SessionLogTimeout time.Duration

	// Console receives banners and diagnostics. Defaults to raw writes on
	// the stderr descriptor.
	Console io.Writer
	// Logger is used on live paths only.
	Logger *logging.Logger
	// Spawner starts external commands; nil selects the platform default.
	Spawner supervise.Spawner

	// frames is the fatal-path capture buffer, sized to MaxDepth. It travels
	// with the options so a report keeps the buffer it loaded even if
	// Configure runs meanwhile.
	frames []stack.Frame
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Dir == "" {
		o.Dir = os.TempDir()
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.MaxSuffix <= 0 {
		o.MaxSuffix = DefaultMaxSuffix
	}
	if o.ConsoleLines <= 0 {
		o.ConsoleLines = DefaultConsoleLines
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = stack.DefaultMaxDepth
	}
	if o.HandlerTimeout <= 0 {
		o.HandlerTimeout = DefaultHandlerTimeout
	}
	if o.SessionLogTimeout <= 0 {
		o.SessionLogTimeout = DefaultSessionLogTimeout
	}
	if o.Console == nil {
		o.Console = rawConsole{fd: asyncsafe.StderrFD}
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

// rawConsole writes straight to a descriptor, bypassing os.File and its
// locks.
type rawConsole struct {
	fd int
}

func (c rawConsole) Write(p []byte) (int, error) {
	asyncsafe.WriteRawBytes(c.fd, p)
	return len(p), nil
}

func (c rawConsole) WriteString(s string) (int, error) {
	asyncsafe.WriteRaw(c.fd, s)
	return len(s), nil
}
