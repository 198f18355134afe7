package postmortem

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
	"github.com/hugo-lorenzo-mato/postmortem/internal/diagctx"
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
	"github.com/hugo-lorenzo-mato/postmortem/internal/symbolize"
)

// SessionInfoKey is the program-info key holding the session id.
const SessionInfoKey = "session"

// TrapExitStatus ends the process after control returns from a debugger.
const TrapExitStatus = 134

var (
	// DefaultHandlerArgs is used when a handler is registered without a
	// template, or found only through HandlerEnv.
	DefaultHandlerArgs = []string{supervise.CmdToken, "$pid", "$log"}
	// DefaultSessionLogArgs and DefaultSessionLogCrashArgs are the session
	// log templates used when none are registered.
	DefaultSessionLogArgs      = []string{supervise.CmdToken, "$pid", "$time", "$prog"}
	DefaultSessionLogCrashArgs = []string{supervise.CmdToken, "$pid", "$time", "$prog", "$stack"}
)

// command is a registered external command and its templates.
type command struct {
	path      string
	args      []string
	crashArgs []string
}

// Reporter owns the diagnostic context, registered commands and the reporter
// flag for one process (or one test).
type Reporter struct {
	opts atomic.Pointer[Options]

	info     *diagctx.ProgramInfo
	extra    *diagctx.ExtraLogInfo
	progName atomic.Pointer[string]
	session  string
	pid      int

	handler        atomic.Pointer[command]
	sessionLog     atomic.Pointer[command]
	sessionLogging atomic.Bool
	sessionHook    sync.Once

	reporting atomic.Bool
	dropped   atomic.Int64

	// Owned by the holder of the reporter flag.
	line   [1024]byte
	argv   [supervise.MaxArgs]string

	lookupEnv        func(string) (string, bool)
	environ          func() []string
	debuggerAttached func() bool
	trapDebugger     func()
	exit             func(int)
	afterAcquire     func()
}

// New returns a Reporter configured with opts.
func New(opts Options) *Reporter {
	r := &Reporter{
		info:             diagctx.NewProgramInfo(),
		extra:            diagctx.NewExtraLogInfo(),
		session:          uuid.NewString(),
		pid:              os.Getpid(),
		lookupEnv:        asyncsafe.Getenv,
		environ:          asyncsafe.Environ,
		debuggerAttached: debuggerAttached,
		trapDebugger:     runtime.Breakpoint,
		exit:             os.Exit,
	}
	r.Configure(opts)
	r.info.Set(SessionInfoKey, r.session)
	return r
}

// Configure replaces the options. A report already in flight finishes with
// the options and capture buffer it started with.
func (r *Reporter) Configure(opts Options) {
	o := opts.withDefaults()
	o.frames = make([]stack.Frame, o.MaxDepth)
	r.opts.Store(&o)
}

func (r *Reporter) options() *Options {
	return r.opts.Load()
}

// Session returns the per-process session id.
func (r *Reporter) Session() string {
	return r.session
}

// Dropped counts fatal reports that lost the reporter race.
func (r *Reporter) Dropped() int64 {
	return r.dropped.Load()
}

// SetProgramNameForErrors overrides the program name used in reports. name
// may be an executable path; an empty name restores the process-wide one.
func (r *Reporter) SetProgramNameForErrors(name string) {
	base := diagctx.BaseProgramName(name)
	if base == "" {
		r.progName.Store(nil)
		return
	}
	r.progName.Store(&base)
}

// ProgramName returns the name reports are filed under.
func (r *Reporter) ProgramName() string {
	if p := r.progName.Load(); p != nil {
		return *p
	}
	return diagctx.ProgramName()
}

// SetProgramInfo sets a line reprinted on every report; an empty value
// removes key.
func (r *Reporter) SetProgramInfo(key, value string) {
	r.info.Set(key, value)
}

// GetProgramInfo returns the value for key, or "".
func (r *Reporter) GetProgramInfo(key string) string {
	return r.info.Get(key)
}

// SetExtraLogInfo references a caller-owned line list. The lines are read
// at report time, not copied: keep them valid while they may be needed.
func (r *Reporter) SetExtraLogInfo(key string, lines *[]string) {
	r.extra.Set(key, lines)
}

// SetPostmortemHandler registers the command run after a fatal report. A nil
// template selects DefaultHandlerArgs; an empty cmd unregisters.
func (r *Reporter) SetPostmortemHandler(cmd string, argv []string) error {
	if cmd == "" {
		r.handler.Store(nil)
		return nil
	}
	if argv == nil {
		argv = DefaultHandlerArgs
	}
	if err := checkTemplate(argv); err != nil {
		return err
	}
	r.handler.Store(&command{path: cmd, args: append([]string(nil), argv...)})
	return nil
}

// SetSessionLogHandler registers the session-log command with its live and
// crash templates. nil templates select the defaults; an empty cmd
// unregisters.
func (r *Reporter) SetSessionLogHandler(cmd string, argv, crashArgv []string) error {
	if cmd == "" {
		r.sessionLog.Store(nil)
		return nil
	}
	if argv == nil {
		argv = DefaultSessionLogArgs
	}
	if crashArgv == nil {
		crashArgv = DefaultSessionLogCrashArgs
	}
	if err := checkTemplate(argv); err != nil {
		return err
	}
	if err := checkTemplate(crashArgv); err != nil {
		return err
	}
	r.sessionLog.Store(&command{
		path:      cmd,
		args:      append([]string(nil), argv...),
		crashArgs: append([]string(nil), crashArgv...),
	})
	return nil
}

func checkTemplate(argv []string) error {
	if len(argv) == 0 {
		return core.ErrValidation(core.CodeMissingCommand, "empty argument template")
	}
	if len(argv) > supervise.MaxArgs-1 {
		return core.ErrOverflow(len(argv), supervise.MaxArgs-1)
	}
	return nil
}

// EnableSessionLogging turns session logging on and, once per Reporter,
// registers an exit hook that logs session info at normal exit.
func (r *Reporter) EnableSessionLogging() {
	r.sessionLogging.Store(true)
	r.sessionHook.Do(func() {
		RegisterExitHook(func() { _ = r.LogSessionInfo("") })
	})
}

// SessionLoggingEnabled reports whether EnableSessionLogging was called.
func (r *Reporter) SessionLoggingEnabled() bool {
	return r.sessionLogging.Load()
}

// SetSymbolicator installs the process-wide symbolicator; nil restores the
// default. Not synchronized with reports in flight: set it at startup.
func (r *Reporter) SetSymbolicator(cb symbolize.Callback) {
	symbolize.SetCallback(cb)
}

// GetStackTrace returns the caller's symbolic stack, at most maxDepth lines.
func (r *Reporter) GetStackTrace(maxDepth int) []string {
	return getStackTrace(maxDepth, 1)
}

func getStackTrace(maxDepth, skip int) []string {
	// +1 for getStackTrace itself.
	return symbolize.RenderTrace(stack.Capture(maxDepth, skip+1))
}

// acquire takes the reporter flag. A caller that loses the race counts as
// dropped, spins until the winner releases the flag and returns false.
func (r *Reporter) acquire() bool {
	if r.reporting.CompareAndSwap(false, true) {
		return true
	}
	r.dropped.Add(1)
	for r.reporting.Load() {
		runtime.Gosched()
	}
	return false
}

func (r *Reporter) release() {
	r.reporting.Store(false)
}
