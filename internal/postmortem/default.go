package postmortem

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hugo-lorenzo-mato/postmortem/internal/diagctx"
	"github.com/hugo-lorenzo-mato/postmortem/internal/symbolize"
)

var (
	defaultOnce     sync.Once
	defaultReporter atomic.Pointer[Reporter]
)

// Default returns the process-wide Reporter, creating it with default options
// on first use.
func Default() *Reporter {
	if r := defaultReporter.Load(); r != nil {
		return r
	}
	defaultOnce.Do(func() {
		defaultReporter.CompareAndSwap(nil, New(Options{}))
	})
	return defaultReporter.Load()
}

// SetDefault replaces the process-wide Reporter. Startup only.
func SetDefault(r *Reporter) {
	defaultReporter.Store(r)
}

// The functions below act on Default.

func SetPostmortemHandler(cmd string, argv []string) error {
	return Default().SetPostmortemHandler(cmd, argv)
}

func SetSessionLogHandler(cmd string, argv, crashArgv []string) error {
	return Default().SetSessionLogHandler(cmd, argv, crashArgv)
}

func EnableSessionLogging() { Default().EnableSessionLogging() }

// SetProgramNameForErrors sets the process-wide program name.
func SetProgramNameForErrors(name string) { diagctx.SetProgramName(name) }

func SetProgramInfo(key, value string) { Default().SetProgramInfo(key, value) }

func GetProgramInfo(key string) string { return Default().GetProgramInfo(key) }

func SetExtraLogInfo(key string, lines *[]string) { Default().SetExtraLogInfo(key, lines) }

func SetSymbolicator(cb symbolize.Callback) { symbolize.SetCallback(cb) }

func LogSessionInfo(stackPath string) error { return Default().LogSessionInfo(stackPath) }

func Dropped() int64 { return Default().Dropped() }

func ReportFatal(reason, message, extraMessage string) (string, error) {
	return Default().reportFatal(2, reason, message, extraMessage)
}

func LogStackTrace(reason string, fatal bool, sessionLogPath string) (string, error) {
	return Default().logStackTrace(2, reason, fatal, sessionLogPath)
}

func GetStackTrace(maxDepth int) []string {
	return getStackTrace(maxDepth, 2)
}

// Recover is Reporter.Recover on Default. Usage: defer postmortem.Recover()
func Recover() {
	if v := recover(); v != nil {
		Default().reportPanic(v)
		panic(v)
	}
}

// RecoverAndReturn is Reporter.RecoverAndReturn on Default.
//
//nolint:gocritic // ptrToRefParam: errPtr must be a pointer to modify the caller's error variable
func RecoverAndReturn(errPtr *error) {
	if v := recover(); v != nil {
		*errPtr = Default().panicToError(v)
	}
}

func NotifySignals(ctx context.Context, sigs ...os.Signal) (stop func()) {
	return Default().NotifySignals(ctx, sigs...)
}
