package postmortem

import (
	"fmt"
)

// Recover reports a panic in progress as fatal and re-panics with the same
// value. Usage: defer reporter.Recover()
func (r *Reporter) Recover() {
	if v := recover(); v != nil {
		r.reportPanic(v)
		panic(v)
	}
}

// RecoverAndReturn recovers a panic, logs a non-fatal trace and turns the
// panic into an error. Usage: defer reporter.RecoverAndReturn(&err)
//
//nolint:gocritic // ptrToRefParam: errPtr must be a pointer to modify the caller's error variable
func (r *Reporter) RecoverAndReturn(errPtr *error) {
	if v := recover(); v != nil {
		*errPtr = r.panicToError(v)
	}
}

func (r *Reporter) reportPanic(v any) {
	// Skip reportPanic and the deferred Recover; the panicking frames sit
	// right below them.
	_, _ = r.reportFatal(2, "panic", fmt.Sprint(v), "")
}

func (r *Reporter) panicToError(v any) error {
	path, err := r.logStackTrace(2, "panic: "+fmt.Sprint(v), false, "")
	if err != nil {
		return fmt.Errorf("panic recovered: %v (no report: %w)", v, err)
	}
	return fmt.Errorf("panic recovered: %v (report: %s)", v, path)
}
