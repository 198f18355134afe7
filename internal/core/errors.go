package core

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatUnsupported ErrorCategory = "unsupported" // Platform cannot do it
	ErrCatResource    ErrorCategory = "resource"    // Name space or buffer exhausted
	ErrCatSpawn       ErrorCategory = "spawn"       // Process could not be created
	ErrCatExec        ErrorCategory = "exec"        // Child could not launch the command
	ErrCatTimeout     ErrorCategory = "timeout"     // Child outlived its deadline
	ErrCatOverflow    ErrorCategory = "overflow"    // Too many arguments for the buffer
	ErrCatSignal      ErrorCategory = "signal"      // Child died from a signal
	ErrCatValidation  ErrorCategory = "validation"  // Invalid input or configuration
	ErrCatInternal    ErrorCategory = "internal"    // Unexpected internal error
)

// DomainError represents a structured error from the postmortem subsystem.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
	Details  map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Predefined error codes
const (
	CodeUnwindUnsupported = "UNWIND_UNSUPPORTED"
	CodeNameSpaceExceeded = "REPORT_NAMES_EXHAUSTED"
	CodeBufferTooSmall    = "BUFFER_TOO_SMALL"
	CodeSpawnFailed       = "SPAWN_FAILED"
	CodeCouldNotLaunch    = "COULD_NOT_LAUNCH"
	CodeTimedOut          = "TIMED_OUT"
	CodeTooManyArgs       = "TOO_MANY_ARGS"
	CodeMissingCommand    = "MISSING_COMMAND"
	CodeKilledBySignal    = "KILLED_BY_SIGNAL"
	CodeWaitFailed        = "WAIT_FAILED"
	CodeInvalidConfig     = "INVALID_CONFIG"
)

// ErrUnsupported creates an unsupported-platform error.
func ErrUnsupported(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatUnsupported,
		Code:     code,
		Message:  message,
	}
}

// ErrResource creates a resource-exhaustion error.
func ErrResource(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatResource,
		Code:     code,
		Message:  message,
	}
}

// ErrSpawn creates a spawn-failure error.
func ErrSpawn(path string, cause error) *DomainError {
	return (&DomainError{
		Category: ErrCatSpawn,
		Code:     CodeSpawnFailed,
		Message:  fmt.Sprintf("could not create process for %s", path),
		Details:  map[string]interface{}{"path": path},
	}).WithCause(cause)
}

// ErrCouldNotLaunch creates an exec-failure error: the child exists but the
// command image could not replace it.
func ErrCouldNotLaunch(path string, cause error) *DomainError {
	return (&DomainError{
		Category: ErrCatExec,
		Code:     CodeCouldNotLaunch,
		Message:  fmt.Sprintf("could not launch %s", path),
		Details:  map[string]interface{}{"path": path},
	}).WithCause(cause)
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{
		Category: ErrCatTimeout,
		Code:     CodeTimedOut,
		Message:  message,
	}
}

// ErrOverflow creates an argument-overflow error.
func ErrOverflow(count, limit int) *DomainError {
	return &DomainError{
		Category: ErrCatOverflow,
		Code:     CodeTooManyArgs,
		Message:  fmt.Sprintf("%d arguments exceed the limit of %d", count, limit),
		Details: map[string]interface{}{
			"count": count,
			"limit": limit,
		},
	}
}

// ErrSignaled creates an error for a child terminated by sig.
func ErrSignaled(path string, sig syscall.Signal) *DomainError {
	return &DomainError{
		Category: ErrCatSignal,
		Code:     CodeKilledBySignal,
		Message:  fmt.Sprintf("%s terminated by signal %d (%s)", path, int(sig), sig),
		Details: map[string]interface{}{
			"path":   path,
			"signal": sig,
		},
	}
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatValidation,
		Code:     code,
		Message:  message,
	}
}

// ErrInternal creates an internal error.
func ErrInternal(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatInternal,
		Code:     code,
		Message:  message,
	}
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return err != nil && GetCategory(err) == cat
}

// IsTimeout reports whether err is a supervisor timeout.
func IsTimeout(err error) bool { return IsCategory(err, ErrCatTimeout) }

// IsCouldNotLaunch reports whether err is an exec failure.
func IsCouldNotLaunch(err error) bool { return IsCategory(err, ErrCatExec) }

// SignalOf returns the signal carried by a signal-category error.
func SignalOf(err error) (syscall.Signal, bool) {
	var domErr *DomainError
	if !errors.As(err, &domErr) || domErr.Category != ErrCatSignal {
		return 0, false
	}
	sig, ok := domErr.Details["signal"].(syscall.Signal)
	return sig, ok
}
