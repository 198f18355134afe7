// Package supervise runs an external reporter or session-logging command under
// a hard wall-clock timeout.
//
// A deadline timer enforces the timeout; a separate ticker wakes the
// supervisor once per interval to run the periodic callback. On timeout the child
// (and its process group) is killed and reaped before Supervise returns, so no
// orphan or zombie is ever left behind, and the ticker is stopped on every
// exit path.
package supervise

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
)

// DefaultInterval is the watchdog tick.
const DefaultInterval = time.Second

// Options configure one supervised run.
type Options struct {
	// Timeout is the wall-clock limit; zero disables the watchdog and the
	// periodic callback.
	Timeout time.Duration
	// Interval between watchdog wake-ups; zero means DefaultInterval.
	Interval time.Duration
	// Periodic runs at most once per interval while the child is alive and
	// never after it was reaped.
	Periodic func(elapsed time.Duration)
	// Env is passed to the spawner; nil inherits the environment.
	Env []string
	// Spawner overrides DefaultSpawner.
	Spawner Spawner
	// Detach overrides session detection. nil detaches exactly when the
	// process has a controlling terminal.
	Detach *bool
}

// Result describes a child that ran to completion or was stopped.
type Result struct {
	Pid      int
	ExitCode int
	Elapsed  time.Duration
}

type waitResult struct {
	status ExitStatus
	err    error
}

// Supervise spawns path with argv and waits for it.
//
// A normal exit returns its code with a nil error, except ExecFailedStatus,
// which is reported as a could-not-launch error. Death by signal returns a
// signal-category error. A child still running when Timeout elapses, or when
// ctx is done, is killed and reaped and a timeout error is returned.
func Supervise(ctx context.Context, path string, argv []string, opts Options) (Result, error) {
	spawner := opts.Spawner
	if spawner == nil {
		spawner = DefaultSpawner
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	var detach bool
	if opts.Detach != nil {
		detach = *opts.Detach
	} else {
		detach = HasControllingTerminal()
	}

	start := time.Now()
	child, err := spawner.Spawn(path, argv, SpawnOptions{Env: opts.Env, Detach: detach})
	if err != nil {
		return Result{ExitCode: -1}, err
	}
	res := Result{Pid: child.Pid(), ExitCode: -1}

	w := &watchdog{periodic: opts.Periodic, start: start}
	done := make(chan waitResult, 1)
	go w.wait(child, done)

	var tick, deadline <-chan time.Time
	if opts.Timeout > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case wr := <-done:
			res.Elapsed = time.Since(start)
			return interpret(path, res, wr)

		case <-deadline:
			return stop(child, done, res, start,
				core.ErrTimeout("reporter "+path+" did not finish within "+opts.Timeout.String()))

		case <-tick:
			w.tick()

		case <-ctx.Done():
			return stop(child, done, res, start,
				core.ErrTimeout("reporter "+path+" cancelled").WithCause(ctx.Err()))
		}
	}
}

// watchdog gates the periodic callback on the child not having been reaped.
type watchdog struct {
	periodic func(time.Duration)
	start    time.Time
	reaped   atomic.Bool
}

// wait reaps child and marks it reaped before delivering the result, so a
// tick racing with the exit cannot call periodic afterwards.
func (w *watchdog) wait(child Child, done chan<- waitResult) {
	st, err := child.Wait()
	w.reaped.Store(true)
	done <- waitResult{status: st, err: err}
}

func (w *watchdog) tick() {
	if w.periodic != nil && !w.reaped.Load() {
		w.periodic(time.Since(w.start))
	}
}

// stop kills the child and blocks until the waiting goroutine has reaped it.
func stop(child Child, done <-chan waitResult, res Result, start time.Time, cause *core.DomainError) (Result, error) {
	if err := child.Kill(); err != nil {
		cause.WithDetail("kill_error", err.Error())
	}
	w := <-done
	res.Elapsed = time.Since(start)
	if w.err == nil && w.status.Exited {
		res.ExitCode = w.status.Code
	}
	return res, cause
}

func interpret(path string, res Result, w waitResult) (Result, error) {
	if w.err != nil {
		return res, core.ErrInternal(core.CodeWaitFailed, "waiting for "+path).WithCause(w.err)
	}
	if w.status.Signaled {
		return res, core.ErrSignaled(path, w.status.Signal)
	}
	res.ExitCode = w.status.Code
	if w.status.Code == ExecFailedStatus {
		return res, core.ErrCouldNotLaunch(path, nil).WithDetail("exit_code", ExecFailedStatus)
	}
	return res, nil
}
