package postmortem

import (
	"context"
	"io"
	"time"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
)

// ProgressEvery is how often the console hears about a slow handler.
const ProgressEvery = 5 * time.Second

// resolveHandler prefers the HandlerEnv override to the registered command.
func (r *Reporter) resolveHandler() (path string, args []string) {
	reg := r.handler.Load()
	if p, ok := r.lookupEnv(HandlerEnv); ok && p != "" {
		if reg != nil {
			return p, reg.args
		}
		return p, DefaultHandlerArgs
	}
	if reg == nil {
		return "", nil
	}
	return reg.path, reg.args
}

// runHandler hands the report at logPath to the postmortem handler and waits
// for it under the handler timeout. It reports whether a handler process was
// actually started; with no handler configured it does nothing.
func (r *Reporter) runHandler(opts *Options, con *sink, logPath string) bool {
	path, template := r.resolveHandler()
	if path == "" {
		return false
	}

	var pidBuf, timeBuf [asyncsafe.IntBufSize]byte
	subs := [...]supervise.Substitution{
		{Token: "$pid", Value: asyncsafe.Itoa(&pidBuf, int64(r.pid))},
		{Token: "$log", Value: logPath},
		{Token: "$time", Value: asyncsafe.Itoa(&timeBuf, userCPUSeconds())},
		{Token: "$session", Value: r.session},
	}
	argv, ok := supervise.BuildArgv(r.argv[:], supervise.MaxArgs, path, template, subs[:]...)
	if !ok {
		con.str("postmortem: handler ")
		con.str(path)
		con.str(": ")
		con.str(core.ErrOverflow(len(template), supervise.MaxArgs-1).Error())
		con.str("\n")
		return false
	}

	res, err := supervise.Supervise(context.Background(), path, argv, supervise.Options{
		Timeout:  opts.HandlerTimeout,
		Periodic: progressReporter(opts.Console),
		Env:      r.environ(),
		Spawner:  opts.Spawner,
	})
	if err != nil {
		con.str("postmortem: handler ")
		con.str(path)
		con.str(": ")
		con.str(err.Error())
		con.str("\n")
	}
	return res.Pid != 0
}

// progressReporter returns a periodic callback that prints a waiting notice
// each time another ProgressEvery has elapsed.
func progressReporter(w io.Writer) func(time.Duration) {
	next := ProgressEvery
	return func(elapsed time.Duration) {
		if elapsed < next {
			return
		}
		next = elapsed - elapsed%ProgressEvery + ProgressEvery
		s := &sink{w: w}
		s.str("waiting for postmortem handler (")
		s.int(int64((elapsed - elapsed%ProgressEvery) / time.Second))
		s.str("s)\n")
	}
}
