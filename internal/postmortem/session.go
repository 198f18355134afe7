package postmortem

import (
	"context"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
)

// LogSessionInfo sends session telemetry to the session-log command. A
// non-empty stackPath selects the crash template with $stack set to it. It
// is a no-op until EnableSessionLogging is called or when no command is
// configured.
func (r *Reporter) LogSessionInfo(stackPath string) error {
	opts := r.options()
	err := r.forwardSessionLog(opts, nil, stackPath, stackPath != "")
	if err != nil {
		opts.Logger.WithSession(r.session).Warn("session logging failed", "error", err)
	}
	return err
}

func (r *Reporter) resolveSessionLog() (path string, cmd *command) {
	reg := r.sessionLog.Load()
	if p, ok := r.lookupEnv(SessionLogEnv); ok && p != "" {
		if reg != nil {
			return p, reg
		}
		return p, &command{args: DefaultSessionLogArgs, crashArgs: DefaultSessionLogCrashArgs}
	}
	if reg == nil {
		return "", nil
	}
	return reg.path, reg
}

// forwardSessionLog runs the session-log command. con, when set, receives a
// one-line diagnostic on failure.
func (r *Reporter) forwardSessionLog(opts *Options, con *sink, stackPath string, crash bool) error {
	if !r.sessionLogging.Load() {
		return nil
	}
	path, cmd := r.resolveSessionLog()
	if path == "" {
		return nil
	}
	template := cmd.args
	if crash {
		template = cmd.crashArgs
	}

	var pidBuf, timeBuf [asyncsafe.IntBufSize]byte
	subs := [...]supervise.Substitution{
		{Token: "$pid", Value: asyncsafe.Itoa(&pidBuf, int64(r.pid))},
		{Token: "$time", Value: asyncsafe.Itoa(&timeBuf, userCPUSeconds())},
		{Token: "$prog", Value: r.ProgramName()},
		{Token: "$stack", Value: stackPath},
		{Token: "$session", Value: r.session},
	}
	var buf [supervise.MaxArgs]string
	argv, ok := supervise.BuildArgv(buf[:], supervise.MaxArgs, path, template, subs[:]...)
	if !ok {
		err := core.ErrOverflow(len(template), supervise.MaxArgs-1)
		sessionLogFailed(con, path, err)
		return err
	}

	_, err := supervise.Supervise(context.Background(), path, argv, supervise.Options{
		Timeout: opts.SessionLogTimeout,
		Env:     r.environ(),
		Spawner: opts.Spawner,
	})
	if err != nil {
		sessionLogFailed(con, path, err)
	}
	return err
}

func sessionLogFailed(con *sink, path string, err error) {
	if con == nil {
		return
	}
	con.str("postmortem: session log ")
	con.str(path)
	con.str(": ")
	con.str(err.Error())
	con.str("\n")
}
