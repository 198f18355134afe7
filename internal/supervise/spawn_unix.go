//go:build unix

package supervise

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
)

// DefaultSpawner uses syscall.ForkExec directly. os/exec is avoided on the
// reporting path: it resolves paths, allocates pipes and starts goroutines,
// none of which are needed to hand a report path to a helper.
var DefaultSpawner Spawner = forkExecSpawner{}

type forkExecSpawner struct{}

func (forkExecSpawner) Spawn(path string, argv []string, opts SpawnOptions) (Child, error) {
	env := opts.Env
	if env == nil {
		env = syscall.Environ()
	}
	attr := &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{0, 1, 2},
		Sys:   &syscall.SysProcAttr{},
	}
	// Either way the child leads its own process group so a timeout kill
	// reaches everything it started.
	if opts.Detach {
		attr.Sys.Setsid = true
	} else {
		attr.Sys.Setpgid = true
	}

	pid, err := syscall.ForkExec(path, argv, attr)
	if err != nil {
		// ForkExec reports the child's exec error through a pipe; only a
		// failed fork means no child ever existed.
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ENOMEM) || errors.Is(err, syscall.ENOSYS) {
			return nil, core.ErrSpawn(path, err)
		}
		return nil, core.ErrCouldNotLaunch(path, err)
	}
	return &unixChild{pid: pid}, nil
}

type unixChild struct {
	pid int
}

func (c *unixChild) Pid() int { return c.pid }

func (c *unixChild) Wait() (ExitStatus, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(c.pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return ExitStatus{}, err
		}
		break
	}
	switch {
	case ws.Exited():
		return ExitStatus{Exited: true, Code: ws.ExitStatus()}, nil
	case ws.Signaled():
		return ExitStatus{Signaled: true, Signal: syscall.Signal(ws.Signal())}, nil
	default:
		return ExitStatus{Exited: true, Code: -1}, nil
	}
}

func (c *unixChild) Kill() error {
	err := unix.Kill(-c.pid, unix.SIGKILL)
	if err == unix.ESRCH || err == unix.EPERM {
		err = unix.Kill(c.pid, unix.SIGKILL)
	}
	if err == unix.ESRCH {
		return nil
	}
	return err
}
