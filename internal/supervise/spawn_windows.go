//go:build windows

package supervise

import (
	"os"
	"syscall"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
)

// DefaultSpawner uses os.StartProcess where fork/exec is not available.
var DefaultSpawner Spawner = osSpawner{}

type osSpawner struct{}

func (osSpawner) Spawn(path string, argv []string, opts SpawnOptions) (Child, error) {
	proc, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   opts.Env,
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return nil, core.ErrCouldNotLaunch(path, err)
	}
	return &osChild{proc: proc}, nil
}

type osChild struct {
	proc *os.Process
}

func (c *osChild) Pid() int { return c.proc.Pid }

func (c *osChild) Wait() (ExitStatus, error) {
	state, err := c.proc.Wait()
	if err != nil {
		return ExitStatus{}, err
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Signaled: true, Signal: ws.Signal()}, nil
	}
	return ExitStatus{Exited: true, Code: state.ExitCode()}, nil
}

func (c *osChild) Kill() error {
	return c.proc.Kill()
}
