package supervise

import "syscall"

// ExecFailedStatus is the exit status of a child that could not launch its
// command, matching the shell convention for "command not found".
const ExecFailedStatus = 127

// ExitStatus is a reaped child's final state.
type ExitStatus struct {
	Exited   bool
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

// SpawnOptions tune child creation.
type SpawnOptions struct {
	// Env is the child environment; nil inherits the parent's.
	Env []string
	// Detach starts the child in a new session so it cannot block on, or be
	// signalled through, the parent's controlling terminal.
	Detach bool
}

// Child is a started process that must be reaped with Wait exactly once.
type Child interface {
	Pid() int
	// Wait blocks until the child changes to a terminal state and reaps it.
	Wait() (ExitStatus, error)
	// Kill forcibly terminates the child and anything in its process group.
	Kill() error
}

// Spawner creates children. Implementations are chosen per platform at build
// time; tests substitute fakes.
type Spawner interface {
	Spawn(path string, argv []string, opts SpawnOptions) (Child, error)
}
