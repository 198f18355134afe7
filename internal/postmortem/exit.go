package postmortem

import (
	"os"
	"sync"
)

// Go has no atexit: hooks run from Exit, or from RunExitHooks deferred in
// main.
var exitHooks struct {
	mu    sync.Mutex
	hooks []func()
	ran   bool
}

var osExit = os.Exit

// RegisterExitHook adds fn to the hooks run at normal exit. Hooks run in
// reverse registration order, once per process.
func RegisterExitHook(fn func()) {
	exitHooks.mu.Lock()
	defer exitHooks.mu.Unlock()
	exitHooks.hooks = append(exitHooks.hooks, fn)
}

// RunExitHooks runs the registered hooks the first time it is called and
// does nothing afterwards. A panicking hook does not stop the others.
func RunExitHooks() {
	exitHooks.mu.Lock()
	if exitHooks.ran {
		exitHooks.mu.Unlock()
		return
	}
	exitHooks.ran = true
	hooks := exitHooks.hooks
	exitHooks.hooks = nil
	exitHooks.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		runHook(hooks[i])
	}
}

func runHook(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// Exit runs the exit hooks and terminates the process with code.
func Exit(code int) {
	RunExitHooks()
	osExit(code)
}

// resetExitHooks is for tests.
func resetExitHooks() {
	exitHooks.mu.Lock()
	defer exitHooks.mu.Unlock()
	exitHooks.hooks = nil
	exitHooks.ran = false
}
