package asyncsafe

import (
	"sync/atomic"
	"syscall"
)

// environ is the raw NAME=value block captured outside any crash. The standard
// accessors copy the environment under a lock, so reporting code scans this
// snapshot instead.
var environ atomic.Pointer[[]string]

func init() {
	RefreshEnviron()
}

// RefreshEnviron replaces the environment snapshot with the current process
// environment. Call it from live code after changing variables that reporting
// code reads; it allocates.
func RefreshEnviron() {
	setEnviron(syscall.Environ())
}

func setEnviron(block []string) {
	environ.Store(&block)
}

// Environ returns the snapshot itself, not a copy. Callers must not modify
// it. Spawning from a crash passes it as the child's environment so the
// runtime's environment lock is never taken.
func Environ() []string {
	if p := environ.Load(); p != nil {
		return *p
	}
	return nil
}

// Getenv looks name up in the snapshot with a linear scan.
func Getenv(name string) (string, bool) {
	p := environ.Load()
	if p == nil {
		return "", false
	}
	return EnvironmentLookup(*p, name)
}

// EnvironmentLookup scans block for NAME=value and returns the value.
// The first match wins, matching how the C runtime resolves duplicates.
func EnvironmentLookup(block []string, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, kv := range block {
		if len(kv) > len(name) && kv[len(name)] == '=' && kv[:len(name)] == name {
			return kv[len(name)+1:], true
		}
	}
	return "", false
}
