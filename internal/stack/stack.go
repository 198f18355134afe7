// Package stack captures raw return addresses for the calling goroutine.
//
// Capture owns the depth and skip contract; the unwind itself is delegated to
// an Unwinder, runtime.Callers by default. An empty result means unwinding is
// unsupported, never that the stack was empty.
package stack

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Frame is one return address on a call stack, most recent call first.
type Frame uintptr

// DefaultMaxDepth bounds traces when the caller does not choose a depth.
const DefaultMaxDepth = 64

// Unwinder fills pcs with return addresses of the current goroutine, skipping
// skip innermost frames counted from the Unwinder's caller, and returns how many
// it wrote.
type Unwinder interface {
	Callers(skip int, pcs []uintptr) int
}

// UnwinderFunc adapts a function to Unwinder.
type UnwinderFunc func(skip int, pcs []uintptr) int

// Callers implements Unwinder.
func (f UnwinderFunc) Callers(skip int, pcs []uintptr) int { return f(skip, pcs) }

type runtimeUnwinder struct{}

func (*runtimeUnwinder) Callers(skip int, pcs []uintptr) int {
	// +2 skips runtime.Callers and this method.
	return runtime.Callers(skip+2, pcs)
}

// Unsupported is an Unwinder for builds without stack walking.
var Unsupported Unwinder = UnwinderFunc(func(int, []uintptr) int { return 0 })

type unwinderBox struct{ u Unwinder }

var active atomic.Pointer[unwinderBox]

func init() {
	active.Store(&unwinderBox{u: &runtimeUnwinder{}})
}

// SetUnwinder replaces the process-wide unwinder. nil restores the runtime one.
func SetUnwinder(u Unwinder) {
	if u == nil {
		u = &runtimeUnwinder{}
	}
	active.Store(&unwinderBox{u: u})
}

// CurrentUnwinder returns the process-wide unwinder.
func CurrentUnwinder() Unwinder {
	return active.Load().u
}

var pcBufPool = sync.Pool{
	New: func() any {
		buf := make([]uintptr, DefaultMaxDepth)
		return &buf
	},
}

func putPCBuffer(buf *[]uintptr) {
	if cap(*buf) <= 1024 {
		pcBufPool.Put(buf)
	}
}

// Capture returns up to maxDepth frames of the caller's stack after discarding
// skip innermost frames. skip 0 starts at the function calling Capture.
// maxDepth <= 0 uses DefaultMaxDepth.
func Capture(maxDepth, skip int) []Frame {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if skip < 0 {
		skip = 0
	}

	pcBuf := pcBufPool.Get().(*[]uintptr)
	defer putPCBuffer(pcBuf)
	if cap(*pcBuf) < maxDepth {
		*pcBuf = make([]uintptr, maxDepth)
	}
	pcs := (*pcBuf)[:maxDepth]

	// +1 skips Capture itself.
	n := CurrentUnwinder().Callers(skip+1, pcs)
	if n <= 0 {
		return nil
	}
	frames := make([]Frame, n)
	for i, pc := range pcs[:n] {
		frames[i] = Frame(pc)
	}
	return frames
}

// CaptureInto is the allocation-free form of Capture for the fatal path: it
// fills dst, whose length is the depth limit, and returns the frame count.
//
//go:noinline
func CaptureInto(dst []Frame, skip int) int {
	if len(dst) == 0 {
		return 0
	}
	if skip < 0 {
		skip = 0
	}
	// Frame and uintptr share a representation, so the unwinder writes
	// straight into dst.
	pcs := framesAsPCs(dst)
	n := CurrentUnwinder().Callers(skip+1, pcs)
	if n < 0 {
		return 0
	}
	return n
}
