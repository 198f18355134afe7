// Package symbolize turns raw return addresses into readable trace lines.
//
// The active Callback is process-wide. Swapping it is an atomic pointer store
// with no further synchronization: a report running concurrently with
// SetCallback may use either callback. Callbacks are expected to change only
// during startup, and taking a lock here could deadlock a reporter that
// interrupted the goroutine holding it.
package symbolize

import (
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/ianlancetaylor/demangle"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
)

// Callback maps one return address to the text shown after "in" on a trace line.
type Callback func(addr uintptr) string

// Symbol is what a Resolver knows about an address.
type Symbol struct {
	ObjectPath  string
	BaseAddress uintptr
	Name        string
	Address     uintptr
}

// Resolver maps one address to the object and symbol containing it.
type Resolver interface {
	Resolve(pc uintptr) (Symbol, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(pc uintptr) (Symbol, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(pc uintptr) (Symbol, bool) { return f(pc) }

// Demangler rewrites a mangled symbol name for display.
type Demangler interface {
	Demangle(name string) string
}

// DemanglerFunc adapts a function to Demangler.
type DemanglerFunc func(name string) string

// Demangle implements Demangler.
func (f DemanglerFunc) Demangle(name string) string { return f(name) }

var (
	active    atomic.Pointer[Callback]
	resolver  atomic.Pointer[Resolver]
	demangler atomic.Pointer[Demangler]
)

func init() {
	SetCallback(nil)
	SetResolver(nil)
	SetDemangler(nil)
}

// SetCallback installs cb as the process-wide callback; nil restores
// DefaultCallback.
func SetCallback(cb Callback) {
	if cb == nil {
		cb = DefaultCallback
	}
	active.Store(&cb)
}

// GetCallback returns the process-wide callback.
func GetCallback() Callback {
	return *active.Load()
}

// SetResolver replaces the resolver used by DefaultCallback; nil restores the
// runtime symbol table resolver.
func SetResolver(r Resolver) {
	if r == nil {
		r = RuntimeResolver{}
	}
	resolver.Store(&r)
}

// SetDemangler replaces the demangler used by DefaultCallback; nil restores
// the Itanium/Rust demangler.
func SetDemangler(d Demangler) {
	if d == nil {
		d = DemanglerFunc(func(name string) string { return demangle.Filter(name) })
	}
	demangler.Store(&d)
}

// executablePath is resolved once; os.Executable may read /proc.
var executablePath = func() string {
	p, err := os.Executable()
	if err != nil {
		return ""
	}
	return p
}()

// RuntimeResolver resolves addresses through the Go runtime symbol table. It
// does not know load addresses, so BaseAddress is always zero.
type RuntimeResolver struct{}

// Resolve implements Resolver.
func (RuntimeResolver) Resolve(pc uintptr) (Symbol, bool) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return Symbol{}, false
	}
	return Symbol{
		ObjectPath: executablePath,
		Name:       fn.Name(),
		Address:    fn.Entry(),
	}, true
}

// DefaultCallback resolves addr and formats "symbol+0xoffset".
//
// Captured addresses are return addresses, the instruction after the call, so
// the lookup uses addr-1 to land inside the calling function. The offset is
// still reported against addr. Unresolved addresses print as zero-padded hex.
func DefaultCallback(addr uintptr) string {
	var buf [512]byte
	b := asyncsafe.NewBuilder(buf[:])

	sym, ok := (*resolver.Load()).Resolve(addr - 1)
	switch {
	case ok && sym.Name != "":
		b.String((*demangler.Load()).Demangle(sym.Name))
		b.String("+").Hex(uint64(addr-sym.Address), 0)
	case ok && sym.ObjectPath != "":
		b.String(filepath.Base(sym.ObjectPath))
		b.String("+").Hex(uint64(addr-sym.BaseAddress), 0)
	default:
		b.Hex(uint64(addr), 16)
	}
	return string(b.Bytes())
}

// FileLineCallback formats "function (file:line)" using the runtime's inline
// aware frame expansion, falling back to DefaultCallback for foreign frames.
func FileLineCallback(addr uintptr) string {
	frame, _ := runtime.CallersFrames([]uintptr{addr}).Next()
	if frame.Function == "" {
		return DefaultCallback(addr)
	}
	var buf [1024]byte
	b := asyncsafe.NewBuilder(buf[:])
	b.String(frame.Function).String(" (").String(frame.File).String(":").Int(int64(frame.Line)).String(")")
	return string(b.Bytes())
}

// Callback names accepted by CallbackByName.
const (
	NameDefault  = "default"
	NameFileLine = "fileline"
)

// CallbackByName maps a configured symbolicator name to its callback. The
// empty name selects DefaultCallback.
func CallbackByName(name string) (Callback, bool) {
	switch name {
	case "", NameDefault:
		return DefaultCallback, true
	case NameFileLine:
		return FileLineCallback, true
	}
	return nil, false
}

// NoFramesLine is the single line rendered for an empty capture.
const NoFramesLine = "no frames captured (stack unwinding is unsupported on this platform/architecture)"

// RenderTrace maps each frame through the active callback and prefixes it with
// its index and raw address:
//
//	#3   0x0000000000401234 in foo+0x10
func RenderTrace(frames []stack.Frame) []string {
	if len(frames) == 0 {
		return []string{NoFramesLine}
	}
	cb := GetCallback()
	lines := make([]string, len(frames))
	var buf [1024]byte
	for i, f := range frames {
		n := FormatLine(buf[:], i, f, cb(uintptr(f)))
		lines[i] = string(buf[:n])
	}
	return lines
}

// FormatLine writes one trace line for frame index i into buf, without a
// trailing newline, and returns its length. It does not allocate.
func FormatLine(buf []byte, i int, f stack.Frame, text string) int {
	b := asyncsafe.NewBuilder(buf)
	b.String(" #").Int(int64(i))
	for pad := asyncsafe.DecimalDigitCount(int64(i)); pad < 3; pad++ {
		b.String(" ")
	}
	b.String(" ").Hex(uint64(f), 16).String(" in ").String(text)
	return b.Len()
}
