package diagctx

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// FallbackProgramName is reported when no name was ever set.
const FallbackProgramName = "postmortem"

var programName atomic.Pointer[string]

// BaseProgramName derives a program name from an executable path: base name,
// minus a trailing ".exe". It returns "" when nothing usable remains.
func BaseProgramName(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(name), ".exe") {
		name = name[:len(name)-len(".exe")]
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// SetProgramName sets the process-wide name from an executable path. A path
// with no usable base name resets to the fallback.
func SetProgramName(path string) {
	name := BaseProgramName(path)
	if name == "" {
		programName.Store(nil)
		return
	}
	programName.Store(&name)
}

// SetProgramNameFromArgs uses os.Args[0], the usual startup call.
func SetProgramNameFromArgs() {
	if len(os.Args) > 0 {
		SetProgramName(os.Args[0])
	}
}

// ProgramName returns the configured name or FallbackProgramName.
func ProgramName() string {
	if p := programName.Load(); p != nil {
		return *p
	}
	return FallbackProgramName
}
