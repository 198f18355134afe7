//go:build linux || darwin

package postmortem

import (
	"golang.org/x/sys/unix"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
)

// hostname copies the node name into buf and returns its length, or 0.
func hostname(buf []byte) int {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return 0
	}
	return asyncsafe.Copy(buf, uts.Nodename[:])
}
