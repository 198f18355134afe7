//go:build unix

package postmortem

import "golang.org/x/sys/unix"

// userCPUSeconds is the process's user CPU time in whole seconds, read with
// getrusage so it is safe on the fatal path.
func userCPUSeconds() int64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return int64(ru.Utime.Sec) //nolint:unconvert // int32 on 32-bit platforms
}
