//go:build unix

package supervise

import "golang.org/x/sys/unix"

// HasControllingTerminal reports whether the process has a controlling
// terminal, which is exactly when /dev/tty can be opened.
func HasControllingTerminal() bool {
	fd, err := unix.Open("/dev/tty", unix.O_RDONLY|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return false
	}
	_ = unix.Close(fd)
	return true
}
