//go:build unix

package asyncsafe

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// WriteRaw writes msg to fd with direct write(2) calls, retrying short writes
// and EINTR. Errors are dropped: a failing diagnostic write must never replace
// the error that triggered it.
func WriteRaw(fd int, msg string) {
	if msg == "" {
		return
	}
	p := unsafe.Slice(unsafe.StringData(msg), len(msg))
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n <= 0 {
			return
		}
		p = p[n:]
	}
}

// WriteRawBytes is WriteRaw for a byte buffer.
func WriteRawBytes(fd int, p []byte) {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n <= 0 {
			return
		}
		p = p[n:]
	}
}
