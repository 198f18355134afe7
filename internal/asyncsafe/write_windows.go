//go:build windows

package asyncsafe

import (
	"syscall"
	"unsafe"
)

// WriteRaw writes msg to fd, dropping errors so the caller's failure state is
// left untouched.
func WriteRaw(fd int, msg string) {
	if msg == "" {
		return
	}
	WriteRawBytes(fd, unsafe.Slice(unsafe.StringData(msg), len(msg)))
}

// WriteRawBytes is WriteRaw for a byte buffer.
func WriteRawBytes(fd int, p []byte) {
	for len(p) > 0 {
		n, err := syscall.Write(syscall.Handle(fd), p)
		if err != nil || n <= 0 {
			return
		}
		p = p[n:]
	}
}
