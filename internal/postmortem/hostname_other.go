//go:build !linux && !darwin

package postmortem

import "os"

func hostname(buf []byte) int {
	name, err := os.Hostname()
	if err != nil {
		return 0
	}
	return copy(buf, name)
}
