//go:build !unix

package postmortem

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

func userCPUSeconds() int64 {
	// #nosec G115 -- pids fit in int32 on every supported platform
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	times, err := p.Times()
	if err != nil {
		return 0
	}
	return int64(times.User)
}
