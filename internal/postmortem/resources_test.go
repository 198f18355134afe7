package postmortem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeResourceSnapshot(t *testing.T) {
	t.Parallel()
	snap := TakeResourceSnapshot(t.TempDir())

	assert.Positive(t, snap.Goroutines)
	assert.Positive(t, snap.HeapAllocMB)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestResourceSnapshot_Lines(t *testing.T) {
	t.Parallel()

	base := ResourceSnapshot{
		Goroutines:  12,
		HeapAllocMB: 3.5,
		HeapInUseMB: 4,
		NumGC:       7,
		OpenFDs:     9,
		RSSMB:       20,
		UserCPU:     1.5,
		SystemCPU:   0.25,
		Uptime:      90 * time.Second,
	}
	lines := base.Lines()
	require.Len(t, lines, 8)
	assert.Equal(t, "goroutines: 12", lines[0])
	assert.Equal(t, "heap: 3.5 MB allocated, 4.0 MB in use", lines[1])
	assert.Equal(t, "cpu: 1.50s user, 0.25s system", lines[6])
	assert.Equal(t, "uptime: 1m30s", lines[7])

	host := base
	host.HasHostMemory, host.HostMemPercent, host.HostMemTotalMB = true, 50, 2048
	host.HasLoad, host.Load1, host.Load5, host.Load15 = true, 1, 0.5, 0.25
	host.HasReportDisk, host.ReportDiskFree, host.ReportDiskUsage = true, 12.5, 80
	lines = host.Lines()
	require.Len(t, lines, 11)
	assert.Equal(t, "host memory: 50.0% of 2048 MB used", lines[8])
	assert.Equal(t, "load: 1.00 0.50 0.25", lines[9])
	assert.Equal(t, "report disk: 12.5 GB free, 80.0% used", lines[10])
}
