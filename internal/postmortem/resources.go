package postmortem

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceSnapshot captures process resource state for a non-fatal report.
// Reading memory statistics stops the world, so fatal reports omit it.
type ResourceSnapshot struct {
	Timestamp    time.Time
	Goroutines   int
	HeapAllocMB  float64
	HeapInUseMB  float64
	StackInUseMB float64
	NumGC        uint32
	OpenFDs      int32
	RSSMB        float64
	UserCPU      float64
	SystemCPU    float64
	Uptime       time.Duration

	// Host figures; the Has flags are false when the platform did not
	// provide them.
	HasHostMemory   bool
	HostMemPercent  float64
	HostMemTotalMB  float64
	HasLoad         bool
	Load1           float64
	Load5           float64
	Load15          float64
	HasReportDisk   bool
	ReportDiskFree  float64
	ReportDiskUsage float64
}

// TakeResourceSnapshot reads runtime statistics and, best effort, the
// process's descriptor, memory and CPU figures plus host memory, load and
// free space where reports are written.
func TakeResourceSnapshot(reportDir string) ResourceSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snap := ResourceSnapshot{
		Timestamp:    time.Now(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  float64(memStats.HeapAlloc) / 1024 / 1024,
		HeapInUseMB:  float64(memStats.HeapInuse) / 1024 / 1024,
		StackInUseMB: float64(memStats.StackInuse) / 1024 / 1024,
		NumGC:        memStats.NumGC,
	}
	snap.collectHost(reportDir)

	// #nosec G115 -- pids fit in int32 on every supported platform
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return snap
	}
	if n, err := p.NumFDs(); err == nil {
		snap.OpenFDs = n
	}
	if mem, err := p.MemoryInfo(); err == nil {
		snap.RSSMB = float64(mem.RSS) / 1024 / 1024
	}
	if times, err := p.Times(); err == nil {
		snap.UserCPU = times.User
		snap.SystemCPU = times.System
	}
	if created, err := p.CreateTime(); err == nil {
		snap.Uptime = snap.Timestamp.Sub(time.UnixMilli(created))
	}
	return snap
}

func (s *ResourceSnapshot) collectHost(reportDir string) {
	if vm, err := mem.VirtualMemory(); err == nil {
		s.HasHostMemory = true
		s.HostMemTotalMB = float64(vm.Total) / 1024 / 1024
		s.HostMemPercent = vm.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		s.HasLoad = true
		s.Load1, s.Load5, s.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	if reportDir == "" {
		return
	}
	if usage, err := disk.Usage(reportDir); err == nil {
		s.HasReportDisk = true
		s.ReportDiskFree = float64(usage.Free) / 1024 / 1024 / 1024
		s.ReportDiskUsage = usage.UsedPercent
	}
}

// Lines renders the snapshot for a report file.
func (s ResourceSnapshot) Lines() []string {
	lines := []string{
		fmt.Sprintf("goroutines: %d", s.Goroutines),
		fmt.Sprintf("heap: %.1f MB allocated, %.1f MB in use", s.HeapAllocMB, s.HeapInUseMB),
		fmt.Sprintf("stacks: %.1f MB in use", s.StackInUseMB),
		fmt.Sprintf("gc cycles: %d", s.NumGC),
		fmt.Sprintf("open fds: %d", s.OpenFDs),
		fmt.Sprintf("rss: %.1f MB", s.RSSMB),
		fmt.Sprintf("cpu: %.2fs user, %.2fs system", s.UserCPU, s.SystemCPU),
		fmt.Sprintf("uptime: %s", s.Uptime.Round(time.Millisecond)),
	}
	if s.HasHostMemory {
		lines = append(lines, fmt.Sprintf("host memory: %.1f%% of %.0f MB used", s.HostMemPercent, s.HostMemTotalMB))
	}
	if s.HasLoad {
		lines = append(lines, fmt.Sprintf("load: %.2f %.2f %.2f", s.Load1, s.Load5, s.Load15))
	}
	if s.HasReportDisk {
		lines = append(lines, fmt.Sprintf("report disk: %.1f GB free, %.1f%% used", s.ReportDiskFree, s.ReportDiskUsage))
	}
	return lines
}
