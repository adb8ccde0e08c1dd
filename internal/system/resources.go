package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Resources is a snapshot of the machine and of this process
type Resources struct {
	LogicalCPUs  int
	PhysicalCPUs int
	TotalMemory  uint64
	AvailMemory  uint64
	ProcessRSS   uint64
}

// Snapshot reads the current resources. Fields that cannot be read stay zero.
func Snapshot() Resources {
	r := Resources{LogicalCPUs: runtime.NumCPU()}

	if n, err := cpu.Counts(true); err == nil && n > 0 {
		r.LogicalCPUs = n
	}
	if n, err := cpu.Counts(false); err == nil {
		r.PhysicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.TotalMemory = vm.Total
		r.AvailMemory = vm.Available
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			r.ProcessRSS = mi.RSS
		}
	}
	return r
}

func (r Resources) String() string {
	return fmt.Sprintf("CPU: %d logical / %d physical | RAM: %s free of %s | RSS: %s",
		r.LogicalCPUs, r.PhysicalCPUs, FormatBytes(r.AvailMemory), FormatBytes(r.TotalMemory), FormatBytes(r.ProcessRSS))
}

// RecommendedWorkers bounds the render workers by CPU count and by the
// memory a worker needs to hold its frames of width x height.
func (r Resources) RecommendedWorkers(width, height, buffersPerWorker int) int {
	workers := r.LogicalCPUs
	if workers < 1 {
		workers = 1
	}
	if r.AvailMemory > 0 && buffersPerWorker > 0 {
		perWorker := uint64(width) * uint64(height) * 4 * uint64(buffersPerWorker)
		// keep half of the free memory for ffmpeg and the OS
		if byMem := int(r.AvailMemory / 2 / max(perWorker, 1)); byMem < workers {
			workers = max(byMem, 1)
		}
	}
	return workers
}

// FormatBytes renders a byte count with a binary unit
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
