package monitor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const defaultSampleInterval = 200 * time.Millisecond

// Provider reports host resource usage
type Provider struct {
	logger         *zap.Logger
	sampleInterval time.Duration
	root           string
}

// SystemStats represents system resource usage. CPU and Memory are
// percentages in [0, 100].
type SystemStats struct {
	Timestamp  int64       `json:"timestamp"`
	CPU        float64     `json:"cpu"`
	CPUCores   CoreStats   `json:"cpu_cores"`
	Memory     float64     `json:"memory"`
	Disk       float64     `json:"disk"`
	Cores      int         `json:"cores"`
	Goroutines int         `json:"goroutines"`
	Uptime     uint64      `json:"host_uptime_seconds"`
	Details    MemoryStats `json:"memory_details"`
}

// CoreStats summarizes per-core CPU usage
type CoreStats struct {
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}

// MemoryStats represents memory usage
type MemoryStats struct {
	Total     uint64 `json:"total_bytes"`
	Used      uint64 `json:"used_bytes"`
	Available uint64 `json:"available_bytes"`
}

// NewProvider creates a monitor provider
func NewProvider(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	root := "/"
	if runtime.GOOS == "windows" {
		root = os.Getenv("SystemDrive") + `\`
	}
	return &Provider{
		logger:         logger,
		sampleInterval: defaultSampleInterval,
		root:           root,
	}
}

// WithSampleInterval sets how long CPU usage is measured over.
// Zero compares against the previous call.
func (p *Provider) WithSampleInterval(d time.Duration) *Provider {
	p.sampleInterval = d
	return p
}

// Snapshot samples CPU, memory and disk usage
func (p *Provider) Snapshot(ctx context.Context) (*SystemStats, error) {
	percents, err := cpu.PercentWithContext(ctx, p.sampleInterval, true)
	if err != nil {
		return nil, fmt.Errorf("cpu usage: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory usage: %w", err)
	}

	stats := &SystemStats{
		Timestamp:  time.Now().Unix(),
		Memory:     vm.UsedPercent,
		Cores:      runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
		Details: MemoryStats{
			Total:     vm.Total,
			Used:      vm.Used,
			Available: vm.Available,
		},
	}
	stats.CPU, stats.CPUCores = summarizeCores(percents)

	// disk and uptime are best effort
	if usage, err := disk.UsageWithContext(ctx, p.root); err == nil {
		stats.Disk = usage.UsedPercent
	} else {
		p.logger.Debug("Disk usage unavailable", zap.String("path", p.root), zap.Error(err))
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		stats.Uptime = uptime
	} else {
		p.logger.Debug("Host uptime unavailable", zap.Error(err))
	}

	return stats, nil
}

// summarizeCores reduces per-core usage to the mean across cores plus spread
func summarizeCores(percents []float64) (float64, CoreStats) {
	switch len(percents) {
	case 0:
		return 0, CoreStats{}
	case 1:
		return percents[0], CoreStats{Max: percents[0]}
	}
	return stat.Mean(percents, nil), CoreStats{
		Max:    floats.Max(percents),
		StdDev: stat.StdDev(percents, nil),
	}
}
