package source

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// LocalResources samples CPU and RAM usage of the host running HomeBoard.
// It reports GPU telemetry as inactive.
type LocalResources struct {
	cpuPercent func(ctx context.Context) (float64, error)
	memPercent func(ctx context.Context) (float64, error)
}

// NewLocalResources creates a gopsutil-backed resource source.
func NewLocalResources() *LocalResources {
	return &LocalResources{
		cpuPercent: sampleCPU,
		memPercent: sampleMemory,
	}
}

// Resources samples the host. CPU usage is measured since the previous call.
func (l *LocalResources) Resources(ctx context.Context) (ResourceSnapshot, error) {
	cpuPct, err := l.cpuPercent(ctx)
	if err != nil {
		return ResourceSnapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	memPct, err := l.memPercent(ctx)
	if err != nil {
		return ResourceSnapshot{}, fmt.Errorf("sample memory: %w", err)
	}
	return ResourceSnapshot{
		CPU: clampPercent(cpuPct),
		RAM: clampPercent(memPct),
	}, nil
}

func sampleCPU(ctx context.Context) (float64, error) {
	// interval 0 compares against the previous call
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("no cpu samples")
	}
	return percents[0], nil
}

func sampleMemory(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
