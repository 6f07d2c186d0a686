// Package sysmon samples system-wide CPU and memory usage for the dashboard,
// so the user can see whether the trial pool saturates every core.
package sysmon

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64   // 0.0 .. 100.0, all cores
	PerCPU     []float64 // 0.0 .. 100.0, one entry per logical core
	MemPercent float64   // 0.0 .. 100.0
}

// Sample collects a single snapshot. CPU figures are deltas since the
// previous call (interval 0). Fields are left zero on error.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
	}
	if per, err := cpu.Percent(0, true); err == nil {
		s.PerCPU = make([]float64, len(per))
		for i, p := range per {
			s.PerCPU[i] = clampPercent(p)
		}
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
	}
	return s
}

// LogicalCores reports the logical core count seen by the OS, or 0 when it
// cannot be determined.
func LogicalCores(ctx context.Context) int {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0
	}
	return n
}

// Watch samples every interval and sends the result on the returned channel
// until ctx is done, then closes it. Samples are dropped if the reader lags.
func Watch(ctx context.Context, interval time.Duration) <-chan Stats {
	ch := make(chan Stats, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- Sample():
				default:
				}
			}
		}
	}()
	return ch
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
