package tui

import (
	"time"

	"github.com/tulinakaya/galton/internal/metrics"
	"github.com/tulinakaya/galton/internal/orchestration"
	"github.com/tulinakaya/galton/internal/sysmon"
)

// ProgressMsg carries one tracked progress update from the bridge.
//
// Messages sent by a run carry its generation so that a rerun ignores
// whatever the previous, canceled run still delivers.
type ProgressMsg struct {
	orchestration.TrackedProgress
	Generation uint64
}

// ProgressDoneMsg is sent once the progress channel has been closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ResultMsg carries a sealed result ready for display.
type ResultMsg struct {
	Result     orchestration.SimulationResult
	Generation uint64
}

// ErrorMsg carries a failed run or a conservation mismatch.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// TickMsg drives periodic sampling while a run is in flight.
type TickMsg time.Time

// MemStatsMsg carries a Go runtime memory reading.
type MemStatsMsg struct {
	metrics.MemorySnapshot
}

// SysStatsMsg carries a host CPU and memory reading.
type SysStatsMsg struct {
	sysmon.Stats
}

// SimulationCompleteMsg is sent when a run has been analyzed.
type SimulationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context is canceled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
