package orchestration

import (
	"time"

	"github.com/tulinakaya/galton/internal/format"
	"github.com/tulinakaya/galton/internal/galton"
)

// ProgressTracker turns raw progress updates into a fraction plus an ETA.
// Both the CLI and the TUI consume updates through it.
type ProgressTracker struct {
	state *format.ProgressWithETA
	last  galton.ProgressUpdate
}

// NewProgressTracker creates a tracker whose ETA clock starts now.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{state: format.NewProgressWithETA()}
}

// TrackedProgress is the result of processing one update.
type TrackedProgress struct {
	Completed int64
	Total     int64
	// Value is the completion fraction in [0, 1].
	Value float64
	// ETA is the estimated time remaining, 0 while unknown.
	ETA time.Duration
}

// Update records u and returns the refreshed view.
func (t *ProgressTracker) Update(u galton.ProgressUpdate) TrackedProgress {
	t.last = u
	value, eta := t.state.Update(u.Value)
	return TrackedProgress{Completed: u.Completed, Total: u.Total, Value: value, ETA: eta}
}

// Current returns the view of the last update without recording a new one.
func (t *ProgressTracker) Current() TrackedProgress {
	return TrackedProgress{
		Completed: t.last.Completed,
		Total:     t.last.Total,
		Value:     t.state.Value(),
		ETA:       t.state.GetETA(),
	}
}

// Elapsed returns the time since the tracker was created.
func (t *ProgressTracker) Elapsed() time.Duration {
	return t.state.Elapsed()
}

// DrainChannel reads and discards every update until progressChan is closed.
func DrainChannel(progressChan <-chan galton.ProgressUpdate) {
	for range progressChan {
	}
}
