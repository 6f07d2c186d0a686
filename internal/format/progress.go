package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps estimates produced from a very slow early rate.
const maxETA = 24 * time.Hour

// minETASamples is how long a run must have progressed before an estimate
// is reported.
const minETASamples = 2

// ProgressWithETA tracks the completion fraction of a single run and derives
// an estimated time to completion from the observed rate.
//
// It is safe for concurrent use.
type ProgressWithETA struct {
	mu           sync.Mutex
	value        float64
	samples      int
	startTime    time.Time
	lastUpdate   time.Time
	progressRate float64 // fraction per second
}

// NewProgressWithETA returns a tracker whose clock starts now.
func NewProgressWithETA() *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{startTime: now, lastUpdate: now}
}

// Update records the current completion fraction, clamped to [0, 1], and
// returns it together with the refreshed estimate.
func (p *ProgressWithETA) Update(value float64) (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	value = clamp(value)
	now := time.Now()
	if value > 0 {
		if elapsed := now.Sub(p.startTime).Seconds(); elapsed > 0 {
			p.progressRate = value / elapsed
		}
	}
	p.value = value
	p.samples++
	p.lastUpdate = now
	return p.value, p.etaLocked()
}

// Value returns the last recorded completion fraction.
func (p *ProgressWithETA) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// GetETA returns the current estimate, or 0 when no estimate is available.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked()
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

func (p *ProgressWithETA) etaLocked() time.Duration {
	if p.progressRate <= 0 || p.value >= 1 || p.samples < minETASamples {
		return 0
	}
	remaining := (1 - p.value) / p.progressRate
	eta := time.Duration(remaining * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ProgressBar renders progress as a bar of length runes.
func ProgressBar(progress float64, length int) string {
	progress = clamp(progress)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// FormatProgressBarWithETA renders "[bar]  42.00% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	pct := clamp(progress) * 100
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), pct, FormatETA(eta))
}
