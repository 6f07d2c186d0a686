package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tulinakaya/galton/internal/format"
)

// HeaderModel renders the top bar: title, board size, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	trials    int
	bins      int
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, trials, bins int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		trials:    trials,
		bins:      bins,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Galton Board"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := versionStyle.Render(" | ")
	board := versionStyle.Render(fmt.Sprintf("%s balls, %d bins",
		format.FormatCount(int64(h.trials)), h.bins))
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	leftPart := title + pipe + board + pipe + elapsed
	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(leftPart), 0)

	return headerStyle.Width(h.width).Render(leftPart + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
