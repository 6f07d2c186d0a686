package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tulinakaya/galton/internal/format"
	"github.com/tulinakaya/galton/internal/metrics"
	"github.com/tulinakaya/galton/internal/orchestration"
	"github.com/tulinakaya/galton/internal/sysmon"
)

// historySize is the number of host samples kept for the sparklines.
const historySize = 120

// MetricsModel displays run progress, throughput and host load.
type MetricsModel struct {
	progress   orchestration.TrackedProgress
	speed      float64 // trials per second, smoothed
	lastCount  int64
	lastUpdate time.Time
	mem        metrics.MemorySnapshot
	cpu        *history
	hostMem    *history
	poolWidth  int
	width      int
	height     int
}

// NewMetricsModel creates a new metrics panel for a pool of the given width.
func NewMetricsModel(poolWidth int) MetricsModel {
	return MetricsModel{
		lastUpdate: time.Now(),
		cpu:        newHistory(historySize),
		hostMem:    newHistory(historySize),
		poolWidth:  poolWidth,
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateProgress records a tracked update and refreshes the throughput.
func (m *MetricsModel) UpdateProgress(p orchestration.TrackedProgress) {
	m.progress = p
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt < 0.05 {
		return
	}
	if dc := p.Completed - m.lastCount; dc > 0 {
		instant := float64(dc) / dt
		if m.speed > 0 {
			m.speed = 0.7*m.speed + 0.3*instant
		} else {
			m.speed = instant
		}
	}
	m.lastCount = p.Completed
	m.lastUpdate = now
}

// UpdateMemStats stores the latest runtime reading.
func (m *MetricsModel) UpdateMemStats(s metrics.MemorySnapshot) {
	m.mem = s
}

// UpdateSysStats appends a host reading to the sparklines.
func (m *MetricsModel) UpdateSysStats(s sysmon.Stats) {
	m.cpu.push(s.CPUPercent)
	m.hostMem.push(s.MemPercent)
}

// Reset clears the progress of a previous run. Host history is kept.
func (m *MetricsModel) Reset() {
	m.progress = orchestration.TrackedProgress{}
	m.speed = 0
	m.lastCount = 0
	m.lastUpdate = time.Now()
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	inner := max(m.width-4, 10)
	var rows strings.Builder

	rows.WriteString(panelTitleStyle.Render("Progress"))
	rows.WriteString("\n")
	rows.WriteString(renderProgressBar(m.progress.Value, inner-9))
	rows.WriteString(metricValueStyle.Render(fmt.Sprintf(" %6.2f%%", m.progress.Value*100)))
	rows.WriteString("\n")

	eta := "-"
	if m.progress.Value > 0 && m.progress.Value < 1 {
		eta = format.FormatETA(m.progress.ETA)
	}
	colWidth := inner / 2
	rows.WriteString(formatMetricCol("Trials:", fmt.Sprintf("%s / %s",
		format.FormatCount(m.progress.Completed), format.FormatCount(m.progress.Total)), colWidth))
	rows.WriteString(formatMetricCol("ETA:", eta, colWidth))
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Speed:", format.FormatCount(int64(m.speed))+"/s", colWidth))
	rows.WriteString(formatMetricCol("Workers:", fmt.Sprintf("%d", m.poolWidth), colWidth))
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Heap:", formatBytes(m.mem.HeapAlloc)+" / "+formatBytes(m.mem.Sys), colWidth))
	rows.WriteString(formatMetricCol("Goroutines:", fmt.Sprintf("%d (GC %d)", m.mem.Goroutines, m.mem.NumGC), colWidth))
	rows.WriteString("\n")

	sparkWidth := max(inner-18, 1)
	rows.WriteString(fmt.Sprintf(" %s %s %s\n",
		metricLabelStyle.Render(fmt.Sprintf("%-6s", "CPU")),
		cpuSparklineStyle.Render(sparkline(m.cpu.values(), sparkWidth)),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.cpu.last()))))
	rows.WriteString(fmt.Sprintf(" %s %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-6s", "MEM")),
		memSparklineStyle.Render(sparkline(m.hostMem.values(), sparkWidth)),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.hostMem.last()))))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

// renderProgressBar renders a themed bar of the given width.
func renderProgressBar(progress float64, width int) string {
	width = max(width, 1)
	filled := min(max(int(progress*float64(width)), 0), width)
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
