package tui

import (
	"fmt"
	"strings"

	"github.com/tulinakaya/galton/internal/format"
	"github.com/tulinakaya/galton/internal/galton"
)

// HistogramModel renders the sealed distribution as vertical columns.
// It has nothing to draw until a run seals its store.
type HistogramModel struct {
	bins   []galton.Bin
	stats  galton.Stats
	sealed bool
	width  int
	height int
}

// NewHistogramModel creates an empty histogram panel.
func NewHistogramModel() HistogramModel {
	return HistogramModel{}
}

// SetSize updates dimensions.
func (h *HistogramModel) SetSize(w, ht int) {
	h.width = w
	h.height = ht
}

// SetResult stores the sealed bins of a run.
func (h *HistogramModel) SetResult(bins []galton.Bin, stats galton.Stats) {
	h.bins = bins
	h.stats = stats
	h.sealed = true
}

// Reset discards the previous distribution.
func (h *HistogramModel) Reset() {
	h.bins = nil
	h.stats = galton.Stats{}
	h.sealed = false
}

// View renders the histogram panel.
func (h HistogramModel) View() string {
	inner := max(h.width-4, 1)
	// title + axis + stats lines inside the border
	chartHeight := max(h.height-2-3, 1)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Distribution"))
	b.WriteString("\n")

	if !h.sealed {
		b.WriteString(metricLabelStyle.Render("Waiting for every ball to land..."))
	} else {
		counts := make([]int64, len(h.bins))
		for i, bin := range h.bins {
			counts[i] = bin.Count
		}
		counts = bucketCounts(counts, inner)
		for _, line := range renderColumns(counts, inner, chartHeight) {
			b.WriteString(histogramBarStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(histogramAxisStyle.Render(axisLine(len(h.bins), inner)))
		b.WriteString("\n")
		b.WriteString(metricLabelStyle.Render(fmt.Sprintf(
			"sum %s  mean %.3f (exp %.3f)  sd %.3f (exp %.3f)  chi2 %.2f",
			format.FormatCount(h.stats.Trials), h.stats.Mean, h.stats.ExpectedMean,
			h.stats.StdDev, h.stats.ExpectedStdDev, h.stats.ChiSquare)))
	}

	return panelStyle.
		Width(max(h.width-2, 0)).
		Height(max(h.height-2, 0)).
		Render(b.String())
}

// bucketCounts merges adjacent counts so that at most n columns remain.
func bucketCounts(counts []int64, n int) []int64 {
	if n <= 0 || len(counts) <= n {
		return counts
	}
	out := make([]int64, n)
	for i := range n {
		lo, hi := i*len(counts)/n, (i+1)*len(counts)/n
		for _, c := range counts[lo:hi] {
			out[i] += c
		}
	}
	return out
}

// renderColumns draws one column per count, scaled so the largest count
// fills height rows. Partial cells use eighth blocks, and a non-zero count
// is never drawn empty.
func renderColumns(counts []int64, width, height int) []string {
	if len(counts) == 0 || width <= 0 || height <= 0 {
		return nil
	}
	var peak int64
	for _, c := range counts {
		peak = max(peak, c)
	}
	cell := max(width/len(counts), 1)
	bar := cell
	if cell > 2 {
		bar = cell - 1
	}

	levels := make([]int64, len(counts))
	if peak > 0 {
		for i, c := range counts {
			levels[i] = c * int64(height) * 8 / peak
			if c > 0 && levels[i] == 0 {
				levels[i] = 1
			}
		}
	}

	lines := make([]string, height)
	for r := range height {
		base := int64(height-1-r) * 8
		var line strings.Builder
		for _, lvl := range levels {
			ch := " "
			switch fill := lvl - base; {
			case fill >= 8:
				ch = "█"
			case fill > 0:
				ch = string(sparkBlocks[fill-1])
			}
			line.WriteString(strings.Repeat(ch, bar))
			line.WriteString(spaces(cell - bar))
		}
		lines[r] = line.String()
	}
	return lines
}

// axisLine labels the first and last bin indices under the columns.
func axisLine(bins, width int) string {
	if bins == 0 {
		return ""
	}
	left := "0"
	right := fmt.Sprintf("%d", bins-1)
	return left + spaces(width-len(left)-len(right)) + right
}
