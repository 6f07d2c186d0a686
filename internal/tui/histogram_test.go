package tui

import (
	"strings"
	"testing"

	"github.com/tulinakaya/galton/internal/galton"
)

func TestBucketCounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		counts []int64
		n      int
		want   []int64
	}{
		{"fits", []int64{1, 2}, 4, []int64{1, 2}},
		{"halves", []int64{1, 2, 3, 4, 5, 6}, 3, []int64{3, 7, 11}},
		{"uneven", []int64{1, 2, 3, 4, 5, 6}, 4, []int64{1, 5, 4, 11}},
		{"no limit", []int64{1, 2, 3}, 0, []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := bucketCounts(tt.counts, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("bucketCounts = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("bucket %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBucketCounts_PreservesTotal(t *testing.T) {
	t.Parallel()
	counts := make([]int64, 200)
	var total int64
	for i := range counts {
		counts[i] = int64(i % 7)
		total += counts[i]
	}
	var got int64
	for _, c := range bucketCounts(counts, 37) {
		got += c
	}
	if got != total {
		t.Errorf("bucketed total = %d, want %d", got, total)
	}
}

func TestRenderColumns(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		counts []int64
		width  int
		height int
		want   []string
	}{
		{"single row", []int64{0, 8, 4}, 3, 1, []string{" █▄"}},
		{"small count stays visible", []int64{1, 100}, 2, 2, []string{" █", "▁█"}},
		{"all zero", []int64{0, 0}, 2, 1, []string{"  "}},
		{"wide cells keep a gap", []int64{2, 4}, 6, 1, []string{"▄▄ ██ "}},
		{"invalid size", []int64{1}, 0, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := renderColumns(tt.counts, tt.width, tt.height)
			if len(got) != len(tt.want) {
				t.Fatalf("renderColumns = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHistogramModel_View(t *testing.T) {
	t.Parallel()
	h := NewHistogramModel()
	h.SetSize(90, 14)
	if !strings.Contains(h.View(), "Waiting") {
		t.Error("an unsealed histogram should show a waiting message")
	}

	bins := []galton.Bin{{Index: 0, Count: 1}, {Index: 1, Count: 3}, {Index: 2, Count: 3}, {Index: 3, Count: 1}}
	h.SetResult(bins, galton.ComputeStats(bins))
	view := h.View()
	for _, want := range []string{"Distribution", "sum 8", "chi2", "█"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q, got:\n%s", want, view)
		}
	}

	h.Reset()
	if !strings.Contains(h.View(), "Waiting") {
		t.Error("Reset should drop the sealed distribution")
	}
}

func TestAxisLine(t *testing.T) {
	t.Parallel()
	if got := axisLine(10, 8); got != "0      9" {
		t.Errorf("axisLine(10, 8) = %q", got)
	}
	if got := axisLine(0, 8); got != "" {
		t.Errorf("axisLine(0, 8) = %q", got)
	}
}
