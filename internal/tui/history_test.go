package tui

import (
	"testing"
	"unicode/utf8"
)

func TestHistory_KeepsNewestSamples(t *testing.T) {
	t.Parallel()
	h := newHistory(3)
	if h.last() != 0 || len(h.values()) != 0 {
		t.Fatal("a new history must be empty")
	}
	for _, v := range []float64{1, 2, 3, 4} {
		h.push(v)
	}
	got := h.values()
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if h.last() != 4 {
		t.Errorf("last() = %v, want 4", h.last())
	}

	h.reset()
	if len(h.values()) != 0 {
		t.Errorf("values() after reset = %v", h.values())
	}
}

func TestHistory_ZeroCapacity(t *testing.T) {
	t.Parallel()
	h := newHistory(0)
	h.push(5)
	h.push(7)
	if v := h.values(); len(v) != 1 || v[0] != 7 {
		t.Errorf("values() = %v, want [7]", v)
	}
}

func TestSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"zero width", []float64{50}, 0, ""},
		{"empty is padded", nil, 3, "   "},
		{"extremes", []float64{0, 100}, 2, "▁█"},
		{"clamped", []float64{-10, 250}, 2, "▁█"},
		{"right aligned", []float64{100}, 3, "  █"},
		{"keeps newest", []float64{0, 0, 100, 100}, 2, "██"},
		{"mid value", []float64{50}, 1, "▅"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := sparkline(tt.values, tt.width)
			if got != tt.want {
				t.Errorf("sparkline(%v, %d) = %q, want %q", tt.values, tt.width, got, tt.want)
			}
			if utf8.RuneCountInString(got) != tt.width {
				t.Errorf("rune count = %d, want %d", utf8.RuneCountInString(got), tt.width)
			}
		})
	}
}
