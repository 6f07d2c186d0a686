package tui

// sparkBlocks maps levels 0..7 to Unicode block elements.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// history keeps the most recent percentage samples of a host gauge.
type history struct {
	data  []float64
	head  int
	count int
}

func newHistory(capacity int) *history {
	return &history{data: make([]float64, max(capacity, 1))}
}

// push records v, dropping the oldest sample when full.
func (h *history) push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// last returns the newest sample, or 0 when empty.
func (h *history) last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.data[(h.head-1+len(h.data))%len(h.data)]
}

// values returns the samples oldest first.
func (h *history) values() []float64 {
	out := make([]float64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := range out {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

func (h *history) reset() {
	h.head, h.count = 0, 0
}

// sparkline renders the newest width samples (0..100) right-aligned in a
// field of exactly width runes.
func sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	runes := make([]rune, 0, width)
	for range width - len(values) {
		runes = append(runes, ' ')
	}
	for _, v := range values {
		v = min(max(v, 0), 100)
		runes = append(runes, sparkBlocks[min(int(v/100*8), 7)])
	}
	return string(runes)
}
