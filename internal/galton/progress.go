package galton

import "time"

// ProgressUpdate reports how many trials of a run have completed.
type ProgressUpdate struct {
	// Completed is the number of trials whose increment has landed.
	Completed int64
	// Total is the number of trials requested.
	Total int64
	// Value is Completed/Total in [0, 1].
	Value float64
}

// DefaultProgressInterval is how often a running simulation publishes a
// ProgressUpdate.
const DefaultProgressInterval = 100 * time.Millisecond

func newProgressUpdate(completed, total int64) ProgressUpdate {
	u := ProgressUpdate{Completed: completed, Total: total}
	if total > 0 {
		u.Value = float64(completed) / float64(total)
	}
	return u
}

// publish sends u without blocking; a slow consumer drops intermediate updates.
func publish(ch chan<- ProgressUpdate, u ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	default:
	}
}
