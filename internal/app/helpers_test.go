package app

import (
	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/orchestration"
)

// orchestrationResult builds a sealed-looking result whose bins sum to sum.
func orchestrationResult(trials int, sum int64) orchestration.SimulationResult {
	return orchestration.SimulationResult{
		Params:   galton.Params{Trials: trials, Bins: 2},
		Snapshot: galton.Snapshot{Bins: []galton.Bin{{Index: 0, Count: sum}, {Index: 1, Count: 0}}, Sum: sum},
	}
}
