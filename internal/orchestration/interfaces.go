package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/tulinakaya/galton/internal/galton"
)

// SimulationResult is the outcome of one run. It is the shared type between
// orchestration and presentation.
type SimulationResult struct {
	// Params are the requested trials, bins and budget.
	Params galton.Params
	// Snapshot holds the sealed bins. It is empty when Err is set.
	Snapshot galton.Snapshot
	// Stats summarises Snapshot. It is zero when Err is set.
	Stats galton.Stats
	// Width is the pool width the run used.
	Width int
	// Duration is the wall time of the run.
	Duration time.Duration
	// Err is the timeout, cancellation or validation error, if any.
	Err error
}

// PresentationOptions configures how a result is rendered.
type PresentationOptions struct {
	Verbose   bool
	Details   bool
	Histogram bool
	Quiet     bool
}

// Runner executes a simulation. *galton.Simulator implements it.
type Runner interface {
	Run(ctx context.Context, p galton.Params, progressChan chan<- galton.ProgressUpdate) (*galton.BinStore, error)
	Width() int
}

// ProgressReporter displays run progress.
//
// DisplayProgress is called in its own goroutine, must consume progressChan
// until it is closed, and calls wg.Done before returning.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan galton.ProgressUpdate, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan galton.ProgressUpdate, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan galton.ProgressUpdate, out io.Writer) {
	f(wg, progressChan, out)
}

// NullProgressReporter drains the progress channel without output.
// It is used in quiet mode.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan galton.ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders a successful, conserved result.
type ResultPresenter interface {
	PresentResult(result SimulationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler prints a failed result and returns its exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
