package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/galton"
)

// TracerName is the instrumentation scope of the spans started here.
const TracerName = "github.com/tulinakaya/galton/internal/orchestration"

// SpanName is the name of the span covering one run.
const SpanName = "galton.simulate"

// ProgressBufferSize is the capacity of the progress channel. The simulator
// never blocks on it, so a small buffer only smooths rendering.
const ProgressBufferSize = 16

// ExecuteSimulation runs p on runner while progressReporter renders progress
// to out. It returns once both the run and the reporter have finished.
//
// The run is wrapped in a span from the global tracer provider, so it is a
// no-op unless the process installs one.
func ExecuteSimulation(ctx context.Context, runner Runner, p galton.Params, progressReporter ProgressReporter, out io.Writer) SimulationResult {
	ctx, span := otel.Tracer(TracerName).Start(ctx, SpanName, trace.WithAttributes(
		attribute.Int("galton.trials", p.Trials),
		attribute.Int("galton.bins", p.Bins),
		attribute.Int("galton.width", runner.Width()),
		attribute.String("galton.budget", p.Budget.String()),
	))
	defer span.End()

	progressChan := make(chan galton.ProgressUpdate, ProgressBufferSize)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, out)

	start := time.Now()
	store, err := runner.Run(ctx, p, progressChan)
	result := SimulationResult{
		Params:   p,
		Width:    runner.Width(),
		Duration: time.Since(start),
		Err:      err,
	}
	// Run has returned, so nothing sends on the channel any more.
	close(progressChan)
	displayWg.Wait()

	if err == nil {
		snap, snapErr := store.Snapshot()
		if snapErr != nil {
			result.Err = apperrors.SimulationError{Cause: snapErr}
		} else {
			result.Snapshot = snap
			result.Stats = galton.ComputeStats(snap.Bins)
		}
	}

	span.SetAttributes(attribute.String("galton.outcome", Outcome(result.Err)))
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return result
}

// Outcome classifies err for metrics and traces: "success", "timeout",
// "canceled", "mismatch", "invalid" or "error".
func Outcome(err error) string {
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitSuccess:
		return "success"
	case apperrors.ExitErrorTimeout:
		return "timeout"
	case apperrors.ExitErrorCanceled:
		return "canceled"
	case apperrors.ExitErrorMismatch:
		return "mismatch"
	case apperrors.ExitErrorConfig:
		return "invalid"
	default:
		return "error"
	}
}

// CheckConservation returns a ConservationError when the sealed sum differs
// from the requested trial count.
func CheckConservation(result SimulationResult) error {
	if result.Snapshot.Sum != int64(result.Params.Trials) {
		return apperrors.ConservationError{
			Expected: int64(result.Params.Trials),
			Actual:   result.Snapshot.Sum,
		}
	}
	return nil
}

// AnalyzeResult presents result and returns the process exit code.
//
// Failed runs go to errHandler and produce no report. A run whose sum does
// not equal the requested trial count is reported and then fails with
// ExitErrorMismatch.
func AnalyzeResult(result SimulationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	if result.Err != nil {
		return errHandler.HandleError(result.Err, result.Duration, out)
	}
	presenter.PresentResult(result, opts, out)
	if err := CheckConservation(result); err != nil {
		return errHandler.HandleError(err, result.Duration, out)
	}
	return apperrors.ExitSuccess
}
