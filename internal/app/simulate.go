package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tulinakaya/galton/internal/cli"
	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/metrics"
	"github.com/tulinakaya/galton/internal/orchestration"
)

// runSimulate runs one simulation from the command line and prints the report.
func (a *Application) runSimulate(ctx context.Context, out io.Writer) int {
	runner := a.runner()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, runner.Width(), out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	params := galton.Params{Trials: a.Config.Trials, Bins: a.Config.Bins, Budget: a.Config.AwaitTime}
	result := orchestration.ExecuteSimulation(ctx, runner, params, progressReporter, progressOut)

	presOpts := orchestration.PresentationOptions{
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		Histogram: a.Config.Histogram,
		Quiet:     a.Config.Quiet,
	}
	exitCode := orchestration.AnalyzeResult(result, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if err := a.exportResult(result, out); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		if exitCode == apperrors.ExitSuccess {
			exitCode = apperrors.ExitErrorGeneric
		}
	}
	return exitCode
}

// exportResult writes the optional YAML result and Prometheus textfile. The
// result file needs a sealed store; the metrics file records every outcome.
func (a *Application) exportResult(result orchestration.SimulationResult, out io.Writer) error {
	var errs []error
	if result.Err == nil {
		if err := cli.SaveResult(out, a.Config.OutputFile, result, a.Config.Details, a.Config.Quiet); err != nil {
			errs = append(errs, fmt.Errorf("saving result: %w", err))
		}
	}
	if a.Config.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.ObserveRun(runOutcome(result), result.Width, result.Duration, result.Snapshot)
		if err := rec.WriteTextfile(a.Config.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

// runOutcome labels a run, counting a sealed but unbalanced store as a
// mismatch.
func runOutcome(result orchestration.SimulationResult) string {
	if result.Err == nil {
		if err := orchestration.CheckConservation(result); err != nil {
			return orchestration.Outcome(err)
		}
	}
	return orchestration.Outcome(result.Err)
}
