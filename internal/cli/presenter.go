package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/format"
	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/orchestration"
	"github.com/tulinakaya/galton/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan galton.ProgressUpdate, out io.Writer) {
	DisplayProgress(wg, progressChan, out)
}

// CLIResultPresenter renders results and errors for the terminal.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentResult prints the bin lines and, unless quiet, the summary,
// optional statistics and histogram.
func (CLIResultPresenter) PresentResult(result orchestration.SimulationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayBins(out, result.Snapshot.Bins)
	if opts.Quiet {
		return
	}
	DisplaySummary(out, result.Params.Trials, result.Snapshot.Sum)
	if opts.Details {
		DisplayDetails(out, result)
	}
	if opts.Histogram {
		DisplayHistogram(out, result.Snapshot.Bins, HistogramWidth)
	}
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleSimulationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider exposes the active theme to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// FormatBinLine formats one bin as "index<TAB>count".
func FormatBinLine(b galton.Bin) string {
	return fmt.Sprintf("%d\t%d", b.Index, b.Count)
}

// DisplayBins writes one "index<TAB>count" line per bin, in index order.
// The lines are never colored so they can be piped.
func DisplayBins(out io.Writer, bins []galton.Bin) {
	for _, b := range bins {
		fmt.Fprintln(out, FormatBinLine(b))
	}
}

// DisplaySummary prints the requested trial count, the sum of the bins and
// whether they agree.
func DisplaySummary(out io.Writer, trials int, sum int64) {
	fmt.Fprintf(out, "Number of requested trials: %d\n", trials)
	fmt.Fprintf(out, "Sum of bin values: %d\n", sum)
	if sum == int64(trials) {
		fmt.Fprintf(out, "%sNice work! Both of them are equal%s\n", ui.ColorGreen(), ui.ColorReset())
	}
}

// DisplayDetails prints run facts and how the distribution compares with
// the binomial law.
func DisplayDetails(out io.Writer, result orchestration.SimulationResult) {
	st := result.Stats
	fmt.Fprintf(out, "\n%s--- Distribution details ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Run time:        %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(result.Duration), ui.ColorReset())
	fmt.Fprintf(out, "Pool width:      %s%d%s workers\n", ui.ColorCyan(), result.Width, ui.ColorReset())
	fmt.Fprintf(out, "Mean index:      %s%.4f%s (expected %.4f)\n", ui.ColorMagenta(), st.Mean, ui.ColorReset(), st.ExpectedMean)
	fmt.Fprintf(out, "Std deviation:   %s%.4f%s (expected %.4f)\n", ui.ColorMagenta(), st.StdDev, ui.ColorReset(), st.ExpectedStdDev)
	fmt.Fprintf(out, "Fullest bin:     %s%d%s\n", ui.ColorBlue(), st.Peak, ui.ColorReset())
	fmt.Fprintf(out, "Chi-square:      %.3f with %d degrees of freedom\n", st.ChiSquare, len(result.Snapshot.Bins)-1)
}

// DisplayHistogram draws one horizontal bar per bin, scaled so the fullest
// bin spans width characters.
func DisplayHistogram(out io.Writer, bins []galton.Bin, width int) {
	var peak int64
	for _, b := range bins {
		peak = max(peak, b.Count)
	}
	labelWidth := len(fmt.Sprint(len(bins) - 1))
	fmt.Fprintf(out, "\n%s--- Histogram ---%s\n", ui.ColorBold(), ui.ColorReset())
	for _, b := range bins {
		n := 0
		if peak > 0 {
			n = int(b.Count * int64(width) / peak)
		}
		if n == 0 && b.Count > 0 {
			n = 1
		}
		fmt.Fprintf(out, "%*d %s%s%s %s\n", labelWidth, b.Index,
			ui.ColorBlue(), strings.Repeat("█", n), ui.ColorReset(), format.FormatCount(b.Count))
	}
}
