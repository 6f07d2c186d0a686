//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/tulinakaya/galton/internal/format"
	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/orchestration"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
	// HistogramWidth is the length of the longest histogram bar.
	HistogramWidth = 50
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner lock because the animation goroutine reads
// the suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress renders a spinner followed by a progress bar, a trial
// counter and an ETA until progressChan is closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan galton.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	tracker := orchestration.NewProgressTracker()
	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(progressSuffix(tracker.Current()))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				return
			}
			s.UpdateSuffix(progressSuffix(tracker.Update(u)))
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(tracker.Current()))
		}
	}
}

func progressSuffix(p orchestration.TrackedProgress) string {
	return fmt.Sprintf(" %s %s/%s trials",
		format.FormatProgressBarWithETA(p.Value, p.ETA, ProgressBarWidth),
		format.FormatCount(p.Completed), format.FormatCount(p.Total))
}
