package galton

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/logging"
)

// OperationName identifies a simulation run in timeout and cancellation errors.
const OperationName = "simulation"

// Params describes one run.
type Params struct {
	// Trials is the number of balls to drop. Must be >= 1.
	Trials int
	// Bins is the number of landing slots. Must be even and >= 2.
	Bins int
	// Budget bounds the wait for all trials to complete.
	Budget time.Duration
}

// Validate checks the invariants Run relies on.
func (p Params) Validate() error {
	if p.Trials < 1 {
		return apperrors.ValidationError{Field: "trials", Message: fmt.Sprintf("must be >= 1, got %d", p.Trials)}
	}
	if p.Bins < 2 || p.Bins%2 != 0 {
		return apperrors.ValidationError{Field: "bins", Message: fmt.Sprintf("must be even and >= 2, got %d", p.Bins)}
	}
	return nil
}

// HardwareContexts returns the number of execution contexts available to the
// process, never less than 1.
func HardwareContexts() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// Simulator runs Galton board trials on a bounded pool of goroutines.
// The zero value is not usable; construct with NewSimulator.
type Simulator struct {
	width            int
	logger           logging.Logger
	newSource        func() rand.Source
	progressInterval time.Duration
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithPoolWidth overrides the pool width. Values below 1 are ignored.
// Production callers keep the hardware default; tests use it to force serial
// execution.
func WithPoolWidth(width int) Option {
	return func(s *Simulator) {
		if width >= 1 {
			s.width = width
		}
	}
}

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSourceFactory replaces the per-trial random source constructor.
func WithSourceFactory(f func() rand.Source) Option {
	return func(s *Simulator) {
		if f != nil {
			s.newSource = f
		}
	}
}

// WithProgressInterval sets how often progress updates are published.
func WithProgressInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.progressInterval = d
		}
	}
}

// NewSimulator creates a Simulator whose pool width is fixed, for its whole
// lifetime, at the hardware context count observed now.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		width:            HardwareContexts(),
		logger:           logging.Nop(),
		newSource:        NewSource,
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Width returns the pool width.
func (s *Simulator) Width() int {
	return s.width
}

// Run drops p.Trials balls into a fresh BinStore of p.Bins counters and waits
// for all of them, bounded by p.Budget.
//
// On success the returned store is sealed and its Sum equals p.Trials. If the
// budget elapses first, Run returns a TimeoutError carrying p.Budget. If ctx
// is canceled while waiting, Run returns a CancellationError. In both failure
// cases no store is returned; trials already running are left to finish in
// the background, but no further trial is dispatched.
//
// progressChan, when non-nil, receives non-blocking ProgressUpdates. Run never
// closes it.
func (s *Simulator) Run(ctx context.Context, p Params, progressChan chan<- ProgressUpdate) (*BinStore, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	store, err := NewBinStore(p.Bins)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("simulation started",
		logging.Int("trials", p.Trials),
		logging.Int("bins", p.Bins),
		logging.Int("width", s.width),
		logging.Duration("budget", p.Budget))
	start := time.Now()

	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()

	var completed atomic.Int64
	done := make(chan struct{})
	store.markFilling()
	go s.dispatch(dispatchCtx, p, store, &completed, done)

	timer := time.NewTimer(p.Budget)
	defer timer.Stop()

	var tick <-chan time.Time
	if progressChan != nil {
		ticker := time.NewTicker(s.progressInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	total := int64(p.Trials)

	for {
		select {
		case <-done:
			return s.complete(ctx, p, store, completed.Load(), start, progressChan)

		case <-tick:
			publish(progressChan, newProgressUpdate(completed.Load(), total))

		case <-timer.C:
			select {
			case <-done:
				return s.complete(ctx, p, store, completed.Load(), start, progressChan)
			default:
			}
			stopDispatch()
			err := apperrors.TimeoutError{Operation: OperationName, Limit: p.Budget}
			s.logger.Error("simulation aborted", err,
				logging.Int64("completed", completed.Load()),
				logging.Int("trials", p.Trials))
			return nil, err

		case <-ctx.Done():
			stopDispatch()
			err := apperrors.CancellationError{Operation: OperationName, Cause: context.Cause(ctx)}
			s.logger.Error("simulation interrupted", err,
				logging.Int64("completed", completed.Load()),
				logging.Int("trials", p.Trials))
			return nil, err
		}
	}
}

// complete seals the store once dispatch has returned. Dispatch also returns
// early when ctx is canceled, so a short count is reported as a cancellation
// rather than sealed.
func (s *Simulator) complete(ctx context.Context, p Params, store *BinStore, completed int64, start time.Time, progressChan chan<- ProgressUpdate) (*BinStore, error) {
	total := int64(p.Trials)
	if completed != total {
		err := apperrors.CancellationError{Operation: OperationName, Cause: context.Cause(ctx)}
		s.logger.Error("simulation interrupted", err,
			logging.Int64("completed", completed),
			logging.Int("trials", p.Trials))
		return nil, err
	}
	store.seal()
	publish(progressChan, newProgressUpdate(total, total))
	s.logger.Info("simulation finished",
		logging.Int("trials", p.Trials),
		logging.Int("bins", p.Bins),
		logging.Int("width", s.width),
		logging.Duration("elapsed", time.Since(start)))
	return store, nil
}

// dispatch submits p.Trials tasks to a pool of s.width goroutines and closes
// done once every submitted task has returned. It stops submitting as soon as
// ctx is canceled.
func (s *Simulator) dispatch(ctx context.Context, p Params, store *BinStore, completed *atomic.Int64, done chan<- struct{}) {
	defer close(done)

	var g errgroup.Group
	g.SetLimit(s.width)
	for i := 0; i < p.Trials; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			store.Increment(Trial(s.newSource(), p.Bins))
			completed.Add(1)
			return nil
		})
	}
	// Tasks cannot fail.
	_ = g.Wait()
}
