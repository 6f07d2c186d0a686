package galton

import (
	"fmt"
	"sync/atomic"

	apperrors "github.com/tulinakaya/galton/internal/errors"
)

// State is the lifecycle phase of a BinStore.
type State uint32

const (
	// StateEmpty means no trial has been dispatched yet.
	StateEmpty State = iota
	// StateFilling means trials are running and incrementing counters.
	StateFilling
	// StateSealed means every increment is complete and the store is read-only.
	StateSealed
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateSealed:
		return "sealed"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// Bin is one (index, count) pair of a sealed store.
type Bin struct {
	Index int   `yaml:"index"`
	Count int64 `yaml:"count"`
}

// Snapshot is the complete content of a sealed store.
type Snapshot struct {
	Bins []Bin `yaml:"bins"`
	Sum  int64 `yaml:"sum"`
}

// BinStore is a fixed-size array of counters that supports lock-free
// concurrent increments while filling and plain reads once sealed.
type BinStore struct {
	counters []atomic.Int64
	state    atomic.Uint32
}

// NewBinStore allocates a store of n zeroed counters. n must be even and at
// least 2.
func NewBinStore(n int) (*BinStore, error) {
	if n < 2 || n%2 != 0 {
		return nil, apperrors.ValidationError{Field: "bins", Message: fmt.Sprintf("must be even and >= 2, got %d", n)}
	}
	return &BinStore{counters: make([]atomic.Int64, n)}, nil
}

// Len returns the number of bins.
func (b *BinStore) Len() int {
	return len(b.counters)
}

// State returns the current lifecycle phase.
func (b *BinStore) State() State {
	return State(b.state.Load())
}

// Increment atomically adds one to the counter at index. It is safe for any
// number of concurrent callers. Incrementing a sealed store panics.
func (b *BinStore) Increment(index int) {
	if b.State() == StateSealed {
		panic("galton: increment on sealed bin store")
	}
	b.counters[index].Add(1)
}

// markFilling moves the store from Empty to Filling.
func (b *BinStore) markFilling() {
	b.state.CompareAndSwap(uint32(StateEmpty), uint32(StateFilling))
}

// seal moves the store to Sealed. Callers must have observed the completion
// of every increment first.
func (b *BinStore) seal() {
	b.state.Store(uint32(StateSealed))
}

// Bins returns the ordered (index, count) pairs. It panics if the store is
// not sealed; use Snapshot for a checked read.
func (b *BinStore) Bins() []Bin {
	b.mustBeSealed()
	bins := make([]Bin, len(b.counters))
	for i := range b.counters {
		bins[i] = Bin{Index: i, Count: b.counters[i].Load()}
	}
	return bins
}

// Counts returns the counter values in index order. It panics if the store
// is not sealed.
func (b *BinStore) Counts() []int64 {
	b.mustBeSealed()
	counts := make([]int64, len(b.counters))
	for i := range b.counters {
		counts[i] = b.counters[i].Load()
	}
	return counts
}

// Sum returns the total of all counters. It panics if the store is not
// sealed.
func (b *BinStore) Sum() int64 {
	b.mustBeSealed()
	var sum int64
	for i := range b.counters {
		sum += b.counters[i].Load()
	}
	return sum
}

// Snapshot returns the bins and their sum, or ErrNotSealed while the store
// is still empty or filling.
func (b *BinStore) Snapshot() (Snapshot, error) {
	if b.State() != StateSealed {
		return Snapshot{}, apperrors.ErrNotSealed
	}
	bins := b.Bins()
	var sum int64
	for _, bin := range bins {
		sum += bin.Count
	}
	return Snapshot{Bins: bins, Sum: sum}, nil
}

func (b *BinStore) mustBeSealed() {
	if s := b.State(); s != StateSealed {
		panic(fmt.Sprintf("galton: bin store read while %s", s))
	}
}
