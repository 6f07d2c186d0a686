package galton

import (
	"errors"
	"sync"
	"testing"

	apperrors "github.com/tulinakaya/galton/internal/errors"
)

func TestNewBinStore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"two bins", 2, false},
		{"ten bins", 10, false},
		{"zero bins", 0, true},
		{"one bin", 1, true},
		{"odd bins", 7, true},
		{"negative", -4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, err := NewBinStore(tt.n)
			if tt.wantErr {
				var validationErr apperrors.ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", store.Len(), tt.n)
			}
			if store.State() != StateEmpty {
				t.Errorf("State() = %s, want empty", store.State())
			}
		})
	}
}

func TestBinStore_Lifecycle(t *testing.T) {
	t.Parallel()
	store, err := NewBinStore(4)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Snapshot(); !errors.Is(err, apperrors.ErrNotSealed) {
		t.Errorf("Snapshot on empty store: got %v, want ErrNotSealed", err)
	}

	store.markFilling()
	if store.State() != StateFilling {
		t.Fatalf("State() = %s, want filling", store.State())
	}
	store.Increment(0)
	store.Increment(3)
	store.Increment(3)

	if _, err := store.Snapshot(); !errors.Is(err, apperrors.ErrNotSealed) {
		t.Errorf("Snapshot while filling: got %v, want ErrNotSealed", err)
	}

	store.seal()
	store.markFilling()
	if store.State() != StateSealed {
		t.Fatalf("a sealed store must not go back to filling, got %s", store.State())
	}

	snap, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := []Bin{{0, 1}, {1, 0}, {2, 0}, {3, 2}}
	for i, b := range snap.Bins {
		if b != want[i] {
			t.Errorf("bin %d = %+v, want %+v", i, b, want[i])
		}
	}
	if snap.Sum != 3 || store.Sum() != 3 {
		t.Errorf("sum = %d / %d, want 3", snap.Sum, store.Sum())
	}
	if counts := store.Counts(); len(counts) != 4 || counts[3] != 2 {
		t.Errorf("Counts() = %v", counts)
	}
}

func TestBinStore_ReadBeforeSealPanics(t *testing.T) {
	t.Parallel()
	reads := map[string]func(*BinStore){
		"Bins":   func(b *BinStore) { b.Bins() },
		"Sum":    func(b *BinStore) { b.Sum() },
		"Counts": func(b *BinStore) { b.Counts() },
	}
	for name, read := range reads {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store, _ := NewBinStore(2)
			store.markFilling()
			defer func() {
				if recover() == nil {
					t.Errorf("%s on a filling store should panic", name)
				}
			}()
			read(store)
		})
	}
}

func TestBinStore_IncrementAfterSealPanics(t *testing.T) {
	t.Parallel()
	store, _ := NewBinStore(2)
	store.seal()
	defer func() {
		if recover() == nil {
			t.Error("Increment on a sealed store should panic")
		}
	}()
	store.Increment(0)
}

// TestBinStore_ConcurrentIncrements verifies that no increment is lost when
// 1000 goroutines hammer the same few counters, repeated to increase
// confidence.
func TestBinStore_ConcurrentIncrements(t *testing.T) {
	t.Parallel()
	const (
		numGoroutines = 1000
		perGoroutine  = 100
		numBins       = 4
	)
	for round := 0; round < 10; round++ {
		store, _ := NewBinStore(numBins)
		store.markFilling()

		var wg sync.WaitGroup
		barrier := make(chan struct{})
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				defer wg.Done()
				<-barrier
				for j := 0; j < perGoroutine; j++ {
					store.Increment((id + j) % numBins)
				}
			}(i)
		}
		close(barrier)
		wg.Wait()
		store.seal()

		if got, want := store.Sum(), int64(numGoroutines*perGoroutine); got != want {
			t.Fatalf("round %d: sum = %d, want %d", round, got, want)
		}
		for _, b := range store.Bins() {
			if b.Count != numGoroutines*perGoroutine/numBins {
				t.Errorf("round %d: bin %d = %d, want %d", round, b.Index, b.Count, numGoroutines*perGoroutine/numBins)
			}
		}
	}
}

// TestBinStore_CountersAreMonotonic samples the raw counters while writers
// are running and checks that no sample ever goes backwards.
func TestBinStore_CountersAreMonotonic(t *testing.T) {
	t.Parallel()
	store, _ := NewBinStore(2)
	store.markFilling()

	stop := make(chan struct{})
	var writers sync.WaitGroup
	for w := 0; w < 8; w++ {
		writers.Add(1)
		go func(w int) {
			defer writers.Done()
			for i := 0; i < 5000; i++ {
				store.Increment((w + i) % 2)
			}
		}(w)
	}

	violations := make(chan string, 1)
	var sampler sync.WaitGroup
	sampler.Add(1)
	go func() {
		defer sampler.Done()
		last := make([]int64, store.Len())
		for {
			select {
			case <-stop:
				return
			default:
			}
			for i := range last {
				v := store.counters[i].Load()
				if v < last[i] || v < 0 {
					select {
					case violations <- "counter went backwards":
					default:
					}
				}
				last[i] = v
			}
		}
	}()

	writers.Wait()
	close(stop)
	sampler.Wait()

	select {
	case v := <-violations:
		t.Fatal(v)
	default:
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	for s, want := range map[State]string{
		StateEmpty:   "empty",
		StateFilling: "filling",
		StateSealed:  "sealed",
		State(9):     "state(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", uint32(s), got, want)
		}
	}
}
