package sysmon

import (
	"context"
	"testing"
	"time"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	for i, p := range s.PerCPU {
		if p < 0 || p > 100 {
			t.Errorf("PerCPU[%d] out of range: %f", i, p)
		}
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	if s := Sample(); s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestLogicalCores(t *testing.T) {
	if n := LogicalCores(context.Background()); n < 0 {
		t.Errorf("LogicalCores() = %d, want >= 0", n)
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := Watch(ctx, 10*time.Millisecond)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no sample received")
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Watch did not close its channel after cancel")
		}
	}
}

func TestClampPercent(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0: 0, 42.5: 42.5, 100: 100, 140: 100} {
		if got := clampPercent(in); got != want {
			t.Errorf("clampPercent(%v) = %v, want %v", in, got, want)
		}
	}
}
