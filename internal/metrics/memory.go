package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime.
type MemorySnapshot struct {
	HeapAlloc  uint64 // bytes of live heap objects
	Sys        uint64 // bytes obtained from the OS
	NumGC      uint32
	Goroutines int // includes trial workers still in flight
}

// HeapAllocMiB returns HeapAlloc in mebibytes.
func (s MemorySnapshot) HeapAllocMiB() float64 {
	return float64(s.HeapAlloc) / (1 << 20)
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics. It briefly stops the world.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
