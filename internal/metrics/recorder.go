package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tulinakaya/galton/internal/galton"
)

// Namespace prefixes every metric name.
const Namespace = "galton"

// Recorder holds the collectors of one process.
type Recorder struct {
	registry *prometheus.Registry
	memory   *MemoryCollector

	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	trials   prometheus.Counter
	bins     *prometheus.GaugeVec
	width    prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		memory:   NewMemoryCollector(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Simulation runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a simulation run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		trials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "trials_total",
			Help:      "Trials counted into sealed bin stores.",
		}),
		bins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "bin_count",
			Help:      "Count of the last sealed run, per bin.",
		}, []string{"bin"}),
		width: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pool_width",
			Help:      "Number of concurrent trial workers.",
		}),
	}
	heap := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "heap_alloc_bytes",
		Help:      "Heap bytes in use when metrics were gathered.",
	}, func() float64 {
		return float64(r.memory.Snapshot().HeapAlloc)
	})

	r.registry.MustRegister(r.runs, r.duration, r.trials, r.bins, r.width, heap)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records one run. snap is only read when outcome is "success".
func (r *Recorder) ObserveRun(outcome string, width int, d time.Duration, snap galton.Snapshot) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
	r.width.Set(float64(width))
	if outcome != "success" {
		return
	}
	r.trials.Add(float64(snap.Sum))
	r.bins.Reset()
	for _, b := range snap.Bins {
		r.bins.WithLabelValues(strconv.Itoa(b.Index)).Set(float64(b.Count))
	}
}

// WriteTextfile writes every registered metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
