// Package metrics records solve outcomes as Prometheus metrics and exports
// them in the text exposition format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Recorder holds the solve metrics on a private registry so that several
// recorders (for example in tests) never collide.
type Recorder struct {
	registry   *prometheus.Registry
	solves     *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	active     prometheus.Gauge
}

// NewRecorder creates a Recorder with the solve metrics and the Go runtime
// collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rootcalc_solves_total",
			Help: "Number of completed solves by method and final state.",
		}, []string{"method", "state"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rootcalc_solve_iterations",
			Help:    "Iterations taken per solve.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rootcalc_solve_duration_seconds",
			Help:    "Wall-clock duration of a solve.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"method"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rootcalc_active_solves",
			Help: "Solves currently running.",
		}),
	}
	r.registry.MustRegister(
		r.solves,
		r.iterations,
		r.duration,
		r.active,
		collectors.NewGoCollector(),
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// SolveStarted increments the active solves gauge.
func (r *Recorder) SolveStarted() { r.active.Inc() }

// ObserveSolve records a finished solve and decrements the active gauge.
// state is the driver's final state name, or "canceled" / "error" when the
// solve ended for another reason.
func (r *Recorder) ObserveSolve(method, state string, iterations int, elapsed time.Duration) {
	r.active.Dec()
	r.solves.WithLabelValues(method, state).Inc()
	r.iterations.WithLabelValues(method).Observe(float64(iterations))
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
