// Package loadmetrics records pipeline counters on a private Prometheus
// registry and writes them in the node-exporter textfile format.
package loadmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "episodestats"

// Load results.
const (
	ResultSuccess    = "success"
	ResultDataSource = "data_source_error"
	ResultSchema     = "schema_error"
	ResultError      = "error"
)

// Recorder holds the load metrics. A nil Recorder discards observations.
type Recorder struct {
	registry *prometheus.Registry
	loads    *prometheus.CounterVec
	cache    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration prometheus.Histogram
}

// New registers the load metrics on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Pipeline loads by result",
			},
			[]string{"result"},
		),
		cache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Table cache lookups by outcome (hit, miss)",
			},
			[]string{"outcome"},
		),
		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_total",
				Help:      "Source rows by disposition (loaded, dropped, skipped)",
			},
			[]string{"disposition"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Wall time of a full pipeline load",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveLoad counts one load and its duration.
func (r *Recorder) ObserveLoad(result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(result).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveRows adds row dispositions for one load.
func (r *Recorder) ObserveRows(loaded, dropped, skipped int) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues("loaded").Add(float64(loaded))
	r.rows.WithLabelValues("dropped").Add(float64(dropped))
	r.rows.WithLabelValues("skipped").Add(float64(skipped))
}

// CacheHit counts a lookup served from the table cache.
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("hit").Inc()
}

// CacheMiss counts a lookup that rebuilt the table.
func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// Loads returns the load counter for result. A nil Recorder returns an
// unregistered counter that stays at zero.
func (r *Recorder) Loads(result string) prometheus.Counter {
	if r == nil {
		return discarded()
	}
	return r.loads.WithLabelValues(result)
}

// CacheRequests returns the cache counter for outcome ("hit" or "miss").
func (r *Recorder) CacheRequests(outcome string) prometheus.Counter {
	if r == nil {
		return discarded()
	}
	return r.cache.WithLabelValues(outcome)
}

func discarded() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discarded_total",
		Help:      "Observations made against a nil recorder",
	})
}
