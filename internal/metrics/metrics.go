// Package metrics exposes Prometheus instrumentation for availability resolution.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freeslots"

// Resolution modes.
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

// Metrics holds the collectors used by the resolver. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	resolutions     *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	resolvedSlots   prometheus.Histogram
}

// New registers the resolver collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Group availability resolutions by mode and outcome.",
		}, []string{"mode", "outcome"}),
		resolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time spent resolving one group, including storage fetches.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"mode"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_cache_lookups_total",
			Help:      "Memoized resolution lookups by result.",
		}, []string{"result"}),
		resolvedSlots: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolved_slots",
			Help:      "Number of common slots produced per successful group resolution.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveResolve records one group resolution.
func (m *Metrics) ObserveResolve(mode, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(mode, outcome).Inc()
	m.resolveDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveSlots records how many slots a successful resolution produced.
func (m *Metrics) ObserveSlots(n int) {
	if m == nil {
		return
	}
	m.resolvedSlots.Observe(float64(n))
}

// CacheHit records a memoized resolution lookup.
func (m *Metrics) CacheHit(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}
