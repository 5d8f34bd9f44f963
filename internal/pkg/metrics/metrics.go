// Package metrics provides Prometheus counters for a loot resolution run.
// A nil *Manager is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

// Fetch outcome label values.
const (
	OutcomeOK             = "ok"
	OutcomeBadStatus      = "bad_status"
	OutcomeTransportError = "transport_error"
)

const defaultNamespace = "lootctl"

// Manager owns the registry and every metric the pipeline records.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	fetchRequests   *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	decodeFailures  prometheus.Counter
	nameResolutions *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fetchRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fetch_requests_total",
		Help:      "Total number of content requests by outcome",
	}, []string{"outcome"})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Histogram of content request latency in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.decodeFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "decode_failures_total",
		Help:      "Total number of description files that failed to decode",
	})

	m.nameResolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "name_resolutions_total",
		Help:      "Total number of resolved display names by reference variant",
	}, []string{"variant"})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of content cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_misses_total",
		Help:      "Total number of content cache misses",
	})
}

// ObserveFetch records one request with its outcome and latency.
func (m *Manager) ObserveFetch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchRequests.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

// DecodeFailure records a description file that could not be decoded.
func (m *Manager) DecodeFailure() {
	if m == nil {
		return
	}
	m.decodeFailures.Inc()
}

// NameResolved records a display name produced for a reference variant.
func (m *Manager) NameResolved(variant string) {
	if m == nil {
		return
	}
	m.nameResolutions.WithLabelValues(variant).Inc()
}

// CacheHit records a body served from the content cache.
func (m *Manager) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a body that had to be fetched.
func (m *Manager) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// Gatherer exposes the underlying registry.
func (m *Manager) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// WriteToTextfile dumps every metric in the text exposition format, the way
// node_exporter's textfile collector expects it.
func (m *Manager) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if path == "" {
		return errors.InvalidArgument("metrics file path is required")
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
