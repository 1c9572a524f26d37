// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "productcat"

// Default histogram buckets for request latency (in seconds)
var defaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics wraps a private registry and the collectors registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups *prometheus.CounterVec
	storeCalls   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the
// default Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "existence_cache_lookups_total",
				Help:      "Existence cache lookups by backend and result (hit, miss, error).",
			},
			[]string{"backend", "result"},
		),

		storeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_calls_total",
				Help:      "Store round trips by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "route"},
		),

		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "HTTP requests currently being served.",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheHit records a cache hit for backend.
func (m *Metrics) CacheHit(backend string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(backend, "hit").Inc()
}

// CacheMiss records a cache miss for backend.
func (m *Metrics) CacheMiss(backend string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(backend, "miss").Inc()
}

// CacheError records a failed cache call for backend.
func (m *Metrics) CacheError(backend string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(backend, "error").Inc()
}

// StoreCall records one store round trip.
func (m *Metrics) StoreCall(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeCalls.WithLabelValues(operation, outcome).Inc()
}

// RequestStarted increments the in-flight gauge. Pair with RequestFinished.
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

// RequestFinished records a completed HTTP request.
func (m *Metrics) RequestFinished(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
