// Package metrics provides the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nightout"

// Metrics groups the application collectors. All methods are safe on a nil receiver so
// services can be built without metrics in tests.
type Metrics struct {
	registry *prometheus.Registry

	invitesTotal        *prometheus.CounterVec
	inviteBatches       *prometheus.CounterVec
	cancellationsTotal  *prometheus.CounterVec
	optimizerCalls      *prometheus.CounterVec
	optimizerLatency    prometheus.Histogram
	catalogSearches     *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, together with the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		invitesTotal: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invites",
			Name:      "emails_total",
			Help:      "Invite emails by result (sent, failed, duplicate, already_invited).",
		}, []string{"result"}),
		inviteBatches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invites",
			Name:      "batches_total",
			Help:      "Invite batches by outcome.",
		}, []string{"outcome"}),
		cancellationsTotal: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "cancellation_notices_total",
			Help:      "Cancellation notices by result (sent, failed).",
		}, []string{"result"}),
		optimizerCalls: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "optimizer_calls_total",
			Help:      "Route optimizer calls by result (optimized, fallback, error, stale).",
		}, []string{"result"}),
		optimizerLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "optimizer_duration_seconds",
			Help:      "Route optimizer call latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		catalogSearches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "venues",
			Name:      "searches_total",
			Help:      "Venue catalog searches by result (ok, error).",
		}, []string{"result"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// InviteEmails adds n to the invite counter for result.
func (m *Metrics) InviteEmails(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.invitesTotal.WithLabelValues(result).Add(float64(n))
}

// InviteBatch counts one finished invite batch.
func (m *Metrics) InviteBatch(outcome string) {
	if m == nil {
		return
	}
	m.inviteBatches.WithLabelValues(outcome).Inc()
}

// CancellationNotices adds n to the cancellation counter for result.
func (m *Metrics) CancellationNotices(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cancellationsTotal.WithLabelValues(result).Add(float64(n))
}

// OptimizerCall records one optimizer round-trip.
func (m *Metrics) OptimizerCall(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.optimizerCalls.WithLabelValues(result).Inc()
	m.optimizerLatency.Observe(took.Seconds())
}

// CatalogSearch counts one venue search.
func (m *Metrics) CatalogSearch(result string) {
	if m == nil {
		return
	}
	m.catalogSearches.WithLabelValues(result).Inc()
}

// HTTPRequest records a served request. route is the mux pattern, not the raw path.
func (m *Metrics) HTTPRequest(method, route, code string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
