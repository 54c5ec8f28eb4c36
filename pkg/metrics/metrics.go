// Package metrics exposes Prometheus collectors for ledger and lifecycle
// operations and the HTTP surface in front of them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freelance_ledger"

// Metrics owns a registry and the collectors registered on it. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations         *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	contention         *prometheus.CounterVec
	auditDiscrepancies prometheus.Gauge
	httpInFlight       prometheus.Gauge
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates a Metrics with its own registry, including the Go and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "operations",
				Name:      "total",
				Help:      "Ledger and lifecycle operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "operations",
				Name:      "duration_seconds",
				Help:      "Duration of ledger and lifecycle operations.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"operation"},
		),
		contention: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "operations",
				Name:      "contention_total",
				Help:      "Operations that gave up waiting for their update scope.",
			},
			[]string{"operation"},
		),
		auditDiscrepancies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "discrepancies",
				Help:      "Accounts whose balance differed from their ledger in the last audit.",
			},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
	}
	m.registry.MustRegister(
		m.operations,
		m.operationDuration,
		m.contention,
		m.auditDiscrepancies,
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// ObserveOperation records the outcome of op, labelled with the error kind.
func (m *Metrics) ObserveOperation(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	kind := apperr.Kind(err)
	m.operations.WithLabelValues(op, kind).Inc()
	m.operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if kind == apperr.KindContention {
		m.contention.WithLabelValues(op).Inc()
	}
}

// SetAuditDiscrepancies publishes the result of the last ledger audit.
func (m *Metrics) SetAuditDiscrepancies(n int) {
	if m == nil {
		return
	}
	m.auditDiscrepancies.Set(float64(n))
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latencies, labelled by the
// chi route pattern so path parameters do not explode cardinality.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
