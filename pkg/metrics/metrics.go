package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the gateway's prometheus collectors.
type Metrics struct {
	// registry is the backing registry served by Handler.
	registry *prometheus.Registry
	// requestsTotal counts capability requests by capability and outcome.
	requestsTotal *prometheus.CounterVec
	// requestDuration observes capability latency by capability.
	requestDuration *prometheus.HistogramVec
	// inFlight gauges the number of capability requests currently executing.
	inFlight prometheus.Gauge
}

// New creates and registers the gateway collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Capability requests by capability and outcome.",
		}, []string{"capability", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Capability request latency.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"capability"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_requests_in_flight",
			Help: "Capability requests currently executing.",
		}),
	}
	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the prometheus exposition handler for the gateway registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a capability request as executing.
func (m *Metrics) RequestStarted() {
	m.inFlight.Inc()
}

// RequestFinished records a completed capability request.
func (m *Metrics) RequestFinished(capability, outcome string, duration time.Duration) {
	m.inFlight.Dec()
	m.requestsTotal.WithLabelValues(capability, outcome).Inc()
	m.requestDuration.WithLabelValues(capability).Observe(duration.Seconds())
}
