package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records backend forwarding outcomes. Each Collector owns its
// registry so several can coexist in one process (tests, embedded servers).
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector creates a Collector with Go runtime and process metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rag_gateway_backend_requests_total",
			Help: "Backend forwarding calls by operation, outcome and backend status",
		}, []string{"operation", "outcome", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rag_gateway_backend_latency_seconds",
			Help:    "Backend forwarding call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.latency,
	)
	return c
}

// ObserveForward records one forwarding call.
func (c *Collector) ObserveForward(operation string, success bool, status int, elapsed time.Duration) {
	outcome := "error"
	if success {
		outcome = "success"
	}
	c.requests.With(prometheus.Labels{
		"operation": operation,
		"outcome":   outcome,
		"status":    strconv.Itoa(status),
	}).Inc()
	c.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
