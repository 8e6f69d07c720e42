// Package metrics exposes Prometheus instrumentation for the Rosette
// transport. A nil *Collector is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records request, retry, error and pool-size metrics. It is safe
// for concurrent use.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	poolSize        prometheus.Gauge
	breakerState    *prometheus.GaugeVec
}

// NewCollector creates a collector on the default registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector using the supplied registerer.
func NewCollectorWithRegistry(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rosette_requests_total",
				Help: "Total number of HTTP requests sent to the Rosette API",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rosette_request_duration_seconds",
				Help:    "Duration of HTTP requests to the Rosette API in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		retriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rosette_retries_total",
				Help: "Total number of retried attempts",
			},
			[]string{"endpoint", "reason"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rosette_errors_total",
				Help: "Total number of failed calls by error status",
			},
			[]string{"endpoint", "status"},
		),
		poolSize: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "rosette_pool_size",
				Help: "Connection pool size advertised by the server",
			},
		),
		breakerState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rosette_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
}

// RecordRequest records one attempt. statusCode is zero for network failures.
func (c *Collector) RecordRequest(method, endpoint string, statusCode int, d time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// RecordRetry records a retry caused by reason ("status" or "network").
func (c *Collector) RecordRetry(endpoint, reason string) {
	if c == nil {
		return
	}
	c.retriesTotal.WithLabelValues(endpoint, reason).Inc()
}

// RecordError records a call that failed with the given error status.
func (c *Collector) RecordError(endpoint, status string) {
	if c == nil {
		return
	}
	c.errorsTotal.WithLabelValues(endpoint, status).Inc()
}

// SetPoolSize records the current pool size.
func (c *Collector) SetPoolSize(n int) {
	if c == nil {
		return
	}
	c.poolSize.Set(float64(n))
}

// SetBreakerState records the breaker state for name.
func (c *Collector) SetBreakerState(name string, state int) {
	if c == nil {
		return
	}
	c.breakerState.WithLabelValues(name).Set(float64(state))
}
