package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetricsCollector handles all inbound HTTP request metrics
type HTTPMetricsCollector struct {
	// Request metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec
}

// NewHTTPMetricsCollector creates a new HTTP metrics collector
func NewHTTPMetricsCollector() *HTTPMetricsCollector {
	return &HTTPMetricsCollector{
		// Total HTTP requests by method, route, and status code
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status_code"},
		),

		// HTTP request duration histogram
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"method", "route"},
		),

		// Requests rejected by the per-IP rate limiter
		httpRateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
	}
}

// Register registers all HTTP metrics with the Prometheus registry
func (c *HTTPMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.httpRateLimited,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordHTTPRequest records an HTTP request completion
func (c *HTTPMetricsCollector) RecordHTTPRequest(
	method string,
	route string,
	statusCode int,
	duration float64,
) {
	statusCodeStr := strconv.Itoa(statusCode)

	// Increment request counter
	c.httpRequestsTotal.WithLabelValues(method, route, statusCodeStr).Inc()

	// Record request duration
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordRateLimited records a request rejected by the rate limiter
func (c *HTTPMetricsCollector) RecordRateLimited(route string) {
	c.httpRateLimited.WithLabelValues(route).Inc()
}
