package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetricsCollector handles webhook delivery metrics
type WebhookMetricsCollector struct {
	deliveriesTotal  *prometheus.CounterVec
	deliveryDuration prometheus.Histogram
	disabledTotal    prometheus.Counter
}

// NewWebhookMetricsCollector creates a new webhook metrics collector
func NewWebhookMetricsCollector() *WebhookMetricsCollector {
	return &WebhookMetricsCollector{
		deliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhook_deliveries_total",
				Help:      "Total number of webhook delivery attempts by status",
			},
			[]string{"status"},
		),

		deliveryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhook_delivery_duration_seconds",
				Help:      "Webhook delivery duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),

		disabledTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_disabled_total",
				Help:      "Total number of subscriptions auto-disabled after consecutive failures",
			},
		),
	}
}

// Register registers all webhook metrics with the Prometheus registry
func (c *WebhookMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.deliveriesTotal,
		c.deliveryDuration,
		c.disabledTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordWebhookDelivery records a delivery attempt's duration and outcome
func (c *WebhookMetricsCollector) RecordWebhookDelivery(duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.deliveriesTotal.WithLabelValues(status).Inc()
	c.deliveryDuration.Observe(duration)
}

// RecordWebhookDisabled records a subscription auto-disable
func (c *WebhookMetricsCollector) RecordWebhookDisabled() {
	c.disabledTotal.Inc()
}
