package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ActionMetricsCollector handles all action/query execution metrics
type ActionMetricsCollector struct {
	// Action execution metrics
	actionDuration *prometheus.HistogramVec
	actionsTotal   *prometheus.CounterVec
}

// NewActionMetricsCollector creates a new action metrics collector
func NewActionMetricsCollector() *ActionMetricsCollector {
	return &ActionMetricsCollector{
		// Action execution duration histogram
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "action_duration_seconds",
				Help:      "Action execution duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
			},
			[]string{"action", "status"},
		),

		// Action execution counter
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Total number of actions executed by type and status",
			},
			[]string{"action", "status"},
		),
	}
}

// Register registers all action metrics with the Prometheus registry
func (c *ActionMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.actionDuration,
		c.actionsTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordActionExecution records action execution metrics
func (c *ActionMetricsCollector) RecordActionExecution(
	actionName string,
	duration float64,
	success bool,
) {
	status := "success"
	if !success {
		status = "error"
	}

	// Record duration
	c.actionDuration.WithLabelValues(actionName, status).Observe(duration)

	// Increment counter
	c.actionsTotal.WithLabelValues(actionName, status).Inc()
}
