package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TickMetricsCollector handles all tick engine metrics
type TickMetricsCollector struct {
	// Tick execution metrics
	tickDuration  *prometheus.HistogramVec
	ticksTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	currentTick   prometheus.Gauge
}

// NewTickMetricsCollector creates a new tick metrics collector
func NewTickMetricsCollector() *TickMetricsCollector {
	return &TickMetricsCollector{
		// Full tick duration histogram
		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Tick execution duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"status"},
		),

		// Tick attempt counter
		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of tick attempts by status",
			},
			[]string{"status"},
		),

		// Per-stage duration histogram
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_stage_duration_seconds",
				Help:      "Pipeline stage duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"stage"},
		),

		// Committed world tick gauge
		currentTick: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "current_tick",
				Help:      "Last committed world tick",
			},
		),
	}
}

// Register registers all tick metrics with the Prometheus registry
func (c *TickMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.tickDuration,
		c.ticksTotal,
		c.stageDuration,
		c.currentTick,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordTickExecution records a tick attempt's duration and outcome
func (c *TickMetricsCollector) RecordTickExecution(duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.tickDuration.WithLabelValues(status).Observe(duration)
	c.ticksTotal.WithLabelValues(status).Inc()
}

// RecordTickStage records one pipeline stage's duration
func (c *TickMetricsCollector) RecordTickStage(stage string, duration float64) {
	c.stageDuration.WithLabelValues(stage).Observe(duration)
}

// SetCurrentTick publishes the committed world tick
func (c *TickMetricsCollector) SetCurrentTick(tick float64) {
	c.currentTick.Set(tick)
}
