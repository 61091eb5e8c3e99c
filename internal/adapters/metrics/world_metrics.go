package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WorldMetricsCollector handles world state metrics: zone ownership,
// collapses, and shipment outcomes
type WorldMetricsCollector struct {
	zonesOwned           *prometheus.GaugeVec
	zoneCollapses        *prometheus.CounterVec
	shipmentsArrived     prometheus.Counter
	shipmentsIntercepted prometheus.Counter
}

// NewWorldMetricsCollector creates a new world metrics collector
func NewWorldMetricsCollector() *WorldMetricsCollector {
	return &WorldMetricsCollector{
		// Zones owned per faction, refreshed every tick by the income stage
		zonesOwned: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "zones_owned",
				Help:      "Number of zones currently owned by each faction",
			},
			[]string{"faction"},
		),

		// Supply-starvation collapses by zone kind
		zoneCollapses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "zone_collapses_total",
				Help:      "Total number of zone collapses by zone kind",
			},
			[]string{"kind"},
		),

		shipmentsArrived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shipments_arrived_total",
				Help:      "Total number of shipments delivered to their destination",
			},
		),

		shipmentsIntercepted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shipments_intercepted_total",
				Help:      "Total number of shipments lost to interception",
			},
		),
	}
}

// Register registers all world metrics with the Prometheus registry
func (c *WorldMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.zonesOwned,
		c.zoneCollapses,
		c.shipmentsArrived,
		c.shipmentsIntercepted,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// SetZonesOwned publishes a faction's owned-zone count
func (c *WorldMetricsCollector) SetZonesOwned(factionTag string, count float64) {
	c.zonesOwned.WithLabelValues(factionTag).Set(count)
}

// RecordZoneCollapse records a supply-starvation collapse
func (c *WorldMetricsCollector) RecordZoneCollapse(kind string) {
	c.zoneCollapses.WithLabelValues(kind).Inc()
}

// RecordShipmentArrived records a completed shipment
func (c *WorldMetricsCollector) RecordShipmentArrived() {
	c.shipmentsArrived.Inc()
}

// RecordShipmentIntercepted records a lost shipment
func (c *WorldMetricsCollector) RecordShipmentIntercepted() {
	c.shipmentsIntercepted.Inc()
}
