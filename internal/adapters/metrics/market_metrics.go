package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MarketMetricsCollector handles order book and trade metrics
type MarketMetricsCollector struct {
	ordersPlaced   *prometheus.CounterVec
	tradesTotal    *prometheus.CounterVec
	tradeVolume    *prometheus.CounterVec
	lastTradePrice *prometheus.GaugeVec
}

// NewMarketMetricsCollector creates a new market metrics collector
func NewMarketMetricsCollector() *MarketMetricsCollector {
	return &MarketMetricsCollector{
		// Orders entering the book by side and kind
		ordersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_orders_placed_total",
				Help:      "Total number of orders placed by side and kind",
			},
			[]string{"side", "kind"},
		),

		// Executed trades per resource
		tradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_trades_total",
				Help:      "Total number of executed trades by resource",
			},
			[]string{"resource"},
		),

		// Units changing hands per resource
		tradeVolume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_trade_volume_units",
				Help:      "Total units traded by resource",
			},
			[]string{"resource"},
		),

		// Last trade price per market
		lastTradePrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_last_trade_price",
				Help:      "Most recent trade price per zone and resource",
			},
			[]string{"zone", "resource"},
		),
	}
}

// Register registers all market metrics with the Prometheus registry
func (c *MarketMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.ordersPlaced,
		c.tradesTotal,
		c.tradeVolume,
		c.lastTradePrice,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordOrderPlaced records an order placement
func (c *MarketMetricsCollector) RecordOrderPlaced(side string, kind string) {
	c.ordersPlaced.WithLabelValues(side, kind).Inc()
}

// RecordTrade records an executed trade
func (c *MarketMetricsCollector) RecordTrade(resource string, price int64, quantity int) {
	c.tradesTotal.WithLabelValues(resource).Inc()
	c.tradeVolume.WithLabelValues(resource).Add(float64(quantity))
}

// SetLastTradePrice publishes a market's last trade price
func (c *MarketMetricsCollector) SetLastTradePrice(zoneID string, resource string, price float64) {
	c.lastTradePrice.WithLabelValues(zoneID, resource).Set(price)
}
