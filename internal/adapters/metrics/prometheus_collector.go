package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "burnrate"
	// Subsystem for server metrics
	subsystem = "server"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalTickCollector is the singleton tick metrics collector
	// Set by SetGlobalTickCollector() when metrics are enabled
	globalTickCollector TickMetricsRecorder

	// globalWorldCollector is the singleton world metrics collector
	// Set by SetGlobalWorldCollector() when metrics are enabled
	globalWorldCollector WorldMetricsRecorder

	// globalMarketCollector is the singleton market metrics collector
	// Set by SetGlobalMarketCollector() when metrics are enabled
	globalMarketCollector MarketMetricsRecorder

	// globalWebhookCollector is the singleton webhook metrics collector
	// Set by SetGlobalWebhookCollector() when metrics are enabled
	globalWebhookCollector WebhookMetricsRecorder
)

// TickMetricsRecorder defines the interface for recording tick engine metrics
// This interface is used by application code to record metrics
type TickMetricsRecorder interface {
	RecordTickExecution(duration float64, success bool)
	RecordTickStage(stage string, duration float64)
	SetCurrentTick(tick float64)
}

// WorldMetricsRecorder defines the interface for recording world state metrics
type WorldMetricsRecorder interface {
	SetZonesOwned(factionTag string, count float64)
	RecordZoneCollapse(kind string)
	RecordShipmentArrived()
	RecordShipmentIntercepted()
}

// MarketMetricsRecorder defines the interface for recording market metrics
type MarketMetricsRecorder interface {
	RecordOrderPlaced(side string, kind string)
	RecordTrade(resource string, price int64, quantity int)
	SetLastTradePrice(zoneID string, resource string, price float64)
}

// WebhookMetricsRecorder defines the interface for recording webhook delivery metrics
type WebhookMetricsRecorder interface {
	RecordWebhookDelivery(duration float64, success bool)
	RecordWebhookDisabled()
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalTickCollector sets the global tick metrics collector
// This should be called after the collector is created and registered
func SetGlobalTickCollector(collector TickMetricsRecorder) {
	globalTickCollector = collector
}

// RecordTickExecution records a tick attempt's duration and outcome globally
func RecordTickExecution(duration float64, success bool) {
	if globalTickCollector != nil {
		globalTickCollector.RecordTickExecution(duration, success)
	}
}

// RecordTickStage records one pipeline stage's duration globally
func RecordTickStage(stage string, duration float64) {
	if globalTickCollector != nil {
		globalTickCollector.RecordTickStage(stage, duration)
	}
}

// SetCurrentTick publishes the committed world tick globally
func SetCurrentTick(tick float64) {
	if globalTickCollector != nil {
		globalTickCollector.SetCurrentTick(tick)
	}
}

// SetGlobalWorldCollector sets the global world metrics collector
func SetGlobalWorldCollector(collector WorldMetricsRecorder) {
	globalWorldCollector = collector
}

// SetZonesOwned publishes a faction's owned-zone count globally
func SetZonesOwned(factionTag string, count float64) {
	if globalWorldCollector != nil {
		globalWorldCollector.SetZonesOwned(factionTag, count)
	}
}

// RecordZoneCollapse records a supply-starvation collapse globally
func RecordZoneCollapse(kind string) {
	if globalWorldCollector != nil {
		globalWorldCollector.RecordZoneCollapse(kind)
	}
}

// RecordShipmentArrived records a completed shipment globally
func RecordShipmentArrived() {
	if globalWorldCollector != nil {
		globalWorldCollector.RecordShipmentArrived()
	}
}

// RecordShipmentIntercepted records a lost shipment globally
func RecordShipmentIntercepted() {
	if globalWorldCollector != nil {
		globalWorldCollector.RecordShipmentIntercepted()
	}
}

// SetGlobalMarketCollector sets the global market metrics collector
func SetGlobalMarketCollector(collector MarketMetricsRecorder) {
	globalMarketCollector = collector
}

// RecordOrderPlaced records an order placement globally
func RecordOrderPlaced(side string, kind string) {
	if globalMarketCollector != nil {
		globalMarketCollector.RecordOrderPlaced(side, kind)
	}
}

// RecordTrade records an executed trade globally
func RecordTrade(resource string, price int64, quantity int) {
	if globalMarketCollector != nil {
		globalMarketCollector.RecordTrade(resource, price, quantity)
	}
}

// SetLastTradePrice publishes a market's last trade price globally
func SetLastTradePrice(zoneID string, resource string, price float64) {
	if globalMarketCollector != nil {
		globalMarketCollector.SetLastTradePrice(zoneID, resource, price)
	}
}

// SetGlobalWebhookCollector sets the global webhook metrics collector
func SetGlobalWebhookCollector(collector WebhookMetricsRecorder) {
	globalWebhookCollector = collector
}

// RecordWebhookDelivery records a webhook delivery attempt globally
func RecordWebhookDelivery(duration float64, success bool) {
	if globalWebhookCollector != nil {
		globalWebhookCollector.RecordWebhookDelivery(duration, success)
	}
}

// RecordWebhookDisabled records a subscription auto-disable globally
func RecordWebhookDisabled() {
	if globalWebhookCollector != nil {
		globalWebhookCollector.RecordWebhookDisabled()
	}
}
