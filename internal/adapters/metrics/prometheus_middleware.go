package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"burnrate/internal/application/mediator"
)

// PrometheusMiddleware creates a middleware that records action execution metrics
//
// This middleware wraps all action/query execution and records:
// - Execution duration (histogram)
// - Success/failure counts (counter)
//
// Action names are extracted via reflection and simplified to remove package prefixes.
// For example: "*shipping.LaunchShipment" becomes "LaunchShipment"
func PrometheusMiddleware(collector *ActionMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		// Extract action name via reflection
		actionName := extractActionName(request)

		// Start timer
		start := time.Now()

		// Execute action/query
		response, err := next(ctx, request)

		// Record metrics
		duration := time.Since(start).Seconds()
		success := err == nil
		collector.RecordActionExecution(actionName, duration, success)

		return response, err
	}
}

// extractActionName extracts a clean action name from the request using reflection
// Examples:
//   - "*shipping.LaunchShipment" → "LaunchShipment"
//   - "*market.PlaceOrder" → "PlaceOrder"
//   - "*worldq.GetZone" → "GetZone"
func extractActionName(request mediator.Request) string {
	if request == nil {
		return "UnknownAction"
	}

	// Get the type via reflection
	requestType := reflect.TypeOf(request)

	// Get the full type name (e.g., "*shipping.LaunchShipment")
	fullName := requestType.String()

	// Remove pointer prefix if present
	fullName = strings.TrimPrefix(fullName, "*")

	// Split by '.' to separate package from type name
	parts := strings.Split(fullName, ".")

	// Return the last part (the actual action/query name)
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}

	return fullName
}
