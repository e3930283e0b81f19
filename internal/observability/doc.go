// Package observability provides observability infrastructure for the
// quote tooling: structured logging, Prometheus metrics, and OpenTelemetry
// tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing integration
//
// Example usage:
//
//	import (
//	    "github.com/m44rten1/stock-quote-cli/internal/observability/logging"
//	    "github.com/m44rten1/stock-quote-cli/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordProviderRequest("alphavantage", "success")
//	}
package observability
