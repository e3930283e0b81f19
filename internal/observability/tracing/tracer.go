// Package tracing provides OpenTelemetry tracing integration.
//
// The orchestrator opens a span per quote request and one child span per
// provider attempt, so a trace shows exactly which providers were consulted
// and why the fallback advanced.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the stock-quote-cli application.
var tracer = otel.Tracer("stock-quote-cli")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// StartProviderSpan opens a span for a single provider attempt.
func StartProviderSpan(ctx context.Context, provider, symbol string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "provider.get_quote",
		trace.WithAttributes(
			attribute.String("quote.provider", provider),
			attribute.String("quote.symbol", symbol),
		))
}

// EndSpan finishes a span, recording the error outcome if any.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
