package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("formulagen")

// Span names.
const (
	SpanParse      = "formulagen.parse"
	SpanSubstitute = "formulagen.substitute"
)

// SpanManager opens and closes the spans around parse and substitute.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartParseSpan starts a span for a template scan.
	StartParseSpan(ctx context.Context, formulaID string) (context.Context, trace.Span)

	// StartSubstituteSpan starts a span for a substitution.
	StartSubstituteSpan(ctx context.Context, formulaID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the span in ctx.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// AttributedError is an error that describes itself as span attributes,
// such as a kind and a template offset. EndSpanWithError sets them on the
// span and on the recorded exception event.
type AttributedError interface {
	error
	SpanAttributes() []attribute.KeyValue
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager backed by the global OTel tracer
// provider. Set the provider with otel.SetTracerProvider first.
func NewSpanManager() SpanManager {
	return otelSpanManager{}
}

func (otelSpanManager) StartParseSpan(ctx context.Context, formulaID string) (context.Context, trace.Span) {
	return startSpan(ctx, SpanParse, formulaID)
}

func (otelSpanManager) StartSubstituteSpan(ctx context.Context, formulaID string) (context.Context, trace.Span) {
	return startSpan(ctx, SpanSubstitute, formulaID)
}

func (otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// startSpan tags the span with formula.id unless the call came through
// the stateless API, which has no ID.
func startSpan(ctx context.Context, name, formulaID string) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if formulaID != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("formula.id", formulaID)))
	}
	return tracer.Start(ctx, name, opts...)
}

// EndSpanWithError sets the span status from err and ends it.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err == nil {
		span.SetStatus(codes.Ok, "")
		span.End()
		return
	}

	var attrs []attribute.KeyValue
	if ae, ok := err.(AttributedError); ok {
		attrs = ae.SpanAttributes()
		span.SetAttributes(attrs...)
	}
	span.RecordError(err, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// AddSpanEvent adds an event to the span in ctx if it is recording.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
