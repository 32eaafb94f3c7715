package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordParse does nothing.
func (NoopMetrics) RecordParse(_ context.Context, _ int, _ time.Duration, _ error) {}

// RecordSubstitute does nothing.
func (NoopMetrics) RecordSubstitute(_ context.Context, _ int, _ time.Duration, _ error) {}

// RecordTemplateSize does nothing.
func (NoopMetrics) RecordTemplateSize(_ context.Context, _ int64) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartParseSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartParseSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartSubstituteSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartSubstituteSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
