package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider backed by an in-memory exporter.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("formulagen")

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		tracer = otel.Tracer("formulagen")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

type locatedErr struct{}

func (locatedErr) Error() string { return "bad name at 3" }

func (locatedErr) SpanAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("error.kind", "invalid_name"),
		attribute.Int("error.position", 3),
	}
}

func attrValue(attrs []attribute.KeyValue, key string) string {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.AsString()
		}
	}
	return ""
}

func TestSpanManager(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	t.Run("parse span carries formula id", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartParseSpan(context.Background(), "f-1")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "formulagen.parse", spans[0].Name)
		assert.Equal(t, "f-1", attrValue(spans[0].Attributes, "formula.id"))
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("substitute span records error", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartSubstituteSpan(context.Background(), "f-2")
		sm.EndSpanWithError(span, errors.New("boom"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "formulagen.substitute", spans[0].Name)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "boom", spans[0].Status.Description)
	})

	t.Run("empty formula id is omitted", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartParseSpan(context.Background(), "")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		for _, a := range spans[0].Attributes {
			assert.NotEqual(t, "formula.id", string(a.Key))
		}
	})

	t.Run("located error adds attributes", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartParseSpan(context.Background(), "f-4")
		sm.EndSpanWithError(span, locatedErr{})

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "invalid_name", attrValue(spans[0].Attributes, "error.kind"))
		require.Len(t, spans[0].Events, 1, "RecordError adds an exception event")
		assert.Equal(t, "invalid_name", attrValue(spans[0].Events[0].Attributes, "error.kind"))
	})

	t.Run("span event on recording span", func(t *testing.T) {
		exporter.Reset()
		ctx, span := sm.StartParseSpan(context.Background(), "f-3")
		sm.AddSpanEvent(ctx, "placeholder", attribute.String("name", "x"))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Events, 1)
		assert.Equal(t, "placeholder", spans[0].Events[0].Name)
	})
}

func TestEndSpanWithError_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		EndSpanWithError(nil, errors.New("x"))
	})
}

func TestAddSpanEvent_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "event")
	})
}
