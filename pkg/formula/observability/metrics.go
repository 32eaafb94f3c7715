package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordParse records a template scan with the number of placeholders found.
	RecordParse(ctx context.Context, placeholders int, duration time.Duration, err error)

	// RecordSubstitute records a substitution with the number of undefined names.
	RecordSubstitute(ctx context.Context, missing int, duration time.Duration, err error)

	// RecordTemplateSize records the byte length of a scanned template.
	RecordTemplateSize(ctx context.Context, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	parseCount        metric.Int64Counter
	parseLatency      metric.Float64Histogram
	parseErrors       metric.Int64Counter
	parsePlaceholders metric.Int64Histogram
	substCount        metric.Int64Counter
	substLatency      metric.Float64Histogram
	substErrors       metric.Int64Counter
	substMissing      metric.Int64Counter
	templateSize      metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("formulagen")
	m := &otelMetrics{}
	var err error

	if m.parseCount, err = meter.Int64Counter("formulagen.parse.count",
		metric.WithDescription("Number of template parses"),
	); err != nil {
		return nil, err
	}
	if m.parseLatency, err = meter.Float64Histogram("formulagen.parse.latency_ms",
		metric.WithDescription("Template parse latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.parseErrors, err = meter.Int64Counter("formulagen.parse.errors",
		metric.WithDescription("Number of failed template parses"),
	); err != nil {
		return nil, err
	}
	if m.parsePlaceholders, err = meter.Int64Histogram("formulagen.parse.placeholders",
		metric.WithDescription("Placeholders found per template"),
	); err != nil {
		return nil, err
	}
	if m.substCount, err = meter.Int64Counter("formulagen.substitute.count",
		metric.WithDescription("Number of substitutions"),
	); err != nil {
		return nil, err
	}
	if m.substLatency, err = meter.Float64Histogram("formulagen.substitute.latency_ms",
		metric.WithDescription("Substitution latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.substErrors, err = meter.Int64Counter("formulagen.substitute.errors",
		metric.WithDescription("Number of failed substitutions"),
	); err != nil {
		return nil, err
	}
	if m.substMissing, err = meter.Int64Counter("formulagen.substitute.missing",
		metric.WithDescription("Placeholders substituted without a definition"),
	); err != nil {
		return nil, err
	}
	if m.templateSize, err = meter.Int64Histogram("formulagen.template.size_bytes",
		metric.WithDescription("Template size in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordParse records a template scan.
func (m *otelMetrics) RecordParse(ctx context.Context, placeholders int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.parseCount.Add(ctx, 1, attrs)
	m.parseLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.parsePlaceholders.Record(ctx, int64(placeholders))
	if err != nil {
		m.parseErrors.Add(ctx, 1)
	}
}

// RecordSubstitute records a substitution.
func (m *otelMetrics) RecordSubstitute(ctx context.Context, missing int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.substCount.Add(ctx, 1, attrs)
	m.substLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if missing > 0 {
		m.substMissing.Add(ctx, int64(missing))
	}
	if err != nil {
		m.substErrors.Add(ctx, 1)
	}
}

// RecordTemplateSize records a template's byte length.
func (m *otelMetrics) RecordTemplateSize(ctx context.Context, sizeBytes int64) {
	m.templateSize.Record(ctx, sizeBytes)
}
