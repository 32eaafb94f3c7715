package formula

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/formulagen/pkg/formula/observability"
)

// Engine parses and substitutes templates.
//
// Create with NewEngine() and configure with Option functions.
// Engine is safe for concurrent use after construction.
type Engine struct {
	maxIndex      int
	missing       MissingAction
	preconditions PreconditionMode
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
}

// NewEngine creates a new Engine with the given options.
//
// Default configuration:
//   - MaxIndex: math.MaxInt32
//   - MissingAction: MissingEmpty
//   - Preconditions: PreconditionEmptiness
//   - no logging, metrics, or tracing
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxIndex: math.MaxInt32,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// defaultEngine backs the package-level functions.
var defaultEngine = NewEngine()

// Parse scans template for ${name} placeholders.
//
// On error the returned Parsed is non-nil and holds the occurrences
// recorded before the failure. The error is an *Error.
func (e *Engine) Parse(ctx context.Context, template string) (*Parsed, error) {
	p, err := e.parse(ctx, "", template)
	if err != nil {
		return p, err
	}
	return p, nil
}

// Substitute renders p with defs according to the engine's MissingAction.
// A nil p yields a KindNotParsed error.
func (e *Engine) Substitute(ctx context.Context, p *Parsed, defs map[string]string) (string, error) {
	out, err := e.substitute(ctx, "", p, defs)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Generate parses template and substitutes defs in one call.
//
// Example:
//
//	out, err := NewEngine().Generate(ctx, "=SUM(${from}:${to})",
//	    map[string]string{"from": "A1", "to": "A9"})
//	// out: "=SUM(A1:A9)"
func (e *Engine) Generate(ctx context.Context, template string, defs map[string]string) (string, error) {
	p, err := e.Parse(ctx, template)
	if err != nil {
		return "", err
	}
	return e.Substitute(ctx, p, defs)
}

// GenerateAll parses template once and substitutes each row of definitions.
// On error, returns nil and the error for the first failing row.
//
// Example:
//
//	rows := []map[string]string{{"r": "2"}, {"r": "3"}}
//	out, _ := eng.GenerateAll(ctx, "=A${r}*B${r}", rows)
//	// out: ["=A2*B2", "=A3*B3"]
func (e *Engine) GenerateAll(ctx context.Context, template string, rows []map[string]string) ([]string, error) {
	p, err := e.Parse(ctx, template)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}
	results := make([]string, len(rows))
	for i, defs := range rows {
		out, err := e.Substitute(ctx, p, defs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		results[i] = out
	}
	return results, nil
}

// MustGenerate is like Generate but panics on error.
func (e *Engine) MustGenerate(template string, defs map[string]string) string {
	out, err := e.Generate(context.Background(), template, defs)
	if err != nil {
		panic(fmt.Sprintf("formula: %v", err))
	}
	return out
}

func (e *Engine) loggerFor(id string) *slog.Logger {
	if id == "" {
		return e.logger
	}
	return observability.EnrichLogger(e.logger, id)
}

func (e *Engine) parse(ctx context.Context, id, template string) (*Parsed, *Error) {
	ctx, span := e.spans.StartParseSpan(ctx, id)
	logger := e.loggerFor(id)
	start := time.Now()

	p, perr := scan(template, e.maxIndex)

	elapsed := time.Since(start)
	e.metrics.RecordTemplateSize(ctx, int64(len(template)))
	if perr != nil {
		e.metrics.RecordParse(ctx, len(p.Occurrences), elapsed, perr)
		observability.LogParseError(logger, perr)
		e.spans.EndSpanWithError(span, perr)
		return p, perr
	}

	e.metrics.RecordParse(ctx, len(p.Occurrences), elapsed, nil)
	observability.LogParseComplete(logger, len(p.Occurrences), durationMs(elapsed))
	e.spans.EndSpanWithError(span, nil)
	return p, nil
}

func (e *Engine) substitute(ctx context.Context, id string, p *Parsed, defs map[string]string) (string, *Error) {
	if p == nil {
		return "", notParsedError()
	}

	ctx, span := e.spans.StartSubstituteSpan(ctx, id)
	logger := e.loggerFor(id)
	start := time.Now()

	out, undefined, serr := p.render(defs, e.missing)

	elapsed := time.Since(start)
	for _, occ := range undefined {
		observability.LogUndefinedName(logger, occ.Name, occ.Position)
		e.spans.AddSpanEvent(ctx, "placeholder.undefined",
			attribute.String("name", occ.Name),
			attribute.Int("position", occ.Position),
		)
	}
	if serr != nil {
		e.metrics.RecordSubstitute(ctx, len(undefined), elapsed, serr)
		observability.LogSubstituteError(logger, serr)
		e.spans.EndSpanWithError(span, serr)
		return "", serr
	}

	e.metrics.RecordSubstitute(ctx, len(undefined), elapsed, nil)
	observability.LogSubstituteComplete(logger, len(out), len(undefined), durationMs(elapsed))
	e.spans.EndSpanWithError(span, nil)
	return out, nil
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Parse scans template using the default engine.
func Parse(template string) (*Parsed, error) {
	return defaultEngine.Parse(context.Background(), template)
}

// Generate parses template and substitutes defs using the default engine.
// Undefined names become empty strings.
func Generate(template string, defs map[string]string) (string, error) {
	return defaultEngine.Generate(context.Background(), template, defs)
}

// GenerateAll expands template once per row using the default engine.
func GenerateAll(template string, rows []map[string]string) ([]string, error) {
	return defaultEngine.GenerateAll(context.Background(), template, rows)
}

// MustGenerate is like Generate but panics on error.
func MustGenerate(template string, defs map[string]string) string {
	return defaultEngine.MustGenerate(template, defs)
}
