package formula

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/formulagen/pkg/formula/observability"
)

// MissingAction specifies how to handle placeholders without a definition.
type MissingAction int

const (
	// MissingEmpty substitutes an empty string. This is the default.
	MissingEmpty MissingAction = iota

	// MissingKeep re-emits the placeholder as "${name}".
	MissingKeep

	// MissingError fails the substitution with a KindUndefined error.
	MissingError
)

// String returns the name used in configuration files.
func (a MissingAction) String() string {
	switch a {
	case MissingEmpty:
		return "empty"
	case MissingKeep:
		return "keep"
	case MissingError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMissingAction converts "empty", "keep", or "error" to a MissingAction.
func ParseMissingAction(s string) (MissingAction, error) {
	switch s {
	case "empty", "":
		return MissingEmpty, nil
	case "keep":
		return MissingKeep, nil
	case "error":
		return MissingError, nil
	default:
		return MissingEmpty, fmt.Errorf("unknown missing action %q", s)
	}
}

// PreconditionMode selects how Formula.Replace decides whether Parse and
// Define have run.
type PreconditionMode int

const (
	// PreconditionEmptiness treats an empty working template as "not
	// parsed" and, with the same test, as "not defined". Templates that
	// consist solely of placeholders are rejected even after Parse, and
	// templates with placeholders but no definitions are accepted, their
	// placeholders becoming empty strings. This is the default.
	PreconditionEmptiness PreconditionMode = iota

	// PreconditionFlags tracks Parse and Define calls explicitly. A
	// template made only of placeholders is a valid parsed state, and
	// definitions are required only when the template has placeholders.
	PreconditionFlags
)

// String returns the name used in configuration files.
func (m PreconditionMode) String() string {
	switch m {
	case PreconditionEmptiness:
		return "emptiness"
	case PreconditionFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// ParsePreconditionMode converts "emptiness" or "flags" to a PreconditionMode.
func ParsePreconditionMode(s string) (PreconditionMode, error) {
	switch s {
	case "emptiness", "":
		return PreconditionEmptiness, nil
	case "flags":
		return PreconditionFlags, nil
	default:
		return PreconditionEmptiness, fmt.Errorf("unknown precondition mode %q", s)
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxIndex sets the largest encoded placeholder length ("${" + name + "}")
// accepted by the scanner. Values below 4 are ignored.
//
// Default: math.MaxInt32
func WithMaxIndex(n int) Option {
	return func(e *Engine) {
		if n >= 4 {
			e.maxIndex = n
		}
	}
}

// WithMissingAction sets how undefined placeholders are substituted.
//
// Default: MissingEmpty
//
// Example:
//
//	eng := NewEngine(WithMissingAction(MissingError))
//	_, err := eng.Generate(ctx, "=${cell}*2", nil)
//	// err: "undefined variable: cell"
func WithMissingAction(action MissingAction) Option {
	return func(e *Engine) {
		e.missing = action
	}
}

// WithPreconditions sets the precondition mode used by Formula.Replace.
//
// Default: PreconditionEmptiness
func WithPreconditions(mode PreconditionMode) Option {
	return func(e *Engine) {
		e.preconditions = mode
	}
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.metrics = observability.NewMetricsRecorder()
		} else {
			e.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithTracing enables OpenTelemetry tracing using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.spans = observability.NewSpanManager()
		} else {
			e.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(e *Engine) {
		if sm != nil {
			e.spans = sm
		}
	}
}
