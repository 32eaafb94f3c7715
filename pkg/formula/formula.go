package formula

import (
	"context"
	"maps"

	"github.com/google/uuid"
)

// StatusOK is the status reported when no error has occurred.
const StatusOK = "OK"

// Formula is a single template moving through parse, define, and replace.
// Every method returns the receiver so calls can be chained:
//
//	f := formula.New("=${a}+${b}").
//	    Parse().
//	    Define("a", "A1").
//	    Define("b", "B1").
//	    Replace()
//	if f.Status() != formula.StatusOK {
//	    return f.Err()
//	}
//	fmt.Println(f.Result()) // =A1+B1
//
// The first error is kept; later Parse and Replace calls do nothing.
// A Formula must not be used from multiple goroutines at once.
type Formula struct {
	engine   *Engine
	ctx      context.Context
	id       string
	template string

	parsed      *Parsed
	definitions map[string]string
	defined     bool

	result string
	err    *Error
}

// New creates a Formula for template using an engine built from opts.
// No validation happens until Parse.
func New(template string, opts ...Option) *Formula {
	return NewEngine(opts...).New(context.Background(), template)
}

// New creates a Formula bound to this engine. ctx is passed to the
// engine's metrics and tracing hooks.
func (e *Engine) New(ctx context.Context, template string) *Formula {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Formula{
		engine:      e,
		ctx:         ctx,
		id:          uuid.New().String(),
		template:    template,
		definitions: make(map[string]string),
	}
}

// Parse scans the template. It does nothing if the Formula was already
// parsed or has failed. On error, occurrences found before the failure
// remain available through Occurrences.
func (f *Formula) Parse() *Formula {
	if f.err != nil || f.parsed != nil {
		return f
	}
	p, err := f.engine.parse(f.ctx, f.id, f.template)
	f.parsed = p
	if err != nil {
		f.err = err
	}
	return f
}

// Define sets one definition, overwriting any previous value for name.
func (f *Formula) Define(name, value string) *Formula {
	f.definitions[name] = value
	f.defined = true
	return f
}

// DefineAll replaces every definition with a copy of defs.
func (f *Formula) DefineAll(defs map[string]string) *Formula {
	f.definitions = maps.Clone(defs)
	if f.definitions == nil {
		f.definitions = make(map[string]string)
	}
	f.defined = true
	return f
}

// Replace substitutes the definitions into the parsed template. The
// result is rebuilt from scratch on every call, so definitions may be
// changed and Replace called again.
func (f *Formula) Replace() *Formula {
	if f.err != nil {
		return f
	}
	if err := f.checkPreconditions(); err != nil {
		f.err = err
		return f
	}
	out, err := f.engine.substitute(f.ctx, f.id, f.parsed, f.definitions)
	if err != nil {
		f.err = err
		return f
	}
	f.result = out
	return f
}

func (f *Formula) checkPreconditions() *Error {
	switch f.engine.preconditions {
	case PreconditionFlags:
		if f.parsed == nil {
			return notParsedError()
		}
		if len(f.parsed.Occurrences) > 0 && !f.defined {
			return notDefinedError()
		}
	default:
		if f.WorkingTemplate() == "" {
			return notParsedError()
		}
		// Same test as above: an empty working template also reads as
		// "nothing defined", whatever the definitions map holds.
		if f.WorkingTemplate() == "" {
			return notDefinedError()
		}
	}
	return nil
}

// Status returns StatusOK or the current error message.
func (f *Formula) Status() string {
	if f.err != nil {
		return f.err.Message
	}
	return StatusOK
}

// Result returns the substituted text, or the error message when
// Status is not StatusOK.
func (f *Formula) Result() string {
	if f.err != nil {
		return f.err.Message
	}
	return f.result
}

// Err returns the current error as an *Error, or nil.
func (f *Formula) Err() error {
	if f.err == nil {
		return nil
	}
	return f.err
}

// Output returns the substituted text or the error, never both.
func (f *Formula) Output() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

// ID returns the identifier used in logs and spans.
func (f *Formula) ID() string { return f.id }

// Template returns the original template text.
func (f *Formula) Template() string { return f.template }

// WorkingTemplate returns the template with recognized placeholders
// removed, or "" before Parse.
func (f *Formula) WorkingTemplate() string {
	if f.parsed == nil {
		return ""
	}
	return f.parsed.Literal
}

// Occurrences returns a copy of the recorded placeholders.
func (f *Formula) Occurrences() []Occurrence {
	if f.parsed == nil {
		return nil
	}
	out := make([]Occurrence, len(f.parsed.Occurrences))
	copy(out, f.parsed.Occurrences)
	return out
}

// Names returns the distinct placeholder names in first-seen order.
func (f *Formula) Names() []string {
	return f.parsed.Names()
}

// Definitions returns a copy of the current definitions.
func (f *Formula) Definitions() map[string]string {
	return maps.Clone(f.definitions)
}
