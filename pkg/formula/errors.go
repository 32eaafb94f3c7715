package formula

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindInvalidName indicates a placeholder body contains a character
	// outside [A-Za-z0-9_], or is empty.
	KindInvalidName Kind = iota + 1

	// KindIndexOverflow indicates a placeholder is too long for the
	// configured index range.
	KindIndexOverflow

	// KindNotParsed indicates Replace ran before a successful Parse.
	KindNotParsed

	// KindNotDefined indicates Replace ran before any definitions were supplied.
	KindNotDefined

	// KindInternal indicates corrupted occurrence bookkeeping.
	KindInternal

	// KindUndefined indicates placeholders without definitions under MissingError.
	KindUndefined
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidName:
		return "invalid_name"
	case KindIndexOverflow:
		return "index_overflow"
	case KindNotParsed:
		return "not_parsed"
	case KindNotDefined:
		return "not_defined"
	case KindInternal:
		return "internal"
	case KindUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Error is the structured error produced by parsing and substitution.
// Message is the human-readable text also reported by Formula.Status.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Position is the byte offset the error refers to, or -1 when the
	// error has no location.
	Position int
	// Message is the human-readable description.
	Message string
	// UndefinedNames lists distinct undefined names for KindUndefined.
	UndefinedNames []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ErrInvalidName) matches any invalid-name error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// SpanAttributes returns the kind, the position when known, and any
// undefined names, for attaching to a trace span.
func (e *Error) SpanAttributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("error.kind", e.Kind.String())}
	if e.Position >= 0 {
		attrs = append(attrs, attribute.Int("error.position", e.Position))
	}
	if len(e.UndefinedNames) > 0 {
		attrs = append(attrs, attribute.StringSlice("error.undefined_names", e.UndefinedNames))
	}
	return attrs
}

// Sentinel errors for use with errors.Is.
var (
	// ErrInvalidName matches KindInvalidName errors.
	ErrInvalidName = &Error{Kind: KindInvalidName, Position: -1, Message: "invalid variable name"}

	// ErrIndexOverflow matches KindIndexOverflow errors.
	ErrIndexOverflow = &Error{Kind: KindIndexOverflow, Position: -1, Message: "index overflow"}

	// ErrNotParsed matches KindNotParsed errors.
	ErrNotParsed = &Error{Kind: KindNotParsed, Position: -1, Message: "not parsed"}

	// ErrNotDefined matches KindNotDefined errors.
	ErrNotDefined = &Error{Kind: KindNotDefined, Position: -1, Message: "no definitions"}

	// ErrInternal matches KindInternal errors.
	ErrInternal = &Error{Kind: KindInternal, Position: -1, Message: "internal error"}

	// ErrUndefined matches KindUndefined errors.
	ErrUndefined = &Error{Kind: KindUndefined, Position: -1, Message: "undefined variable"}
)

func invalidNameError(pos int) *Error {
	return &Error{
		Kind:     KindInvalidName,
		Position: pos,
		Message: fmt.Sprintf("Invalid variable name at %d.\n"+
			"You are only allowed to use [a-z], [A-Z], [0-9] and '_'.", pos),
	}
}

func indexOverflowError(pos int) *Error {
	return &Error{
		Kind:     KindIndexOverflow,
		Position: pos,
		Message:  "Exceeded maximum length of signed integer. The program can no longer process indices.",
	}
}

func notParsedError() *Error {
	return &Error{Kind: KindNotParsed, Position: -1, Message: "You have to run .parse() first."}
}

func notDefinedError() *Error {
	return &Error{Kind: KindNotDefined, Position: -1, Message: "You have to .define() variables first."}
}

func negativeIndexError(pos int) *Error {
	return &Error{
		Kind:     KindInternal,
		Position: pos,
		Message:  fmt.Sprintf("An index can not be negative (%d). This is a BUG!", pos),
	}
}

func internalError(pos int) *Error {
	return &Error{
		Kind:     KindInternal,
		Position: pos,
		Message:  "An internal error occurred during the parsing process. This is a BUG!",
	}
}

func undefinedError(names []string) *Error {
	msg := fmt.Sprintf("undefined variables: %s", strings.Join(names, ", "))
	if len(names) == 1 {
		msg = fmt.Sprintf("undefined variable: %s", names[0])
	}
	return &Error{Kind: KindUndefined, Position: -1, Message: msg, UndefinedNames: names}
}
