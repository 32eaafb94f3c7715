/*
Package formula builds text, typically spreadsheet formulas, from a
template containing ${name} placeholders and a name-to-value mapping.

# Overview

A placeholder is "${", one or more of [A-Za-z0-9_], and "}". Every "${"
starts a placeholder; there is no escaping. Substituted values are
inserted verbatim and never rescanned.

Parsing splits a template into its literal text (the working template)
and an ordered list of occurrences, each a name plus the byte offset in
the working template where its value goes. Substitution walks the
occurrences and interleaves literal segments with values.

# Chainable Usage

Formula carries one template through parse, define, and replace:

	f := formula.New("=IF(${cell}>${limit}, ${cell}, 0)").
	    Parse().
	    Define("cell", "B2").
	    Define("limit", "100").
	    Replace()

	fmt.Println(f.Status()) // "OK"
	fmt.Println(f.Result()) // "=IF(B2>100, B2, 0)"

Status returns StatusOK or an error message. Result returns the error
message in place of output when Status is not StatusOK, so check Status
first or use Output or Err, which keep the two apart:

	out, err := f.Output()

# Functional Usage

The same work is available without mutable state:

	p, err := formula.Parse("=SUM(${from}:${to})")
	if err != nil {
	    return err
	}
	out, err := p.Substitute(map[string]string{"from": "A1", "to": "A9"})
	// out: "=SUM(A1:A9)"

GenerateAll parses once and renders one output per row of definitions:

	outs, err := formula.GenerateAll("=A${r}*B${r}", []map[string]string{
	    {"r": "2"}, {"r": "3"},
	})
	// outs: ["=A2*B2", "=A3*B3"]

# Errors

All failures are *Error values carrying a Kind, a Position, and a
Message. Use errors.Is with the sentinels:

	_, err := formula.Parse("${a!}")
	errors.Is(err, formula.ErrInvalidName) // true

# Undefined Names

By default a placeholder without a definition becomes an empty string.
WithMissingAction(MissingKeep) re-emits the placeholder instead, and
WithMissingAction(MissingError) fails with a KindUndefined error listing
every undefined name.

# Preconditions

Formula.Replace fails with "You have to run .parse() first." when the
working template is empty, and then checks the same condition again for
"You have to .define() variables first.". A template made only of
placeholders therefore cannot be replaced, while a template whose
placeholders were never defined is replaced with empty values.
WithPreconditions(PreconditionFlags) tracks Parse and Define calls
instead.

# Observability

WithLogger, WithMetrics, and WithTracing attach slog logging and
OpenTelemetry metrics and spans. See package observability.

# Thread Safety

Engine and Parsed are safe for concurrent use. Formula is not.
*/
package formula
