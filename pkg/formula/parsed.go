package formula

import (
	"context"
	"strings"
)

// Occurrence is one placeholder found while parsing.
type Occurrence struct {
	// Name is the placeholder name between "${" and "}".
	Name string
	// Position is the byte offset in Parsed.Literal where the value is inserted.
	Position int
}

// Parsed is a scanned template. It is immutable after Parse returns and
// safe for concurrent use.
type Parsed struct {
	// Template is the original template text.
	Template string
	// Literal is the template with every recognized placeholder removed.
	Literal string
	// Occurrences lists placeholders left to right.
	Occurrences []Occurrence
}

// Names returns the distinct placeholder names in first-seen order.
func (p *Parsed) Names() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(p.Occurrences))
	names := make([]string, 0, len(p.Occurrences))
	for _, occ := range p.Occurrences {
		if _, ok := seen[occ.Name]; ok {
			continue
		}
		seen[occ.Name] = struct{}{}
		names = append(names, occ.Name)
	}
	return names
}

// Substitute renders p with defs using the default engine settings:
// undefined names become empty strings.
func (p *Parsed) Substitute(defs map[string]string) (string, error) {
	return defaultEngine.Substitute(context.Background(), p, defs)
}

// validate checks that positions are non-negative, non-decreasing, and
// within Literal.
func (p *Parsed) validate() *Error {
	last := 0
	for _, occ := range p.Occurrences {
		if occ.Position < 0 {
			return negativeIndexError(occ.Position)
		}
		if occ.Position < last || occ.Position > len(p.Literal) {
			return internalError(occ.Position)
		}
		last = occ.Position
	}
	return nil
}

// render interleaves literal segments with looked-up values. It returns
// the output and every occurrence that had no definition.
func (p *Parsed) render(defs map[string]string, action MissingAction) (string, []Occurrence, *Error) {
	if err := p.validate(); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.Grow(len(p.Literal))
	var undefined []Occurrence

	last := 0
	for _, occ := range p.Occurrences {
		b.WriteString(p.Literal[last:occ.Position])
		last = occ.Position

		val, ok := defs[occ.Name]
		if !ok {
			undefined = append(undefined, occ)
			if action == MissingKeep {
				val = "${" + occ.Name + "}"
			}
		}
		b.WriteString(val)
	}
	b.WriteString(p.Literal[last:])

	if action == MissingError && len(undefined) > 0 {
		return "", undefined, undefinedError(distinctNames(undefined))
	}
	return b.String(), undefined, nil
}

func distinctNames(occs []Occurrence) []string {
	return (&Parsed{Occurrences: occs}).Names()
}
