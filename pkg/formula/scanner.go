package formula

import "strings"

// scan splits template into literal text and placeholder occurrences in
// one forward pass. Each occurrence's position is the length of the
// literal text emitted before it, which is where its value is inserted.
//
// Error positions use the same coordinates: offsets into the working
// template, where earlier placeholders are already removed.
//
// On error the returned Parsed keeps the occurrences found so far, and
// its Literal holds the unscanned remainder of the template verbatim.
func scan(template string, maxIndex int) (*Parsed, *Error) {
	p := &Parsed{Template: template}
	var lit strings.Builder
	lit.Grow(len(template))

	i := 0
	for {
		off := strings.Index(template[i:], "${")
		if off < 0 {
			lit.WriteString(template[i:])
			break
		}
		start := i + off
		lit.WriteString(template[i:start])

		at := lit.Len()
		name, next, err := scanName(template, start, at, maxIndex)
		if name != "" {
			p.Occurrences = append(p.Occurrences, Occurrence{Name: name, Position: at})
		}
		if err != nil {
			lit.WriteString(template[start:])
			p.Literal = lit.String()
			return p, err
		}
		i = next
	}

	p.Literal = lit.String()
	return p, nil
}

// scanName reads the placeholder whose "${" begins at start and whose
// value goes at offset at of the working template. It returns the name
// and the offset just past the placeholder. A placeholder cut off by the
// end of the template runs to the end.
//
// An overflowing name is returned together with its error so the caller
// still records it.
func scanName(template string, start, at, maxIndex int) (string, int, *Error) {
	nameStart := start + 2
	end := len(template)
	next := end
	for j := nameStart; j < len(template); j++ {
		c := template[j]
		if c == '}' {
			end, next = j, j+1
			break
		}
		if !isNameByte(c) {
			return "", 0, invalidNameError(at + j - start)
		}
	}

	name := template[nameStart:end]
	if name == "" {
		return "", 0, invalidNameError(at + 2)
	}
	if len(name) > maxIndex-3 {
		return name, 0, indexOverflowError(at)
	}
	return name, next, nil
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}
