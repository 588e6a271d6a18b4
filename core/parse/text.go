package parse

import (
	"unicode"
	"unicode/utf8"
)

// Collapse reduces runs of whitespace to single spaces and trims the ends.
// Text that is already clean is returned as-is, so callers only pay for an
// allocation when normalization actually changes content.
func Collapse(s string) string {
	if s == "" || !needsCollapse(s) {
		return s
	}
	out := make([]byte, 0, len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = len(out) > 0
			continue
		}
		if pending {
			out = append(out, ' ')
			pending = false
		}
		out = utf8.AppendRune(out, r)
	}
	return string(out)
}

func needsCollapse(s string) bool {
	prevSpace := false
	for i, r := range s {
		if !unicode.IsSpace(r) {
			prevSpace = false
			continue
		}
		// Any non-plain-space whitespace, a doubled space, or a space at
		// either end forces normalization.
		if r != ' ' || prevSpace || i == 0 {
			return true
		}
		prevSpace = true
	}
	return prevSpace // trailing space
}
