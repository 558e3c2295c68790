package signature

import (
	"strings"
	"unicode"
)

// SplitTypeList splits a comma/whitespace separated list of type names,
// such as the text of an "All Implemented Interfaces" entry. Separators
// only count outside angle brackets, so "Comparable<Date>, Serializable"
// yields ["Comparable<Date>", "Serializable"].
//
// Angle brackets that are not generic arguments are not understood.
func SplitTypeList(text string) []string {
	var out []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '<':
			depth++
			cur.WriteRune(r)
		case r == '>':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ',' || unicode.IsSpace(r)):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
