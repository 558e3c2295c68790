package signature

import (
	"fmt"
	"strings"
)

// Param is one formal parameter: its raw type text and its name.
type Param struct {
	Type string
	Name string
}

// ParamError reports a parameter segment that did not match type + name.
type ParamError struct {
	Segment string
	Reason  string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("unmatched parameter %q: %s", e.Segment, e.Reason)
}

// ParseParams splits a parameter-list string into parameters. Segments are
// separated by top-level commas, so generic arguments such as Map<K, V> stay
// intact. The last identifier of a segment is its name and everything
// before it is the type. Segments that do not match are reported and
// dropped; the rest of the list is still returned.
func ParseParams(text string) ([]Param, []error) {
	var params []Param
	var errs []error
	for _, seg := range splitTopLevel(text) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		p, err := parseParam(seg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		params = append(params, p)
	}
	return params, errs
}

func parseParam(seg string) (Param, error) {
	toks := Tokenize(seg)
	// toks always ends with EOF
	if len(toks) < 3 {
		return Param{}, &ParamError{Segment: seg, Reason: "expected a type followed by a name"}
	}
	name := toks[len(toks)-2]
	if name.Kind != TokenIdent {
		return Param{}, &ParamError{Segment: seg, Reason: fmt.Sprintf("name is a %s, not an identifier", name.Kind)}
	}
	typ := CollapseSpace(seg[:name.Pos])
	if typ == "" {
		return Param{}, &ParamError{Segment: seg, Reason: "missing type"}
	}
	return Param{Type: typ, Name: name.Text}, nil
}

// splitTopLevel splits on commas that are not nested inside <>, (), [] or {}.
func splitTopLevel(text string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}
