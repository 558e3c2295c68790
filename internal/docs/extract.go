package docs

import "fmt"

// Extractor turns class pages into records under one output-schema policy.
type Extractor struct {
	policy Policy
}

func NewExtractor(policy Policy) *Extractor {
	return &Extractor{policy: policy}
}

// Policy returns the policy the extractor was constructed with.
func (e *Extractor) Policy() Policy {
	return e.policy
}

// Result holds everything extracted from one page.
type Result struct {
	Class        *ClassRecord
	Methods      []MemberRecord
	Constructors []MemberRecord
}

// Records returns the top-level records of the page in emission order:
// standalone methods first, then the class. Constructors only appear
// embedded in the class record.
func (r *Result) Records() []any {
	out := make([]any, 0, len(r.Methods)+1)
	for i := range r.Methods {
		out = append(out, &r.Methods[i])
	}
	if r.Class != nil {
		out = append(out, r.Class)
	}
	return out
}

// Extract runs the member extractor for both categories, then assembles
// the class record around them. Pages that are not class pages yield
// ErrUnrecognizedPage.
func (e *Extractor) Extract(page *Page, id Identity) (*Result, error) {
	if !page.recognized() {
		return nil, fmt.Errorf("%s: %w", page.Path, ErrUnrecognizedPage)
	}
	constructors := e.extractMembers(page, id, constructorCategory)
	methods := e.extractMembers(page, id, methodCategory)
	return &Result{
		Class:        e.extractClass(page, id, constructors, methods),
		Methods:      methods,
		Constructors: constructors,
	}, nil
}
