package docs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/jcdickinson/javadocfetch/internal/signature"
)

type memberCategory struct {
	kind     Kind
	headings []string
	parse    func(string) (*signature.Signature, error)
}

var (
	constructorCategory = memberCategory{
		kind:     KindConstructor,
		headings: []string{"constructor detail", "constructor details"},
		parse:    signature.ParseConstructor,
	}
	methodCategory = memberCategory{
		kind:     KindMethod,
		headings: []string{"method detail", "method details"},
		parse:    signature.ParseMethod,
	}
)

var errNoSignature = errors.New("entry has no signature block")

// detailSection finds the region whose heading names the category, e.g.
// "Method Detail". Returns nil when the page has none.
func detailSection(doc *goquery.Document, headings []string) *goquery.Selection {
	var section *goquery.Selection
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := strings.ToLower(Text(h))
		for _, want := range headings {
			if text == want {
				section = h.Parent()
				return false
			}
		}
		return true
	})
	return section
}

// detailEntries returns the per-member blocks of a detail section: any
// list item or detail section that directly holds a signature.
func detailEntries(section *goquery.Selection) *goquery.Selection {
	return section.Find("li.blockList, section.detail").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ChildrenFiltered(signatureSelector).Length() > 0
	})
}

// entryAnchor returns the fragment identifying an entry: its own id in
// newer doclets, otherwise the named anchor just before its list.
func entryAnchor(entry *goquery.Selection) string {
	if id, ok := entry.Attr("id"); ok && id != "" {
		return id
	}
	prev := entry.Parent().Prev()
	if prev.Is("a") {
		if name, ok := prev.Attr("name"); ok && name != "" {
			return name
		}
		if id, ok := prev.Attr("id"); ok && id != "" {
			return id
		}
	}
	return ""
}

// extractMembers builds records for every entry of the category's detail
// section. Entries that fail to parse are logged and skipped.
func (e *Extractor) extractMembers(page *Page, id Identity, cat memberCategory) []MemberRecord {
	section := detailSection(page.Doc, cat.headings)
	if section == nil {
		return nil
	}

	var members []MemberRecord
	detailEntries(section).Each(func(_ int, entry *goquery.Selection) {
		m, err := e.extractMember(page, id, cat, entry)
		if err != nil {
			slog.Warn("skipping member", "class", id.QualifiedName, "kind", cat.kind, "anchor", entryAnchor(entry), "error", err)
			return
		}
		members = append(members, *m)
	})
	return members
}

func (e *Extractor) extractMember(page *Page, id Identity, cat memberCategory, entry *goquery.Selection) (*MemberRecord, error) {
	sigText := RawText(entry.ChildrenFiltered(signatureSelector).First())
	if sigText == "" {
		return nil, errNoSignature
	}
	sig, err := cat.parse(sigText)
	if err != nil {
		return nil, fmt.Errorf("parsing signature: %w", err)
	}

	qualifiedName := id.QualifiedName + "." + sig.Name

	parsed, paramErrs := signature.ParseParams(sig.Params)
	for _, perr := range paramErrs {
		slog.Warn("dropping parameter", "member", qualifiedName, "error", perr)
	}

	dls := entry.ChildrenFiltered("dl")
	paramDocs := parameterDocs(dls)
	params := make([]Param, len(parsed))
	for i, p := range parsed {
		params[i] = Param{
			Type:        p.Type,
			Name:        p.Name,
			Description: Truncate(paramDocs[p.Name], e.policy.MemberBudget),
		}
	}

	path := page.Path
	if anchor := entryAnchor(entry); anchor != "" {
		path += "#" + anchor
	}

	m := &MemberRecord{
		ID:             memberID(id.QualifiedName, sig.Name, params),
		Kind:           cat.kind,
		Package:        id.Package,
		QualifiedClass: id.QualifiedName,
		SimpleClass:    id.SimpleName,
		Name:           sig.Name,
		QualifiedName:  qualifiedName,
		Annotations:    nonNil(sig.Annotations),
		Modifiers:      sortedSet(sig.Modifiers),
		TypeParameters: sig.TypeParameters,
		Params:         params,
		Throws:         nonNil(sig.Throws),
		Description:    Truncate(Text(entry.ChildrenFiltered("div.block").Last()), e.policy.MemberBudget),
		Path:           path,
	}
	if cat.kind == KindMethod {
		m.ReturnType = sig.ReturnType
		m.ReturnsDescription = Truncate(Text(definitionValues(dls, termContains("Returns:")).First()), e.policy.MemberBudget)
	}
	m.Weight, m.Suggest = e.policy.relevance(id.Package, cat.kind,
		[]string{qualifiedName, sig.Name, id.SimpleName + "." + sig.Name}, qualifiedName)
	return m, nil
}

// parameterDocs maps parameter names to the text of the "Parameters:"
// definitions. Each definition reads "name - text", the dash optional.
func parameterDocs(dls *goquery.Selection) map[string]string {
	docs := make(map[string]string)
	definitionValues(dls, termContains("Parameters:")).Each(func(_ int, dd *goquery.Selection) {
		name, text, ok := splitParamDoc(Text(dd))
		if ok {
			docs[name] = text
		}
	})
	return docs
}

func splitParamDoc(text string) (name, desc string, ok bool) {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "-"))
	end := strings.IndexFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$')
	})
	if end < 0 {
		end = len(text)
	}
	if end == 0 {
		return "", "", false
	}
	name = text[:end]
	rest := strings.TrimSpace(text[end:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "-"))
	return name, rest, true
}
