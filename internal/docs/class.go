package docs

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jcdickinson/javadocfetch/internal/signature"
)

// Heading prefixes are tested in this order; anything else is a class.
var kindPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"Interface", KindInterface},
	{"Enum", KindEnum},
	{"Annotation", KindAnnotation},
}

// DetectKind maps a page heading such as "Interface Runnable" to a kind.
func DetectKind(title string) Kind {
	title = strings.TrimSpace(title)
	for _, p := range kindPrefixes {
		if strings.HasPrefix(title, p.prefix) {
			return p.kind
		}
	}
	return KindClass
}

var implementedInterfacesRe = regexp.MustCompile(`(?i)implemented.*interface`)

func (e *Extractor) extractClass(page *Page, id Identity, constructors, methods []MemberRecord) *ClassRecord {
	kind := DetectKind(page.Title())
	decl := page.declaration()

	c := &ClassRecord{
		Package:       id.Package,
		SimpleName:    id.SimpleName,
		QualifiedName: id.QualifiedName,
		Path:          id.Path,
	}

	if decl.Length() > 0 {
		parsed, err := signature.ParseDeclaration(RawText(decl))
		if err != nil {
			slog.Debug("incomplete declaration", "class", id.QualifiedName, "error", err)
		}
		c.Annotations = parsed.Annotations
		c.Modifiers = sortedSet(parsed.Modifiers)
		c.Description = Truncate(Text(descriptionBlock(decl)), e.policy.ClassBudget)
	}

	dls := page.Doc.Find(classDefsSelector)
	c.Implements = implementedTypes(dls, kind)
	c.Since = Text(definitionValues(dls, termContains("Since:")).First())

	c.Weight, c.Suggest = e.policy.relevance(id.Package, kind,
		[]string{id.SimpleName, id.QualifiedName}, id.QualifiedName)

	switch kind {
	case KindInterface:
		c.Payload = InterfaceBody{Methods: abbreviateAll(methods)}
	case KindEnum:
		c.Payload = EnumBody{Methods: abbreviateAll(methods)}
	case KindAnnotation:
		c.Payload = AnnotationBody{}
	default:
		body := ClassBody{
			SuperClass: superClass(page),
			Methods:    abbreviateAll(methods),
		}
		if e.policy.EmbedConstructors {
			body.Constructors = abbreviateAll(constructors)
		}
		c.Payload = body
	}
	return c
}

// descriptionBlock returns the free-text block right after the declaration,
// passing over a deprecation notice.
func descriptionBlock(decl *goquery.Selection) *goquery.Selection {
	for s := decl.Next(); s.Length() > 0; s = s.Next() {
		if !s.Is("div.block") {
			break
		}
		if s.Find(deprecationSelector).Length() > 0 {
			continue
		}
		return s
	}
	return decl.Slice(0, 0)
}

// superClass is the last link of the inheritance breadcrumb.
func superClass(page *Page) string {
	if last := Text(page.Doc.Find(inheritanceSelector).Last()); last != "" {
		return last
	}
	return "java.lang.Object"
}

func implementedTypes(dls *goquery.Selection, kind Kind) []string {
	match := termMatches(implementedInterfacesRe)
	if kind == KindInterface {
		match = termContains("superinterface")
	}
	var types []string
	definitionValues(dls, match).Each(func(_ int, dd *goquery.Selection) {
		types = append(types, signature.SplitTypeList(Text(dd))...)
	})
	sort.Strings(types)
	return nonNil(types)
}
