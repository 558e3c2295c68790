package docs

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrUnrecognizedPage is returned for pages without a class heading or
// declaration block.
var ErrUnrecognizedPage = errors.New("unrecognized page structure")

// Selectors cover the javadoc 8 layout and the class names used by later
// doclets.
const (
	titleSelector       = ".header h1.title, .header h2.title, .header .title, h1.title"
	subtitleSelector    = ".header .subTitle, .header .sub-title"
	declarationSelector = ".description pre, .description .type-signature, .class-description .type-signature"
	inheritanceSelector = "ul.inheritance li a, div.inheritance a"
	classDefsSelector   = ".description dl, .class-description dl"
	signatureSelector   = "pre, .member-signature"
	deprecationSelector = ".deprecatedLabel, .deprecated-label"
)

// Page is a loaded javadoc page.
type Page struct {
	Doc *goquery.Document
	// Path is the page URL relative to the documentation root.
	Path string
}

// LoadPage parses an HTML page. path is recorded as the page's relative URL.
func LoadPage(r io.Reader, path string) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Page{Doc: goquery.NewDocumentFromNode(root), Path: path}, nil
}

// Title returns the primary heading text, e.g. "Class ArrayList<E>".
func (p *Page) Title() string {
	return Text(p.Doc.Find(titleSelector).First())
}

// PackageName reads the package from the page subtitle. Module subtitles
// and the "Package" label of newer doclets are skipped.
func (p *Page) PackageName() (string, bool) {
	var pkg string
	p.Doc.Find(subtitleSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := Text(s)
		if strings.HasPrefix(text, "Module ") {
			return true
		}
		text = strings.TrimPrefix(text, "Package ")
		if text != "" {
			pkg = text
			return false
		}
		return true
	})
	return pkg, pkg != ""
}

func (p *Page) declaration() *goquery.Selection {
	return p.Doc.Find(declarationSelector).First()
}

// recognized reports whether the page looks like a class page.
func (p *Page) recognized() bool {
	return p.Doc.Find(titleSelector).Length() > 0 || p.declaration().Length() > 0
}

// definitionValues returns the <dd> elements following the first <dt> in
// dls whose text matches.
func definitionValues(dls *goquery.Selection, match func(term string) bool) *goquery.Selection {
	var values *goquery.Selection
	dls.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !match(Text(dt)) {
			return true
		}
		values = dt.NextUntil("dt").Filter("dd")
		return false
	})
	if values == nil {
		return dls.Slice(0, 0)
	}
	return values
}

func termContains(substr string) func(string) bool {
	substr = strings.ToLower(substr)
	return func(term string) bool {
		return strings.Contains(strings.ToLower(term), substr)
	}
}

func termMatches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}
