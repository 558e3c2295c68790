package walk

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/jcdickinson/javadocfetch/internal/docs"
)

// ErrNoSubtitle is returned by the subtitle strategy for pages that carry
// no package subtitle.
var ErrNoSubtitle = errors.New("page has no package subtitle")

// Naming selects how a page's package and simple name are derived.
type Naming string

const (
	// NamingPath derives the qualified name from the relative path.
	NamingPath Naming = "path"
	// NamingSubtitle reads the package from the page and the simple name
	// from the filename.
	NamingSubtitle Naming = "subtitle"
)

func ParseNaming(s string) (Naming, error) {
	switch n := Naming(strings.ToLower(s)); n {
	case "":
		return NamingPath, nil
	case NamingPath, NamingSubtitle:
		return n, nil
	}
	return "", fmt.Errorf("unknown naming strategy %q (want path or subtitle)", s)
}

// Identify derives the class identity of the page at rel.
func (n Naming) Identify(rel string, page *docs.Page) (docs.Identity, error) {
	rel = strings.TrimPrefix(rel, "/")
	stem := strings.TrimSuffix(rel, path.Ext(rel))

	switch n {
	case NamingSubtitle:
		pkg, ok := page.PackageName()
		if !ok {
			return docs.Identity{}, fmt.Errorf("%s: %w", rel, ErrNoSubtitle)
		}
		simple := path.Base(stem)
		return docs.Identity{
			Package:       pkg,
			SimpleName:    simple,
			QualifiedName: pkg + "." + simple,
			Path:          rel,
		}, nil
	case NamingPath, "":
		qualified := strings.ReplaceAll(stem, "/", ".")
		pkg, simple := "", qualified
		if i := strings.LastIndex(qualified, "."); i >= 0 {
			pkg, simple = qualified[:i], qualified[i+1:]
		}
		return docs.Identity{
			Package:       pkg,
			SimpleName:    simple,
			QualifiedName: qualified,
			Path:          rel,
		}, nil
	}
	return docs.Identity{}, fmt.Errorf("unknown naming strategy %q", string(n))
}
