package docs

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jcdickinson/javadocfetch/internal/signature"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements get a separating space on either side when flattened, so
// adjacent paragraphs or list items don't run together.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Blockquote: true, atom.Br: true, atom.Dd: true,
	atom.Div: true, atom.Dl: true, atom.Dt: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Hr: true,
	atom.Li: true, atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true,
	atom.Table: true, atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// Text flattens the text content of a selection, collapsing whitespace.
func Text(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return signature.CollapseSpace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}

// RawText returns the unmodified text of a selection, keeping line breaks.
// Used for preformatted signature blocks, which the tokenizer handles.
func RawText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

const ellipsis = "..."

// Truncate trims s and cuts it to at most budget characters. A cut string
// is exactly budget characters long and ends in an ellipsis.
func Truncate(s string, budget int) string {
	s = strings.TrimSpace(s)
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget <= len(ellipsis) {
		return string(runes[:budget])
	}
	return string(runes[:budget-len(ellipsis)]) + ellipsis
}

// sortedSet sorts and deduplicates tokens.
func sortedSet(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}
	out := append([]string(nil), tokens...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
