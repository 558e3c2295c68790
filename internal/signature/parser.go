// Package signature decomposes the declaration and member signature text
// found in javadoc pages. The grammar is deliberately small: it recognizes
// annotations, modifiers, type parameters, types, identifiers, parameter
// lists and throws clauses, and reports the production that failed.
package signature

import (
	"fmt"
	"strings"
)

// Production names a grammar rule, used to report where parsing failed.
type Production string

const (
	ProdAnnotation     Production = "annotation"
	ProdModifiers      Production = "modifiers"
	ProdTypeParameters Production = "type-parameters"
	ProdType           Production = "type"
	ProdIdentifier     Production = "identifier"
	ProdParameters     Production = "parameter-list"
	ProdThrows         Production = "throws"
	ProdKindKeyword    Production = "kind-keyword"
	ProdEnd            Production = "end"
)

// SyntaxError reports a production that did not match the input.
type SyntaxError struct {
	Production Production
	Offset     int
	Msg        string
	Input      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s (in %q)", e.Production, e.Offset, e.Msg, e.Input)
}

// Signature is a parsed constructor or method signature. Modifiers are in
// source order; Params is the raw text between the parentheses.
type Signature struct {
	Annotations    []string
	Modifiers      []string
	TypeParameters string
	ReturnType     string
	Name           string
	Params         string
	Throws         []string
}

// Declaration is the parsed header of a type declaration block.
type Declaration struct {
	Annotations []string
	Modifiers   []string
	Keyword     string
}

var memberModifiers = map[string]bool{
	"public":       true,
	"protected":    true,
	"private":      true,
	"static":       true,
	"final":        true,
	"abstract":     true,
	"synchronized": true,
	"native":       true,
	"transient":    true,
	"volatile":     true,
	"strictfp":     true,
	"default":      true,
	"sealed":       true,
}

var kindKeywords = map[string]bool{
	"class":     true,
	"interface": true,
	"enum":      true,
	"record":    true,
}

type parser struct {
	src  string
	toks []Token
	pos  int
}

func newParser(src string) *parser {
	return &parser{src: src, toks: Tokenize(src)}
}

func (p *parser) peek() Token {
	return p.peekN(0)
}

func (p *parser) peekN(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(prod Production, tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Production: prod,
		Offset:     tok.Pos,
		Msg:        fmt.Sprintf(format, args...),
		Input:      p.src,
	}
}

// text returns the source between two tokens (inclusive) with whitespace
// runs collapsed to single spaces.
func (p *parser) text(from, to Token) string {
	return CollapseSpace(p.src[from.Pos:to.End])
}

// CollapseSpace trims s and replaces every run of whitespace, including
// non-breaking spaces, with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// skipBalanced consumes tokens from an opening token up to and including
// its matching closer.
func (p *parser) skipBalanced(open, close TokenKind, prod Production) (Token, error) {
	start := p.next()
	if start.Kind != open {
		return start, p.errorf(prod, start, "expected %s, found %s", open, start.Kind)
	}
	depth := 1
	for {
		tok := p.next()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return tok, nil
			}
		case TokenEOF:
			return tok, p.errorf(prod, start, "unbalanced %s", open)
		}
	}
}

// annotationStart reports whether the next tokens begin an annotation
// (and not the @interface keyword).
func (p *parser) annotationStart() bool {
	if p.peek().Kind != TokenAt {
		return false
	}
	next := p.peekN(1)
	return next.Kind == TokenIdent && next.Text != "interface"
}

func (p *parser) parseAnnotation() (string, error) {
	at := p.next()
	name := p.next()
	if name.Kind != TokenIdent {
		return "", p.errorf(ProdAnnotation, name, "expected annotation name, found %s", name.Kind)
	}
	last := name
	for p.peek().Kind == TokenDot && p.peekN(1).Kind == TokenIdent {
		p.next()
		last = p.next()
	}
	if p.peek().Kind == TokenLParen {
		closer, err := p.skipBalanced(TokenLParen, TokenRParen, ProdAnnotation)
		if err != nil {
			return "", err
		}
		last = closer
	}
	return p.text(at, last), nil
}

func (p *parser) parseAnnotations() ([]string, error) {
	var anns []string
	for p.annotationStart() {
		ann, err := p.parseAnnotation()
		if err != nil {
			return anns, err
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

func (p *parser) parseModifiers() []string {
	var mods []string
	for {
		tok := p.peek()
		if tok.Kind != TokenIdent {
			return mods
		}
		if tok.Text == "non" && p.peekN(1).Text == "-" && p.peekN(2).Text == "sealed" {
			p.next()
			p.next()
			p.next()
			mods = append(mods, "non-sealed")
			continue
		}
		if !memberModifiers[tok.Text] {
			return mods
		}
		mods = append(mods, p.next().Text)
	}
}

func (p *parser) parseTypeParameters() (string, error) {
	if p.peek().Kind != TokenLAngle {
		return "", nil
	}
	start := p.peek()
	end, err := p.skipBalanced(TokenLAngle, TokenRAngle, ProdTypeParameters)
	if err != nil {
		return "", err
	}
	return p.text(start, end), nil
}

// parseType matches: annotation* Ident typeArgs? ('.' Ident typeArgs?)* ('[' ']')* '...'?
func (p *parser) parseType() (string, error) {
	start := p.peek()
	for p.annotationStart() {
		if _, err := p.parseAnnotation(); err != nil {
			return "", err
		}
	}
	name := p.next()
	if name.Kind != TokenIdent {
		return "", p.errorf(ProdType, name, "expected type name, found %s", name.Kind)
	}
	last := name
	for {
		if p.peek().Kind == TokenLAngle {
			closer, err := p.skipBalanced(TokenLAngle, TokenRAngle, ProdType)
			if err != nil {
				return "", err
			}
			last = closer
			continue
		}
		if p.peek().Kind == TokenDot && p.peekN(1).Kind == TokenIdent {
			p.next()
			last = p.next()
			continue
		}
		break
	}
	for p.peek().Kind == TokenLBracket && p.peekN(1).Kind == TokenRBracket {
		p.next()
		last = p.next()
	}
	if p.peek().Kind == TokenEllipsis {
		last = p.next()
	}
	return p.text(start, last), nil
}

func (p *parser) parseIdentifier() (string, error) {
	tok := p.next()
	if tok.Kind != TokenIdent {
		return "", p.errorf(ProdIdentifier, tok, "expected identifier, found %s", tok.Kind)
	}
	return tok.Text, nil
}

func (p *parser) parseParameterList() (string, error) {
	open := p.peek()
	if open.Kind != TokenLParen {
		return "", p.errorf(ProdParameters, open, "expected '(', found %s", open.Kind)
	}
	closer, err := p.skipBalanced(TokenLParen, TokenRParen, ProdParameters)
	if err != nil {
		return "", err
	}
	return p.src[open.End:closer.Pos], nil
}

func (p *parser) parseThrows() ([]string, error) {
	if tok := p.peek(); tok.Kind != TokenIdent || tok.Text != "throws" {
		return nil, nil
	}
	p.next()
	var types []string
	for {
		t, err := p.parseType()
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				se.Production = ProdThrows
			}
			return types, err
		}
		types = append(types, t)
		if p.peek().Kind != TokenComma {
			return types, nil
		}
		p.next()
	}
}

// parseEnd accepts end of input, or an annotation element default value.
func (p *parser) parseEnd() error {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		return nil
	}
	if tok.Kind == TokenIdent && tok.Text == "default" {
		return nil
	}
	return p.errorf(ProdEnd, tok, "unexpected %s %q", tok.Kind, tok.Text)
}

// ParseMethod parses a method signature:
// annotation* modifier* typeParameters? type identifier '(' params ')' throws?
func ParseMethod(src string) (*Signature, error) {
	p := newParser(src)
	sig := &Signature{}
	var err error
	if sig.Annotations, err = p.parseAnnotations(); err != nil {
		return nil, err
	}
	sig.Modifiers = p.parseModifiers()
	if sig.TypeParameters, err = p.parseTypeParameters(); err != nil {
		return nil, err
	}
	if sig.ReturnType, err = p.parseType(); err != nil {
		return nil, err
	}
	if sig.Name, err = p.parseIdentifier(); err != nil {
		return nil, err
	}
	if sig.Params, err = p.parseParameterList(); err != nil {
		return nil, err
	}
	if sig.Throws, err = p.parseThrows(); err != nil {
		return nil, err
	}
	if err := p.parseEnd(); err != nil {
		return nil, err
	}
	return sig, nil
}

// ParseConstructor parses a constructor signature:
// annotation* modifier* typeParameters? identifier '(' params ')' throws?
func ParseConstructor(src string) (*Signature, error) {
	p := newParser(src)
	sig := &Signature{}
	var err error
	if sig.Annotations, err = p.parseAnnotations(); err != nil {
		return nil, err
	}
	sig.Modifiers = p.parseModifiers()
	if sig.TypeParameters, err = p.parseTypeParameters(); err != nil {
		return nil, err
	}
	if sig.Name, err = p.parseIdentifier(); err != nil {
		return nil, err
	}
	if sig.Params, err = p.parseParameterList(); err != nil {
		return nil, err
	}
	if sig.Throws, err = p.parseThrows(); err != nil {
		return nil, err
	}
	if err := p.parseEnd(); err != nil {
		return nil, err
	}
	return sig, nil
}

// ParseDeclaration parses the head of a type declaration block: the
// leading annotation run, then every word up to the kind keyword as the
// modifier run. On error the partially filled Declaration is returned
// alongside it.
func ParseDeclaration(src string) (*Declaration, error) {
	p := newParser(src)
	decl := &Declaration{}
	anns, err := p.parseAnnotations()
	decl.Annotations = anns
	if err != nil {
		return decl, err
	}

	var mods []string
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenAt && p.peekN(1).Text == "interface":
			decl.Modifiers = mods
			decl.Keyword = "@interface"
			return decl, nil
		case tok.Kind == TokenIdent && kindKeywords[tok.Text]:
			decl.Modifiers = mods
			decl.Keyword = tok.Text
			return decl, nil
		case tok.Kind == TokenIdent:
			mods = append(mods, p.next().Text)
		case tok.Kind == TokenOther && tok.Text == "-" && len(mods) > 0:
			// non-sealed
			p.next()
			if nt := p.peek(); nt.Kind == TokenIdent {
				mods[len(mods)-1] += "-" + p.next().Text
			}
		default:
			return decl, p.errorf(ProdKindKeyword, tok, "expected class, interface, enum or @interface, found %s", tok.Kind)
		}
	}
}
