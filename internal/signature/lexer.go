package signature

import (
	"unicode"
	"unicode/utf8"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenAt
	TokenLParen
	TokenRParen
	TokenLAngle
	TokenRAngle
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenDot
	TokenEllipsis
	TokenQuestion
	TokenAmp
	TokenString
	TokenOther
)

var tokenNames = map[TokenKind]string{
	TokenEOF:      "end of input",
	TokenIdent:    "identifier",
	TokenAt:       "'@'",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLAngle:   "'<'",
	TokenRAngle:   "'>'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenComma:    "','",
	TokenDot:      "'.'",
	TokenEllipsis: "'...'",
	TokenQuestion: "'?'",
	TokenAmp:      "'&'",
	TokenString:   "literal",
	TokenOther:    "symbol",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a lexical unit of signature text. Pos and End are byte offsets
// into the source, so callers can recover the raw text of a production.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
	End  int
}

type lexer struct {
	input string
	pos   int
}

// Tokenize splits signature text into tokens. Whitespace (including the
// non-breaking spaces javadoc emits) is dropped; the final token is always
// TokenEOF.
func Tokenize(input string) []Token {
	l := &lexer{input: input}
	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *lexer) skipSpace() {
	for {
		r, size := l.peekRune()
		if size == 0 || !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) next() Token {
	l.skipSpace()
	start := l.pos
	r, size := l.peekRune()
	if size == 0 {
		return Token{Kind: TokenEOF, Pos: start, End: start}
	}

	if isIdentStart(r) {
		l.pos += size
		for {
			r, size := l.peekRune()
			if size == 0 || !isIdentPart(r) {
				break
			}
			l.pos += size
		}
		return l.emit(TokenIdent, start)
	}

	if r == '"' || r == '\'' {
		l.scanQuoted(byte(r))
		return l.emit(TokenString, start)
	}

	if unicode.IsDigit(r) {
		for {
			r, size := l.peekRune()
			if size == 0 || !(isIdentPart(r) || r == '.') {
				break
			}
			l.pos += size
		}
		return l.emit(TokenString, start)
	}

	if r == '.' && len(l.input)-l.pos >= 3 && l.input[l.pos:l.pos+3] == "..." {
		l.pos += 3
		return l.emit(TokenEllipsis, start)
	}

	l.pos += size
	switch r {
	case '@':
		return l.emit(TokenAt, start)
	case '(':
		return l.emit(TokenLParen, start)
	case ')':
		return l.emit(TokenRParen, start)
	case '<':
		return l.emit(TokenLAngle, start)
	case '>':
		return l.emit(TokenRAngle, start)
	case '[':
		return l.emit(TokenLBracket, start)
	case ']':
		return l.emit(TokenRBracket, start)
	case '{':
		return l.emit(TokenLBrace, start)
	case '}':
		return l.emit(TokenRBrace, start)
	case ',':
		return l.emit(TokenComma, start)
	case '.':
		return l.emit(TokenDot, start)
	case '?':
		return l.emit(TokenQuestion, start)
	case '&':
		return l.emit(TokenAmp, start)
	}
	return l.emit(TokenOther, start)
}

// scanQuoted consumes a string or char literal, honoring backslash escapes.
// An unterminated literal runs to the end of input.
func (l *lexer) scanQuoted(quote byte) {
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		l.pos++
		if ch == '\\' && l.pos < len(l.input) {
			l.pos++
			continue
		}
		if ch == quote {
			return
		}
	}
}

func (l *lexer) emit(kind TokenKind, start int) Token {
	return Token{Kind: kind, Text: l.input[start:l.pos], Pos: start, End: l.pos}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
