// Package parser turns unit expression source text into ast nodes.
//
// The surface syntax is small: names, the literal 1, products with *,
// quotients with /, integer exponents with ^, and parentheses. Equations
// join two expressions with =, and a source file holds equations separated
// by newlines or semicolons, with # starting a comment that runs to the end
// of the line.
//
// Whether a name is a base unit or a unit variable is decided by its first
// letter: upper-case names are base units, anything else is a variable.
package parser

import (
	"fmt"
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/uomerr"
	"go/token"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenInt
	tokenStar      // "*"
	tokenSlash     // "/"
	tokenCaret     // "^"
	tokenMinus     // "-", only meaningful after "^"
	tokenLParen    // "("
	tokenRParen    // ")"
	tokenEquals    // "="
	tokenSeparator // newline or ";"
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "name"
	case tokenInt:
		return "integer"
	case tokenStar:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenCaret:
		return "'^'"
	case tokenMinus:
		return "'-'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenEquals:
		return "'='"
	case tokenSeparator:
		return "end of equation"
	}
	return "unknown token"
}

// lexToken is a lexical token together with its byte offset in the source.
type lexToken struct {
	typ    tokenType
	lexeme string
	offset int
}

func (t lexToken) describe() string {
	switch t.typ {
	case tokenIdent, tokenInt:
		return fmt.Sprintf("%v '%s'", t.typ, t.lexeme)
	default:
		return t.typ.String()
	}
}

func (t lexToken) rangeOf() ast.Range {
	return ast.Range{
		PosStart: token.Pos(t.offset),
		PosEnd:   token.Pos(t.offset + len(t.lexeme)),
	}
}

type lexer struct {
	src    string
	start  int
	cur    int
	tokens []lexToken
	errs   *uomerr.Errors
}

// lex scans the whole source. Unknown characters are reported and skipped
// so that the parser still sees everything that did scan.
func lex(src string) ([]lexToken, *uomerr.Errors) {
	l := &lexer{src: src}
	for !l.isAtEnd() {
		l.skipBlanksAndComments()
		if l.isAtEnd() {
			break
		}
		l.start = l.cur
		l.scanToken()
	}
	l.tokens = append(l.tokens, lexToken{typ: tokenEOF, offset: len(src)})
	return l.tokens, l.errs
}

func (l *lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	return r
}

func (l *lexer) addToken(typ tokenType) {
	l.tokens = append(l.tokens, lexToken{
		typ:    typ,
		lexeme: l.src[l.start:l.cur],
		offset: l.start,
	})
}

func (l *lexer) skipBlanksAndComments() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) scanToken() {
	r := l.advance()
	switch {
	case r == '\n' || r == ';':
		l.addToken(tokenSeparator)
	case r == '*':
		l.addToken(tokenStar)
	case r == '/':
		l.addToken(tokenSlash)
	case r == '^':
		l.addToken(tokenCaret)
	case r == '-':
		l.addToken(tokenMinus)
	case r == '(':
		l.addToken(tokenLParen)
	case r == ')':
		l.addToken(tokenRParen)
	case r == '=':
		l.addToken(tokenEquals)
	case isDigit(r):
		l.scanNumber()
	case isNameStart(r):
		l.scanIdentifier()
	default:
		l.errs = l.errs.With(uomerr.New(uomerr.NewParse{
			Positioner:    ast.Range{PosStart: token.Pos(l.start), PosEnd: token.Pos(l.cur)},
			ParserMessage: fmt.Sprintf("unexpected character %q", r),
		}))
	}
}

func (l *lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	l.addToken(tokenInt)
}

func (l *lexer) scanIdentifier() {
	for isNamePart(l.peek()) {
		l.advance()
	}
	l.addToken(tokenIdent)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}
