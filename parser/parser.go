package parser

import (
	"fmt"
	"github.com/cottand/uom/ast"
	"github.com/cottand/uom/internal/log"
	"github.com/cottand/uom/uomerr"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var logger = log.DefaultLogger.With("section", "parser")

// ParseExpr parses a single unit expression, such as "Meter * Second^-1".
// The returned Errors is non-nil whenever the expression did not parse
// cleanly; check it before using the expression.
func ParseExpr(src string) (ast.Expr, *uomerr.Errors) {
	tokens, errs := lex(src)
	p := &parser{tokens: tokens, errs: errs}
	expr := p.parseExpr()
	if expr != nil {
		p.skipSeparators()
		p.expect(tokenEOF, "after the expression")
	}
	return expr, p.errs
}

// ParseEquation parses a single equation, such as "a = Meter / Second".
func ParseEquation(src string) (*ast.Equation, *uomerr.Errors) {
	tokens, errs := lex(src)
	p := &parser{tokens: tokens, errs: errs}
	eq := p.parseEquation()
	if eq != nil {
		p.skipSeparators()
		p.expect(tokenEOF, "after the equation")
	}
	return eq, p.errs
}

// ParseSource parses a whole source of equations separated by newlines or
// semicolons. A syntax error skips to the next equation, so a single bad
// line does not hide errors in the rest of the source.
func ParseSource(src string) ([]*ast.Equation, *uomerr.Errors) {
	tokens, errs := lex(src)
	p := &parser{tokens: tokens, errs: errs}
	var eqs []*ast.Equation
	for {
		p.skipSeparators()
		if p.check(tokenEOF) {
			break
		}
		eq := p.parseEquation()
		if eq == nil {
			p.syncToSeparator()
			continue
		}
		eqs = append(eqs, eq)
		if !p.check(tokenEOF) && !p.check(tokenSeparator) {
			tok := p.current()
			p.errorAt(tok, fmt.Sprintf("expected end of equation, found %s", tok.describe()), "")
			p.syncToSeparator()
		}
	}
	logger.Debug("parsed source", "equations", len(eqs), "hadErrors", p.errs.HasError())
	return eqs, p.errs
}

type parser struct {
	tokens []lexToken
	pos    int
	errs   *uomerr.Errors
}

func (p *parser) current() lexToken { return p.tokens[p.pos] }

func (p *parser) check(typ tokenType) bool { return p.current().typ == typ }

func (p *parser) advance() lexToken {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) match(typ tokenType) bool {
	if !p.check(typ) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) expect(typ tokenType, context string) (lexToken, bool) {
	if p.check(typ) {
		return p.advance(), true
	}
	tok := p.current()
	p.errorAt(tok, fmt.Sprintf("expected %v %s, found %s", typ, context, tok.describe()), "")
	return tok, false
}

func (p *parser) errorAt(tok lexToken, msg, hint string) {
	p.errs = p.errs.With(uomerr.New(uomerr.NewParse{
		Positioner:    tok.rangeOf(),
		ParserMessage: msg,
		Hint:          hint,
	}))
}

func (p *parser) skipSeparators() {
	for p.match(tokenSeparator) {
	}
}

// syncToSeparator discards tokens up to the next equation boundary so
// parsing can resume after an error.
func (p *parser) syncToSeparator() {
	for !p.check(tokenEOF) && !p.check(tokenSeparator) {
		p.advance()
	}
}

func (p *parser) parseEquation() *ast.Equation {
	lhs := p.parseExpr()
	if lhs == nil {
		return nil
	}
	if _, ok := p.expect(tokenEquals, "between the two sides of the equation"); !ok {
		return nil
	}
	rhs := p.parseExpr()
	if rhs == nil {
		return nil
	}
	return &ast.Equation{Range: ast.RangeBetween(lhs, rhs), Lhs: lhs, Rhs: rhs}
}

// parseExpr parses a product: terms joined by * and /, associating left.
// A quotient is sugar for multiplying by the inverse.
func (p *parser) parseExpr() ast.Expr {
	lhs := p.parseTerm()
	if lhs == nil {
		return nil
	}
	for p.check(tokenStar) || p.check(tokenSlash) {
		op := p.advance()
		rhs := p.parseTerm()
		if rhs == nil {
			return nil
		}
		if op.typ == tokenSlash {
			rhs = &ast.Inverse{Range: ast.RangeOf(rhs), Of: rhs}
		}
		lhs = &ast.Product{Range: ast.RangeBetween(lhs, rhs), Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

// parseTerm parses a factor with an optional integer exponent. The exponent
// binds tighter than * and /, so Meter * Second^-1 divides by Second only.
func (p *parser) parseTerm() ast.Expr {
	factor := p.parseFactor()
	if factor == nil {
		return nil
	}
	if !p.match(tokenCaret) {
		return factor
	}
	negated := p.match(tokenMinus)
	numTok, ok := p.expect(tokenInt, "after '^'")
	if !ok {
		return nil
	}
	exp, err := strconv.Atoi(numTok.lexeme)
	if err != nil {
		p.errorAt(numTok, fmt.Sprintf("exponent '%s' is out of range", numTok.lexeme), "")
		return nil
	}
	if negated {
		exp = -exp
	}
	rng := ast.RangeBetween(factor, numTok.rangeOf())
	if exp == -1 {
		return &ast.Inverse{Range: rng, Of: factor}
	}
	return &ast.Power{Range: rng, Of: factor, Exp: exp}
}

func (p *parser) parseFactor() ast.Expr {
	tok := p.current()
	switch tok.typ {
	case tokenIdent:
		p.advance()
		first, _ := utf8.DecodeRuneInString(tok.lexeme)
		if unicode.IsUpper(first) {
			return &ast.Base{Range: tok.rangeOf(), Name: tok.lexeme}
		}
		return &ast.Var{Range: tok.rangeOf(), Name: tok.lexeme}
	case tokenInt:
		p.advance()
		if tok.lexeme != "1" {
			p.errorAt(tok, fmt.Sprintf("unexpected number '%s'", tok.lexeme),
				"the only numeric unit is the dimensionless literal 1")
			return nil
		}
		return &ast.One{Range: tok.rangeOf()}
	case tokenLParen:
		p.advance()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(tokenRParen, "to close '('"); !ok {
			return nil
		}
		return expr
	default:
		// left unconsumed: if this is a separator it must still end the
		// equation once the caller resynchronises
		p.errorAt(tok, fmt.Sprintf("expected a unit expression, found %s", tok.describe()), "")
		return nil
	}
}
