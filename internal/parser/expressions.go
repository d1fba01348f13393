package parser

import (
	"strconv"

	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/token"
)

// Binding powers fixed by spec.md §4.1: || < && < +,- < *.
const (
	precLowest = iota
	precOr
	precAnd
	precAdditive
	precMultiplicative
)

// binOps maps an infix operator token to its left binding power and
// literal spelling.
var binOps = map[token.Type]struct {
	prec int
	op   string
}{
	token.OR:    {precOr, "||"},
	token.AND:   {precAnd, "&&"},
	token.PLUS:  {precAdditive, "+"},
	token.MINUS: {precAdditive, "-"},
	token.STAR:  {precMultiplicative, "*"},
}

// parseExpression implements spec.md §4.1's precedence-climbing algorithm:
// parse a primary, then repeatedly consume binary operators whose left
// binding power is >= min, recurring with the operator's binding power + 1
// for the right operand (left-associative).
func (p *Parser) parseExpression(min int) ast.Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for {
		info, ok := binOps[p.cur.Type]
		if !ok {
			return left
		}
		if info.prec < min {
			return left
		}

		pos := p.cur.Pos
		op := info.op
		p.advance() // consume operator

		right := p.parseExpression(info.prec + 1)
		if right == nil {
			return nil
		}
		left = ast.NewRawBinary(pos, op, left, right)
	}
}

// parsePrimary parses a primary expression: an identifier (possibly a
// function application), a number literal, a boolean literal, a
// parenthesized sub-expression, or a unary-prefixed primary.
func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Type {
	case token.BANG, token.MINUS:
		op := p.cur.Literal
		pos := p.cur.Pos
		p.advance()
		operand := p.parsePrimary()
		if operand == nil {
			return nil
		}
		return ast.NewRawUnary(pos, op, operand)

	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return nil
		}
		if !p.expect(token.RPAREN, ExpectedRightParen) {
			return nil
		}
		return expr

	case token.NUMBER:
		pos := p.cur.Pos
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			p.record(ExpectedExpression)
			return nil
		}
		p.advance()
		return ast.NewRawNumber(pos, n)

	case token.TRUE, token.FALSE:
		pos := p.cur.Pos
		val := p.cur.Type == token.TRUE
		p.advance()
		return ast.NewRawBoolean(pos, val)

	case token.IDENT:
		pos := p.cur.Pos
		name := p.cur.Literal
		if p.peekIs(token.LPAREN) {
			return p.parseFuncAppFrom(pos, name)
		}
		p.advance()
		return ast.NewRawIdentifier(pos, name)

	default:
		p.record(ExpectedExpression)
		return nil
	}
}

// parseFuncAppFrom parses the argument list of a function application whose
// name token has already been observed but not yet consumed (cur is still
// the identifier; peek is '(').
func (p *Parser) parseFuncAppFrom(pos token.Position, name string) *ast.RawFuncApp {
	p.advance() // consume identifier
	p.advance() // consume '('

	var args []ast.Expression
	if !p.curIs(token.RPAREN) {
		for {
			arg := p.parseExpression(precLowest)
			if arg == nil {
				if p.curIs(token.EOF) {
					p.record(ExpectedFunctionArgumentEOF)
				} else {
					p.record(ExpectedFunctionArgumentOther)
				}
				return nil
			}
			args = append(args, arg)

			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	if !p.expect(token.RPAREN, ExpectedRightParenFuncApp) {
		return nil
	}

	return ast.NewRawFuncApp(pos, name, args)
}
