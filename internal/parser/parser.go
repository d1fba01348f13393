// Package parser implements QL's hand-written recursive-descent,
// precedence-climbing parser with pluggable panic-mode error recovery
// (spec.md §4.1).
package parser

import (
	"github.com/cwbudde/go-dws/internal/lexer"
	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/token"
)

// Parser turns a token stream into a raw AST (pkg/ast.RawTopLevel) plus a
// list of diagnostics (spec.md §4.1 contract: "Always returns a tree even
// on malformed input").
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errs []Diagnostic

	recovery RecoveryEngine

	// unrecoverable is set once a StrategyUnrecoverable error fires; the
	// top-level ParseProgram loop stops producing further sections once
	// this is true, per spec.md §4.1 ("Unrecoverable aborts the whole
	// parse after recording the diagnostic").
	unrecoverable bool
}

// Diagnostic is a single parser error, in the shape spec.md §7 describes.
type Diagnostic struct {
	Kind    string
	Message string
	Pos     token.Position
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithRecoveryEngine overrides the default recovery policy (spec.md §4.1:
// "driven by a pluggable RecoveryEngine").
func WithRecoveryEngine(engine RecoveryEngine) Option {
	return func(p *Parser) { p.recovery = engine }
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{l: l, recovery: DefaultRecoveryEngine{}}
	for _, opt := range opts {
		opt(p)
	}
	// Prime cur/peek.
	p.advance()
	p.advance()
	return p
}

// Errors returns the diagnostics accumulated during parsing.
func (p *Parser) Errors() []Diagnostic { return p.errs }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

// record adds a diagnostic for kind at the current token and applies the
// recovery engine's chosen strategy, returning that strategy
// (StrategyUnrecoverable when the parse must stop entirely).
func (p *Parser) record(kind ErrorKind) Strategy {
	errKind, msg := kindMessage(kind, p.cur)
	p.errs = append(p.errs, Diagnostic{Kind: errKind, Message: msg, Pos: p.cur.Pos})

	rec := p.recovery.Recover(kind)
	switch rec.Strategy {
	case StrategyDropUntil:
		p.dropUntil(rec.Set)
	case StrategyUnrecoverable:
		p.unrecoverable = true
	}
	return rec.Strategy
}

// dropUntil consumes tokens until one in set is next (or EOF), then
// consumes that token too, per spec.md §4.1.
func (p *Parser) dropUntil(set []token.Type) {
	for {
		if p.curIs(token.EOF) {
			return
		}
		for _, t := range set {
			if p.curIs(t) {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// expect consumes cur if it matches t, otherwise records kind via the
// recovery engine (spec.md §4.1's "expectation helper").
func (p *Parser) expect(t token.Type, kind ErrorKind) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.record(kind)
	return false
}

// ParseProgram parses the whole token stream and returns the raw AST plus
// any diagnostics recorded along the way.
func (p *Parser) ParseProgram() *ast.RawTopLevel {
	top := &ast.RawTopLevel{}

	for !p.curIs(token.EOF) && !p.unrecoverable {
		section := p.parseTopLevelSection()
		if section != nil {
			top.Sections = append(top.Sections, section)
		}
	}

	return top
}

// parseTopLevelSection parses one optionally-attributed top-level
// construct: a function definition, a let/var definition, or a bare call
// statement (spec.md §3 grammar: `program := (funcDef | def | callStmt)*`).
func (p *Parser) parseTopLevelSection() ast.Statement {
	if p.curIs(token.AT_MAIN) {
		pos := p.cur.Pos
		p.advance()
		if !p.curIs(token.FUNC) {
			p.record(ExpectedTopLevelStatementOther)
			return ast.NewIncompleteStmt(pos, "AttributedNode")
		}
		fn := p.parseFuncDef()
		return ast.NewRawAttributedNode(pos, ast.AttributeMain, fn)
	}

	switch p.cur.Type {
	case token.FUNC:
		return p.parseFuncDef()
	case token.LET, token.VAR:
		return p.parseDef()
	case token.IDENT:
		return p.parseCallStatement()
	case token.EOF:
		p.record(ExpectedTopLevelStatementEOF)
		return nil
	case token.IF, token.ELSE:
		p.record(ExpectedTopLevelStatementKeyword)
		return ast.NewIncompleteStmt(p.cur.Pos, "TopLevelStatement")
	default:
		p.record(ExpectedTopLevelStatementOther)
		return ast.NewIncompleteStmt(p.cur.Pos, "TopLevelStatement")
	}
}
