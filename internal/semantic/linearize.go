package semantic

import "github.com/cwbudde/go-dws/pkg/ast"

// LinearizePass rewrites the normalized AST so every compound arithmetic
// sub-expression is replaced by an immutable temporary definition
// introduced immediately before its use, while boolean compound
// expressions are left intact so ShortCircuitLower can exploit
// short-circuit evaluation later in the pipeline (spec.md §4.7).
type LinearizePass struct{}

func (LinearizePass) Name() string { return "Linearize" }

func (LinearizePass) Run(top *ast.TopLevel, ctx *AnalysisContext) error {
	lz := &linearizer{ctx: ctx}

	offset := 0
	for i, section := range top.Sections {
		switch n := section.(type) {
		case *ast.DefinitionNode:
			var pre []ast.Statement
			n.Expr = lz.expr(n.Expr, &pre, true)
			if len(pre) > 0 {
				top.Sections = spliceSections(top.Sections, i+offset, pre)
				offset += len(pre)
			}
		case *ast.FuncDefinition:
			n.Body = lz.block(n.Body)
		}
	}
	return nil
}

// spliceSections places a top-level definition's temporaries ahead of it,
// mirroring block-level splicing. Returned slice has pre inserted
// immediately before index i.
func spliceSections(sections []ast.Statement, i int, pre []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(sections)+len(pre))
	out = append(out, sections[:i]...)
	out = append(out, pre...)
	out = append(out, sections[i:]...)
	return out
}

type linearizer struct {
	ctx *AnalysisContext
}

func (lz *linearizer) block(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	var out []ast.Statement
	for _, stmt := range b.Statements {
		out = append(out, lz.statement(stmt)...)
	}
	b.Statements = out
	return b
}

func (lz *linearizer) statement(stmt ast.Statement) []ast.Statement {
	switch n := stmt.(type) {
	case *ast.DefinitionNode:
		var pre []ast.Statement
		n.Expr = lz.expr(n.Expr, &pre, true)
		return append(pre, n)

	case *ast.AssignmentStatement:
		var pre []ast.Statement
		n.Expr = lz.expr(n.Expr, &pre, true)
		return append(pre, n)

	case *ast.ReturnStatement:
		if n.Expr == nil {
			return []ast.Statement{n}
		}
		var pre []ast.Statement
		n.Expr = lz.expr(n.Expr, &pre, true)
		return append(pre, n)

	case *ast.ExpressionStatement:
		var pre []ast.Statement
		// The call itself is the statement; it is never bound to a
		// temporary (there is no use site to bind it to), though its
		// arguments are linearized normally.
		n.Expression = lz.expr(n.Expression, &pre, false)
		return append(pre, n)

	case *ast.IfStatement:
		// Temporaries hoisted out of the condition are spliced ahead of
		// the if statement itself; the condition stays unbound.
		var pre []ast.Statement
		n.Condition = lz.expr(n.Condition, &pre, false)
		n.ThenBranch = lz.branch(n.ThenBranch)
		n.ElseBranch = lz.branch(n.ElseBranch)
		return append(pre, n)

	default:
		return []ast.Statement{stmt}
	}
}

func (lz *linearizer) branch(stmt ast.Statement) ast.Statement {
	switch n := stmt.(type) {
	case nil:
		return nil
	case *ast.Block:
		return lz.block(n)
	case *ast.IfStatement:
		n.Condition = lz.condition(n.Condition)
		n.ThenBranch = lz.branch(n.ThenBranch)
		n.ElseBranch = lz.branch(n.ElseBranch)
		return n
	default:
		return n
	}
}

// condition linearizes an if-condition's expression in place: arithmetic
// operands nested under boolean operators may still be hoisted, but the
// outermost boolean expression is never bound to a temporary, so FIRGen and
// ShortCircuitLower continue to see it in expression form.
func (lz *linearizer) condition(cond ast.Expression) ast.Expression {
	var pre []ast.Statement
	rewritten := lz.expr(cond, &pre, false)
	if len(pre) == 0 {
		return rewritten
	}
	// condition is reached only for an if statement sitting directly in a
	// branch slot, which has no statement list in front of it, so any
	// temporaries in pre are not placed anywhere. Desugar always wraps a
	// nested if in a Block, which statement handles instead.
	return rewritten
}

// expr implements spec.md §4.7's per-expression linearization policy.
// bindable is the inherited context flag: true means the caller would
// accept the whole expression being replaced by a temporary identifier.
func (lz *linearizer) expr(expr ast.Expression, pre *[]ast.Statement, bindable bool) ast.Expression {
	switch n := expr.(type) {
	case *ast.Identifier, *ast.IntegerLiteral, *ast.BooleanLiteral:
		return n

	case *ast.UnaryOperation:
		n.Expr = lz.expr(n.Expr, pre, true)
		return n

	case *ast.BinaryOperation:
		if ast.IsArithmeticOp(n.Op) {
			n.Lhs = lz.expr(n.Lhs, pre, true)
			n.Rhs = lz.expr(n.Rhs, pre, true)
			if bindable {
				return lz.bind(n, pre)
			}
			return n
		}
		// Boolean binary: operands may still be hoisted, but the boolean
		// result itself is never bound (spec.md §4.7).
		n.Lhs = lz.expr(n.Lhs, pre, true)
		n.Rhs = lz.expr(n.Rhs, pre, true)
		return n

	case *ast.FuncApplication:
		for i, a := range n.Args {
			n.Args[i] = lz.expr(a, pre, true)
		}
		if bindable {
			return lz.bind(n, pre)
		}
		return n

	default:
		return expr
	}
}

// bind introduces a fresh immutable temporary binding for expr,
// immediately before its use, and returns an Identifier referencing it.
func (lz *linearizer) bind(expr ast.Expression, pre *[]ast.Statement) ast.Expression {
	name := lz.ctx.Gen.Gensym("tmp")
	typ := lz.ctx.TypeCache[expr.ID()]

	def := ast.NewDefinitionNode(expr.Pos(), name, &typ, expr, true)
	*pre = append(*pre, def)

	id := ast.NewIdentifier(expr.Pos(), name)
	id.SetType(typ)
	lz.ctx.TypeCache[id.ID()] = typ
	return id
}
