package firlower

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/fir"
)

// ArithmeticLinearize rewrites every compound arithmetic FIR expression
// (spec.md §4.10) so it appears as the RHS of exactly one Assignment,
// never nested inside another expression. It skips the return block, which
// only ever holds a Return of a single Identifier (spec.md §3 invariant
// (d): "the return block is never mutated after FIR generation").
//
// A sub-expression that is already the direct Rhs of an Assignment is left
// under its existing name rather than
// renamed to a fresh temporary: renaming a real binding's target would
// break every later reference to it. Only genuinely nested compounds — an
// arithmetic Binary found inside a Call's argument list, inside another
// Binary, or inside a terminator's Cond/Arg — are hoisted to a fresh name.
func ArithmeticLinearize(m *fir.Module, ctx *semantic.AnalysisContext) {
	for _, fn := range m.Functions {
		for _, b := range fn.Blocks {
			if b == fn.ReturnBlock {
				continue
			}
			linearizeBlock(b, ctx)
		}
	}
}

func linearizeBlock(b *fir.BasicBlock, ctx *semantic.AnalysisContext) {
	var out []fir.Statement
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *fir.Assignment:
			s.Rhs = linearizeTop(s.Rhs, &out, ctx)
			out = append(out, s)
		case *fir.CallStatement:
			for i := range s.Call.Args {
				s.Call.Args[i] = linearizeUse(s.Call.Args[i], &out, ctx)
			}
			out = append(out, s)
		default:
			out = append(out, stmt)
		}
	}

	switch t := b.Terminator.(type) {
	case *fir.Branch:
		if t.Arg != nil {
			t.Arg = linearizeUse(t.Arg, &out, ctx)
		}
	case *fir.ConditionalBranch:
		t.Cond = linearizeUse(t.Cond, &out, ctx)
	}

	b.Statements = out
}

// linearizeTop processes an expression already sitting in an Assignment's
// Rhs slot: an arithmetic Binary at this level is left there (it already
// satisfies the invariant), but its operands are linearized as use sites.
func linearizeTop(expr fir.Expr, pre *[]fir.Statement, ctx *semantic.AnalysisContext) fir.Expr {
	bin, ok := expr.(*fir.Binary)
	if !ok || !ast.IsArithmeticOp(bin.Op) {
		return linearizeUse(expr, pre, ctx)
	}
	bin.Lhs = linearizeUse(bin.Lhs, pre, ctx)
	bin.Rhs = linearizeUse(bin.Rhs, pre, ctx)
	return bin
}

// linearizeUse processes an expression found nested inside another
// expression or a terminator: a compound arithmetic Binary here must be
// hoisted to a fresh temporary Assignment appended to *pre, and replaced
// with a reference to it.
func linearizeUse(expr fir.Expr, pre *[]fir.Statement, ctx *semantic.AnalysisContext) fir.Expr {
	switch e := expr.(type) {
	case *fir.Identifier, *fir.Integer, *fir.Boolean, *fir.EmptyTuple:
		return e

	case *fir.Unary:
		e.Expr = linearizeUse(e.Expr, pre, ctx)
		return e

	case *fir.Binary:
		e.Lhs = linearizeUse(e.Lhs, pre, ctx)
		e.Rhs = linearizeUse(e.Rhs, pre, ctx)
		if !ast.IsArithmeticOp(e.Op) {
			return e
		}
		name := ctx.Gen.Gensym("bin_op")
		*pre = append(*pre, &fir.Assignment{Name: name, Rhs: e})
		return &fir.Identifier{Name: name}

	case *fir.Call:
		for i := range e.Args {
			e.Args[i] = linearizeUse(e.Args[i], pre, ctx)
		}
		return e

	default:
		return expr
	}
}
