// Package firlower implements the two FIR-level rewrites that run after
// FIRGen (spec.md §4.9-§4.10): ShortCircuitLower expands compound boolean
// expressions in branch and value position into short-circuiting control
// flow, and ArithmeticLinearize hoists every compound arithmetic FIR
// expression into its own named temporary.
package firlower

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/fir"
)

// ShortCircuitLower rewrites every ConditionalBranch whose condition is a
// compound boolean expression into a chain of leaf ConditionalBranches
// implementing short-circuit evaluation (spec.md §4.9), then runs the
// sibling BooleanAssignmentShortCircuiting pass for boolean-valued
// assignment/return expressions left in value position.
func ShortCircuitLower(m *fir.Module, ctx *semantic.AnalysisContext) {
	for _, fn := range m.Functions {
		lowerFunctionConditions(fn, ctx)
		lowerFunctionBooleanValues(fn, ctx)
	}
}

// isCompoundBool reports whether expr is the kind of boolean expression
// ShortCircuitLower must expand: a && / || binary, or a ! (not) unary
// wrapping any sub-expression (spec.md §8's post-condition invariant names
// exactly these two shapes as never surviving in a ConditionalBranch).
func isCompoundBool(expr fir.Expr) bool {
	switch e := expr.(type) {
	case *fir.Binary:
		return ast.IsBooleanOp(e.Op)
	case *fir.Unary:
		return e.Op == "!"
	default:
		return false
	}
}

// lowerFunctionConditions expands every ConditionalBranch terminator whose
// condition is compound. New blocks are collected and appended to the
// function only after every existing block has been scanned, matching
// spec.md §4.9's "new blocks generated during this pass are appended to the
// function after the rewrite."
func lowerFunctionConditions(fn *fir.Function, ctx *semantic.AnalysisContext) {
	var newBlocks []*fir.BasicBlock

	for _, b := range fn.Blocks {
		if b == fn.ReturnBlock {
			continue
		}
		cb, ok := b.Terminator.(*fir.ConditionalBranch)
		if !ok || !isCompoundBool(cb.Cond) {
			continue
		}

		lw := &condLowerer{ctx: ctx, fn: fn}
		entryLabel := lw.freshLabel("sc_entry")
		lw.lowerBool(cb.Cond, cb.Then, cb.Else, false, entryLabel)
		b.Terminator = &fir.Branch{Target: entryLabel}
		newBlocks = append(newBlocks, lw.blocks...)
	}

	fn.Blocks = append(fn.Blocks, newBlocks...)
}

type condLowerer struct {
	ctx    *semantic.AnalysisContext
	fn     *fir.Function
	blocks []*fir.BasicBlock
}

func (lw *condLowerer) freshLabel(root string) string {
	return lw.ctx.Gen.Gensym(lw.fn.Name + "$" + root)
}

// lowerBool implements spec.md §4.9's recursive rule table. label names the
// block this call must produce as the entry point of expr's evaluation;
// then/elseL are the labels control reaches depending on expr's (possibly
// negated) boolean value.
func (lw *condLowerer) lowerBool(expr fir.Expr, then, elseL string, negated bool, label string) {
	switch e := expr.(type) {
	case *fir.Unary:
		if e.Op == "!" {
			lw.lowerBool(e.Expr, then, elseL, !negated, label)
			return
		}
		lw.emitLeaf(expr, then, elseL, negated, label)

	case *fir.Binary:
		switch e.Op {
		case "&&":
			mid := lw.freshLabel("and_mid")
			if !negated {
				lw.lowerBool(e.Lhs, mid, elseL, false, label)
				lw.lowerBool(e.Rhs, then, elseL, false, mid)
			} else {
				// De Morgan: !(a && b) == !a || !b.
				lw.lowerBool(e.Lhs, then, mid, true, label)
				lw.lowerBool(e.Rhs, then, elseL, true, mid)
			}
		case "||":
			mid := lw.freshLabel("or_mid")
			if !negated {
				lw.lowerBool(e.Lhs, then, mid, false, label)
				lw.lowerBool(e.Rhs, then, elseL, false, mid)
			} else {
				// De Morgan: !(a || b) == !a && !b.
				lw.lowerBool(e.Lhs, mid, elseL, true, label)
				lw.lowerBool(e.Rhs, then, elseL, true, mid)
			}
		default:
			lw.emitLeaf(expr, then, elseL, negated, label)
		}

	default:
		lw.emitLeaf(expr, then, elseL, negated, label)
	}
}

// emitLeaf closes the chain: label becomes a block whose sole terminator is
// a direct ConditionalBranch on the (non-compound) leaf expression, with
// then/else swapped if this leaf is reached under negation.
func (lw *condLowerer) emitLeaf(expr fir.Expr, then, elseL string, negated bool, label string) {
	effThen, effElse := then, elseL
	if negated {
		effThen, effElse = elseL, then
	}
	b := &fir.BasicBlock{Label: label, Terminator: &fir.ConditionalBranch{Cond: expr, Then: effThen, Else: effElse}}
	lw.blocks = append(lw.blocks, b)
}
