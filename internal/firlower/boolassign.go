package firlower

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/fir"
)

// lowerFunctionBooleanValues implements spec.md §4.9's sibling
// "BooleanAssignmentShortCircuiting" pass: a compound boolean expression
// appearing as an Assignment's Rhs, or as the Arg of a Branch into the
// return block (i.e. a `return <bool expr>;`), is expanded into a pair of
// trivial true/false blocks that join on a boolean block parameter, with
// the original assignment/return continuing from the join block.
func lowerFunctionBooleanValues(fn *fir.Function, ctx *semantic.AnalysisContext) {
	for _, b := range fn.Blocks {
		if b == fn.ReturnBlock {
			continue
		}
		processBlockBooleanValues(fn, b, ctx)
	}
}

func processBlockBooleanValues(fn *fir.Function, b *fir.BasicBlock, ctx *semantic.AnalysisContext) {
	for i, stmt := range b.Statements {
		asn, ok := stmt.(*fir.Assignment)
		if !ok || !isCompoundBool(asn.Rhs) {
			continue
		}
		splitOnAssignment(fn, b, i, asn, ctx)
		return
	}

	if br, ok := b.Terminator.(*fir.Branch); ok && br.Arg != nil && isCompoundBool(br.Arg) {
		splitOnTerminatorArg(fn, b, br, ctx)
	}
}

// splitOnAssignment rewrites b so that asn's compound-bool Rhs is computed
// by short-circuiting control flow joining on a fresh boolean parameter,
// then resumes b's remaining statements and original terminator from the
// join block.
func splitOnAssignment(fn *fir.Function, b *fir.BasicBlock, i int, asn *fir.Assignment, ctx *semantic.AnalysisContext) {
	pre := b.Statements[:i]
	post := append([]fir.Statement{}, b.Statements[i+1:]...)

	paramName := ctx.Gen.Gensym(fn.Name + "$sc_bool")
	joinLabel := ctx.Gen.Gensym(fn.Name + "$sc_join")
	trueLabel := ctx.Gen.Gensym(fn.Name + "$sc_true")
	falseLabel := ctx.Gen.Gensym(fn.Name + "$sc_false")

	joinBlock := &fir.BasicBlock{
		Label:      joinLabel,
		Parameter:  &fir.Param{Name: paramName, Type: ast.Bool},
		Statements: append([]fir.Statement{&fir.Assignment{Name: asn.Name, Rhs: &fir.Identifier{Name: paramName}}}, post...),
		Terminator: b.Terminator,
	}
	trueBlock := &fir.BasicBlock{Label: trueLabel, Terminator: &fir.Branch{Target: joinLabel, Arg: &fir.Boolean{Value: true}}}
	falseBlock := &fir.BasicBlock{Label: falseLabel, Terminator: &fir.Branch{Target: joinLabel, Arg: &fir.Boolean{Value: false}}}

	lw := &condLowerer{ctx: ctx, fn: fn}
	entryLabel := lw.freshLabel("sc_entry")
	lw.lowerBool(asn.Rhs, trueLabel, falseLabel, false, entryLabel)

	b.Statements = pre
	b.Terminator = &fir.Branch{Target: entryLabel}

	fn.Blocks = append(fn.Blocks, lw.blocks...)
	fn.Blocks = append(fn.Blocks, trueBlock, falseBlock, joinBlock)

	// The join block inherits whatever statements followed the rewritten
	// assignment, which may themselves contain a further boolean-valued
	// assignment or return.
	processBlockBooleanValues(fn, joinBlock, ctx)
}

// splitOnTerminatorArg handles `return <bool expr>;`, lowered by FIRGen to a
// Branch into the return block carrying the compound boolean as Arg.
func splitOnTerminatorArg(fn *fir.Function, b *fir.BasicBlock, br *fir.Branch, ctx *semantic.AnalysisContext) {
	paramName := ctx.Gen.Gensym(fn.Name + "$sc_bool")
	joinLabel := ctx.Gen.Gensym(fn.Name + "$sc_join")
	trueLabel := ctx.Gen.Gensym(fn.Name + "$sc_true")
	falseLabel := ctx.Gen.Gensym(fn.Name + "$sc_false")

	joinBlock := &fir.BasicBlock{
		Label:      joinLabel,
		Parameter:  &fir.Param{Name: paramName, Type: ast.Bool},
		Terminator: &fir.Branch{Target: br.Target, Arg: &fir.Identifier{Name: paramName}},
	}
	trueBlock := &fir.BasicBlock{Label: trueLabel, Terminator: &fir.Branch{Target: joinLabel, Arg: &fir.Boolean{Value: true}}}
	falseBlock := &fir.BasicBlock{Label: falseLabel, Terminator: &fir.Branch{Target: joinLabel, Arg: &fir.Boolean{Value: false}}}

	lw := &condLowerer{ctx: ctx, fn: fn}
	entryLabel := lw.freshLabel("sc_entry")
	lw.lowerBool(br.Arg, trueLabel, falseLabel, false, entryLabel)

	b.Terminator = &fir.Branch{Target: entryLabel}

	fn.Blocks = append(fn.Blocks, lw.blocks...)
	fn.Blocks = append(fn.Blocks, trueBlock, falseBlock, joinBlock)
}
