// Package firgen lowers the typed, linearized normalized AST into FIR
// (spec.md §4.8): one Function per FuncDefinition, each with a dedicated
// entry block, zero or more body blocks, and a single return block.
package firgen

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/fir"
)

// Gen lowers every function definition in top into a fir.Module, recording
// every produced block in ctx.LabelToBlock (spec.md §4.8 post-pass, §3
// AnalysisContext.LabelToBlock).
func Gen(top *ast.TopLevel, ctx *semantic.AnalysisContext) *fir.Module {
	m := &fir.Module{}
	for _, section := range top.Sections {
		fn, ok := section.(*ast.FuncDefinition)
		if !ok {
			continue
		}
		f := genFunction(fn, ctx)
		m.Functions = append(m.Functions, f)
		for _, b := range f.Blocks {
			ctx.LabelToBlock[b.Label] = b
		}
	}
	return m
}

// funcBuilder tracks the block currently being filled ("current"; nil is a
// hole, spec.md §4.8 point 7) and the join-label map that lets a desugared
// else-if chain share a single end block (spec.md §4.8 point 3, §4.2
// "desugaredFrom").
type funcBuilder struct {
	fn         *fir.Function
	ctx        *semantic.AnalysisContext
	current    *fir.BasicBlock
	lastClosed *fir.BasicBlock
	joinLabels map[ast.NodeID]string
}

func genFunction(fn *ast.FuncDefinition, ctx *semantic.AnalysisContext) *fir.Function {
	params := make([]fir.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fir.Param{Name: p.Name, Type: p.Type}
	}

	f := &fir.Function{Name: fn.Name, Parameters: params, ReturnType: fn.ReturnType}

	returnLabel := fn.Name + "$return"
	retParam := fir.Param{Name: fn.Name + "$ret", Type: fn.ReturnType}
	returnBlock := &fir.BasicBlock{
		Label:      returnLabel,
		Parameter:  &retParam,
		Terminator: &fir.Return{Value: &fir.Identifier{Name: retParam.Name}},
	}
	f.ReturnBlock = returnBlock

	fb := &funcBuilder{fn: f, ctx: ctx, joinLabels: make(map[ast.NodeID]string)}
	fb.startBlock(fn.Name + "$entry")
	fb.lowerBlock(fn.Body, returnLabel)
	// A body that runs off the end without reaching the return block (a
	// Void function with no trailing return, or an unreachable-in-practice
	// gap left by the typechecker's "at least one return" rule rather than
	// full path exhaustiveness) falls through with the empty value.
	fb.jumpWithArg(returnLabel, &fir.EmptyTuple{})

	f.Blocks = append(f.Blocks, returnBlock)
	return f
}

func (fb *funcBuilder) freshLabel(root string) string {
	return fb.ctx.Gen.Gensym(fb.fn.Name + "$" + root)
}

func (fb *funcBuilder) startBlock(label string) {
	b := &fir.BasicBlock{Label: label}
	fb.fn.Blocks = append(fb.fn.Blocks, b)
	fb.current = b
}

// terminate closes the current block with t, or, if there is no live block
// (a hole), attaches t as an unreachable shadow terminator to the most
// recently closed block (spec.md §4.8 point 7).
func (fb *funcBuilder) terminate(t fir.Terminator) {
	if fb.current == nil {
		if fb.lastClosed != nil {
			fb.lastClosed.UnreachableTerminators = append(fb.lastClosed.UnreachableTerminators, t)
		}
		return
	}
	fb.current.Terminator = t
	fb.lastClosed = fb.current
	fb.current = nil
}

// jumpWithArg terminates the current block (if any) with a Branch carrying
// arg. A no-op when the block already has a terminator (current is a hole).
func (fb *funcBuilder) jumpWithArg(target string, arg fir.Expr) {
	if fb.current == nil {
		return
	}
	fb.terminate(&fir.Branch{Target: target, Arg: arg})
}

// jumpIfOpen terminates the current block (if any) with a bare jump to
// target, used to fall a then/else arm through into its join block.
func (fb *funcBuilder) jumpIfOpen(target string) {
	if fb.current == nil {
		return
	}
	fb.terminate(&fir.Branch{Target: target})
}

func (fb *funcBuilder) emit(s fir.Statement) {
	if fb.current == nil {
		// A statement with no live block to hold it (e.g. code following an
		// unconditional return within the same source block); still record
		// it so nothing is silently dropped.
		fb.startBlock(fb.freshLabel("unreachable"))
	}
	fb.current.Statements = append(fb.current.Statements, s)
}

func (fb *funcBuilder) lowerBlock(b *ast.Block, returnLabel string) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		fb.lowerStatement(stmt, returnLabel)
	}
}

func (fb *funcBuilder) lowerStatement(stmt ast.Statement, returnLabel string) {
	switch n := stmt.(type) {
	case *ast.DefinitionNode:
		fb.emit(&fir.Assignment{Name: n.Name, Rhs: lowerExpr(n.Expr)})

	case *ast.AssignmentStatement:
		fb.emit(&fir.Assignment{Name: n.Name, Rhs: lowerExpr(n.Expr)})

	case *ast.ReturnStatement:
		var val fir.Expr = &fir.EmptyTuple{}
		if n.Expr != nil {
			val = lowerExpr(n.Expr)
		}
		fb.terminate(&fir.Branch{Target: returnLabel, Arg: val})

	case *ast.ExpressionStatement:
		if call, ok := lowerExpr(n.Expression).(*fir.Call); ok {
			fb.emit(&fir.CallStatement{Call: call})
		}

	case *ast.IfStatement:
		fb.lowerIf(n, returnLabel)

	case *ast.Block:
		fb.lowerBlock(n, returnLabel)
	}
}

// lowerIf implements spec.md §4.8 point 3: a ConditionalBranch on the
// (not-yet-short-circuited) condition expression, then/else body blocks,
// and a join block reused across an entire desugared else-if chain via
// DesugaredFrom.
func (fb *funcBuilder) lowerIf(n *ast.IfStatement, returnLabel string) {
	cond := lowerExpr(n.Condition)
	thenLabel := fb.freshLabel("if_then")

	hasElse := n.ElseBranch != nil
	var elseLabel string
	if hasElse {
		elseLabel = fb.freshLabel("if_else")
	}

	chainID := n.ID()
	if n.DesugaredFrom != 0 {
		chainID = n.DesugaredFrom
	}
	joinLabel, ok := fb.joinLabels[chainID]
	if !ok {
		joinLabel = fb.freshLabel("if_end")
		fb.joinLabels[chainID] = joinLabel
	}

	elseOrJoin := joinLabel
	if hasElse {
		elseOrJoin = elseLabel
	}
	fb.terminate(&fir.ConditionalBranch{Cond: cond, Then: thenLabel, Else: elseOrJoin})

	fb.startBlock(thenLabel)
	fb.lowerStatement(n.ThenBranch, returnLabel)
	fb.jumpIfOpen(joinLabel)

	if hasElse {
		fb.startBlock(elseLabel)
		fb.lowerStatement(n.ElseBranch, returnLabel)
		fb.jumpIfOpen(joinLabel)
	}

	// Only the outermost arm of a desugared else-if chain materializes the
	// shared join block; an inner arm (DesugaredFrom != 0) leaves the
	// builder on a hole so control falls through to the one join block the
	// outermost starts once every arm has finished branching into it.
	// Opening it once per arm would produce a distinct block per arm under
	// the same reused label, violating §3's per-module label-uniqueness
	// invariant.
	if n.DesugaredFrom == 0 {
		fb.startBlock(joinLabel)
	}
}

// lowerExpr translates a normalized-AST expression into its FIR equivalent.
// No control-flow expansion happens here; compound boolean conditions are
// left intact for ShortCircuitLower (spec.md §4.8: "cond lowered as an
// expression (no side-effecting control yet at this layer)").
func lowerExpr(expr ast.Expression) fir.Expr {
	switch e := expr.(type) {
	case *ast.Identifier:
		return &fir.Identifier{Name: e.Name}
	case *ast.IntegerLiteral:
		return &fir.Integer{Value: e.Value}
	case *ast.BooleanLiteral:
		return &fir.Boolean{Value: e.Value}
	case *ast.UnaryOperation:
		return &fir.Unary{Op: e.Op, Expr: lowerExpr(e.Expr)}
	case *ast.BinaryOperation:
		return &fir.Binary{Op: e.Op, Lhs: lowerExpr(e.Lhs), Rhs: lowerExpr(e.Rhs)}
	case *ast.FuncApplication:
		args := make([]fir.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = lowerExpr(a)
		}
		return &fir.Call{Func: e.Name, Args: args}
	default:
		return &fir.EmptyTuple{}
	}
}
