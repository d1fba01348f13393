package passes

import (
	"strconv"

	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// TypecheckPass enforces spec.md §4.6's type rules, memoizing each
// expression's resolved TypeName in the context's type cache.
type TypecheckPass struct{}

func (TypecheckPass) Name() string { return "Typecheck" }

func (TypecheckPass) Run(top *ast.TopLevel, ctx *semantic.AnalysisContext) error {
	tc := &typechecker{ctx: ctx}

	for _, section := range top.Sections {
		switch n := section.(type) {
		case *ast.DefinitionNode:
			tc.checkTopLevelDefinition(n)
		case *ast.FuncDefinition:
			tc.checkFunction(n)
		}
	}
	return nil
}

type typechecker struct {
	ctx *semantic.AnalysisContext
}

func (tc *typechecker) checkTopLevelDefinition(n *ast.DefinitionNode) {
	env := map[string]ast.TypeName{}
	typ := tc.infer(n.Expr, env)
	tc.checkDefinitionAnnotation(n, typ)

	// SymbolTablePass records an unannotated top-level definition as Void
	// (it runs before inference); patch in the inferred type now so that
	// other functions resolving this name through ctx.Symbols (rather than
	// a local env) see its real type instead of a spurious Void.
	sym := tc.ctx.Symbols[n.Name]
	sym.Type = *n.Type
	tc.ctx.Symbols[n.Name] = sym
}

func (tc *typechecker) checkFunction(fn *ast.FuncDefinition) {
	env := map[string]ast.TypeName{}
	for _, p := range fn.Params {
		env[p.Name] = p.Type
	}

	tc.checkBlock(fn.Body, env, fn)

	if fn.ReturnType.Kind != "Void" && !hasReturnAnywhere(fn.Body) {
		tc.ctx.Diagnostics.Add("MissingReturn", "function '"+fn.Name+"' must have at least one return statement", fn.Pos())
	}
}

func (tc *typechecker) checkBlock(b *ast.Block, env map[string]ast.TypeName, fn *ast.FuncDefinition) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		tc.checkStatement(stmt, env, fn)
	}
}

func (tc *typechecker) checkStatement(stmt ast.Statement, env map[string]ast.TypeName, fn *ast.FuncDefinition) {
	switch n := stmt.(type) {
	case *ast.DefinitionNode:
		typ := tc.infer(n.Expr, env)
		tc.checkDefinitionAnnotation(n, typ)
		env[n.Name] = *n.Type

	case *ast.AssignmentStatement:
		target, ok := env[n.Name]
		if !ok {
			target, ok = tc.ctx.Symbols[n.Name].Type, tc.ctx.Symbols[n.Name].DeclID != 0
		}
		typ := tc.infer(n.Expr, env)
		if ok && !target.Equal(typ) {
			tc.ctx.Diagnostics.Add("AssignmentTypeMismatch", "cannot assign "+typ.String()+" to '"+n.Name+"' of type "+target.String(), n.Pos())
		}

	case *ast.ReturnStatement:
		tc.checkReturn(n, env, fn)

	case *ast.ExpressionStatement:
		tc.infer(n.Expression, env)

	case *ast.IfStatement:
		condType := tc.infer(n.Condition, env)
		if condType.Kind != "Bool" {
			tc.ctx.Diagnostics.Add("ConditionNotBool", "if condition must be Bool, got "+condType.String(), n.Condition.Pos())
		}
		tc.checkBranch(n.ThenBranch, env, fn)
		tc.checkBranch(n.ElseBranch, env, fn)
	}
}

func (tc *typechecker) checkBranch(stmt ast.Statement, env map[string]ast.TypeName, fn *ast.FuncDefinition) {
	switch n := stmt.(type) {
	case nil:
	case *ast.Block:
		// A fresh copy of env so bindings introduced in one arm don't leak
		// into the other (BindingCheck already enforced visibility; this
		// only protects the typechecker's own bookkeeping).
		child := make(map[string]ast.TypeName, len(env))
		for k, v := range env {
			child[k] = v
		}
		tc.checkBlock(n, child, fn)
	default:
		tc.checkStatement(n, env, fn)
	}
}

func (tc *typechecker) checkReturn(n *ast.ReturnStatement, env map[string]ast.TypeName, fn *ast.FuncDefinition) {
	if n.Expr == nil {
		if fn.ReturnType.Kind != "Void" {
			tc.ctx.Diagnostics.Add("ReturnTypeMismatch", "function '"+fn.Name+"' must return a value of type "+fn.ReturnType.String(), n.Pos())
		}
		return
	}

	typ := tc.infer(n.Expr, env)
	if fn.ReturnType.Kind == "Void" {
		tc.ctx.Diagnostics.Add("VoidReturnsValue", "function '"+fn.Name+"' declared Void must not return a value", n.Pos())
		return
	}
	if !fn.ReturnType.Equal(typ) {
		tc.ctx.Diagnostics.Add("ReturnTypeMismatch", "expected return type "+fn.ReturnType.String()+", got "+typ.String(), n.Pos())
	}
}

func (tc *typechecker) checkDefinitionAnnotation(n *ast.DefinitionNode, inferred ast.TypeName) {
	if n.Type != nil && !n.Type.Equal(inferred) {
		tc.ctx.Diagnostics.Add("DefinitionTypeMismatch", "'"+n.Name+"' annotated "+n.Type.String()+" but initializer is "+inferred.String(), n.Pos())
	}
	if n.Type == nil {
		n.Type = &inferred
	}
	tc.ctx.TypeCache[n.ID()] = inferred
}

// infer resolves expr's type, memoizing it in both the context's type cache
// and the node's own Typed.SetType slot.
func (tc *typechecker) infer(expr ast.Expression, env map[string]ast.TypeName) ast.TypeName {
	if expr == nil {
		return ast.Void
	}

	var typ ast.TypeName
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		typ = ast.Int

	case *ast.BooleanLiteral:
		typ = ast.Bool

	case *ast.Identifier:
		if t, ok := env[n.Name]; ok {
			typ = t
		} else if sym, ok := tc.ctx.Symbols[n.Name]; ok {
			typ = sym.Type
		} else {
			typ = ast.Void
		}

	case *ast.UnaryOperation:
		operand := tc.infer(n.Expr, env)
		// Both "!" and "-" require a Bool operand: the source's "neg"
		// unary is typechecked against Bool even though it lexes as
		// numeric negation. Preserved verbatim rather than "fixed" (see
		// the open-question note in the design ledger).
		if operand.Kind != "Bool" {
			tc.ctx.Diagnostics.Add("UnaryOperandTypeMismatch", "unary '"+n.Op+"' requires a Bool operand, got "+operand.String(), n.Pos())
		}
		typ = ast.Bool

	case *ast.BinaryOperation:
		lhs := tc.infer(n.Lhs, env)
		rhs := tc.infer(n.Rhs, env)
		switch {
		case ast.IsArithmeticOp(n.Op):
			if lhs.Kind != "Int" || rhs.Kind != "Int" {
				tc.ctx.Diagnostics.Add("BinaryOperandTypeMismatch", "'"+n.Op+"' requires Int operands, got "+lhs.String()+" and "+rhs.String(), n.Pos())
			}
			typ = ast.Int
		case ast.IsBooleanOp(n.Op):
			if lhs.Kind != "Bool" || rhs.Kind != "Bool" {
				tc.ctx.Diagnostics.Add("BinaryOperandTypeMismatch", "'"+n.Op+"' requires Bool operands, got "+lhs.String()+" and "+rhs.String(), n.Pos())
			}
			typ = ast.Bool
		default:
			typ = ast.Void
		}

	case *ast.FuncApplication:
		typ = tc.checkCall(n, env)

	default:
		typ = ast.Void
	}

	if typed, ok := expr.(ast.Typed); ok {
		typed.SetType(typ)
	}
	tc.ctx.TypeCache[expr.ID()] = typ
	return typ
}

func (tc *typechecker) checkCall(n *ast.FuncApplication, env map[string]ast.TypeName) ast.TypeName {
	sym, ok := tc.ctx.Symbols[n.Name]
	if !ok {
		for _, a := range n.Args {
			tc.infer(a, env)
		}
		return ast.Void
	}

	if len(n.Args) != len(sym.Params) {
		tc.ctx.Diagnostics.Add("CallArityMismatch", "'"+n.Name+"' expects "+strconv.Itoa(len(sym.Params))+" argument(s), got "+strconv.Itoa(len(n.Args)), n.Pos())
	}

	for i, a := range n.Args {
		argType := tc.infer(a, env)
		if i < len(sym.Params) && !sym.Params[i].Type.Equal(argType) {
			tc.ctx.Diagnostics.Add("CallArgumentTypeMismatch", "argument "+strconv.Itoa(i+1)+" of '"+n.Name+"' expects "+sym.Params[i].Type.String()+", got "+argType.String(), a.Pos())
		}
	}

	return sym.Type
}

// hasReturnAnywhere reports whether a syntactic return statement appears
// anywhere within b, recursing into if-branches (spec.md §4.6: "a function
// with declared return type ≠ Void must have at least one syntactic
// return").
func hasReturnAnywhere(b *ast.Block) bool {
	if b == nil {
		return false
	}
	for _, stmt := range b.Statements {
		if statementHasReturn(stmt) {
			return true
		}
	}
	return false
}

func statementHasReturn(stmt ast.Statement) bool {
	switch n := stmt.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.Block:
		return hasReturnAnywhere(n)
	case *ast.IfStatement:
		return statementHasReturn(n.ThenBranch) || statementHasReturn(n.ElseBranch)
	default:
		return false
	}
}

