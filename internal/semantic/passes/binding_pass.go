package passes

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// BindingPass reports unbound identifiers, calls to unknown functions,
// shadowing, and duplicate parameter names (spec.md §4.4). It requires
// ScopesPass to have run first.
type BindingPass struct{}

func (BindingPass) Name() string { return "BindingCheck" }

func (BindingPass) Run(top *ast.TopLevel, ctx *semantic.AnalysisContext) error {
	for _, section := range top.Sections {
		switch n := section.(type) {
		case *ast.FuncDefinition:
			checkDuplicateParams(n, ctx)
			checkBlock(n.Body, ctx)
		case *ast.DefinitionNode:
			checkExpression(n.Expr, ctx)
			checkShadowing(n, ctx)
		}
	}
	return nil
}

func checkDuplicateParams(fn *ast.FuncDefinition, ctx *semantic.AnalysisContext) {
	seen := make(map[string]bool)
	for _, p := range fn.Params {
		if seen[p.Name] {
			ctx.Diagnostics.Add("ParameterNamesNotUnique", "parameter '"+p.Name+"' is not unique in function '"+fn.Name+"'", fn.Pos())
		}
		seen[p.Name] = true
	}
}

func checkBlock(b *ast.Block, ctx *semantic.AnalysisContext) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		checkStatement(stmt, ctx)
	}
}

func checkStatement(stmt ast.Statement, ctx *semantic.AnalysisContext) {
	switch n := stmt.(type) {
	case *ast.DefinitionNode:
		checkExpression(n.Expr, ctx)
		checkShadowing(n, ctx)
	case *ast.AssignmentStatement:
		checkExpression(n.Expr, ctx)
		checkNameInScope(n.Name, n, ctx)
	case *ast.ReturnStatement:
		if n.Expr != nil {
			checkExpression(n.Expr, ctx)
		}
	case *ast.ExpressionStatement:
		checkExpression(n.Expression, ctx)
	case *ast.IfStatement:
		checkExpression(n.Condition, ctx)
		checkStatementOrBlock(n.ThenBranch, ctx)
		checkStatementOrBlock(n.ElseBranch, ctx)
	}
}

func checkStatementOrBlock(stmt ast.Statement, ctx *semantic.AnalysisContext) {
	switch n := stmt.(type) {
	case nil:
	case *ast.Block:
		checkBlock(n, ctx)
	default:
		checkStatement(n, ctx)
	}
}

// checkShadowing reports a DefinitionNode whose name collides with a
// distinctly-identified binding already present in the scope the
// definition's own expression was evaluated against (spec.md §4.4: "a
// declaration introducing a name already present in the same scope level
// with a different id").
func checkShadowing(n *ast.DefinitionNode, ctx *semantic.AnalysisContext) {
	scope, ok := scopeOf(n)
	if !ok {
		return
	}
	if existing, found := scope.Resolve(n.Name); found && existing.ID != n.ID() {
		ctx.Diagnostics.Add("Shadowing", "'"+n.Name+"' shadows an existing binding", n.Pos())
	}
}

func checkExpression(expr ast.Expression, ctx *semantic.AnalysisContext) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.Identifier:
		checkNameInScope(n.Name, n, ctx)
	case *ast.UnaryOperation:
		checkExpression(n.Expr, ctx)
	case *ast.BinaryOperation:
		checkExpression(n.Lhs, ctx)
		checkExpression(n.Rhs, ctx)
	case *ast.FuncApplication:
		checkFunctionInScope(n.Name, n, ctx)
		for _, a := range n.Args {
			checkExpression(a, ctx)
		}
	}
}

func checkNameInScope(name string, n ast.Node, ctx *semantic.AnalysisContext) {
	scope, ok := scopeOf(n)
	if !ok {
		return
	}
	if !scope.InScope(name) {
		ctx.Diagnostics.Add("IdentifierUnbound", "'"+name+"' is not in scope", n.Pos())
	}
}

func checkFunctionInScope(name string, n ast.Node, ctx *semantic.AnalysisContext) {
	scope, ok := scopeOf(n)
	if !ok {
		return
	}
	if !scope.InScope(name) {
		ctx.Diagnostics.Add("FunctionNotFound", "function '"+name+"' is not in scope", n.Pos())
	}
}

// scopedGetter mirrors pkg/ast's unexported normBase.GetScope method set.
type scopedGetter interface {
	GetScope() ast.Scope
}

func scopeOf(n ast.Node) (*semantic.Scope, bool) {
	sg, ok := n.(scopedGetter)
	if !ok || sg.GetScope() == nil {
		return nil, false
	}
	scope, ok := sg.GetScope().(*semantic.Scope)
	return scope, ok
}
