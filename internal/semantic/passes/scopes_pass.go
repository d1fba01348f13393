// Package passes holds the concrete semantic-analysis passes run in order
// by internal/semantic.PassManager: BuildScopes, BindingCheck,
// BuildSymbolTable, and Typecheck (spec.md §4.3-§4.6).
package passes

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// ScopesPass assigns a Scope to every normalized node (spec.md §4.3).
type ScopesPass struct{}

func (ScopesPass) Name() string { return "BuildScopes" }

func (ScopesPass) Run(top *ast.TopLevel, ctx *semantic.AnalysisContext) error {
	full := ctx.NewScope(semantic.NoScope, true)
	fullScope := ctx.Scope(full)

	// Two passes over the section list: first collect every top-level
	// binding into the full global scope, then traverse each section with
	// the scope visible to it (spec.md §4.3: "if recursion-capable ... the
	// global scope contains all top-level declarations including itself;
	// otherwise it excludes the current section").
	for _, section := range top.Sections {
		switch n := section.(type) {
		case *ast.FuncDefinition:
			fullScope.Define(semantic.Binding{Name: n.Name, ID: n.ID(), Kind: semantic.BindingFunction})
		case *ast.DefinitionNode:
			fullScope.Define(semantic.Binding{Name: n.Name, ID: n.ID(), Kind: semantic.BindingDefinition})
		}
	}

	for _, section := range top.Sections {
		switch n := section.(type) {
		case *ast.FuncDefinition:
			visitFuncDefinition(n, ctx, full)
		case *ast.DefinitionNode:
			visitTopLevelDefinition(n, ctx, full)
		default:
			setScope(section, fullScope)
		}
	}

	return nil
}

// visitTopLevelDefinition gives a top-level DefinitionNode a scope that
// excludes its own binding (forbidding self-reference at value position)
// while still resolving every other top-level name.
func visitTopLevelDefinition(n *ast.DefinitionNode, ctx *semantic.AnalysisContext, full semantic.ScopeID) {
	restricted := ctx.NewScope(semantic.NoScope, true)
	restrictedScope := ctx.Scope(restricted)
	for _, other := range ctx.Scope(full).Bindings() {
		if other.ID != n.ID() {
			restrictedScope.Define(other)
		}
	}
	setScope(n, restrictedScope)
	visitExpression(n.Expr, ctx, restrictedScope)
}

func visitFuncDefinition(n *ast.FuncDefinition, ctx *semantic.AnalysisContext, full semantic.ScopeID) {
	fnScopeID := ctx.NewScope(full, false)
	fnScope := ctx.Scope(fnScopeID)
	fnScope.Define(semantic.Binding{Name: n.Name, ID: n.ID(), Kind: semantic.BindingFunction})
	for _, p := range n.Params {
		fnScope.Define(semantic.Binding{Name: p.Name, ID: n.ID(), Kind: semantic.BindingFuncParameter})
	}
	setScope(n, fnScope)
	visitBlock(n.Body, ctx, fnScope)
}

// visitBlock traverses a block's statements in source order, widening the
// visible scope for subsequent siblings each time a DefinitionNode is
// encountered (spec.md §4.3: "every DefinitionNode visited widens the
// in-scope set for subsequent siblings only, by chaining a new child scope").
func visitBlock(b *ast.Block, ctx *semantic.AnalysisContext, enclosing *semantic.Scope) {
	if b == nil {
		return
	}
	current := enclosing
	setScope(b, current)

	for _, stmt := range b.Statements {
		switch n := stmt.(type) {
		case *ast.DefinitionNode:
			setScope(n, current)
			visitExpression(n.Expr, ctx, current)
			widened := ctx.Scope(ctx.NewScope(current.ID(), false))
			widened.Define(semantic.Binding{Name: n.Name, ID: n.ID(), Kind: semantic.BindingDefinition})
			current = widened

		case *ast.AssignmentStatement:
			setScope(n, current)
			visitExpression(n.Expr, ctx, current)

		case *ast.ReturnStatement:
			setScope(n, current)
			if n.Expr != nil {
				visitExpression(n.Expr, ctx, current)
			}

		case *ast.ExpressionStatement:
			setScope(n, current)
			visitExpression(n.Expression, ctx, current)

		case *ast.IfStatement:
			visitIf(n, ctx, current)

		default:
			setScope(stmt, current)
		}
	}
}

func visitIf(n *ast.IfStatement, ctx *semantic.AnalysisContext, enclosing *semantic.Scope) {
	setScope(n, enclosing)
	visitExpression(n.Condition, ctx, enclosing)

	if thenBlock, ok := n.ThenBranch.(*ast.Block); ok {
		visitBlock(thenBlock, ctx, enclosing)
	} else {
		setScope(n.ThenBranch, enclosing)
	}

	switch e := n.ElseBranch.(type) {
	case *ast.Block:
		visitBlock(e, ctx, enclosing)
	case *ast.IfStatement:
		visitIf(e, ctx, enclosing)
	case nil:
	default:
		setScope(e, enclosing)
	}
}

func visitExpression(expr ast.Expression, ctx *semantic.AnalysisContext, scope *semantic.Scope) {
	if expr == nil {
		return
	}
	setScope(expr, scope)

	switch n := expr.(type) {
	case *ast.UnaryOperation:
		visitExpression(n.Expr, ctx, scope)
	case *ast.BinaryOperation:
		visitExpression(n.Lhs, ctx, scope)
		visitExpression(n.Rhs, ctx, scope)
	case *ast.FuncApplication:
		for _, a := range n.Args {
			visitExpression(a, ctx, scope)
		}
	}
}

// scopedNode is implemented by every normalized node (via normBase) but
// pkg/ast doesn't export the method set as a named interface, so passes
// defines the minimal view it needs.
type scopedNode interface {
	SetScope(ast.Scope)
}

func setScope(n any, s *semantic.Scope) {
	if sn, ok := n.(scopedNode); ok {
		sn.SetScope(s)
	}
}
