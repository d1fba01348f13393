package passes

import (
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// SymbolTablePass populates the context's global symbol table: one entry
// per top-level definition and function (spec.md §4.5).
type SymbolTablePass struct{}

func (SymbolTablePass) Name() string { return "BuildSymbolTable" }

func (SymbolTablePass) Run(top *ast.TopLevel, ctx *semantic.AnalysisContext) error {
	for _, section := range top.Sections {
		switch n := section.(type) {
		case *ast.FuncDefinition:
			ctx.Symbols[n.Name] = semantic.SymbolInfo{
				DeclID: n.ID(),
				Type:   n.ReturnType,
				Params: n.Params,
			}
			recordNestedDefinitions(n.Body, ctx)

		case *ast.DefinitionNode:
			typ := ast.Void
			if n.Type != nil {
				typ = *n.Type
			}
			ctx.Symbols[n.Name] = semantic.SymbolInfo{DeclID: n.ID(), Type: typ}
		}
	}
	return nil
}

// recordNestedDefinitions records a function's local let/var bindings too,
// per spec.md §4.5: "Within function bodies, also record nested
// definitions (the context offers assignTypeOf(type, name))." Nested
// definitions share the same flat symbol table; QL has no block-local
// name reuse across sibling functions worth isolating further here because
// BindingCheck already rejected any shadowing before this pass runs.
func recordNestedDefinitions(b *ast.Block, ctx *semantic.AnalysisContext) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		switch n := stmt.(type) {
		case *ast.DefinitionNode:
			typ := ast.Void
			if n.Type != nil {
				typ = *n.Type
			}
			ctx.Symbols[n.Name] = semantic.SymbolInfo{DeclID: n.ID(), Type: typ}
		case *ast.IfStatement:
			recordInStatement(n.ThenBranch, ctx)
			recordInStatement(n.ElseBranch, ctx)
		}
	}
}

func recordInStatement(stmt ast.Statement, ctx *semantic.AnalysisContext) {
	switch n := stmt.(type) {
	case *ast.Block:
		recordNestedDefinitions(n, ctx)
	case *ast.IfStatement:
		recordInStatement(n.ThenBranch, ctx)
		recordInStatement(n.ElseBranch, ctx)
	}
}
