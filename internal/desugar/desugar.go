// Package desugar lowers the parser's raw AST into the normalized AST the
// semantic-analysis pipeline operates on (spec.md §4.2): it absorbs
// attribute wrappers into FuncDefinition.IsEntry, collapses let/var into a
// unified DefinitionNode, and folds multi-arm if/else-if chains into
// strictly binary, right-nested IfStatements.
package desugar

import "github.com/cwbudde/go-dws/pkg/ast"

// Desugar performs the pure structural rewrite from raw to normalized AST.
// It never records diagnostics; malformed input is the parser's concern.
func Desugar(raw *ast.RawTopLevel) *ast.TopLevel {
	top := &ast.TopLevel{}
	for _, section := range raw.Sections {
		top.Sections = append(top.Sections, desugarTopLevel(section))
	}
	return top
}

func desugarTopLevel(stmt ast.Statement) ast.Statement {
	switch n := stmt.(type) {
	case *ast.RawAttributedNode:
		fn := desugarStatement(n.Node).(*ast.FuncDefinition)
		return ast.NewFuncDefinition(fn.Pos(), fn.Name, fn.ReturnType, fn.Params, fn.Body, n.Attribute == ast.AttributeMain)
	default:
		return desugarStatement(stmt)
	}
}

func desugarStatement(stmt ast.Statement) ast.Statement {
	switch n := stmt.(type) {
	case *ast.RawFuncDef:
		params := make([]ast.Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = ast.Param{Name: p.Name, Type: p.Type}
		}
		return ast.NewFuncDefinition(n.Pos(), n.Name, n.ReturnType, params, desugarBlock(n.Body), false)

	case *ast.RawLetDef:
		return ast.NewDefinitionNode(n.Pos(), n.Name, n.Type, n.Expr, true)

	case *ast.RawVarDef:
		return ast.NewDefinitionNode(n.Pos(), n.Name, n.Type, n.Expr, false)

	case *ast.RawAssignment:
		return ast.NewAssignmentStatement(n.Pos(), n.Name, n.Expr)

	case *ast.RawReturn:
		return ast.NewReturnStatement(n.Pos(), n.Expr)

	case *ast.RawExprStmt:
		return ast.NewExpressionStatement(n.Pos(), n.Call)

	case *ast.RawBlock:
		return desugarBlock(n)

	case *ast.RawIf:
		return desugarIf(n)

	case *ast.IncompleteStmt:
		return n

	default:
		return n
	}
}

func desugarBlock(b *ast.RawBlock) *ast.Block {
	if b == nil {
		return nil
	}
	stmts := make([]ast.Statement, len(b.Statements))
	for i, s := range b.Statements {
		stmts[i] = desugarStatement(s)
	}
	return ast.NewBlock(b.Pos(), stmts)
}

// desugarIf implements spec.md §4.2's right-nesting rule: the list form
// `[(c1,b1), ..., (cn,bn)] else E` collapses to a chain where the
// innermost is IfStatement(cn, bn, E) and each outer arm wraps the
// previous result as its sole else-branch statement. Every derived
// IfStatement in the chain except the outermost records the outermost's
// own NodeID (assigned once the whole chain has been built, since the
// outermost IfStatement is the last one constructed here) in
// DesugaredFrom, so FIRGen can share a single join label across the
// whole chain.
func desugarIf(n *ast.RawIf) ast.Statement {
	var elseBranch ast.Statement
	if n.ElseBranch != nil {
		elseBranch = desugarBlock(n.ElseBranch)
	}

	blocks := n.ConditionalBlocks
	last := len(blocks) - 1

	result := ast.NewIfStatement(blocks[last].Cond.Pos(), blocks[last].Cond, desugarBlock(blocks[last].Body), elseBranch)
	chain := []*ast.IfStatement{result}

	for i := last - 1; i >= 0; i-- {
		wrapped := ast.NewBlock(result.Pos(), []ast.Statement{result})
		inner := ast.NewIfStatement(blocks[i].Cond.Pos(), blocks[i].Cond, desugarBlock(blocks[i].Body), wrapped)
		chain = append(chain, inner)
		result = inner
	}

	if last > 0 {
		outermostID := result.ID()
		for _, stmt := range chain {
			if stmt.ID() != outermostID {
				stmt.DesugaredFrom = outermostID
			}
		}
	}

	return result
}
