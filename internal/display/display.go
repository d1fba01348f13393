// Package display builds the tooling-facing tree described by spec.md §6's
// Display interface: a {id, name, description, children?} node produced by
// visiting the normalized AST, grounded on the teacher's pkg/printer (which
// performs the analogous walk over its own AST to produce source text
// rather than a tree).
package display

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/tidwall/pretty"
	"golang.org/x/text/width"

	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// Node is one tree node of the Display interface (spec.md §6).
type Node struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// Build walks a normalized TopLevel and produces its Display tree.
func Build(top *ast.TopLevel) *Node {
	root := &Node{Name: "Top Level"}
	for _, s := range top.Sections {
		root.Children = append(root.Children, statementNode(s))
	}
	return root
}

func statementNode(stmt ast.Statement) *Node {
	if stmt == nil {
		return nil
	}
	n := &Node{ID: int64(stmt.ID())}

	switch s := stmt.(type) {
	case *ast.FuncDefinition:
		n.Name = "Func Definition"
		n.Description = s.Name + " -> " + s.ReturnType.String()
		n.Children = append(n.Children, blockNode(s.Body))

	case *ast.DefinitionNode:
		n.Name = "Definition"
		n.Description = s.Name
		n.Children = append(n.Children, expressionNode(s.Expr))

	case *ast.AssignmentStatement:
		n.Name = "Assignment"
		n.Description = s.Name
		n.Children = append(n.Children, expressionNode(s.Expr))

	case *ast.IfStatement:
		n.Name = "If Statement"
		n.Children = append(n.Children, expressionNode(s.Condition), statementNode(s.ThenBranch))
		if s.ElseBranch != nil {
			n.Children = append(n.Children, statementNode(s.ElseBranch))
		}

	case *ast.ReturnStatement:
		n.Name = "Return Statement"
		if s.Expr != nil {
			n.Children = append(n.Children, expressionNode(s.Expr))
		}

	case *ast.ExpressionStatement:
		n.Name = "Expression Statement"
		n.Children = append(n.Children, expressionNode(s.Expression))

	case *ast.Block:
		return blockNode(s)

	default:
		n.Name = "Unknown Statement"
	}
	return n
}

func blockNode(b *ast.Block) *Node {
	n := &Node{Name: "Block"}
	if b != nil {
		n.ID = int64(b.ID())
		for _, s := range b.Statements {
			n.Children = append(n.Children, statementNode(s))
		}
	}
	return n
}

func expressionNode(expr ast.Expression) *Node {
	if expr == nil {
		return nil
	}
	n := &Node{ID: int64(expr.ID())}

	switch e := expr.(type) {
	case *ast.Identifier:
		n.Name = "Identifier"
		n.Description = e.Name
	case *ast.IntegerLiteral:
		n.Name = "Integer Literal"
		n.Description = e.String()
	case *ast.BooleanLiteral:
		n.Name = "Boolean Literal"
		n.Description = e.String()
	case *ast.UnaryOperation:
		n.Name = "Unary Operation"
		n.Description = e.Op
		n.Children = append(n.Children, expressionNode(e.Expr))
	case *ast.BinaryOperation:
		n.Name = "Binary Operation"
		n.Description = e.Op
		n.Children = append(n.Children, expressionNode(e.Lhs), expressionNode(e.Rhs))
	case *ast.FuncApplication:
		n.Name = "Func Application"
		n.Description = e.Name
		for _, a := range e.Args {
			n.Children = append(n.Children, expressionNode(a))
		}
	default:
		n.Name = "Unknown Expression"
	}
	return n
}

// JSON marshals the tree, optionally running it through tidwall/pretty for
// human-readable indentation (cmd/ql ast --json --pretty).
func (n *Node) JSON(prettyPrint bool) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	if prettyPrint {
		data = pretty.Pretty(data)
	}
	return string(data), nil
}

// Text renders the tree as an indented outline, Unicode-aware column
// alignment ensuring the description column lines up even when names mix
// full-width and narrow runes.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb, 0)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(padToWidth(n.Name, 24))
	if n.Description != "" {
		sb.WriteString(n.Description)
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.writeText(sb, depth+1)
	}
}

// padToWidth right-pads s with spaces until its visual width (east-asian
// wide runes count double) reaches w.
func padToWidth(s string, w int) string {
	visual := 0
	for _, r := range s {
		if k := width.LookupRune(r).Kind(); k == width.EastAsianWide || k == width.EastAsianFullwidth {
			visual += 2
		} else {
			visual++
		}
	}
	if visual >= w {
		return s + " "
	}
	return s + strings.Repeat(" ", w-visual)
}

// SymbolNames returns the global symbol table's names in natural sort order
// (spec.md §4.5 symbol table, surfaced by `ql ast --symbols`): "fn2" sorts
// before "fn10", unlike plain lexicographic order.
func SymbolNames(ctx *semantic.AnalysisContext) []string {
	names := make([]string, 0, len(ctx.Symbols))
	for name := range ctx.Symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}
