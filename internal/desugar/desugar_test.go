package desugar_test

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/desugar"
	"github.com/cwbudde/go-dws/internal/lexer"
	"github.com/cwbudde/go-dws/internal/parser"
	"github.com/cwbudde/go-dws/pkg/ast"
)

func desugarSource(t *testing.T, src string) *ast.TopLevel {
	t.Helper()
	p := parser.New(lexer.New(src))
	raw := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	return desugar.Desugar(raw)
}

func TestDesugarMainAttributeBecomesIsEntry(t *testing.T) {
	top := desugarSource(t, "@main func main() -> Int { return 0; }")
	fn, ok := top.Sections[0].(*ast.FuncDefinition)
	if !ok {
		t.Fatalf("expected *ast.FuncDefinition, got %T", top.Sections[0])
	}
	if !fn.IsEntry {
		t.Fatalf("expected IsEntry to be true")
	}
}

func TestDesugarLetVarCollapseIntoDefinitionNode(t *testing.T) {
	top := desugarSource(t, "let x = 1;\nvar y = 2;")
	let, ok := top.Sections[0].(*ast.DefinitionNode)
	if !ok || !let.IsImmutable {
		t.Fatalf("expected immutable DefinitionNode for let, got %#v", top.Sections[0])
	}
	v, ok := top.Sections[1].(*ast.DefinitionNode)
	if !ok || v.IsImmutable {
		t.Fatalf("expected mutable DefinitionNode for var, got %#v", top.Sections[1])
	}
}

func TestDesugarSingleIfHasNoDesugaredFrom(t *testing.T) {
	src := "func f(x: Bool) -> Int { if (x) { return 1; } else { return 2; } return 0; }"
	top := desugarSource(t, src)
	fn := top.Sections[0].(*ast.FuncDefinition)
	ifStmt := fn.Body.Statements[0].(*ast.IfStatement)
	if ifStmt.DesugaredFrom != 0 {
		t.Fatalf("expected DesugaredFrom == 0 for a non-chained if, got %v", ifStmt.DesugaredFrom)
	}
	if ifStmt.ElseBranch == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestDesugarElseIfChainRightNestsAndSharesDesugaredFrom(t *testing.T) {
	src := `func classify(a: Bool, b: Bool, c: Bool) -> Int {
		if (a) { return 0; }
		else if (b) { return 1; }
		else if (c) { return 2; }
		else { return 3; }
	}`
	top := desugarSource(t, src)
	fn := top.Sections[0].(*ast.FuncDefinition)
	outer := fn.Body.Statements[0].(*ast.IfStatement)
	if outer.DesugaredFrom != 0 {
		t.Fatalf("expected the outermost if to have no DesugaredFrom, got %v", outer.DesugaredFrom)
	}
	outermostID := outer.ID()

	innerBlock, ok := outer.ElseBranch.(*ast.Block)
	if !ok || len(innerBlock.Statements) != 1 {
		t.Fatalf("expected else branch to be a single-statement block wrapping the next if, got %#v", outer.ElseBranch)
	}
	middle, ok := innerBlock.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected nested *ast.IfStatement, got %T", innerBlock.Statements[0])
	}
	if middle.DesugaredFrom != outermostID {
		t.Fatalf("expected middle if's DesugaredFrom to reference the outermost id %v, got %v", outermostID, middle.DesugaredFrom)
	}

	innermostBlock := middle.ElseBranch.(*ast.Block)
	innermost := innermostBlock.Statements[0].(*ast.IfStatement)
	if innermost.DesugaredFrom != outermostID {
		t.Fatalf("expected innermost if's DesugaredFrom to reference the outermost id %v, got %v", outermostID, innermost.DesugaredFrom)
	}
	if innermost.ElseBranch == nil {
		t.Fatalf("expected the trailing else to survive on the innermost if")
	}
}
