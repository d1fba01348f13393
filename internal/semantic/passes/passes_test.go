package passes_test

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/cwbudde/go-dws/internal/desugar"
	"github.com/cwbudde/go-dws/internal/lexer"
	"github.com/cwbudde/go-dws/internal/parser"
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/internal/semantic/passes"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// run parses and desugars src, then runs every pass through name (inclusive)
// in the fixed pipeline order, returning the normalized AST and context
// regardless of diagnostics.
func run(t *testing.T, src string, through string) (*ast.TopLevel, *semantic.AnalysisContext) {
	t.Helper()
	p := parser.New(lexer.New(src))
	raw := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	top := desugar.Desugar(raw)
	ctx := semantic.NewAnalysisContext(src, "test.ql")
	ctx.Root = top

	all := []semantic.Pass{passes.ScopesPass{}, passes.BindingPass{}, passes.SymbolTablePass{}, passes.TypecheckPass{}}
	for _, pass := range all {
		if err := pass.Run(top, ctx); err != nil {
			t.Fatalf("%s: %v", pass.Name(), err)
		}
		if pass.Name() == through {
			break
		}
	}
	return top, ctx
}

func diagKinds(ctx *semantic.AnalysisContext) []string {
	kinds := make([]string, len(ctx.Diagnostics.Diags))
	for i, d := range ctx.Diagnostics.Diags {
		kinds[i] = d.Kind
	}
	return kinds
}

func assertKinds(t *testing.T, ctx *semantic.AnalysisContext, want ...string) {
	t.Helper()
	got := diagKinds(ctx)
	if len(got) != len(want) {
		t.Fatalf("expected diagnostic kinds %v, got %v\n%# v", want, got, pretty.Formatter(ctx.Diagnostics.Diags))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected diagnostic kinds %v, got %v\n%# v", want, got, pretty.Formatter(ctx.Diagnostics.Diags))
		}
	}
}

func TestBindingCheck(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "unbound identifier",
			src:  "func f() -> Int { return x; }",
			want: []string{"IdentifierUnbound"},
		},
		{
			name: "unknown function call",
			src:  "func f() -> Int { return g(); }",
			want: []string{"FunctionNotFound"},
		},
		{
			name: "duplicate parameter names",
			src:  "func f(a: Int, a: Int) -> Int { return a; }",
			want: []string{"ParameterNamesNotUnique"},
		},
		{
			name: "shadowing a sibling definition",
			src:  "func f() -> Int { let a = 1; let a = 2; return a; }",
			want: []string{"Shadowing"},
		},
		{
			name: "shadowing a top-level definition",
			src:  "var x = 1; let x = 2;",
			want: []string{"Shadowing"},
		},
		{
			name: "well-scoped program reports nothing",
			src:  "func f(a: Int) -> Int { let b = a; return b; }",
		},
		{
			name: "widened scope visible only to later siblings",
			src:  "func f() -> Int { return a; let a = 1; }",
			want: []string{"IdentifierUnbound"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := run(t, tt.src, "BindingCheck")
			assertKinds(t, ctx, tt.want...)
		})
	}
}

func TestBuildSymbolTable(t *testing.T) {
	top, ctx := run(t, "let g = 1; func f(a: Int) -> Int { let b = 2; return b; }", "BuildSymbolTable")

	if _, ok := ctx.Symbols["g"]; !ok {
		t.Fatalf("expected top-level 'g' recorded in symbol table: %# v", pretty.Formatter(ctx.Symbols))
	}
	if _, ok := ctx.Symbols["f"]; !ok {
		t.Fatalf("expected function 'f' recorded in symbol table: %# v", pretty.Formatter(ctx.Symbols))
	}
	if _, ok := ctx.Symbols["b"]; !ok {
		t.Fatalf("expected nested definition 'b' recorded in symbol table: %# v", pretty.Formatter(ctx.Symbols))
	}
	if len(top.Sections) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(top.Sections))
	}
}

func TestTypecheck(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "arithmetic requires Int operands",
			src:  "func f(a: Bool) -> Int { return a + 1; }",
			want: []string{"BinaryOperandTypeMismatch"},
		},
		{
			name: "boolean op requires Bool operands",
			src:  "func f(a: Int, b: Int) -> Bool { return a && b; }",
			want: []string{"BinaryOperandTypeMismatch"},
		},
		{
			name: "if condition must be Bool",
			src:  "func f(a: Int) -> Int { if (a) { return 1; } return 0; }",
			want: []string{"ConditionNotBool"},
		},
		{
			name: "assignment type mismatch",
			src:  "func f() -> Int { var a = 1; a = true; return a; }",
			want: []string{"AssignmentTypeMismatch"},
		},
		{
			name: "declared annotation mismatches inferred type",
			src:  "func f() -> Int { let a: Bool = 1; return 0; }",
			want: []string{"DefinitionTypeMismatch"},
		},
		{
			name: "non-Void function missing a return",
			src:  "func f() -> Int { let a = 1; }",
			want: []string{"MissingReturn"},
		},
		{
			name: "Void function must not return a value",
			src:  "func f() -> Void { return 1; }",
			want: []string{"VoidReturnsValue"},
		},
		{
			name: "call arity mismatch",
			src:  "func g(a: Int) -> Int { return a; } func f() -> Int { return g(1, 2); }",
			want: []string{"CallArityMismatch"},
		},
		{
			name: "call argument type mismatch",
			src:  "func g(a: Int) -> Int { return a; } func f(b: Bool) -> Int { return g(b); }",
			want: []string{"CallArgumentTypeMismatch"},
		},
		{
			name: "well-typed program reports nothing",
			src:  "func g(a: Int) -> Int { return a; } func f() -> Int { return g(1) + 2; }",
		},
		{
			name: "unannotated top-level definition infers its initializer's type for later functions",
			src:  "let g = 1; func f() -> Int { return g + 1; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := run(t, tt.src, "Typecheck")
			assertKinds(t, ctx, tt.want...)
		})
	}
}

// TestNegAndNotBothRequireBool documents a deliberately preserved anomaly:
// "-" lexes as numeric negation but is typechecked exactly like "!",
// requiring a Bool operand rather than an Int one.
func TestNegAndNotBothRequireBool(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "neg on Bool is accepted",
			src:  "func f(a: Bool) -> Bool { return -a; }",
		},
		{
			name: "not on Bool is accepted",
			src:  "func f(a: Bool) -> Bool { return !a; }",
		},
		{
			name: "neg on Int is rejected",
			src:  "func f(a: Int) -> Bool { return -a; }",
			want: []string{"UnaryOperandTypeMismatch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := run(t, tt.src, "Typecheck")
			assertKinds(t, ctx, tt.want...)
		})
	}
}
