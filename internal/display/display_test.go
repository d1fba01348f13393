package display_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-dws/internal/desugar"
	"github.com/cwbudde/go-dws/internal/display"
	"github.com/cwbudde/go-dws/internal/lexer"
	"github.com/cwbudde/go-dws/internal/parser"
	"github.com/cwbudde/go-dws/internal/semantic"
)

func TestBuildTextOutline(t *testing.T) {
	src := "func f(a: Int) -> Int { if (a) { return 1; } else { return a + 2; } }"
	p := parser.New(lexer.New(src))
	top := desugar.Desugar(p.ParseProgram())

	tree := display.Build(top)
	snaps.MatchSnapshot(t, "func_with_if_text", tree.Text())
}

func TestBuildDefinitionTreeAndJSONForms(t *testing.T) {
	src := "let x = 1 + 2;"
	p := parser.New(lexer.New(src))
	top := desugar.Desugar(p.ParseProgram())

	tree := display.Build(top)
	if tree.Name != "Top Level" {
		t.Fatalf("expected root named Top Level, got %q", tree.Name)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(tree.Children))
	}
	def := tree.Children[0]
	if def.Name != "Definition" || def.Description != "x" {
		t.Fatalf("expected Definition node for 'x', got %+v", def)
	}
	if len(def.Children) != 1 || def.Children[0].Name != "Binary Operation" {
		t.Fatalf("expected a Binary Operation child, got %+v", def.Children)
	}

	raw, err := tree.JSON(false)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected non-empty JSON")
	}

	pretty, err := tree.JSON(true)
	if err != nil {
		t.Fatalf("JSON(pretty): %v", err)
	}
	if len(pretty) <= len(raw) {
		t.Fatalf("expected pretty-printed JSON to be longer than compact JSON")
	}
}

func TestSelectAndFlatten(t *testing.T) {
	treeJSON := `{
		"id": 1,
		"name": "Top Level",
		"children": [
			{"id": 2, "name": "Definition", "description": "x"},
			{"id": 3, "name": "Definition", "description": "y"}
		]
	}`

	sub, ok := display.Select(treeJSON, "children.0")
	if !ok {
		t.Fatalf("expected children.0 to exist")
	}
	if !containsAll(sub, `"name": "Definition"`, `"description": "x"`) {
		t.Fatalf("unexpected selected subtree: %s", sub)
	}

	if _, ok := display.Select(treeJSON, "children.5"); ok {
		t.Fatalf("expected an out-of-range select to report not found")
	}

	flat, err := display.Flatten(treeJSON)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if !containsAll(flat, `"id":1`, `"name":"Top Level"`, `"id":2`, `"name":"Definition"`, `"id":3`) {
		t.Fatalf("unexpected flattened output: %s", flat)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestSymbolNamesNaturalSort(t *testing.T) {
	ctx := semantic.NewAnalysisContext("", "test.ql")
	for _, name := range []string{"fn10", "fn2", "fn1", "a"} {
		ctx.Symbols[name] = semantic.SymbolInfo{}
	}

	got := display.SymbolNames(ctx)
	want := []string{"a", "fn1", "fn2", "fn10"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
