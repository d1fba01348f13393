package lexer_test

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/lexer"
	"github.com/cwbudde/go-dws/pkg/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `func add(a: Int, b: Int) -> Int { return a + b; }`

	expected := []struct {
		typ token.Type
		lit string
	}{
		{token.FUNC, "func"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.INT, "Int"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.INT, "Int"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.INT, "Int"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := lexer.New(input)
	for i, want := range expected {
		got := l.NextToken()
		if got.Type != want.typ {
			t.Fatalf("token %d: type = %s, want %s", i, got.Type, want.typ)
		}
		if got.Literal != want.lit {
			t.Fatalf("token %d: literal = %q, want %q", i, got.Literal, want.lit)
		}
	}
}

func TestNextTokenCompoundSymbols(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Type
	}{
		{"arrow", "->", []token.Type{token.ARROW, token.EOF}},
		{"eq", "==", []token.Type{token.EQ, token.EOF}},
		{"ge", ">=", []token.Type{token.GE, token.EOF}},
		{"le", "<=", []token.Type{token.LE, token.EOF}},
		{"and", "&&", []token.Type{token.AND, token.EOF}},
		{"or", "||", []token.Type{token.OR, token.EOF}},
		{"gt then assign", "> =", []token.Type{token.GT, token.ASSIGN, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexer.Tokenize(tt.src)
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d", len(toks), len(tt.want))
			}
			for i, typ := range tt.want {
				if toks[i].Type != typ {
					t.Errorf("token %d: type = %s, want %s", i, toks[i].Type, typ)
				}
			}
		})
	}
}

func TestNextTokenAttribute(t *testing.T) {
	toks := lexer.Tokenize("@main func f() -> Int { return 1; }")
	if toks[0].Type != token.AT_MAIN {
		t.Fatalf("first token type = %s, want @main", toks[0].Type)
	}
}

func TestNextTokenIllegalAttribute(t *testing.T) {
	toks := lexer.Tokenize("@bogus")
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL", toks[0].Type)
	}
}

func TestNextTokenPositions(t *testing.T) {
	l := lexer.New("let x\n= 1;")

	letTok := l.NextToken()
	if letTok.Pos.Line != 1 || letTok.Pos.Column != 1 {
		t.Fatalf("let pos = %v, want 1:1", letTok.Pos)
	}

	xTok := l.NextToken()
	if xTok.Pos.Line != 1 || xTok.Pos.Column != 5 {
		t.Fatalf("x pos = %v, want 1:5", xTok.Pos)
	}

	assignTok := l.NextToken()
	if assignTok.Pos.Line != 2 {
		t.Fatalf("= line = %d, want 2", assignTok.Pos.Line)
	}
}

func TestTokenEqualIgnoresPosition(t *testing.T) {
	a := token.Token{Type: token.IDENT, Literal: "x", Pos: token.Position{Line: 1, Column: 1}}
	b := token.Token{Type: token.IDENT, Literal: "x", Pos: token.Position{Line: 9, Column: 9}}
	if !a.Equal(b) {
		t.Fatalf("expected tokens to be equal ignoring position")
	}
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	toks := lexer.Tokenize("let x = 1; // trailing comment\nlet y = 2;")
	var idents []string
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			idents = append(idents, tok.Literal)
		}
	}
	want := []string{"x", "y"}
	if len(idents) != len(want) {
		t.Fatalf("idents = %v, want %v", idents, want)
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Fatalf("idents = %v, want %v", idents, want)
		}
	}
}
