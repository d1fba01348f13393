// Package ast defines the Abstract Syntax Tree node types for QL: the raw
// AST produced by the parser (pkg/ast/raw.go) and the normalized AST
// produced by desugaring (pkg/ast/normalized.go). Both share the NodeID,
// TypeName, and Node/Expression/Statement machinery defined here.
package ast

import "github.com/cwbudde/go-dws/pkg/token"

// NodeID is a stable, process-unique identity assigned to every AST node at
// construction time. Passes key their side tables (type cache, scope
// assignment, symbol table) off NodeID rather than pointer identity so that
// nodes may be copied freely without losing their annotations.
type NodeID int64

// idGen is the monotonic generator backing NewNodeID. spec.md §5 calls for a
// single, serialized generator shared across passes; like the gensym
// counter it is process-wide because the pipeline itself is single
// threaded (§5) — a mutex would protect nothing a single goroutine doesn't
// already guarantee, so this is a plain counter, not sync/atomic.
var idGen NodeID

// NewNodeID returns the next globally unique node identity.
func NewNodeID() NodeID {
	idGen++
	return idGen
}

// Node is the base interface for all AST nodes, raw or normalized.
type Node interface {
	// ID returns the node's stable identity.
	ID() NodeID

	// Pos returns the position of the node in the source code.
	Pos() token.Position

	// String returns a debug representation of the node.
	String() string
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// TypeName is QL's closed set of types (spec.md §3): the three primitives,
// Void, and function (Arrow) types. Equality is structural.
type TypeName struct {
	// Kind is one of "Int", "Bool", "String", "Void", or "Arrow".
	Kind string
	// From holds the parameter types when Kind == "Arrow".
	From []TypeName
	// To holds the return type when Kind == "Arrow".
	To *TypeName
}

var (
	Int    = TypeName{Kind: "Int"}
	Bool   = TypeName{Kind: "Bool"}
	String = TypeName{Kind: "String"}
	Void   = TypeName{Kind: "Void"}
)

// Arrow builds a function TypeName from parameter types to a return type.
func Arrow(from []TypeName, to TypeName) TypeName {
	return TypeName{Kind: "Arrow", From: from, To: &to}
}

// Equal reports structural equality, per spec.md §3: "Arrow equals Arrow
// iff parameter lists match element-wise and return types match."
func (t TypeName) Equal(other TypeName) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != "Arrow" {
		return true
	}
	if len(t.From) != len(other.From) {
		return false
	}
	for i := range t.From {
		if !t.From[i].Equal(other.From[i]) {
			return false
		}
	}
	return t.To.Equal(*other.To)
}

func (t TypeName) String() string {
	switch t.Kind {
	case "Arrow":
		s := "("
		for i, p := range t.From {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ") -> " + t.To.String()
		return s
	default:
		return t.Kind
	}
}

// TypeNameFromKeyword maps a type-keyword token's literal to a primitive
// TypeName. Only Int/Bool/String appear in source annotations; Void and
// Arrow are never written by the programmer (spec.md §4.1 grammar: `type :=
// 'Int' | 'Bool' | 'String'`).
func TypeNameFromKeyword(literal string) (TypeName, bool) {
	switch literal {
	case "Int":
		return Int, true
	case "Bool":
		return Bool, true
	case "String":
		return String, true
	}
	return TypeName{}, false
}
