package ast

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-dws/pkg/token"
)

// base carries the fields every raw node shares: identity, position, and
// the incomplete marker the parser sets when it synthesizes a placeholder
// during recovery (spec.md §3, §4.1 "Incomplete nodes").
type base struct {
	id         NodeID
	pos        token.Position
	incomplete bool
}

func newBase(pos token.Position) base { return base{id: NewNodeID(), pos: pos} }

func (b base) ID() NodeID           { return b.id }
func (b base) Pos() token.Position  { return b.pos }
func (b base) IsIncomplete() bool   { return b.incomplete }
func (b *base) MarkIncomplete()     { b.incomplete = true }

// Incomplete is implemented by every raw node so downstream code can test
// incompleteness without a type switch (spec.md §4.1: "A consumer that
// encounters an incomplete node must propagate incompleteness upward").
type Incomplete interface {
	IsIncomplete() bool
}

// ---------------------------------------------------------------------------
// Raw expressions

// RawIdentifier is a bare name reference.
type RawIdentifier struct {
	base
	Name string
}

func NewRawIdentifier(pos token.Position, name string) *RawIdentifier {
	return &RawIdentifier{base: newBase(pos), Name: name}
}

func (*RawIdentifier) expressionNode()    {}
func (n *RawIdentifier) String() string   { return n.Name }

// RawBoolean is a boolean literal.
type RawBoolean struct {
	base
	Value bool
}

func NewRawBoolean(pos token.Position, value bool) *RawBoolean {
	return &RawBoolean{base: newBase(pos), Value: value}
}

func (*RawBoolean) expressionNode() {}
func (n *RawBoolean) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// RawNumber is an integer literal.
type RawNumber struct {
	base
	Value int64
}

func NewRawNumber(pos token.Position, value int64) *RawNumber {
	return &RawNumber{base: newBase(pos), Value: value}
}

func (*RawNumber) expressionNode()  {}
func (n *RawNumber) String() string { return strconv.FormatInt(n.Value, 10) }

// RawUnary applies a prefix operator ("!" or "-") to an operand.
type RawUnary struct {
	base
	Op   string
	Expr Expression
}

func NewRawUnary(pos token.Position, op string, expr Expression) *RawUnary {
	return &RawUnary{base: newBase(pos), Op: op, Expr: expr}
}

func (*RawUnary) expressionNode()  {}
func (n *RawUnary) String() string { return "(" + n.Op + n.Expr.String() + ")" }

// RawBinary applies an infix operator to two operands.
type RawBinary struct {
	base
	Op  string
	Lhs Expression
	Rhs Expression
}

func NewRawBinary(pos token.Position, op string, lhs, rhs Expression) *RawBinary {
	return &RawBinary{base: newBase(pos), Op: op, Lhs: lhs, Rhs: rhs}
}

func (*RawBinary) expressionNode() {}
func (n *RawBinary) String() string {
	return "(" + n.Lhs.String() + " " + n.Op + " " + n.Rhs.String() + ")"
}

// RawFuncApp is a function-call expression.
type RawFuncApp struct {
	base
	Name string
	Args []Expression
}

func NewRawFuncApp(pos token.Position, name string, args []Expression) *RawFuncApp {
	return &RawFuncApp{base: newBase(pos), Name: name, Args: args}
}

func (*RawFuncApp) expressionNode() {}
func (n *RawFuncApp) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ", ") + ")"
}

// IncompleteExpr is the parser's placeholder for an expression it could not
// finish constructing during recovery. Kind names the construct that was
// being parsed, for diagnostics.
type IncompleteExpr struct {
	base
	Kind string
}

func NewIncompleteExpr(pos token.Position, kind string) *IncompleteExpr {
	e := &IncompleteExpr{base: newBase(pos), Kind: kind}
	e.MarkIncomplete()
	return e
}

func (*IncompleteExpr) expressionNode()    {}
func (n *IncompleteExpr) String() string   { return "<incomplete:" + n.Kind + ">" }

// ---------------------------------------------------------------------------
// Raw definitions and statements

// RawParam is a single function parameter declaration.
type RawParam struct {
	Name string
	Type TypeName
	Pos  token.Position
}

// RawBlock is a brace-delimited sequence of statements.
type RawBlock struct {
	base
	Statements []Statement
}

func NewRawBlock(pos token.Position, stmts []Statement) *RawBlock {
	return &RawBlock{base: newBase(pos), Statements: stmts}
}

func (*RawBlock) statementNode() {}
func (n *RawBlock) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range n.Statements {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// RawLetDef is an immutable value binding.
type RawLetDef struct {
	base
	Name string
	Type *TypeName // nil when unannotated
	Expr Expression
}

func NewRawLetDef(pos token.Position, name string, typ *TypeName, expr Expression) *RawLetDef {
	return &RawLetDef{base: newBase(pos), Name: name, Type: typ, Expr: expr}
}

func (*RawLetDef) statementNode() {}
func (n *RawLetDef) String() string {
	return "let " + n.Name + " = " + n.Expr.String() + ";"
}

// RawVarDef is a mutable value binding.
type RawVarDef struct {
	base
	Name string
	Type *TypeName
	Expr Expression
}

func NewRawVarDef(pos token.Position, name string, typ *TypeName, expr Expression) *RawVarDef {
	return &RawVarDef{base: newBase(pos), Name: name, Type: typ, Expr: expr}
}

func (*RawVarDef) statementNode() {}
func (n *RawVarDef) String() string {
	return "var " + n.Name + " = " + n.Expr.String() + ";"
}

// RawFuncDef is a function declaration.
type RawFuncDef struct {
	base
	Name       string
	ReturnType TypeName
	Params     []RawParam
	Body       *RawBlock
}

func NewRawFuncDef(pos token.Position, name string, ret TypeName, params []RawParam, body *RawBlock) *RawFuncDef {
	return &RawFuncDef{base: newBase(pos), Name: name, ReturnType: ret, Params: params, Body: body}
}

func (*RawFuncDef) statementNode() {}
func (n *RawFuncDef) String() string {
	parts := make([]string, len(n.Params))
	for i, p := range n.Params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	s := "func " + n.Name + "(" + strings.Join(parts, ", ") + ") -> " + n.ReturnType.String() + " "
	if n.Body != nil {
		s += n.Body.String()
	}
	return s
}

// RawCondBlock is one arm of an if/else-if chain: a condition and the block
// that runs when it holds.
type RawCondBlock struct {
	Cond Expression
	Body *RawBlock
}

// RawIf is the list-form conditional described in spec.md §3: a sequence of
// (condition, body) arms plus an optional trailing else body. Desugaring
// collapses this into strictly binary normalized IfStatements.
type RawIf struct {
	base
	ConditionalBlocks []RawCondBlock
	ElseBranch        *RawBlock // nil when absent
}

func NewRawIf(pos token.Position, blocks []RawCondBlock, elseBranch *RawBlock) *RawIf {
	return &RawIf{base: newBase(pos), ConditionalBlocks: blocks, ElseBranch: elseBranch}
}

func (*RawIf) statementNode() {}
func (n *RawIf) String() string {
	var sb strings.Builder
	for i, cb := range n.ConditionalBlocks {
		if i == 0 {
			sb.WriteString("if (" + cb.Cond.String() + ") " + cb.Body.String())
		} else {
			sb.WriteString(" else if (" + cb.Cond.String() + ") " + cb.Body.String())
		}
	}
	if n.ElseBranch != nil {
		sb.WriteString(" else " + n.ElseBranch.String())
	}
	return sb.String()
}

// RawReturn is a return statement; Expr is nil for a bare `return;` in a
// Void function.
type RawReturn struct {
	base
	Expr Expression
}

func NewRawReturn(pos token.Position, expr Expression) *RawReturn {
	return &RawReturn{base: newBase(pos), Expr: expr}
}

func (*RawReturn) statementNode() {}
func (n *RawReturn) String() string {
	if n.Expr == nil {
		return "return;"
	}
	return "return " + n.Expr.String() + ";"
}

// RawAssignment assigns a new value to an existing mutable binding.
type RawAssignment struct {
	base
	Name string
	Expr Expression
}

func NewRawAssignment(pos token.Position, name string, expr Expression) *RawAssignment {
	return &RawAssignment{base: newBase(pos), Name: name, Expr: expr}
}

func (*RawAssignment) statementNode() {}
func (n *RawAssignment) String() string {
	return n.Name + " = " + n.Expr.String() + ";"
}

// RawExprStmt is a bare function-call statement (`callExpr ;` in the
// grammar).
type RawExprStmt struct {
	base
	Call *RawFuncApp
}

func NewRawExprStmt(pos token.Position, call *RawFuncApp) *RawExprStmt {
	return &RawExprStmt{base: newBase(pos), Call: call}
}

func (*RawExprStmt) statementNode() {}
func (n *RawExprStmt) String() string {
	return n.Call.String() + ";"
}

// IncompleteStmt is the parser's placeholder for a statement it could not
// finish constructing during recovery.
type IncompleteStmt struct {
	base
	Kind string
}

func NewIncompleteStmt(pos token.Position, kind string) *IncompleteStmt {
	s := &IncompleteStmt{base: newBase(pos), Kind: kind}
	s.MarkIncomplete()
	return s
}

func (*IncompleteStmt) statementNode() {}
func (n *IncompleteStmt) String() string {
	return "<incomplete:" + n.Kind + ">"
}

// Attribute is the set of top-level attributes QL recognizes (spec.md §3).
type Attribute int

const (
	AttributeMain Attribute = iota
	AttributeNever
)

// RawAttributedNode wraps a top-level statement with an `@main`/never
// attribute.
type RawAttributedNode struct {
	base
	Attribute Attribute
	Node      Statement
}

func NewRawAttributedNode(pos token.Position, attr Attribute, node Statement) *RawAttributedNode {
	return &RawAttributedNode{base: newBase(pos), Attribute: attr, Node: node}
}

func (*RawAttributedNode) statementNode() {}
func (n *RawAttributedNode) String() string {
	if n.Attribute == AttributeMain {
		return "@main " + n.Node.String()
	}
	return n.Node.String()
}

// RawTopLevel is the root node produced by the parser: a flat sequence of
// top-level sections (function definitions, value definitions, or bare
// call statements, optionally attribute-wrapped).
type RawTopLevel struct {
	Sections []Statement
}
