// Package fir defines the Flat IR data model: a module of functions, each
// holding a control-flow graph of basic blocks with typed block parameters
// and explicit terminators (spec.md §3 FIR, §4.8).
package fir

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-dws/pkg/ast"
)

// Expr is any FIR value expression.
type Expr interface {
	exprNode()
	String() string
}

// Identifier references a bound name (a block parameter, an Assignment
// target, or a function parameter).
type Identifier struct{ Name string }

func (*Identifier) exprNode()        {}
func (e *Identifier) String() string { return e.Name }

// Integer is an Int literal.
type Integer struct{ Value int64 }

func (*Integer) exprNode()        {}
func (e *Integer) String() string { return strconv.FormatInt(e.Value, 10) }

// Boolean is a Bool literal.
type Boolean struct{ Value bool }

func (*Boolean) exprNode() {}
func (e *Boolean) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}

// Unary applies a prefix operator ("!" or "-") to Expr.
type Unary struct {
	Op   string
	Expr Expr
}

func (*Unary) exprNode()        {}
func (e *Unary) String() string { return "(" + e.Op + e.Expr.String() + ")" }

// Binary applies an infix operator to Lhs and Rhs.
type Binary struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

func (*Binary) exprNode() {}
func (e *Binary) String() string {
	return "(" + e.Lhs.String() + " " + e.Op + " " + e.Rhs.String() + ")"
}

// Call invokes a named function with Args. A Call may appear both as an
// expression (bound by an Assignment) and, wrapped in a CallStatement, as a
// statement whose result is discarded (spec.md §3).
type Call struct {
	Func string
	Args []Expr
}

func (*Call) exprNode() {}
func (e *Call) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Func + "(" + strings.Join(parts, ", ") + ")"
}

// EmptyTuple is the value of a Void-typed position (a bare `return;` lowered
// to a Branch into the return block, or the fallthrough value when a Void
// function's body runs off the end without an explicit return).
type EmptyTuple struct{}

func (*EmptyTuple) exprNode()        {}
func (*EmptyTuple) String() string   { return "()" }

// ---------------------------------------------------------------------------
// Statements

// Statement is a non-terminating instruction within a BasicBlock.
type Statement interface {
	statementNode()
	String() string
}

// Assignment binds Name to the value of Rhs within the current block.
type Assignment struct {
	Name string
	Rhs  Expr
}

func (*Assignment) statementNode()   {}
func (s *Assignment) String() string { return s.Name + " = " + s.Rhs.String() }

// CallStatement is a bare function-application statement whose result is
// discarded (spec.md §3: "A Call may appear both as expression and as
// statement (discarded value)").
type CallStatement struct{ Call *Call }

func (*CallStatement) statementNode()   {}
func (s *CallStatement) String() string { return s.Call.String() }

// ---------------------------------------------------------------------------
// Terminators

// Terminator is the single control-transfer instruction every BasicBlock
// ends with (spec.md §3 invariant (b)).
type Terminator interface {
	terminatorNode()
	String() string
}

// Branch is an unconditional jump to Target, optionally carrying a value
// Arg into the target block's parameter.
type Branch struct {
	Target string
	Arg    Expr // nil when the target takes no parameter
}

func (*Branch) terminatorNode() {}
func (t *Branch) String() string {
	if t.Arg == nil {
		return "branch " + t.Target
	}
	return "branch " + t.Target + "(" + t.Arg.String() + ")"
}

// ConditionalBranch jumps to Then when Cond is true, Else otherwise.
type ConditionalBranch struct {
	Cond Expr
	Then string
	Else string
}

func (*ConditionalBranch) terminatorNode() {}
func (t *ConditionalBranch) String() string {
	return "branch_if " + t.Cond.String() + " then " + t.Then + " else " + t.Else
}

// Return exits the enclosing function with Value (EmptyTuple for Void
// functions). Only the function's dedicated return block is ever terminated
// this way (spec.md §4.8).
type Return struct{ Value Expr }

func (*Return) terminatorNode()   {}
func (t *Return) String() string  { return "return " + t.Value.String() }

// ---------------------------------------------------------------------------
// Blocks, functions, module

// Param is a typed block or function parameter.
type Param struct {
	Name string
	Type ast.TypeName
}

func (p Param) String() string { return p.Name + ": " + p.Type.String() }

// BasicBlock is a single node of a Function's control-flow graph.
//
// UnreachableTerminators preserves terminators the generator could not
// attach to a live block (spec.md §4.8 point 7: "a terminator encountered
// when the current label is a hole... becomes an unreachable shadow
// terminator attached to the most recently closed block") so diagnostics
// tooling can still inspect them; they play no role in control flow.
type BasicBlock struct {
	Label                  string
	Parameter              *Param
	Statements             []Statement
	Terminator             Terminator
	UnreachableTerminators []Terminator
}

func (b *BasicBlock) String() string {
	var sb strings.Builder
	sb.WriteString(b.Label)
	if b.Parameter != nil {
		sb.WriteString("(" + b.Parameter.String() + ")")
	}
	sb.WriteString(":\n")
	for _, s := range b.Statements {
		sb.WriteString("  " + s.String() + "\n")
	}
	if b.Terminator != nil {
		sb.WriteString("  " + b.Terminator.String() + "\n")
	}
	for _, u := range b.UnreachableTerminators {
		sb.WriteString("  ; unreachable: " + u.String() + "\n")
	}
	return sb.String()
}

// Function is the per-function CFG produced by FIRGen (spec.md §4.8): an
// entry block, zero or more body blocks, and a dedicated ReturnBlock, the
// graph's single sink.
type Function struct {
	Name       string
	Parameters []Param
	ReturnType ast.TypeName
	Blocks     []*BasicBlock
	ReturnBlock *BasicBlock
}

// Block looks up one of the function's blocks by label, including the
// return block.
func (f *Function) Block(label string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

func (f *Function) String() string {
	var sb strings.Builder
	parts := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		parts[i] = p.String()
	}
	sb.WriteString("func " + f.Name + "(" + strings.Join(parts, ", ") + ") -> " + f.ReturnType.String() + " {\n")
	for _, b := range f.Blocks {
		sb.WriteString(b.String())
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Module is the pipeline's terminal artifact (spec.md §6): every function
// defined by the compiled program, after FIR generation and both lowerings.
type Module struct {
	Functions []*Function
}

func (m *Module) String() string {
	var sb strings.Builder
	for i, f := range m.Functions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}
