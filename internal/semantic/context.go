// Package semantic implements the ordered pass pipeline that operates on
// the normalized AST (spec.md §2, stages 3-7): BuildScopes, BindingCheck,
// BuildSymbolTable, Typecheck, and Linearize. Passes share a mutable
// AnalysisContext threaded through in a fixed order; any pass that records
// an error-severity diagnostic causes the driver to skip the remainder.
package semantic

import (
	"fmt"

	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/pkg/ast"
)

// ScopeID indexes into the AnalysisContext's scope arena. noScope marks the
// absence of a parent (spec.md §9: "Represent scopes in an arena indexed by
// ScopeId; store parent: Option<ScopeId>").
type ScopeID int

const noScope ScopeID = -1

// NoScope is the exported sentinel for "no parent scope", used by callers
// constructing the root scope of a compilation unit.
const NoScope = noScope

// BindingKind classifies how a name entered a scope.
type BindingKind int

const (
	BindingFuncParameter BindingKind = iota
	BindingFunction
	BindingDefinition
)

// Binding is one (name, id) introduction recorded in a Scope.
type Binding struct {
	Name string
	ID   ast.NodeID
	Kind BindingKind
}

// Scope is one node of the scope arena. It implements ast.Scope so
// normalized nodes can carry a reference to it without pkg/ast depending on
// this package.
type Scope struct {
	ctx      *AnalysisContext
	id       ScopeID
	parent   ScopeID
	isGlobal bool
	bindings map[string]Binding
}

// InScope reports whether name resolves starting from this scope, per
// spec.md §3's Scope.inScope: "walks parents until the name is found or the
// chain ends."
func (s *Scope) InScope(name string) bool {
	_, ok := s.Resolve(name)
	return ok
}

// Resolve walks the parent chain and returns the binding for name, if any.
func (s *Scope) Resolve(name string) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.parentScope() {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *Scope) parentScope() *Scope {
	if s.parent == noScope {
		return nil
	}
	return s.ctx.Scopes[s.parent]
}

// AlreadyDeclared reports whether b shadows an existing binding in this
// exact scope level: "a declaration introducing a name already present in
// the same scope level with a different id" (spec.md §4.4).
func (s *Scope) AlreadyDeclared(b Binding) bool {
	existing, ok := s.bindings[b.Name]
	return ok && existing.ID != b.ID
}

// Define records (or overwrites) a binding at this exact scope level.
func (s *Scope) Define(b Binding) { s.bindings[b.Name] = b }

// ID returns this scope's own arena index, for constructing a child scope.
func (s *Scope) ID() ScopeID { return s.id }

// Bindings returns every binding defined directly at this scope level (not
// including parents).
func (s *Scope) Bindings() []Binding {
	out := make([]Binding, 0, len(s.bindings))
	for _, b := range s.bindings {
		out = append(out, b)
	}
	return out
}

// IsGlobal reports whether this is a module-level scope.
func (s *Scope) IsGlobal() bool { return s.isGlobal }

// SymbolInfo is one entry of the global symbol table (spec.md §3's
// AnalysisContext: "a global symbol table (name → {declId, params?, scopeInfo})").
type SymbolInfo struct {
	DeclID ast.NodeID
	Type   ast.TypeName
	Params []ast.Param // non-nil only for function symbols
}

// SymbolGenerator is the gensym singleton reified as an explicit field, per
// spec.md §9's "GenSym singleton becomes an explicit SymbolGenerator field
// on the AnalysisContext; the global convenience is a disservice."
type SymbolGenerator struct {
	counters map[string]int
}

// NewSymbolGenerator creates an empty generator.
func NewSymbolGenerator() *SymbolGenerator {
	return &SymbolGenerator{counters: make(map[string]int)}
}

// Gensym returns a name of the form "root_$N$" for a fresh N each time it is
// called with a given root (spec.md §4.7: "genSym(root) returns root_$N$").
func (g *SymbolGenerator) Gensym(root string) string {
	g.counters[root]++
	return fmt.Sprintf("%s_$%d$", root, g.counters[root])
}

// AnalysisContext is threaded mutably through every semantic pass and FIR
// stage (spec.md §3, §5).
type AnalysisContext struct {
	Root *ast.TopLevel

	// Scopes is the scope arena; index 0 is always the outermost scope for
	// the compilation unit currently being analyzed.
	Scopes []*Scope

	// TypeCache maps an expression's NodeID to its resolved TypeName,
	// populated by Typecheck.
	TypeCache map[ast.NodeID]ast.TypeName

	// Symbols is the global symbol table populated by BuildSymbolTable.
	Symbols map[string]SymbolInfo

	// Diagnostics collects every diagnostic recorded by any pass.
	Diagnostics *errors.Sink

	// Gen is the shared temporary-name generator used by Linearize and the
	// FIR lowerings.
	Gen *SymbolGenerator

	// LabelToBlock is populated during FIR generation (spec.md §3); declared
	// here so it survives across the FIRGen/ShortCircuitLower/ArithmeticLinearize
	// boundary without a separate context type.
	LabelToBlock map[string]any
}

// NewAnalysisContext creates an empty context over source/file, used only
// for diagnostic formatting.
func NewAnalysisContext(source, file string) *AnalysisContext {
	return &AnalysisContext{
		TypeCache:    make(map[ast.NodeID]ast.TypeName),
		Symbols:      make(map[string]SymbolInfo),
		Diagnostics:  errors.NewSink(source, file),
		Gen:          NewSymbolGenerator(),
		LabelToBlock: make(map[string]any),
	}
}

// NewScope allocates a scope in the arena with the given parent (noScope for
// a root scope) and returns its id.
func (ctx *AnalysisContext) NewScope(parent ScopeID, isGlobal bool) ScopeID {
	id := ScopeID(len(ctx.Scopes))
	ctx.Scopes = append(ctx.Scopes, &Scope{
		ctx:      ctx,
		id:       id,
		parent:   parent,
		isGlobal: isGlobal,
		bindings: make(map[string]Binding),
	})
	return id
}

// Scope returns the arena entry for id.
func (ctx *AnalysisContext) Scope(id ScopeID) *Scope { return ctx.Scopes[id] }

// HasErrors reports whether any error-severity diagnostic has been recorded
// so far, used by the driver to decide whether to skip downstream passes.
func (ctx *AnalysisContext) HasErrors() bool { return ctx.Diagnostics.HasErrors() }
