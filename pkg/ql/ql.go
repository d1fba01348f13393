// Package ql is the public driver API for the QL compiler pipeline,
// mirroring the teacher's pkg/dwscript wrapper: a single Compile entry
// point that threads an AnalysisContext through parsing, desugaring,
// semantic analysis, and FIR generation/lowering (spec.md §2's "Data
// flow"), stopping early the first time a stage leaves an error-severity
// diagnostic behind.
package ql

import (
	"github.com/cwbudde/go-dws/internal/desugar"
	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/firgen"
	"github.com/cwbudde/go-dws/internal/firlower"
	"github.com/cwbudde/go-dws/internal/lexer"
	"github.com/cwbudde/go-dws/internal/parser"
	"github.com/cwbudde/go-dws/internal/semantic"
	"github.com/cwbudde/go-dws/internal/semantic/passes"
	"github.com/cwbudde/go-dws/pkg/ast"
	"github.com/cwbudde/go-dws/pkg/fir"
)

// options configures a Compile call.
type options struct {
	file string
}

// Option configures the compiler driver.
type Option func(*options)

// WithFile names the source for diagnostic output (no effect on parsing).
func WithFile(name string) Option {
	return func(o *options) { o.file = name }
}

// Result is the terminal state of a Compile run: whatever stages actually
// ran before either completing or being stopped by a diagnostic.
type Result struct {
	Raw         *ast.RawTopLevel
	Normalized  *ast.TopLevel
	Context     *semantic.AnalysisContext
	Module      *fir.Module
	Diagnostics *errors.Sink
}

// pipeline is the fixed pass order spec.md §2 names: BuildScopes,
// BindingCheck, BuildSymbolTable, Typecheck, Linearize.
func pipeline() *semantic.PassManager {
	return semantic.NewPassManager(
		passes.ScopesPass{},
		passes.BindingPass{},
		passes.SymbolTablePass{},
		passes.TypecheckPass{},
		semantic.LinearizePass{},
	)
}

// Compile runs the full pipeline over source. It always returns a non-nil
// Result; callers should check Result.Diagnostics.HasErrors() before
// trusting Result.Module rather than relying solely on the returned error,
// which is reserved for internal failures (a pass returning a non-nil
// error), not user-facing diagnostics.
func Compile(source string, opts ...Option) (*Result, error) {
	cfg := options{}
	for _, o := range opts {
		o(&cfg)
	}

	ctx := semantic.NewAnalysisContext(source, cfg.file)
	result := &Result{Context: ctx, Diagnostics: ctx.Diagnostics}

	l := lexer.New(source)
	p := parser.New(l)
	raw := p.ParseProgram()
	result.Raw = raw

	for _, perr := range p.Errors() {
		ctx.Diagnostics.Add(perr.Kind, perr.Message, perr.Pos)
	}
	if ctx.HasErrors() {
		return result, nil
	}

	norm := desugar.Desugar(raw)
	ctx.Root = norm
	result.Normalized = norm

	if err := pipeline().RunAll(norm, ctx); err != nil {
		return result, err
	}
	if ctx.HasErrors() {
		return result, nil
	}

	mod := firgen.Gen(norm, ctx)
	firlower.ShortCircuitLower(mod, ctx)
	firlower.ArithmeticLinearize(mod, ctx)
	result.Module = mod

	return result, nil
}
