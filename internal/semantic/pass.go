package semantic

import "github.com/cwbudde/go-dws/pkg/ast"

// Pass is one stage of the semantic-analysis pipeline. Each pass sees, and
// may mutate, the shared AnalysisContext (spec.md §2: "stages communicate
// by annotating nodes and populating side tables in the context").
type Pass interface {
	Name() string
	Run(top *ast.TopLevel, ctx *AnalysisContext) error
}

// PassManager runs a fixed, ordered sequence of passes, stopping early once
// a pass has left error-severity diagnostics in the context (spec.md §2:
// "Any stage that records a diagnostic marks the compilation as failed;
// downstream stages are skipped").
type PassManager struct {
	passes []Pass
}

// NewPassManager builds a manager over passes, run in the given order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// RunAll runs every pass in order against top and ctx, stopping after the
// first pass that leaves the context with error-severity diagnostics.
func (m *PassManager) RunAll(top *ast.TopLevel, ctx *AnalysisContext) error {
	for _, p := range m.passes {
		if err := p.Run(top, ctx); err != nil {
			return err
		}
		if ctx.HasErrors() {
			break
		}
	}
	return nil
}

// Passes returns the manager's configured passes, in run order.
func (m *PassManager) Passes() []Pass { return m.passes }
