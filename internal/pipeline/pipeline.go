// Package pipeline threads one compilation unit through an ordered list of
// processing stages. Each stage reads and extends the shared context; stages
// never abort the run, so every stage's diagnostics are collected even when
// an earlier one failed.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/token"
)

// PipelineContext carries everything a compilation unit accumulates on its
// way through the stages.
type PipelineContext struct {
	// RunID identifies this compilation run in logs and cache records.
	RunID    string
	FilePath string
	Source   string

	Tokens  []token.Token
	Program *ir.Program

	Diagnostics []*diagnostics.Diagnostic

	// Checker knobs, set before the check stage runs.
	Strict           bool
	WarnUnknownTypes bool

	// Optimizer results, set by the optimize stage.
	OptimizeIterations int
	PassChanges        map[string]int
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		RunID:  uuid.NewString(),
		Source: source,
	}
}

// AddDiagnostic appends one diagnostic to the context.
func (ctx *PipelineContext) AddDiagnostic(d *diagnostics.Diagnostic) {
	if d != nil {
		ctx.Diagnostics = append(ctx.Diagnostics, d)
	}
}

// HasErrors reports whether any collected diagnostic is an error.
func (ctx *PipelineContext) HasErrors() bool {
	return diagnostics.HasErrors(ctx.Diagnostics)
}

// Processor is one pipeline stage.
type Processor interface {
	Name() string
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the stages in order.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}
