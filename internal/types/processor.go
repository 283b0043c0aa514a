package types

import "github.com/type-ruby/trb/internal/pipeline"

// CheckerProcessor is the pipeline stage running type analysis over the
// parsed program.
type CheckerProcessor struct{}

func (p *CheckerProcessor) Name() string { return "typecheck" }

func (p *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	checker := NewChecker(Options{
		Strict:           ctx.Strict,
		WarnUnknownTypes: ctx.WarnUnknownTypes,
	})
	for _, d := range checker.Check(ctx.Program) {
		d.File = ctx.FilePath
		ctx.AddDiagnostic(d)
	}
	return ctx
}
