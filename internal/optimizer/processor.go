package optimizer

import "github.com/type-ruby/trb/internal/pipeline"

// OptimizerProcessor is the pipeline stage rewriting the checked program.
// It only runs on clean programs so diagnostics keep pointing at the code
// the user wrote.
type OptimizerProcessor struct{}

func (p *OptimizerProcessor) Name() string { return "optimizer" }

func (p *OptimizerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.HasErrors() {
		return ctx
	}
	stats := New().Run(ctx.Program)
	ctx.OptimizeIterations = stats.Iterations
	ctx.PassChanges = stats.Changes
	return ctx
}
