package parser

import "github.com/type-ruby/trb/internal/pipeline"

// ParserProcessor is the pipeline stage building the IR tree from tokens.
// It is skipped when the scan stage already failed.
type ParserProcessor struct{}

func (p *ParserProcessor) Name() string { return "parser" }

func (p *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() || ctx.Tokens == nil {
		return ctx
	}
	prog, diag := Parse(ctx.Tokens)
	ctx.Program = prog
	if diag != nil {
		diag.File = ctx.FilePath
		ctx.AddDiagnostic(diag)
	}
	return ctx
}
