package scanner

import "github.com/type-ruby/trb/internal/pipeline"

// ScannerProcessor is the pipeline stage producing the token stream.
type ScannerProcessor struct{}

func (p *ScannerProcessor) Name() string { return "scanner" }

func (p *ScannerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks, diag := New(ctx.Source).ScanAll()
	ctx.Tokens = toks
	if diag != nil {
		diag.File = ctx.FilePath
		ctx.AddDiagnostic(diag)
	}
	return ctx
}
