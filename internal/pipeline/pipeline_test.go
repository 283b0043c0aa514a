package pipeline_test

import (
	"testing"

	"github.com/type-ruby/trb/internal/optimizer"
	"github.com/type-ruby/trb/internal/parser"
	"github.com/type-ruby/trb/internal/pipeline"
	"github.com/type-ruby/trb/internal/scanner"
	"github.com/type-ruby/trb/internal/types"
)

func fullPipeline() *pipeline.Pipeline {
	return pipeline.New(
		&scanner.ScannerProcessor{},
		&parser.ParserProcessor{},
		&types.CheckerProcessor{},
		&optimizer.OptimizerProcessor{},
	)
}

func TestPipelineFullRun(t *testing.T) {
	ctx := pipeline.NewPipelineContext(`def add(a: Integer, b: Integer): Integer
  return 2 + 3
end
`)
	ctx.FilePath = "add.trb"
	out := fullPipeline().Run(ctx)

	if out.RunID == "" {
		t.Errorf("a run should carry an identifier")
	}
	if len(out.Diagnostics) != 0 {
		t.Fatalf("clean source should produce no diagnostics, got %v", out.Diagnostics)
	}
	if out.Tokens == nil || out.Program == nil {
		t.Fatalf("tokens and program should both be populated")
	}
	if out.OptimizeIterations == 0 {
		t.Errorf("the optimizer should have run")
	}
	if out.PassChanges["constant-folding"] == 0 {
		t.Errorf("2 + 3 should have been folded: %v", out.PassChanges)
	}
}

func TestPipelineScanErrorSkipsParse(t *testing.T) {
	ctx := pipeline.NewPipelineContext("x = §\n")
	ctx.FilePath = "bad.trb"
	out := fullPipeline().Run(ctx)

	if !out.HasErrors() {
		t.Fatalf("an unexpected character should be an error")
	}
	if out.Program != nil {
		t.Errorf("the parse stage must not run after a scan error")
	}
	for _, d := range out.Diagnostics {
		if d.File != "bad.trb" {
			t.Errorf("diagnostics should carry the file path, got %q", d.File)
		}
	}
}

func TestPipelineCheckerErrorSkipsOptimizer(t *testing.T) {
	ctx := pipeline.NewPipelineContext(`def f
  x: String = 42
end
`)
	out := fullPipeline().Run(ctx)

	if out.Program == nil {
		t.Fatalf("a type error still leaves a parsed program behind")
	}
	if !out.HasErrors() {
		t.Fatalf("the mismatch should be reported")
	}
	if out.OptimizeIterations != 0 {
		t.Errorf("the optimizer must not rewrite a program with errors")
	}
}

func TestPipelineRunIDsAreUnique(t *testing.T) {
	a := pipeline.NewPipelineContext("")
	b := pipeline.NewPipelineContext("")
	if a.RunID == b.RunID {
		t.Errorf("two runs share the id %q", a.RunID)
	}
}
