// Package optimizer rewrites programs with a fixpoint pass pipeline. Each
// pass reports how many rewrites it made; the scheduler reruns the pass list
// until a full round makes no changes or the iteration ceiling is hit.
package optimizer

import "github.com/type-ruby/trb/internal/ir"

// Pass is one rewrite over a whole program. Run returns the number of
// changes made so the scheduler can detect the fixpoint.
type Pass interface {
	Name() string
	Run(prog *ir.Program) int
}

// maxIterations bounds the fixpoint loop against oscillating passes.
const maxIterations = 10

// Optimizer owns an ordered pass list.
type Optimizer struct {
	passes []Pass
}

// New returns an optimizer with the default pass list.
func New() *Optimizer {
	return &Optimizer{passes: []Pass{
		&ConstantFolding{},
		&DeadCodeElimination{},
	}}
}

// NewWithPasses returns an optimizer running exactly the given passes.
func NewWithPasses(passes ...Pass) *Optimizer {
	return &Optimizer{passes: passes}
}

// Stats describes one optimization run.
type Stats struct {
	Iterations int
	Changes    map[string]int // total changes per pass name
}

// Run rewrites prog in place until no pass changes anything.
func (o *Optimizer) Run(prog *ir.Program) Stats {
	stats := Stats{Changes: make(map[string]int)}
	for i := 0; i < maxIterations; i++ {
		stats.Iterations++
		changed := 0
		for _, pass := range o.passes {
			n := pass.Run(prog)
			stats.Changes[pass.Name()] += n
			changed += n
		}
		if changed == 0 {
			break
		}
	}
	return stats
}

// eachBlock applies fn to every statement block in the program, method
// bodies and all nested control-flow bodies included. fn may rewrite the
// block's statement slice and returns the number of changes it made.
func eachBlock(prog *ir.Program, fn func(*ir.Block) int) int {
	total := 0
	var walkBlock func(*ir.Block)
	var walkStmt func(ir.Stmt)

	walkBlock = func(b *ir.Block) {
		if b == nil {
			return
		}
		total += fn(b)
		for _, s := range b.Statements {
			walkStmt(s)
		}
	}
	walkStmt = func(s ir.Stmt) {
		switch st := s.(type) {
		case *ir.Block:
			walkBlock(st)
		case *ir.Conditional:
			walkBlock(st.Then)
			walkBlock(st.Else)
		case *ir.Loop:
			walkBlock(st.Body)
		case *ir.CaseExpr:
			for _, w := range st.Whens {
				walkBlock(w.Body)
			}
			walkBlock(st.Else)
		case *ir.BeginBlock:
			walkBlock(st.Body)
			for _, r := range st.Rescues {
				walkBlock(r.Body)
			}
			walkBlock(st.Else)
			walkBlock(st.Ensure)
		}
	}

	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ir.MethodDef:
			walkBlock(d.Body)
		case *ir.ClassDecl:
			for _, m := range d.Methods {
				walkBlock(m.Body)
			}
		case *ir.ModuleDecl:
			for _, m := range d.Methods {
				walkBlock(m.Body)
			}
		}
	}
	return total
}
