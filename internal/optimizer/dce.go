package optimizer

import "github.com/type-ruby/trb/internal/ir"

// DeadCodeElimination drops statements that can never execute: everything
// in a block after an unconditional return.
type DeadCodeElimination struct{}

func (p *DeadCodeElimination) Name() string { return "dce" }

func (p *DeadCodeElimination) Run(prog *ir.Program) int {
	return eachBlock(prog, func(b *ir.Block) int {
		for i, s := range b.Statements {
			if _, ok := s.(*ir.Return); ok && i+1 < len(b.Statements) {
				removed := len(b.Statements) - (i + 1)
				b.Statements = b.Statements[:i+1]
				return removed
			}
		}
		return 0
	})
}
