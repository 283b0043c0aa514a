package optimizer_test

import (
	"testing"

	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/optimizer"
	"github.com/type-ruby/trb/internal/parser"
	"github.com/type-ruby/trb/internal/scanner"
)

func program(t *testing.T, src string) *ir.Program {
	t.Helper()
	toks, diag := scanner.New(src).ScanAll()
	if diag != nil {
		t.Fatalf("scan failed: %v", diag)
	}
	prog, diag := parser.Parse(toks)
	if diag != nil {
		t.Fatalf("parse failed: %v", diag)
	}
	return prog
}

func firstMethod(t *testing.T, prog *ir.Program) *ir.MethodDef {
	t.Helper()
	for _, d := range prog.Decls {
		if m, ok := d.(*ir.MethodDef); ok {
			return m
		}
	}
	t.Fatalf("no method in program")
	return nil
}

func returnValue(t *testing.T, m *ir.MethodDef) ir.Expr {
	t.Helper()
	for _, s := range m.Body.Statements {
		if r, ok := s.(*ir.Return); ok {
			return r.Value
		}
	}
	t.Fatalf("no return statement in %s", m.Name)
	return nil
}

func intValue(t *testing.T, e ir.Expr) int64 {
	t.Helper()
	lit, ok := e.(*ir.Literal)
	if !ok || lit.Kind != ir.LitInt {
		t.Fatalf("expected an integer literal, got %T (%+v)", e, e)
	}
	return lit.Value.(int64)
}

func TestFoldIntegerArithmetic(t *testing.T) {
	prog := program(t, `def f: Integer
  return 2 + 3
end
`)
	stats := optimizer.New().Run(prog)
	if got := intValue(t, returnValue(t, firstMethod(t, prog))); got != 5 {
		t.Errorf("2 + 3 folded to %d, want 5", got)
	}
	if stats.Changes["constant-folding"] == 0 {
		t.Errorf("folding should be counted in the stats: %+v", stats)
	}
	if stats.Iterations != 2 {
		t.Errorf("one changing round plus one confirming round, got %d", stats.Iterations)
	}
}

func TestFoldNestedExpressions(t *testing.T) {
	prog := program(t, `def f: Integer
  return 2 * 3 + 4
end
`)
	optimizer.New().Run(prog)
	if got := intValue(t, returnValue(t, firstMethod(t, prog))); got != 10 {
		t.Errorf("2 * 3 + 4 folded to %d, want 10", got)
	}
}

func TestFoldThroughUnaryMinus(t *testing.T) {
	prog := program(t, `def f: Integer
  return -(2 + 3)
end
`)
	optimizer.New().Run(prog)
	if got := intValue(t, returnValue(t, firstMethod(t, prog))); got != -5 {
		t.Errorf("-(2 + 3) folded to %d, want -5", got)
	}
}

func TestFoldBooleanNegation(t *testing.T) {
	prog := program(t, `def f: Boolean
  return !true
end
`)
	optimizer.New().Run(prog)
	lit, ok := returnValue(t, firstMethod(t, prog)).(*ir.Literal)
	if !ok || lit.Kind != ir.LitBool || lit.Value.(bool) != false {
		t.Errorf("!true should fold to false, got %+v", lit)
	}
}

func TestFoldFloatPromotion(t *testing.T) {
	prog := program(t, `def f: Float
  return 1 + 2.5
end
`)
	optimizer.New().Run(prog)
	lit, ok := returnValue(t, firstMethod(t, prog)).(*ir.Literal)
	if !ok || lit.Kind != ir.LitFloat || lit.Value.(float64) != 3.5 {
		t.Errorf("1 + 2.5 should fold to the float 3.5, got %+v", lit)
	}
}

func TestDivisionByLiteralZeroIsNotFolded(t *testing.T) {
	prog := program(t, `def f: Integer
  return 10 / 0
end
`)
	stats := optimizer.New().Run(prog)
	if _, ok := returnValue(t, firstMethod(t, prog)).(*ir.BinaryOp); !ok {
		t.Errorf("10 / 0 must stay a runtime division")
	}
	if stats.Changes["constant-folding"] != 0 {
		t.Errorf("no fold should be counted: %+v", stats)
	}
}

func TestModuloByLiteralZeroIsNotFolded(t *testing.T) {
	prog := program(t, `def f: Integer
  return 10 % 0
end
`)
	optimizer.New().Run(prog)
	if _, ok := returnValue(t, firstMethod(t, prog)).(*ir.BinaryOp); !ok {
		t.Errorf("10 %% 0 must stay a runtime operation")
	}
}

func TestFoldIdempotence(t *testing.T) {
	prog := program(t, `def f: Integer
  x = 2 + 3 * 4
  return x
end
`)
	optimizer.New().Run(prog)
	again := optimizer.New().Run(prog)
	if again.Iterations != 1 {
		t.Errorf("a folded program should converge in one round, got %d", again.Iterations)
	}
	for name, n := range again.Changes {
		if n != 0 {
			t.Errorf("pass %s changed an already-folded program %d times", name, n)
		}
	}
}

func TestDeadCodeAfterReturn(t *testing.T) {
	prog := program(t, `def f: Integer
  x = 1
  return x
  y = 2
  z = 3
end
`)
	stats := optimizer.New().Run(prog)
	body := firstMethod(t, prog).Body
	if len(body.Statements) != 2 {
		t.Fatalf("expected exactly the assignment and the return, got %d statements", len(body.Statements))
	}
	if _, ok := body.Statements[0].(*ir.Assignment); !ok {
		t.Errorf("the statement before the return must be kept")
	}
	if _, ok := body.Statements[1].(*ir.Return); !ok {
		t.Errorf("the return itself must be kept")
	}
	if stats.Changes["dce"] != 2 {
		t.Errorf("two statements removed, stats say %d", stats.Changes["dce"])
	}
}

func TestDeadCodeInNestedBlocks(t *testing.T) {
	prog := program(t, `def f(flag: Boolean): Integer
  if flag
    return 1
    a = 2
  end
  return 3
  b = 4
end
`)
	optimizer.New().Run(prog)
	body := firstMethod(t, prog).Body
	if len(body.Statements) != 2 {
		t.Fatalf("outer block should end at its return, got %d statements", len(body.Statements))
	}
	cond, ok := body.Statements[0].(*ir.Conditional)
	if !ok {
		t.Fatalf("first statement should be the conditional, got %T", body.Statements[0])
	}
	if len(cond.Then.Statements) != 1 {
		t.Errorf("the branch should end at its return, got %d statements", len(cond.Then.Statements))
	}
}

func TestCustomPassList(t *testing.T) {
	prog := program(t, `def f: Integer
  return 2 + 3
  x = 1
end
`)
	// Only dead code elimination: the arithmetic must survive.
	optimizer.NewWithPasses(&optimizer.DeadCodeElimination{}).Run(prog)
	body := firstMethod(t, prog).Body
	if len(body.Statements) != 1 {
		t.Errorf("dce should still truncate, got %d statements", len(body.Statements))
	}
	if _, ok := returnValue(t, firstMethod(t, prog)).(*ir.BinaryOp); !ok {
		t.Errorf("folding must not run when it is not in the pass list")
	}
}
