package optimizer

import "github.com/type-ruby/trb/internal/ir"

// ConstantFolding evaluates arithmetic on literal operands at compile time.
// Division by a literal zero is left alone so the runtime error surfaces
// where the source wrote it.
type ConstantFolding struct {
	changes int
}

func (p *ConstantFolding) Name() string { return "constant-folding" }

func (p *ConstantFolding) Run(prog *ir.Program) int {
	p.changes = 0
	eachBlock(prog, func(b *ir.Block) int {
		for _, s := range b.Statements {
			p.foldStmt(s)
		}
		return 0
	})
	return p.changes
}

func (p *ConstantFolding) foldStmt(s ir.Stmt) {
	switch st := s.(type) {
	case *ir.Assignment:
		st.Value = p.foldExpr(st.Value)
	case *ir.Return:
		if st.Value != nil {
			st.Value = p.foldExpr(st.Value)
		}
	case *ir.Conditional:
		st.Cond = p.foldExpr(st.Cond)
	case *ir.Loop:
		st.Cond = p.foldExpr(st.Cond)
	case *ir.CaseExpr:
		st.Subject = p.foldExpr(st.Subject)
		for _, w := range st.Whens {
			for i, v := range w.Values {
				w.Values[i] = p.foldExpr(v)
			}
		}
	case *ir.ExprStmt:
		st.Expr = p.foldExpr(st.Expr)
	}
}

func (p *ConstantFolding) foldExpr(e ir.Expr) ir.Expr {
	switch ex := e.(type) {
	case *ir.BinaryOp:
		ex.Left = p.foldExpr(ex.Left)
		ex.Right = p.foldExpr(ex.Right)
		if folded, ok := p.foldBinary(ex); ok {
			p.changes++
			return folded
		}
		return ex
	case *ir.UnaryOp:
		ex.Operand = p.foldExpr(ex.Operand)
		if folded, ok := foldUnary(ex); ok {
			p.changes++
			return folded
		}
		return ex
	case *ir.Ternary:
		ex.Cond = p.foldExpr(ex.Cond)
		ex.Then = p.foldExpr(ex.Then)
		ex.Else = p.foldExpr(ex.Else)
		return ex
	case *ir.MethodCall:
		if ex.Receiver != nil {
			ex.Receiver = p.foldExpr(ex.Receiver)
		}
		for _, a := range ex.Args {
			a.Value = p.foldExpr(a.Value)
		}
		return ex
	case *ir.ArrayLiteral:
		for i, el := range ex.Elements {
			ex.Elements[i] = p.foldExpr(el)
		}
		return ex
	case *ir.HashLiteral:
		for _, pair := range ex.Pairs {
			pair.Key = p.foldExpr(pair.Key)
			pair.Value = p.foldExpr(pair.Value)
		}
		return ex
	case *ir.InterpolatedString:
		for i := range ex.Parts {
			if ex.Parts[i].Expr != nil {
				ex.Parts[i].Expr = p.foldExpr(ex.Parts[i].Expr)
			}
		}
		return ex
	}
	return e
}

func (p *ConstantFolding) foldBinary(e *ir.BinaryOp) (ir.Expr, bool) {
	left, lok := e.Left.(*ir.Literal)
	right, rok := e.Right.(*ir.Literal)
	if !lok || !rok {
		return nil, false
	}

	if left.Kind == ir.LitInt && right.Kind == ir.LitInt {
		a, aok := left.Value.(int64)
		b, bok := right.Value.(int64)
		if !aok || !bok {
			return nil, false
		}
		switch e.Op {
		case "+":
			return intLit(e, a+b), true
		case "-":
			return intLit(e, a-b), true
		case "*":
			return intLit(e, a*b), true
		case "/":
			if b == 0 {
				return nil, false
			}
			return intLit(e, a/b), true
		case "%":
			if b == 0 {
				return nil, false
			}
			return intLit(e, a%b), true
		}
		return nil, false
	}

	if numeric(left) && numeric(right) {
		a, b := floatValue(left), floatValue(right)
		switch e.Op {
		case "+":
			return floatLit(e, a+b), true
		case "-":
			return floatLit(e, a-b), true
		case "*":
			return floatLit(e, a*b), true
		case "/":
			if b == 0 {
				return nil, false
			}
			return floatLit(e, a/b), true
		}
	}
	return nil, false
}

func foldUnary(e *ir.UnaryOp) (ir.Expr, bool) {
	lit, ok := e.Operand.(*ir.Literal)
	if !ok {
		return nil, false
	}
	switch {
	case e.Op == "-" && lit.Kind == ir.LitInt:
		if v, ok := lit.Value.(int64); ok {
			return intLit(e, -v), true
		}
	case e.Op == "-" && lit.Kind == ir.LitFloat:
		if v, ok := lit.Value.(float64); ok {
			return floatLit(e, -v), true
		}
	case e.Op == "!" && lit.Kind == ir.LitBool:
		if v, ok := lit.Value.(bool); ok {
			out := &ir.Literal{Kind: ir.LitBool, Value: !v}
			out.Location = e.Loc()
			return out, true
		}
	}
	return nil, false
}

func numeric(l *ir.Literal) bool {
	return l.Kind == ir.LitInt || l.Kind == ir.LitFloat
}

func floatValue(l *ir.Literal) float64 {
	if l.Kind == ir.LitInt {
		v, _ := l.Value.(int64)
		return float64(v)
	}
	v, _ := l.Value.(float64)
	return v
}

func intLit(at ir.Node, v int64) *ir.Literal {
	out := &ir.Literal{Kind: ir.LitInt, Value: v}
	out.Location = at.Loc()
	return out
}

func floatLit(at ir.Node, v float64) *ir.Literal {
	out := &ir.Literal{Kind: ir.LitFloat, Value: v}
	out.Location = at.Loc()
	return out
}
