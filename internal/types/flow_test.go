package types

import (
	"testing"

	"github.com/type-ruby/trb/internal/ir"
)

func guardCall(recv, method string, args ...ir.Expr) *ir.MethodCall {
	call := &ir.MethodCall{
		Receiver: &ir.VariableRef{Name: recv, Scope: ir.ScopeLocal},
		Name:     method,
	}
	for _, a := range args {
		call.Args = append(call.Args, &ir.Argument{Kind: ir.ArgPositional, Value: a})
	}
	return call
}

func constRef(name string) *ir.VariableRef {
	return &ir.VariableRef{Name: name, Scope: ir.ScopeConstant}
}

func staticType(types map[string]ir.Type) func(string) ir.Type {
	return func(name string) ir.Type {
		if t, ok := types[name]; ok {
			return t
		}
		return ir.Untyped()
	}
}

func TestAnalyzeGuardIsA(t *testing.T) {
	g := AnalyzeGuard(guardCall("x", "is_a?", constRef("Integer")), staticType(nil))
	then, ok := g.Then["x"]
	if !ok || then.String() != "Integer" {
		t.Fatalf("is_a? should narrow x to Integer in the guarded branch: %v", g.Then)
	}
	if len(g.Else) != 0 {
		t.Errorf("is_a? narrows nothing on the else branch")
	}
}

func TestAnalyzeGuardNilOnNullable(t *testing.T) {
	current := staticType(map[string]ir.Type{
		"x": &ir.NullableType{Inner: &ir.SimpleType{Name: "String"}},
	})
	g := AnalyzeGuard(guardCall("x", "nil?"), current)
	if g.Then["x"].String() != "nil" {
		t.Errorf("nil? then-branch: %v", g.Then["x"])
	}
	if g.Else["x"] == nil || g.Else["x"].String() != "String" {
		t.Errorf("nil? else-branch should strip the nil component: %v", g.Else["x"])
	}
}

func TestAnalyzeGuardNilOnUnion(t *testing.T) {
	current := staticType(map[string]ir.Type{
		"x": &ir.UnionType{Members: []ir.Type{
			&ir.SimpleType{Name: "String"},
			&ir.SimpleType{Name: "Integer"},
			&ir.SimpleType{Name: "nil"},
		}},
	})
	g := AnalyzeGuard(guardCall("x", "nil?"), current)
	if g.Else["x"] == nil || g.Else["x"].String() != "String | Integer" {
		t.Errorf("union complement = %v", g.Else["x"])
	}
}

func TestAnalyzeGuardNegation(t *testing.T) {
	inner := guardCall("x", "nil?")
	neg := &ir.UnaryOp{Op: "!", Operand: inner}
	current := staticType(map[string]ir.Type{
		"x": &ir.NullableType{Inner: &ir.SimpleType{Name: "Integer"}},
	})
	g := AnalyzeGuard(neg, current)
	// !x.nil? swaps the branches: the guarded branch has the non-nil type.
	if g.Then["x"] == nil || g.Then["x"].String() != "Integer" {
		t.Errorf("negated nil? then-branch: %v", g.Then["x"])
	}
	if g.Else["x"] == nil || g.Else["x"].String() != "nil" {
		t.Errorf("negated nil? else-branch: %v", g.Else["x"])
	}
}

func TestAnalyzeGuardUnrecognizedShapes(t *testing.T) {
	current := staticType(nil)
	shapes := []ir.Expr{
		&ir.VariableRef{Name: "flag", Scope: ir.ScopeLocal},
		&ir.BinaryOp{Op: "==", Left: &ir.VariableRef{Name: "x"}, Right: &ir.Literal{Kind: ir.LitInt, Value: int64(1)}},
		guardCall("x", "is_a?"), // missing the type argument
	}
	for _, cond := range shapes {
		g := AnalyzeGuard(cond, current)
		if len(g.Then) != 0 || len(g.Else) != 0 {
			t.Errorf("shape %T should narrow nothing: %+v", cond, g)
		}
	}
}

func TestFlowMerge(t *testing.T) {
	base := NewFlowContext()
	a := base.Branch()
	b := base.Branch()

	a.Narrow("x", &ir.SimpleType{Name: "Integer"})
	b.Narrow("x", &ir.SimpleType{Name: "String"})
	a.Narrow("y", &ir.SimpleType{Name: "Float"})
	b.Narrow("z", &ir.SimpleType{Name: "Symbol"})
	a.Narrow("same", &ir.SimpleType{Name: "Boolean"})
	b.Narrow("same", &ir.SimpleType{Name: "Boolean"})

	merged := a.Merge(b)
	if got, _ := merged.NarrowedType("x"); got.String() != "Integer | String" {
		t.Errorf("differing narrowings should union: %v", got)
	}
	if got, _ := merged.NarrowedType("same"); got.String() != "Boolean" {
		t.Errorf("equal narrowings stay plain: %v", got)
	}
	if got, ok := merged.NarrowedType("y"); !ok || got.String() != "Float" {
		t.Errorf("one-sided narrowing kept: %v", got)
	}
	if got, ok := merged.NarrowedType("z"); !ok || got.String() != "Symbol" {
		t.Errorf("one-sided narrowing kept: %v", got)
	}
}

func TestBranchIsolation(t *testing.T) {
	base := NewFlowContext()
	base.Narrow("x", &ir.SimpleType{Name: "Integer"})
	child := base.Branch()
	child.Narrow("x", &ir.SimpleType{Name: "String"})
	if got, _ := base.NarrowedType("x"); got.String() != "Integer" {
		t.Errorf("branch must not mutate its parent: %v", got)
	}
}

func TestScopeChain(t *testing.T) {
	root := NewScope(nil)
	root.Define("a", &ir.SimpleType{Name: "Integer"})
	child := root.Child()
	child.Define("b", &ir.SimpleType{Name: "String"})

	if got, ok := child.Lookup("a"); !ok || got.String() != "Integer" {
		t.Errorf("lookup should walk outward: %v", got)
	}
	if _, ok := root.Lookup("b"); ok {
		t.Errorf("inner bindings must not leak outward")
	}
	if child.DefinedLocally("a") {
		t.Errorf("a is not local to the child")
	}

	child.Define("a", &ir.SimpleType{Name: "Float"})
	if got, _ := child.Lookup("a"); got.String() != "Float" {
		t.Errorf("shadowing should win in the inner frame: %v", got)
	}
	if got, _ := root.Lookup("a"); got.String() != "Integer" {
		t.Errorf("shadowing must not touch the outer frame: %v", got)
	}
}
