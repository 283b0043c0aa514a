package types

import "github.com/type-ruby/trb/internal/ir"

// FlowContext tracks flow-sensitive narrowing: refined types keyed by
// variable name plus the stack of guard conditions currently in force. It
// layers on top of the static Scope and never mutates it.
type FlowContext struct {
	narrowed map[string]ir.Type
	guards   []ir.Expr
}

func NewFlowContext() *FlowContext {
	return &FlowContext{narrowed: make(map[string]ir.Type)}
}

// Narrow records a refined type for name.
func (f *FlowContext) Narrow(name string, t ir.Type) {
	f.narrowed[name] = t
}

// NarrowedType returns the refinement for name, if any.
func (f *FlowContext) NarrowedType(name string) (ir.Type, bool) {
	t, ok := f.narrowed[name]
	return t, ok
}

// PushGuard and PopGuard maintain the active guard stack.
func (f *FlowContext) PushGuard(cond ir.Expr) { f.guards = append(f.guards, cond) }

func (f *FlowContext) PopGuard() {
	if len(f.guards) > 0 {
		f.guards = f.guards[:len(f.guards)-1]
	}
}

// Branch snapshots the current narrowing for one conditional arm.
func (f *FlowContext) Branch() *FlowContext {
	child := NewFlowContext()
	for k, v := range f.narrowed {
		child.narrowed[k] = v
	}
	child.guards = append(child.guards, f.guards...)
	return child
}

// Merge combines two post-branch contexts. A variable narrowed differently
// in the two arms unions the refinements; a variable narrowed in only one
// arm keeps that narrowing.
func (f *FlowContext) Merge(other *FlowContext) *FlowContext {
	merged := NewFlowContext()
	merged.guards = append(merged.guards, f.guards...)
	for name, t := range f.narrowed {
		if ot, ok := other.narrowed[name]; ok {
			if ir.TypeEqual(t, ot) {
				merged.narrowed[name] = t
			} else {
				merged.narrowed[name] = &ir.UnionType{Members: []ir.Type{t, ot}}
			}
		} else {
			merged.narrowed[name] = t
		}
	}
	for name, t := range other.narrowed {
		if _, ok := f.narrowed[name]; !ok {
			merged.narrowed[name] = t
		}
	}
	return merged
}

// GuardNarrowing is the narrowing a guard expression induces on each branch.
type GuardNarrowing struct {
	Then map[string]ir.Type
	Else map[string]ir.Type
}

// AnalyzeGuard pattern-matches the shape of an already-parsed guard
// expression and returns the narrowing for both branches. current resolves
// a variable's statically known type, for computing nil-complement types.
//
// Recognized shapes:
//
//	x.is_a?(T)  narrows x to T in the guarded branch
//	x.nil?      narrows x to nil, and to its non-nil complement elsewhere
//	!guard      swaps the branches of the inner guard
func AnalyzeGuard(cond ir.Expr, current func(name string) ir.Type) GuardNarrowing {
	none := GuardNarrowing{Then: map[string]ir.Type{}, Else: map[string]ir.Type{}}

	switch e := cond.(type) {
	case *ir.UnaryOp:
		if e.Op == "!" {
			inner := AnalyzeGuard(e.Operand, current)
			return GuardNarrowing{Then: inner.Else, Else: inner.Then}
		}
	case *ir.MethodCall:
		ref, ok := e.Receiver.(*ir.VariableRef)
		if !ok {
			return none
		}
		switch e.Name {
		case "is_a?":
			if len(e.Args) != 1 {
				return none
			}
			target, ok := e.Args[0].Value.(*ir.VariableRef)
			if !ok || target.Scope != ir.ScopeConstant {
				return none
			}
			return GuardNarrowing{
				Then: map[string]ir.Type{ref.Name: &ir.SimpleType{Name: target.Name}},
				Else: map[string]ir.Type{},
			}
		case "nil?":
			narrowing := GuardNarrowing{
				Then: map[string]ir.Type{ref.Name: &ir.SimpleType{Name: "nil"}},
				Else: map[string]ir.Type{},
			}
			if comp := withoutNil(current(ref.Name)); comp != nil {
				narrowing.Else[ref.Name] = comp
			}
			return narrowing
		}
	}
	return none
}

// withoutNil strips the nil component from a type, returning nil (no
// narrowing) when the type has no nil component to remove.
func withoutNil(t ir.Type) ir.Type {
	switch tt := t.(type) {
	case *ir.NullableType:
		return tt.Inner
	case *ir.UnionType:
		var kept []ir.Type
		for _, m := range tt.Members {
			if s, ok := m.(*ir.SimpleType); ok && (s.Name == "nil" || s.Name == "NilClass") {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == len(tt.Members) {
			return nil
		}
		if len(kept) == 1 {
			return kept[0]
		}
		if len(kept) == 0 {
			return nil
		}
		return &ir.UnionType{Members: kept}
	}
	return nil
}
