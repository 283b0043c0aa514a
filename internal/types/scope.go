package types

import "github.com/type-ruby/trb/internal/ir"

// Scope is one frame of the lexical type-scope chain. Lookup walks outward
// to the root; Define only ever touches the innermost frame.
type Scope struct {
	parent   *Scope
	bindings map[string]ir.Type
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: make(map[string]ir.Type)}
}

// Define binds a name in this frame, shadowing any outer binding.
func (s *Scope) Define(name string, t ir.Type) {
	s.bindings[name] = t
}

// Lookup resolves a name against this frame and its ancestors.
func (s *Scope) Lookup(name string) (ir.Type, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if t, ok := frame.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DefinedLocally reports whether the innermost frame binds name.
func (s *Scope) DefinedLocally(name string) bool {
	_, ok := s.bindings[name]
	return ok
}

// Child opens a nested frame for a block or method body.
func (s *Scope) Child() *Scope {
	return NewScope(s)
}
