package ir

// SlotKind names the position a TypeSlot annotates.
type SlotKind int

const (
	SlotParameter SlotKind = iota
	SlotReturn
	SlotVariable
	SlotInstanceVar
	SlotGenericArg
)

func (k SlotKind) String() string {
	switch k {
	case SlotReturn:
		return "return"
	case SlotVariable:
		return "variable"
	case SlotInstanceVar:
		return "instance_var"
	case SlotGenericArg:
		return "generic_arg"
	}
	return "parameter"
}

// TypeSlot marks one position where a type was written explicitly, was
// inferred, or was resolved after checking. Slots are attached to IR nodes
// by reference and own no other node.
type TypeSlot struct {
	Kind     SlotKind
	Location *Location
	Context  string // a human-readable anchor, e.g. "param a of add"

	Explicit Type // as written in source, nil when absent
	Inferred Type // filled by inference, nil until then
	Resolved Type // final checked type, nil until resolution
}

// NewExplicitSlot builds a slot for a written annotation.
func NewExplicitSlot(kind SlotKind, context string, t Type) *TypeSlot {
	return &TypeSlot{Kind: kind, Context: context, Explicit: t}
}

// ResolvedTypeOrUntyped returns the best-known type at this slot:
// resolved over explicit over inferred, defaulting to untyped.
func (s *TypeSlot) ResolvedTypeOrUntyped() Type {
	if s == nil {
		return Untyped()
	}
	if s.Resolved != nil {
		return s.Resolved
	}
	if s.Explicit != nil {
		return s.Explicit
	}
	if s.Inferred != nil {
		return s.Inferred
	}
	return Untyped()
}
