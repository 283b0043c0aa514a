package ir

import "testing"

func TestTypeString(t *testing.T) {
	fn := &FunctionType{
		Params: []Type{&SimpleType{Name: "Integer"}, &SimpleType{Name: "String"}},
		Return: &SimpleType{Name: "Boolean"},
	}
	tests := []struct {
		t    Type
		want string
	}{
		{&SimpleType{Name: "Integer"}, "Integer"},
		{&GenericType{Base: "Hash", Args: []Type{&SimpleType{Name: "String"}, &SimpleType{Name: "Integer"}}}, "Hash[String, Integer]"},
		{&UnionType{Members: []Type{&SimpleType{Name: "String"}, &SimpleType{Name: "nil"}}}, "String | nil"},
		{&IntersectionType{Members: []Type{&SimpleType{Name: "Readable"}, &SimpleType{Name: "Writable"}}}, "Readable & Writable"},
		{&NullableType{Inner: &SimpleType{Name: "Integer"}}, "Integer?"},
		{&NullableType{Inner: &UnionType{Members: []Type{&SimpleType{Name: "A"}, &SimpleType{Name: "B"}}}}, "(A | B)?"},
		{fn, "(Integer, String) -> Boolean"},
		{&FunctionType{}, "() -> untyped"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTupleTypeValidation(t *testing.T) {
	str := &SimpleType{Name: "String"}
	num := &SimpleType{Name: "Integer"}
	nums := &GenericType{Base: "Array", Args: []Type{num}}

	ok, err := NewTupleType([]TupleElem{{Type: str}, {Type: nums, Rest: true}})
	if err != nil {
		t.Fatalf("trailing rest should be valid: %v", err)
	}
	// The rest type carries its Array wrapper; rendering restores the
	// shorthand suffix instead of stacking a second one.
	if ok.String() != "[String, *Integer[]]" {
		t.Errorf("String() = %q", ok.String())
	}

	bare, err := NewTupleType([]TupleElem{{Type: str}, {Type: num, Rest: true}})
	if err != nil {
		t.Fatalf("trailing rest should be valid: %v", err)
	}
	if bare.String() != "[String, *Integer]" {
		t.Errorf("String() = %q", bare.String())
	}

	if _, err := NewTupleType([]TupleElem{{Type: str, Rest: true}, {Type: num, Rest: true}}); err == nil {
		t.Errorf("two rest elements should be rejected")
	}
	if _, err := NewTupleType([]TupleElem{{Type: str, Rest: true}, {Type: num}}); err == nil {
		t.Errorf("a non-trailing rest element should be rejected")
	}
}

func TestTypeEqual(t *testing.T) {
	a := &UnionType{Members: []Type{&SimpleType{Name: "String"}, &NullableType{Inner: &SimpleType{Name: "Integer"}}}}
	b := &UnionType{Members: []Type{&SimpleType{Name: "String"}, &NullableType{Inner: &SimpleType{Name: "Integer"}}}}
	if !TypeEqual(a, b) {
		t.Errorf("structurally equal unions should compare equal")
	}
	c := &UnionType{Members: []Type{&SimpleType{Name: "String"}}}
	if TypeEqual(a, c) {
		t.Errorf("unions of different lengths should not compare equal")
	}
	if TypeEqual(&SimpleType{Name: "Integer"}, &GenericType{Base: "Integer"}) {
		t.Errorf("different node kinds should not compare equal")
	}
	if !TypeEqual(nil, nil) {
		t.Errorf("two nil types are equal")
	}
	if TypeEqual(a, nil) {
		t.Errorf("nil never equals a concrete type")
	}
}

func TestTypeSlotResolutionOrder(t *testing.T) {
	explicit := &SimpleType{Name: "String"}
	inferred := &SimpleType{Name: "Integer"}
	resolved := &SimpleType{Name: "Float"}

	slot := &TypeSlot{}
	if got := slot.ResolvedTypeOrUntyped(); got.String() != UntypedName {
		t.Errorf("empty slot = %q, want untyped", got.String())
	}
	slot.Inferred = inferred
	if got := slot.ResolvedTypeOrUntyped(); got != inferred {
		t.Errorf("inferred should win over nothing")
	}
	slot.Explicit = explicit
	if got := slot.ResolvedTypeOrUntyped(); got != explicit {
		t.Errorf("explicit should win over inferred")
	}
	slot.Resolved = resolved
	if got := slot.ResolvedTypeOrUntyped(); got != resolved {
		t.Errorf("resolved should win over explicit")
	}

	var nilSlot *TypeSlot
	if got := nilSlot.ResolvedTypeOrUntyped(); got.String() != UntypedName {
		t.Errorf("nil slot = %q, want untyped", got.String())
	}
}
