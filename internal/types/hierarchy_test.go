package types

import "testing"

func TestSubtypeReflexive(t *testing.T) {
	h := NewHierarchy()
	for _, name := range []string{"Integer", "String", "Object", "Widget"} {
		if !h.SubtypeOf(name, name) {
			t.Errorf("%s should be a subtype of itself", name)
		}
	}
}

func TestEverythingSubtypesObject(t *testing.T) {
	h := NewHierarchy()
	for _, name := range []string{"Integer", "Float", "String", "nil", "Unregistered"} {
		if !h.SubtypeOf(name, TopType) {
			t.Errorf("%s should be a subtype of %s", name, TopType)
		}
	}
}

func TestSubtypeTransitive(t *testing.T) {
	h := NewHierarchy()
	// Integer -> Numeric -> Comparable is seeded.
	if !h.SubtypeOf("Integer", "Numeric") {
		t.Errorf("direct edge missing")
	}
	if !h.SubtypeOf("Integer", "Comparable") {
		t.Errorf("transitive closure missing")
	}
	if h.SubtypeOf("Comparable", "Integer") {
		t.Errorf("subtyping must not be symmetric")
	}

	h.Register("Admin", "User")
	h.Register("User", "Person")
	if !h.SubtypeOf("Admin", "Person") {
		t.Errorf("registered edges should chain")
	}
}

func TestCompatibleEitherDirection(t *testing.T) {
	h := NewHierarchy()
	if !h.Compatible("Integer", "Numeric") || !h.Compatible("Numeric", "Integer") {
		t.Errorf("compatibility is symmetric")
	}
	if h.Compatible("Integer", "String") {
		t.Errorf("Integer and String are unrelated below Comparable")
	}
}

func TestCommonSupertype(t *testing.T) {
	h := NewHierarchy()
	tests := []struct{ a, b, want string }{
		{"Integer", "Integer", "Integer"},
		{"Integer", "Float", "Numeric"},
		{"Integer", "String", "Comparable"},
		{"Integer", "Symbol", TopType},
		{"Array", "Hash", "Enumerable"},
	}
	for _, tt := range tests {
		if got := h.CommonSupertype(tt.a, tt.b); got != tt.want {
			t.Errorf("CommonSupertype(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestKnown(t *testing.T) {
	h := NewHierarchy()
	if !h.Known("Integer") || !h.Known(TopType) || !h.Known("Enumerable") {
		t.Errorf("seeded names should be known")
	}
	if h.Known("Widget") {
		t.Errorf("unregistered names are unknown")
	}
	h.Register("Widget", TopType)
	if !h.Known("Widget") {
		t.Errorf("registration should make a name known")
	}
}
