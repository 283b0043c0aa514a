package parser_test

import (
	"testing"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
)

// aliasType parses "type T = <src>" and returns the aliased type.
func aliasType(t *testing.T, src string) ir.Type {
	t.Helper()
	prog := parse(t, "type T = "+src+"\n")
	return prog.Decls[0].(*ir.TypeAlias).Aliased
}

func TestParseTypeExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Integer", "Integer"},
		{"String | Integer", "String | Integer"},
		{"String | Integer | nil", "String | Integer | nil"},
		{"Readable & Writable", "Readable & Writable"},
		{"Integer?", "Integer?"},
		{"Array[Integer]", "Array[Integer]"},
		{"Hash[String, Integer]", "Hash[String, Integer]"},
		{"Integer[]", "Array[Integer]"},
		{"Integer[][]", "Array[Array[Integer]]"},
		{"(Integer, String) -> Boolean", "(Integer, String) -> Boolean"},
		{"() -> nil", "() -> nil"},
		{"[String, Integer]", "[String, Integer]"},
		{"[String, *Integer[]]", "[String, *Integer[]]"},
		{"(String | Integer)?", "(String | Integer)?"},
		{"Array[String | nil]", "Array[String | nil]"},
		{"Array[Integer]?", "Array[Integer]?"},
	}
	for _, tt := range tests {
		got := aliasType(t, tt.src)
		if got.String() != tt.want {
			t.Errorf("%q parsed to %q, want %q", tt.src, got.String(), tt.want)
		}
	}
}

func TestTypeRenderingReparsesToSameType(t *testing.T) {
	// String() output must be valid annotation syntax that parses back to
	// the same type, rest-element tuples included.
	sources := []string{
		"[String, *Integer[]]",
		"[Symbol, *Array[Integer][]]",
		"[String, Integer]",
		"Hash[String, Integer]",
		"(String | Integer)?",
	}
	for _, src := range sources {
		first := aliasType(t, src)
		second := aliasType(t, first.String())
		if !ir.TypeEqual(first, second) {
			t.Errorf("%q renders as %q, which reparses to %q", src, first.String(), second.String())
		}
	}
}

func TestParseUnionBindsLooserThanNullable(t *testing.T) {
	u, ok := aliasType(t, "String | Integer?").(*ir.UnionType)
	if !ok {
		t.Fatalf("expected a union")
	}
	if _, ok := u.Members[1].(*ir.NullableType); !ok {
		t.Errorf("? should bind to Integer only, got %T", u.Members[1])
	}
}

func TestParseTupleRestErrors(t *testing.T) {
	tests := []string{
		"[Integer, *String[], Float]",   // rest not last
		"[*Integer[], *String[]]",       // two rests
		"[String, *Integer[], *Bool[]]", // both at once
	}
	for _, src := range tests {
		diag := parseError(t, "type T = "+src+"\n")
		if diag.Code != diagnostics.ErrP005 {
			t.Errorf("%q: code = %s, want %s", src, diag.Code, diagnostics.ErrP005)
		}
	}
}

func TestParseBareParenListNeedsArrow(t *testing.T) {
	diag := parseError(t, "type T = (Integer, String)\n")
	if diag.Code != diagnostics.ErrP003 {
		t.Errorf("code = %s, want %s", diag.Code, diagnostics.ErrP003)
	}
}
