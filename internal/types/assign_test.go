package types

import (
	"testing"

	"github.com/type-ruby/trb/internal/ir"
)

func TestUnionCompatibility(t *testing.T) {
	c := NewChecker(Options{})
	str := &ir.SimpleType{Name: "String"}
	num := &ir.SimpleType{Name: "Integer"}
	null := &ir.SimpleType{Name: "nil"}

	strOrInt := &ir.UnionType{Members: []ir.Type{str, num}}
	wide := &ir.UnionType{Members: []ir.Type{str, num, null}}
	strOrNil := &ir.UnionType{Members: []ir.Type{str, null}}

	if !c.assignable(strOrInt, wide) {
		t.Errorf("String | Integer should fit String | Integer | nil")
	}
	if c.assignable(strOrInt, str) {
		t.Errorf("String | Integer must not fit String alone")
	}
	if !c.assignable(str, strOrNil) {
		t.Errorf("String should fit String | nil")
	}
	if c.assignable(wide, strOrInt) {
		t.Errorf("the nil member must not be dropped")
	}
}

func TestAssignableNullable(t *testing.T) {
	c := NewChecker(Options{})
	str := &ir.SimpleType{Name: "String"}
	nullable := &ir.NullableType{Inner: str}

	if !c.assignable(str, nullable) {
		t.Errorf("String should fit String?")
	}
	if !c.assignable(&ir.SimpleType{Name: "nil"}, nullable) {
		t.Errorf("nil should fit String?")
	}
	if c.assignable(nullable, str) {
		t.Errorf("String? must not fit String")
	}
	if !c.assignable(nullable, &ir.UnionType{Members: []ir.Type{str, &ir.SimpleType{Name: "nil"}}}) {
		t.Errorf("String? should fit String | nil")
	}
}
