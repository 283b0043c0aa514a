package ir

import (
	"fmt"
	"strings"
)

// UntypedName is the name of the universal "unknown" type. Every value is
// assignable to it and it is assignable everywhere; it is what unannotated
// positions resolve to.
const UntypedName = "untyped"

// SimpleType is a bare type name: Integer, String, MyClass.
type SimpleType struct {
	NodeMeta
	Name string
}

func (t *SimpleType) typeNode()        {}
func (t *SimpleType) Accept(v Visitor) { v.VisitSimpleType(t) }
func (t *SimpleType) String() string   { return t.Name }

// GenericType is a parameterized type: Array[Integer], Hash[String, Integer].
type GenericType struct {
	NodeMeta
	Base string
	Args []Type
}

func (t *GenericType) typeNode()        {}
func (t *GenericType) Accept(v Visitor) { v.VisitGenericType(t) }
func (t *GenericType) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", t.Base, strings.Join(args, ", "))
}

// UnionType is an untagged union: String | Integer.
type UnionType struct {
	NodeMeta
	Members []Type
}

func (t *UnionType) typeNode()        {}
func (t *UnionType) Accept(v Visitor) { v.VisitUnionType(t) }
func (t *UnionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// IntersectionType requires all member types at once: Readable & Writable.
type IntersectionType struct {
	NodeMeta
	Members []Type
}

func (t *IntersectionType) typeNode()        {}
func (t *IntersectionType) Accept(v Visitor) { v.VisitIntersectionType(t) }
func (t *IntersectionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

// FunctionType is a callable signature: (Integer, String) -> Boolean.
type FunctionType struct {
	NodeMeta
	Params []Type
	Return Type
}

func (t *FunctionType) typeNode()        {}
func (t *FunctionType) Accept(v Visitor) { v.VisitFunctionType(t) }
func (t *FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	ret := UntypedName
	if t.Return != nil {
		ret = t.Return.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), ret)
}

// NullableType admits nil in addition to the inner type: Integer?.
type NullableType struct {
	NodeMeta
	Inner Type
}

func (t *NullableType) typeNode()        {}
func (t *NullableType) Accept(v Visitor) { v.VisitNullableType(t) }
func (t *NullableType) String() string {
	inner := t.Inner.String()
	// Parenthesize compound inner types so the ? binds unambiguously.
	switch t.Inner.(type) {
	case *UnionType, *IntersectionType, *FunctionType:
		return "(" + inner + ")?"
	}
	return inner + "?"
}

// TupleElem is one element of a tuple type. Rest marks a *T[] spread.
type TupleElem struct {
	Type Type
	Rest bool
}

// TupleType is a fixed-shape array type: [String, Integer] or
// [String, *Integer[]]. At most one rest element is allowed and it must be
// last; NewTupleType enforces both.
type TupleType struct {
	NodeMeta
	Elements []TupleElem
}

// NewTupleType validates the rest-element rules at construction time rather
// than silently truncating.
func NewTupleType(elems []TupleElem) (*TupleType, error) {
	rests := 0
	for i, e := range elems {
		if !e.Rest {
			continue
		}
		rests++
		if rests > 1 {
			return nil, fmt.Errorf("tuple type has multiple rest elements")
		}
		if i != len(elems)-1 {
			return nil, fmt.Errorf("tuple rest element must be last")
		}
	}
	return &TupleType{Elements: elems}, nil
}

func (t *TupleType) typeNode()        {}
func (t *TupleType) Accept(v Visitor) { v.VisitTupleType(t) }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		if e.Rest {
			parts[i] = "*" + restString(e.Type)
		} else {
			parts[i] = e.Type.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// restString renders a rest element's type, which already carries its Array
// wrapper, back in the shorthand form it was written in ([]) whenever the
// element type binds tighter than the postfix suffix.
func restString(t Type) string {
	if g, ok := t.(*GenericType); ok && g.Base == "Array" && len(g.Args) == 1 {
		switch g.Args[0].(type) {
		case *UnionType, *IntersectionType, *FunctionType:
			// The suffix would rebind inside the compound type.
		default:
			return g.Args[0].String() + "[]"
		}
	}
	return t.String()
}

// Untyped returns the universal unknown type.
func Untyped() *SimpleType { return &SimpleType{Name: UntypedName} }

// TypeEqual reports semantic equality of two type nodes, ignoring source
// locations.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case *SimpleType:
		bt, ok := b.(*SimpleType)
		return ok && at.Name == bt.Name
	case *GenericType:
		bt, ok := b.(*GenericType)
		if !ok || at.Base != bt.Base || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !TypeEqual(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		return true
	case *UnionType:
		bt, ok := b.(*UnionType)
		return ok && typeListEqual(at.Members, bt.Members)
	case *IntersectionType:
		bt, ok := b.(*IntersectionType)
		return ok && typeListEqual(at.Members, bt.Members)
	case *FunctionType:
		bt, ok := b.(*FunctionType)
		return ok && typeListEqual(at.Params, bt.Params) && TypeEqual(at.Return, bt.Return)
	case *NullableType:
		bt, ok := b.(*NullableType)
		return ok && TypeEqual(at.Inner, bt.Inner)
	case *TupleType:
		bt, ok := b.(*TupleType)
		if !ok || len(at.Elements) != len(bt.Elements) {
			return false
		}
		for i := range at.Elements {
			if at.Elements[i].Rest != bt.Elements[i].Rest ||
				!TypeEqual(at.Elements[i].Type, bt.Elements[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

func typeListEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TypeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
