package types

import (
	"strconv"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
)

func simple(name string) *ir.SimpleType { return &ir.SimpleType{Name: name} }

func isNumericType(t ir.Type) bool {
	s, ok := t.(*ir.SimpleType)
	return ok && (s.Name == "Integer" || s.Name == "Float" || s.Name == "Numeric")
}

func isStringType(t ir.Type) bool {
	s, ok := t.(*ir.SimpleType)
	return ok && s.Name == "String"
}

// inferExpr computes an expression's type, reporting diagnostics along the
// way. It never fails: positions it cannot type resolve to untyped.
func (c *Checker) inferExpr(expr ir.Expr) ir.Type {
	switch e := expr.(type) {
	case *ir.Literal:
		return literalType(e)
	case *ir.VariableRef:
		return c.currentTypeOf(e.Name)
	case *ir.BinaryOp:
		return c.inferBinary(e)
	case *ir.UnaryOp:
		if e.Op == "!" {
			c.inferExpr(e.Operand)
			return simple("Boolean")
		}
		// unary minus
		t := c.inferExpr(e.Operand)
		if isNumericType(t) || isUntyped(t) {
			return t
		}
		c.errorAt(diagnostics.ErrT005, e.Loc(), "unary - requires a numeric operand, got %s", t.String())
		return ir.Untyped()
	case *ir.Ternary:
		c.inferExpr(e.Cond)
		thenT := c.inferExpr(e.Then)
		elseT := c.inferExpr(e.Else)
		if ir.TypeEqual(thenT, elseT) {
			return thenT
		}
		return &ir.UnionType{Members: []ir.Type{thenT, elseT}}
	case *ir.MethodCall:
		return c.inferCall(e)
	case *ir.ArrayLiteral:
		return c.inferArray(e)
	case *ir.HashLiteral:
		return c.inferHash(e)
	case *ir.InterpolatedString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				c.inferExpr(part.Expr)
			}
		}
		return simple("String")
	case *ir.Yield:
		for _, a := range e.Args {
			c.inferExpr(a)
		}
		return ir.Untyped()
	}
	return ir.Untyped()
}

func literalType(lit *ir.Literal) ir.Type {
	switch lit.Kind {
	case ir.LitInt:
		return simple("Integer")
	case ir.LitFloat:
		return simple("Float")
	case ir.LitString:
		return simple("String")
	case ir.LitSymbol:
		return simple("Symbol")
	case ir.LitBool:
		return simple("Boolean")
	case ir.LitRegex:
		return simple("Regexp")
	}
	return simple("nil")
}

// inferBinary applies the operator typing rules: string concatenation wants
// strings on both sides, arithmetic wants numbers (promoting to Float when
// either side is), comparisons yield Boolean, and the logical operators
// short-circuit to the right operand's type.
func (c *Checker) inferBinary(e *ir.BinaryOp) ir.Type {
	left := c.inferExpr(e.Left)
	right := c.inferExpr(e.Right)

	switch e.Op {
	case "+":
		if isStringType(left) || isStringType(right) {
			if isStringType(left) && isStringType(right) {
				return simple("String")
			}
			if isUntyped(left) || isUntyped(right) {
				return simple("String")
			}
			actual := right
			if !isStringType(left) {
				actual = left
			}
			c.mismatch(diagnostics.ErrT005, e.Loc(), simple("String"), actual,
				"string concatenation requires both operands to be strings")
			return simple("String")
		}
		return c.arithmeticResult(e, left, right)
	case "-", "*", "/", "%", "**":
		return c.arithmeticResult(e, left, right)
	case "==", "!=", "<", ">", "<=", ">=":
		return simple("Boolean")
	case "&&", "||":
		return right
	case "&", "|":
		if isUntyped(left) || isUntyped(right) {
			return ir.Untyped()
		}
		ls, lok := left.(*ir.SimpleType)
		rs, rok := right.(*ir.SimpleType)
		if lok && rok && ls.Name == "Integer" && rs.Name == "Integer" {
			return simple("Integer")
		}
		if lok && rok && ls.Name == "Boolean" && rs.Name == "Boolean" {
			return simple("Boolean")
		}
		return ir.Untyped()
	}
	return ir.Untyped()
}

func (c *Checker) arithmeticResult(e *ir.BinaryOp, left, right ir.Type) ir.Type {
	if isUntyped(left) || isUntyped(right) {
		return ir.Untyped()
	}
	if !isNumericType(left) || !isNumericType(right) {
		actual := left
		if isNumericType(left) {
			actual = right
		}
		c.mismatch(diagnostics.ErrT005, e.Loc(), simple("Numeric"), actual,
			"operator %s requires numeric operands", e.Op)
		return ir.Untyped()
	}
	if isFloat(left) || isFloat(right) {
		return simple("Float")
	}
	return simple("Integer")
}

func isFloat(t ir.Type) bool {
	s, ok := t.(*ir.SimpleType)
	return ok && s.Name == "Float"
}

func (c *Checker) inferArray(e *ir.ArrayLiteral) ir.Type {
	if len(e.Elements) == 0 {
		return &ir.GenericType{Base: "Array", Args: []ir.Type{ir.Untyped()}}
	}
	elem := c.inferExpr(e.Elements[0])
	for _, el := range e.Elements[1:] {
		elem = c.join(elem, c.inferExpr(el))
	}
	return &ir.GenericType{Base: "Array", Args: []ir.Type{elem}}
}

func (c *Checker) inferHash(e *ir.HashLiteral) ir.Type {
	if len(e.Pairs) == 0 {
		return &ir.GenericType{Base: "Hash", Args: []ir.Type{ir.Untyped(), ir.Untyped()}}
	}
	key := c.inferExpr(e.Pairs[0].Key)
	value := c.inferExpr(e.Pairs[0].Value)
	for _, pair := range e.Pairs[1:] {
		key = c.join(key, c.inferExpr(pair.Key))
		value = c.join(value, c.inferExpr(pair.Value))
	}
	return &ir.GenericType{Base: "Hash", Args: []ir.Type{key, value}}
}

// join finds a single type covering both operands: equal types stay, two
// simple types meet at their common supertype, anything else degrades to
// untyped.
func (c *Checker) join(a, b ir.Type) ir.Type {
	if ir.TypeEqual(a, b) {
		return a
	}
	as, aok := a.(*ir.SimpleType)
	bs, bok := b.(*ir.SimpleType)
	if aok && bok {
		return simple(c.hierarchy.CommonSupertype(as.Name, bs.Name))
	}
	return ir.Untyped()
}

func (c *Checker) inferCall(e *ir.MethodCall) ir.Type {
	// Each argument expression is inferred exactly once so its diagnostics
	// are reported exactly once.
	argTypes := make([]ir.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.inferExpr(a.Value)
	}

	if e.Receiver == nil {
		return c.checkBareCall(e, argTypes)
	}

	recv := c.inferExpr(e.Receiver)
	if isUntyped(recv) {
		return ir.Untyped()
	}
	return c.memberAccess(e, recv)
}

// checkBareCall validates arity and argument compatibility against the
// registered signature of a receiverless call. argTypes holds the already
// inferred type of every argument, parallel to e.Args.
func (c *Checker) checkBareCall(e *ir.MethodCall, argTypes []ir.Type) ir.Type {
	sig, ok := c.methods[e.Name]
	if !ok {
		// Unknown functions are untyped; the host language resolves them.
		return ir.Untyped()
	}

	var positional []*ir.Argument
	var positionalTypes []ir.Type
	hasSplat := false
	for i, a := range e.Args {
		switch a.Kind {
		case ir.ArgPositional:
			positional = append(positional, a)
			positionalTypes = append(positionalTypes, argTypes[i])
		case ir.ArgSplat, ir.ArgDoubleSplat:
			hasSplat = true
		}
	}

	required, maxPositional := 0, 0
	varargs := false
	var positionalParams []*ir.Param
	for _, p := range sig.Params {
		switch p.Kind {
		case ir.ParamRequired:
			required++
			maxPositional++
			positionalParams = append(positionalParams, p)
		case ir.ParamOptional:
			maxPositional++
			positionalParams = append(positionalParams, p)
		case ir.ParamRest:
			varargs = true
		}
	}

	if !hasSplat {
		given := len(positional)
		if given < required || (!varargs && given > maxPositional) {
			expected := strconv.Itoa(required)
			if maxPositional != required || varargs {
				if varargs {
					expected = strconv.Itoa(required) + "+"
				} else {
					expected = strconv.Itoa(required) + ".." + strconv.Itoa(maxPositional)
				}
			}
			c.errorAt(diagnostics.ErrT002, e.Loc(),
				"wrong number of arguments calling %s (given %d, expected %s)",
				e.Name, given, expected)
		}
	}

	for i, arg := range positional {
		if i >= len(positionalParams) {
			break
		}
		declared := positionalParams[i].Slot.Explicit
		if declared == nil {
			continue
		}
		actual := positionalTypes[i]
		if !c.assignable(actual, c.resolveAlias(declared)) {
			c.mismatch(diagnostics.ErrT001, arg.Loc(), declared, actual,
				"argument %d of %s is not compatible with parameter %s",
				i+1, e.Name, positionalParams[i].Name)
		}
	}

	if sig.Return != nil {
		return c.resolveAlias(sig.Return)
	}
	return ir.Untyped()
}

// memberAccess validates a property access against the closed table of
// known members and returns the member's result type when known.
func (c *Checker) memberAccess(e *ir.MethodCall, recv ir.Type) ir.Type {
	switch rt := c.resolveAlias(recv).(type) {
	case *ir.SimpleType:
		if result, ok := memberResult(rt.Name, e.Name); ok {
			return simple(result)
		}
		if _, known := builtinMembers[rt.Name]; known {
			c.warnAt(diagnostics.ErrT004, e.Loc(), "unknown member %s for type %s", e.Name, rt.Name)
		}
		return ir.Untyped()
	case *ir.GenericType:
		// Element-typed members of the built-in collections.
		if rt.Base == "Array" && len(rt.Args) == 1 {
			switch e.Name {
			case "first", "last", "[]", "sample", "min", "max":
				return rt.Args[0]
			case "push", "reverse", "sort", "uniq", "compact", "concat":
				return rt
			}
		}
		if rt.Base == "Hash" && len(rt.Args) == 2 {
			switch e.Name {
			case "[]":
				return rt.Args[1]
			case "keys":
				return &ir.GenericType{Base: "Array", Args: []ir.Type{rt.Args[0]}}
			case "values":
				return &ir.GenericType{Base: "Array", Args: []ir.Type{rt.Args[1]}}
			}
		}
		if result, ok := memberResult(rt.Base, e.Name); ok {
			return simple(result)
		}
		if _, known := builtinMembers[rt.Base]; known {
			c.warnAt(diagnostics.ErrT004, e.Loc(), "unknown member %s for type %s", e.Name, rt.Base)
		}
		return ir.Untyped()
	case *ir.NullableType:
		// Accessing members through a possibly-nil receiver is reported, then
		// checking proceeds against the inner type.
		if e.Name != "nil?" {
			c.warnAt(diagnostics.ErrT004, e.Loc(),
				"member %s accessed on possibly nil value of type %s", e.Name, rt.String())
		}
		return c.memberAccess(e, rt.Inner)
	}
	return ir.Untyped()
}

// assignable implements assignment compatibility. Unions are decomposed
// first: an actual union fits only if every member fits; an expected union
// is satisfied if any member accepts the actual type.
func (c *Checker) assignable(actual, expected ir.Type) bool {
	actual = c.resolveAlias(actual)
	expected = c.resolveAlias(expected)

	if isUntyped(actual) || isUntyped(expected) {
		return true
	}

	if au, ok := actual.(*ir.UnionType); ok {
		for _, m := range au.Members {
			if !c.assignable(m, expected) {
				return false
			}
		}
		return true
	}
	if an, ok := actual.(*ir.NullableType); ok {
		if en, ok := expected.(*ir.NullableType); ok {
			return c.assignable(an.Inner, en.Inner)
		}
		// A possibly-nil value needs a nil-accepting target.
		return c.assignable(an.Inner, expected) && c.assignable(simple("nil"), expected)
	}
	if eu, ok := expected.(*ir.UnionType); ok {
		for _, m := range eu.Members {
			if c.assignable(actual, m) {
				return true
			}
		}
		return false
	}

	if en, ok := expected.(*ir.NullableType); ok {
		if isNilType(actual) {
			return true
		}
		return c.assignable(actual, en.Inner)
	}

	if ei, ok := expected.(*ir.IntersectionType); ok {
		for _, m := range ei.Members {
			if !c.assignable(actual, m) {
				return false
			}
		}
		return true
	}
	if ai, ok := actual.(*ir.IntersectionType); ok {
		for _, m := range ai.Members {
			if c.assignable(m, expected) {
				return true
			}
		}
		return false
	}

	switch et := expected.(type) {
	case *ir.SimpleType:
		if as, ok := actual.(*ir.SimpleType); ok {
			return c.hierarchy.SubtypeOf(as.Name, et.Name)
		}
		if ag, ok := actual.(*ir.GenericType); ok {
			return c.hierarchy.SubtypeOf(ag.Base, et.Name)
		}
		if _, ok := actual.(*ir.TupleType); ok {
			return c.hierarchy.SubtypeOf("Array", et.Name)
		}
		if _, ok := actual.(*ir.FunctionType); ok {
			return c.hierarchy.SubtypeOf("Proc", et.Name)
		}
	case *ir.GenericType:
		ag, ok := actual.(*ir.GenericType)
		if !ok || ag.Base != et.Base || len(ag.Args) != len(et.Args) {
			return false
		}
		for i := range et.Args {
			if !c.assignable(ag.Args[i], et.Args[i]) {
				return false
			}
		}
		return true
	case *ir.TupleType:
		at, ok := actual.(*ir.TupleType)
		if !ok || len(at.Elements) != len(et.Elements) {
			return false
		}
		for i := range et.Elements {
			if at.Elements[i].Rest != et.Elements[i].Rest {
				return false
			}
			if !c.assignable(at.Elements[i].Type, et.Elements[i].Type) {
				return false
			}
		}
		return true
	case *ir.FunctionType:
		af, ok := actual.(*ir.FunctionType)
		if !ok || len(af.Params) != len(et.Params) {
			return false
		}
		for i := range et.Params {
			if !c.assignable(et.Params[i], af.Params[i]) {
				return false
			}
		}
		if et.Return == nil || af.Return == nil {
			return true
		}
		return c.assignable(af.Return, et.Return)
	}
	return false
}
