package types

import (
	"fmt"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
)

// Options configures one Checker instance. There is no process-wide state:
// warn-once behavior is tracked per checker.
type Options struct {
	// Strict promotes unknown-member and unknown-type warnings to errors.
	Strict bool
	// WarnUnknownTypes reports annotations naming unregistered types.
	WarnUnknownTypes bool
}

// Signature is one registered method signature.
type Signature struct {
	Name   string
	Params []*ir.Param
	Return ir.Type
}

// Checker performs type checking of one compilation unit. Diagnostics
// accumulate: checking continues across the whole unit and everything is
// returned together.
type Checker struct {
	hierarchy *Hierarchy
	scope     *Scope
	flow      *FlowContext
	opts      Options

	methods    map[string]*Signature
	aliases    map[string]ir.Type
	interfaces map[string]*ir.Interface

	diags       []*diagnostics.Diagnostic
	warnedTypes map[string]bool

	currentReturn ir.Type // declared return type of the method being checked
}

func NewChecker(opts Options) *Checker {
	return &Checker{
		hierarchy:   NewHierarchy(),
		scope:       NewScope(nil),
		flow:        NewFlowContext(),
		opts:        opts,
		methods:     make(map[string]*Signature),
		aliases:     make(map[string]ir.Type),
		interfaces:  make(map[string]*ir.Interface),
		warnedTypes: make(map[string]bool),
	}
}

// Hierarchy exposes the subtype relation for callers that register edges.
func (c *Checker) Hierarchy() *Hierarchy { return c.hierarchy }

// Check analyzes the whole program and returns its diagnostics.
func (c *Checker) Check(prog *ir.Program) []*diagnostics.Diagnostic {
	// First pass: collect signatures, aliases, interfaces and class edges so
	// declaration order does not matter for resolution.
	for _, decl := range prog.Decls {
		c.collect(decl)
	}
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ir.MethodDef:
			c.checkMethod(d)
		case *ir.ClassDecl:
			for _, m := range d.Methods {
				c.checkMethod(m)
			}
		case *ir.ModuleDecl:
			for _, m := range d.Methods {
				c.checkMethod(m)
			}
		}
	}
	return c.diags
}

func (c *Checker) collect(decl ir.Decl) {
	switch d := decl.(type) {
	case *ir.TypeAlias:
		c.aliases[d.Name] = d.Aliased
	case *ir.Interface:
		c.interfaces[d.Name] = d
		c.hierarchy.Register(d.Name, TopType)
	case *ir.ClassDecl:
		super := d.SuperClass
		if super == "" {
			super = TopType
		}
		c.hierarchy.Register(d.Name, super)
		for _, m := range d.Methods {
			c.register(m)
		}
	case *ir.ModuleDecl:
		for _, m := range d.Methods {
			c.register(m)
		}
	case *ir.MethodDef:
		c.register(d)
	}
}

func (c *Checker) register(m *ir.MethodDef) {
	c.methods[m.Name] = &Signature{
		Name:   m.Name,
		Params: m.Params,
		Return: m.ReturnSlot.Explicit,
	}
}

func (c *Checker) checkMethod(m *ir.MethodDef) {
	outerScope, outerFlow, outerReturn := c.scope, c.flow, c.currentReturn
	c.scope = c.scope.Child()
	c.flow = NewFlowContext()
	defer func() {
		c.scope, c.flow, c.currentReturn = outerScope, outerFlow, outerReturn
	}()

	for _, p := range m.Params {
		declared := p.Slot.ResolvedTypeOrUntyped()
		if p.Slot.Explicit != nil {
			c.validateTypeName(p.Slot.Explicit, p.Loc())
		}
		if p.Default != nil && p.Slot.Explicit != nil {
			defType := c.inferExpr(p.Default)
			if !c.assignable(defType, p.Slot.Explicit) {
				c.mismatch(diagnostics.ErrT001, p.Loc(), p.Slot.Explicit, defType,
					"default value for %s is not compatible with its declared type", p.Name)
			}
		}
		c.scope.Define(p.Name, declared)
		p.Slot.Resolved = declared
	}

	c.currentReturn = nil
	if m.ReturnSlot.Explicit != nil {
		c.validateTypeName(m.ReturnSlot.Explicit, m.Loc())
		c.currentReturn = c.resolveAlias(m.ReturnSlot.Explicit)
	}

	last := c.checkBlock(m.Body)

	// The value of the last statement is the implicit return value.
	if c.currentReturn != nil && last != nil && !endsWithReturn(m.Body) {
		if !c.assignable(last, c.currentReturn) {
			c.mismatch(diagnostics.ErrT003, m.Loc(), c.currentReturn, last,
				"method %s returns %s but is declared to return %s",
				m.Name, last.String(), c.currentReturn.String())
		}
	}

	if m.ReturnSlot.Explicit != nil {
		m.ReturnSlot.Resolved = m.ReturnSlot.Explicit
	} else if last != nil {
		m.ReturnSlot.Inferred = last
		m.ReturnSlot.Resolved = last
	}
}

func endsWithReturn(block *ir.Block) bool {
	if len(block.Statements) == 0 {
		return false
	}
	_, ok := block.Statements[len(block.Statements)-1].(*ir.Return)
	return ok
}

// checkBlock checks every statement and returns the type of the block's
// trailing expression, or nil when the block does not end in a value.
func (c *Checker) checkBlock(block *ir.Block) ir.Type {
	if block == nil {
		return nil
	}
	var last ir.Type
	for _, stmt := range block.Statements {
		last = c.checkStmt(stmt)
	}
	return last
}

func (c *Checker) checkStmt(stmt ir.Stmt) ir.Type {
	switch s := stmt.(type) {
	case *ir.Assignment:
		return c.checkAssignment(s)
	case *ir.Return:
		var t ir.Type = &ir.SimpleType{Name: "nil"}
		if s.Value != nil {
			t = c.inferExpr(s.Value)
		}
		if c.currentReturn != nil && !c.assignable(t, c.currentReturn) {
			c.mismatch(diagnostics.ErrT003, s.Loc(), c.currentReturn, t,
				"return value is not compatible with the declared return type")
		}
		return nil
	case *ir.Conditional:
		c.checkConditional(s)
		return nil
	case *ir.Loop:
		c.inferExpr(s.Cond)
		saved := c.flow
		c.flow = c.flow.Branch()
		c.checkBlock(s.Body)
		c.flow = saved
		return nil
	case *ir.CaseExpr:
		c.inferExpr(s.Subject)
		for _, when := range s.Whens {
			for _, v := range when.Values {
				c.inferExpr(v)
			}
			saved := c.flow
			c.flow = c.flow.Branch()
			c.checkBlock(when.Body)
			c.flow = saved
		}
		if s.Else != nil {
			saved := c.flow
			c.flow = c.flow.Branch()
			c.checkBlock(s.Else)
			c.flow = saved
		}
		return nil
	case *ir.BeginBlock:
		c.checkBlock(s.Body)
		for _, rescue := range s.Rescues {
			scope := c.scope
			c.scope = c.scope.Child()
			if rescue.VarName != "" {
				t := ir.Type(&ir.SimpleType{Name: "StandardError"})
				if rescue.Exception != nil {
					t = rescue.Exception
				}
				c.scope.Define(rescue.VarName, t)
			}
			c.checkBlock(rescue.Body)
			c.scope = scope
		}
		c.checkBlock(s.Else)
		c.checkBlock(s.Ensure)
		return nil
	case *ir.ExprStmt:
		return c.inferExpr(s.Expr)
	case *ir.Block:
		scope := c.scope
		c.scope = c.scope.Child()
		t := c.checkBlock(s)
		c.scope = scope
		return t
	}
	return nil
}

func (c *Checker) checkAssignment(s *ir.Assignment) ir.Type {
	valueType := c.inferExpr(s.Value)
	s.Slot.Inferred = valueType

	if s.Slot.Explicit != nil {
		c.validateTypeName(s.Slot.Explicit, s.Loc())
		declared := c.resolveAlias(s.Slot.Explicit)
		if !c.assignable(valueType, declared) {
			c.mismatch(diagnostics.ErrT001, s.Loc(), declared, valueType,
				"cannot assign %s to %s declared as %s",
				valueType.String(), s.Target.Name, declared.String())
		}
		c.scope.Define(s.Target.Name, declared)
		s.Slot.Resolved = s.Slot.Explicit
	} else {
		// Rebinding an annotated variable keeps its declared type.
		if existing, ok := c.scope.Lookup(s.Target.Name); ok && !isUntyped(existing) {
			if !c.assignable(valueType, existing) {
				c.mismatch(diagnostics.ErrT001, s.Loc(), existing, valueType,
					"cannot assign %s to %s of type %s",
					valueType.String(), s.Target.Name, existing.String())
			}
		} else {
			c.scope.Define(s.Target.Name, valueType)
		}
		s.Slot.Resolved = valueType
	}
	// Assignment invalidates any narrowing of the target.
	c.flow.Narrow(s.Target.Name, s.Slot.ResolvedTypeOrUntyped())
	return s.Slot.ResolvedTypeOrUntyped()
}

func (c *Checker) checkConditional(s *ir.Conditional) {
	c.inferExpr(s.Cond)
	guard := AnalyzeGuard(s.Cond, c.currentTypeOf)
	thenNarrow, elseNarrow := guard.Then, guard.Else
	if s.Unless {
		thenNarrow, elseNarrow = elseNarrow, thenNarrow
	}

	base := c.flow
	thenFlow := base.Branch()
	for name, t := range thenNarrow {
		thenFlow.Narrow(name, t)
	}
	thenFlow.PushGuard(s.Cond)
	c.flow = thenFlow
	c.checkBlock(s.Then)
	thenFlow.PopGuard()

	elseFlow := base.Branch()
	for name, t := range elseNarrow {
		elseFlow.Narrow(name, t)
	}
	c.flow = elseFlow
	c.checkBlock(s.Else)

	c.flow = thenFlow.Merge(elseFlow)
}

// currentTypeOf resolves a variable's known type: flow narrowing first,
// then the lexical scope.
func (c *Checker) currentTypeOf(name string) ir.Type {
	if t, ok := c.flow.NarrowedType(name); ok {
		return t
	}
	if t, ok := c.scope.Lookup(name); ok {
		return t
	}
	return ir.Untyped()
}

func (c *Checker) mismatch(code diagnostics.Code, loc *ir.Location, expected, actual ir.Type, format string, args ...interface{}) {
	d := &diagnostics.Diagnostic{
		Code:     code,
		Severity: diagnostics.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Expected: expected.String(),
		Actual:   actual.String(),
	}
	if loc != nil {
		d.Line, d.Column = loc.Line, loc.Column
	}
	d.Suggestion = suggestionFor(actual, expected)
	c.diags = append(c.diags, d)
}

func (c *Checker) errorAt(code diagnostics.Code, loc *ir.Location, format string, args ...interface{}) {
	d := &diagnostics.Diagnostic{
		Code:     code,
		Severity: diagnostics.SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
	if loc != nil {
		d.Line, d.Column = loc.Line, loc.Column
	}
	c.diags = append(c.diags, d)
}

func (c *Checker) warnAt(code diagnostics.Code, loc *ir.Location, format string, args ...interface{}) {
	d := &diagnostics.Diagnostic{
		Code:     code,
		Severity: diagnostics.SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	}
	if c.opts.Strict {
		d.Severity = diagnostics.SeverityError
	}
	if loc != nil {
		d.Line, d.Column = loc.Line, loc.Column
	}
	c.diags = append(c.diags, d)
}

// validateTypeName warns (once per name, per unit) about annotations naming
// a type that is neither built in, registered, aliased nor an interface.
func (c *Checker) validateTypeName(t ir.Type, loc *ir.Location) {
	if !c.opts.WarnUnknownTypes {
		return
	}
	switch tt := t.(type) {
	case *ir.SimpleType:
		name := tt.Name
		if name == ir.UntypedName || name == "nil" || name == TopType {
			return
		}
		if c.hierarchy.Known(name) {
			return
		}
		if _, ok := c.aliases[name]; ok {
			return
		}
		if _, ok := c.interfaces[name]; ok {
			return
		}
		if !c.warnedTypes[name] {
			c.warnedTypes[name] = true
			c.warnAt(diagnostics.ErrT006, loc, "unknown type name %s", name)
		}
	case *ir.GenericType:
		for _, a := range tt.Args {
			c.validateTypeName(a, loc)
		}
	case *ir.UnionType:
		for _, m := range tt.Members {
			c.validateTypeName(m, loc)
		}
	case *ir.IntersectionType:
		for _, m := range tt.Members {
			c.validateTypeName(m, loc)
		}
	case *ir.NullableType:
		c.validateTypeName(tt.Inner, loc)
	case *ir.FunctionType:
		for _, p := range tt.Params {
			c.validateTypeName(p, loc)
		}
		if tt.Return != nil {
			c.validateTypeName(tt.Return, loc)
		}
	case *ir.TupleType:
		for _, e := range tt.Elements {
			c.validateTypeName(e.Type, loc)
		}
	}
}

// resolveAlias expands type aliases, recursively but cycle-safe.
func (c *Checker) resolveAlias(t ir.Type) ir.Type {
	return c.resolveAliasDepth(t, 0)
}

func (c *Checker) resolveAliasDepth(t ir.Type, depth int) ir.Type {
	if depth > 32 {
		return t
	}
	if s, ok := t.(*ir.SimpleType); ok {
		if aliased, ok := c.aliases[s.Name]; ok {
			return c.resolveAliasDepth(aliased, depth+1)
		}
	}
	return t
}

func isUntyped(t ir.Type) bool {
	s, ok := t.(*ir.SimpleType)
	return ok && s.Name == ir.UntypedName
}
