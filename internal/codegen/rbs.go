package codegen

import (
	"fmt"
	"strings"

	"github.com/type-ruby/trb/internal/ir"
)

// GenerateRBS renders a conservative RBS signature file for the program.
// Only declarations with annotations contribute precise types; everything
// else projects to untyped. Constructs RBS cannot express (tuple rest
// elements) also project to untyped rather than emitting invalid syntax.
func GenerateRBS(prog *ir.Program) string {
	var sb strings.Builder
	for i, decl := range prog.Decls {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch d := decl.(type) {
		case *ir.TypeAlias:
			fmt.Fprintf(&sb, "type %s = %s\n", rbsAliasName(d.Name), RBSType(d.Aliased))
		case *ir.Interface:
			fmt.Fprintf(&sb, "interface _%s\n", d.Name)
			for _, m := range d.Members {
				fmt.Fprintf(&sb, "  def %s: () -> %s\n", m.Name, RBSType(m.Type))
			}
			sb.WriteString("end\n")
		case *ir.ClassDecl:
			if d.SuperClass != "" {
				fmt.Fprintf(&sb, "class %s < %s\n", d.Name, d.SuperClass)
			} else {
				fmt.Fprintf(&sb, "class %s\n", d.Name)
			}
			for _, iv := range d.IVars {
				fmt.Fprintf(&sb, "  %s: %s\n", iv.Name, RBSType(iv.Slot.Explicit))
			}
			for _, m := range d.Methods {
				sb.WriteString("  " + rbsMethod(m) + "\n")
			}
			sb.WriteString("end\n")
		case *ir.ModuleDecl:
			fmt.Fprintf(&sb, "module %s\n", d.Name)
			for _, m := range d.Methods {
				sb.WriteString("  " + rbsMethod(m) + "\n")
			}
			sb.WriteString("end\n")
		case *ir.MethodDef:
			sb.WriteString(rbsMethod(d) + "\n")
		}
	}
	return sb.String()
}

// rbsAliasName lowercases the first rune: RBS alias names are lowercase.
func rbsAliasName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func rbsMethod(m *ir.MethodDef) string {
	var params []string
	var block string
	for _, p := range m.Params {
		t := RBSType(p.Slot.ResolvedTypeOrUntyped())
		switch p.Kind {
		case ir.ParamOptional:
			params = append(params, fmt.Sprintf("?%s %s", t, p.Name))
		case ir.ParamRest:
			params = append(params, fmt.Sprintf("*%s %s", t, p.Name))
		case ir.ParamKeyword:
			params = append(params, fmt.Sprintf("**%s %s", t, p.Name))
		case ir.ParamBlock:
			block = " { (?) -> untyped }"
		default:
			params = append(params, fmt.Sprintf("%s %s", t, p.Name))
		}
	}
	ret := RBSType(m.ReturnSlot.ResolvedTypeOrUntyped())
	sig := fmt.Sprintf("def %s: (%s)%s -> %s", m.Name, strings.Join(params, ", "), block, ret)
	if m.Visibility != ir.Public {
		sig = m.Visibility.String() + " " + sig
	}
	return sig
}

// RBSType maps one annotation to RBS syntax. The mapping is total: types
// without an RBS counterpart come out as untyped.
func RBSType(t ir.Type) string {
	switch tt := t.(type) {
	case *ir.SimpleType:
		switch tt.Name {
		case "Boolean":
			return "bool"
		case "nil", "NilClass":
			return "nil"
		case ir.UntypedName:
			return "untyped"
		}
		return tt.Name
	case *ir.GenericType:
		args := make([]string, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = RBSType(a)
		}
		return fmt.Sprintf("%s[%s]", tt.Base, strings.Join(args, ", "))
	case *ir.UnionType:
		// A union with nil renders as the optional postfix form.
		var nonNil []ir.Type
		for _, m := range tt.Members {
			if s, ok := m.(*ir.SimpleType); ok && (s.Name == "nil" || s.Name == "NilClass") {
				continue
			}
			nonNil = append(nonNil, m)
		}
		if len(nonNil) == 0 {
			return "nil"
		}
		parts := make([]string, len(nonNil))
		for i, m := range nonNil {
			parts[i] = rbsOperand(m)
		}
		joined := strings.Join(parts, " | ")
		if len(nonNil) < len(tt.Members) {
			if len(nonNil) == 1 {
				return rbsOperand(nonNil[0]) + "?"
			}
			return "(" + joined + ")?"
		}
		return joined
	case *ir.IntersectionType:
		parts := make([]string, len(tt.Members))
		for i, m := range tt.Members {
			parts[i] = rbsOperand(m)
		}
		return strings.Join(parts, " & ")
	case *ir.NullableType:
		return rbsOperand(tt.Inner) + "?"
	case *ir.FunctionType:
		params := make([]string, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = RBSType(p)
		}
		ret := "untyped"
		if tt.Return != nil {
			ret = RBSType(tt.Return)
		}
		return fmt.Sprintf("^(%s) -> %s", strings.Join(params, ", "), ret)
	case *ir.TupleType:
		parts := make([]string, len(tt.Elements))
		for i, e := range tt.Elements {
			if e.Rest {
				// RBS tuples are fixed-shape.
				return "untyped"
			}
			parts[i] = RBSType(e.Type)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "untyped"
}

// rbsOperand parenthesizes compound members of unions, intersections and
// optionals.
func rbsOperand(t ir.Type) string {
	switch t.(type) {
	case *ir.UnionType, *ir.IntersectionType, *ir.FunctionType:
		return "(" + RBSType(t) + ")"
	}
	return RBSType(t)
}
