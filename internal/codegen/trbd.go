package codegen

import (
	"fmt"
	"strings"

	"github.com/type-ruby/trb/internal/ir"
)

// GenerateDecls renders a .trbd declaration file: every declaration with
// its full original type syntax, bodies omitted. Unlike the RBS projection
// this is lossless with respect to annotations.
func GenerateDecls(prog *ir.Program) string {
	var sb strings.Builder
	for i, decl := range prog.Decls {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch d := decl.(type) {
		case *ir.TypeAlias:
			fmt.Fprintf(&sb, "type %s = %s\n", d.Name, d.Aliased.String())
		case *ir.Interface:
			fmt.Fprintf(&sb, "interface %s\n", d.Name)
			for _, m := range d.Members {
				fmt.Fprintf(&sb, "  %s: %s\n", m.Name, m.Type.String())
			}
			sb.WriteString("end\n")
		case *ir.ClassDecl:
			if d.SuperClass != "" {
				fmt.Fprintf(&sb, "class %s < %s\n", d.Name, d.SuperClass)
			} else {
				fmt.Fprintf(&sb, "class %s\n", d.Name)
			}
			for _, iv := range d.IVars {
				fmt.Fprintf(&sb, "  %s: %s\n", iv.Name, slotString(iv.Slot))
			}
			for _, m := range d.Methods {
				sb.WriteString("  " + declMethod(m) + "\n")
			}
			sb.WriteString("end\n")
		case *ir.ModuleDecl:
			fmt.Fprintf(&sb, "module %s\n", d.Name)
			for _, m := range d.Methods {
				sb.WriteString("  " + declMethod(m) + "\n")
			}
			sb.WriteString("end\n")
		case *ir.MethodDef:
			sb.WriteString(declMethod(d) + "\n")
		}
	}
	return sb.String()
}

func declMethod(m *ir.MethodDef) string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		name := p.Name
		switch p.Kind {
		case ir.ParamRest:
			name = "*" + name
		case ir.ParamKeyword:
			name = "**" + name
		case ir.ParamBlock:
			name = "&" + name
		}
		if p.Slot != nil && p.Slot.Explicit != nil {
			params[i] = name + ": " + p.Slot.Explicit.String()
		} else {
			params[i] = name
		}
	}
	sig := fmt.Sprintf("def %s(%s): %s", m.Name, strings.Join(params, ", "), slotString(m.ReturnSlot))
	if m.Visibility != ir.Public {
		sig = m.Visibility.String() + " " + sig
	}
	return sig
}

func slotString(slot *ir.TypeSlot) string {
	return slot.ResolvedTypeOrUntyped().String()
}
