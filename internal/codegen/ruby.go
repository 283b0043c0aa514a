// Package codegen renders a checked program into its output artifacts: an
// erased Ruby source, a conservative RBS signature file and a full-fidelity
// declaration file.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/type-ruby/trb/internal/ir"
)

// RubyGenerator emits plain Ruby with every type annotation erased. The
// output preserves declaration order, parameter defaults and sigils, and
// statement structure.
type RubyGenerator struct {
	buf    strings.Builder
	indent int
}

// GenerateRuby renders the whole program.
func GenerateRuby(prog *ir.Program) string {
	g := &RubyGenerator{}
	for i, decl := range prog.Decls {
		if i > 0 {
			g.buf.WriteByte('\n')
		}
		g.decl(decl)
	}
	return g.buf.String()
}

func (g *RubyGenerator) line(format string, args ...interface{}) {
	g.buf.WriteString(strings.Repeat("  ", g.indent))
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func (g *RubyGenerator) decl(decl ir.Decl) {
	switch d := decl.(type) {
	case *ir.TypeAlias, *ir.Interface:
		// Aliases and interfaces have no runtime counterpart.
	case *ir.ClassDecl:
		if d.SuperClass != "" {
			g.line("class %s < %s", d.Name, d.SuperClass)
		} else {
			g.line("class %s", d.Name)
		}
		g.indent++
		for i, m := range d.Methods {
			if i > 0 {
				g.buf.WriteByte('\n')
			}
			g.method(m)
		}
		g.indent--
		g.line("end")
	case *ir.ModuleDecl:
		g.line("module %s", d.Name)
		g.indent++
		for i, m := range d.Methods {
			if i > 0 {
				g.buf.WriteByte('\n')
			}
			g.method(m)
		}
		g.indent--
		g.line("end")
	case *ir.MethodDef:
		g.method(d)
	}
}

func (g *RubyGenerator) method(m *ir.MethodDef) {
	header := "def " + m.Name
	if m.Visibility != ir.Public {
		header = m.Visibility.String() + " " + header
	}
	if len(m.Params) > 0 {
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = g.param(p)
		}
		header += "(" + strings.Join(params, ", ") + ")"
	}
	g.line("%s", header)
	g.indent++
	g.block(m.Body)
	g.indent--
	g.line("end")
}

func (g *RubyGenerator) param(p *ir.Param) string {
	switch p.Kind {
	case ir.ParamRest:
		return "*" + p.Name
	case ir.ParamKeyword:
		return "**" + p.Name
	case ir.ParamBlock:
		return "&" + p.Name
	case ir.ParamOptional:
		return p.Name + " = " + g.expr(p.Default)
	}
	return p.Name
}

func (g *RubyGenerator) block(b *ir.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		g.stmt(s)
	}
}

func (g *RubyGenerator) stmt(stmt ir.Stmt) {
	switch s := stmt.(type) {
	case *ir.Assignment:
		g.line("%s = %s", s.Target.Name, g.expr(s.Value))
	case *ir.Return:
		if s.Value != nil {
			g.line("return %s", g.expr(s.Value))
		} else {
			g.line("return")
		}
	case *ir.Conditional:
		kw := "if"
		if s.Unless {
			kw = "unless"
		}
		g.line("%s %s", kw, g.expr(s.Cond))
		g.indent++
		g.block(s.Then)
		g.indent--
		if s.Else != nil {
			g.line("else")
			g.indent++
			g.block(s.Else)
			g.indent--
		}
		g.line("end")
	case *ir.Loop:
		kw := "while"
		if s.Until {
			kw = "until"
		}
		g.line("%s %s", kw, g.expr(s.Cond))
		g.indent++
		g.block(s.Body)
		g.indent--
		g.line("end")
	case *ir.CaseExpr:
		g.line("case %s", g.expr(s.Subject))
		for _, when := range s.Whens {
			values := make([]string, len(when.Values))
			for i, v := range when.Values {
				values[i] = g.expr(v)
			}
			g.line("when %s", strings.Join(values, ", "))
			g.indent++
			g.block(when.Body)
			g.indent--
		}
		if s.Else != nil {
			g.line("else")
			g.indent++
			g.block(s.Else)
			g.indent--
		}
		g.line("end")
	case *ir.BeginBlock:
		g.line("begin")
		g.indent++
		g.block(s.Body)
		g.indent--
		for _, rescue := range s.Rescues {
			clause := "rescue"
			if rescue.Exception != nil {
				clause += " " + rescue.Exception.String()
			}
			if rescue.VarName != "" {
				clause += " => " + rescue.VarName
			}
			g.line("%s", clause)
			g.indent++
			g.block(rescue.Body)
			g.indent--
		}
		if s.Else != nil {
			g.line("else")
			g.indent++
			g.block(s.Else)
			g.indent--
		}
		if s.Ensure != nil {
			g.line("ensure")
			g.indent++
			g.block(s.Ensure)
			g.indent--
		}
		g.line("end")
	case *ir.ExprStmt:
		g.line("%s", g.expr(s.Expr))
	case *ir.Block:
		g.block(s)
	}
}

func (g *RubyGenerator) expr(expr ir.Expr) string {
	switch e := expr.(type) {
	case *ir.Literal:
		return rubyLiteral(e)
	case *ir.VariableRef:
		return e.Name
	case *ir.BinaryOp:
		return fmt.Sprintf("%s %s %s", g.operand(e.Left), e.Op, g.operand(e.Right))
	case *ir.UnaryOp:
		return e.Op + g.operand(e.Operand)
	case *ir.Ternary:
		return fmt.Sprintf("%s ? %s : %s", g.operand(e.Cond), g.expr(e.Then), g.expr(e.Else))
	case *ir.MethodCall:
		return g.call(e)
	case *ir.ArrayLiteral:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = g.expr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ir.HashLiteral:
		parts := make([]string, len(e.Pairs))
		for i, pair := range e.Pairs {
			if sym, ok := pair.Key.(*ir.Literal); ok && sym.Kind == ir.LitSymbol {
				parts[i] = fmt.Sprintf("%v: %s", sym.Value, g.expr(pair.Value))
			} else {
				parts[i] = fmt.Sprintf("%s => %s", g.expr(pair.Key), g.expr(pair.Value))
			}
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ir.InterpolatedString:
		var sb strings.Builder
		sb.WriteByte('"')
		for _, part := range e.Parts {
			if part.Expr != nil {
				sb.WriteString("#{")
				sb.WriteString(g.expr(part.Expr))
				sb.WriteByte('}')
			} else {
				sb.WriteString(escapeString(part.Text))
			}
		}
		sb.WriteByte('"')
		return sb.String()
	case *ir.Yield:
		if len(e.Args) == 0 {
			return "yield"
		}
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = g.expr(a)
		}
		return "yield(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

// operand parenthesizes nested compound expressions so the erased output
// keeps the tree's grouping regardless of Ruby's own precedence.
func (g *RubyGenerator) operand(expr ir.Expr) string {
	switch expr.(type) {
	case *ir.BinaryOp, *ir.Ternary:
		return "(" + g.expr(expr) + ")"
	}
	return g.expr(expr)
}

func (g *RubyGenerator) call(e *ir.MethodCall) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		switch a.Kind {
		case ir.ArgSplat:
			args[i] = "*" + g.expr(a.Value)
		case ir.ArgDoubleSplat:
			args[i] = "**" + g.expr(a.Value)
		case ir.ArgNamed:
			args[i] = a.Name + ": " + g.expr(a.Value)
		default:
			args[i] = g.expr(a.Value)
		}
	}

	if e.Name == "[]" && e.Receiver != nil {
		return fmt.Sprintf("%s[%s]", g.operand(e.Receiver), strings.Join(args, ", "))
	}

	var sb strings.Builder
	if e.Receiver != nil {
		sb.WriteString(g.operand(e.Receiver))
		sb.WriteByte('.')
	}
	sb.WriteString(e.Name)
	if len(args) > 0 {
		sb.WriteByte('(')
		sb.WriteString(strings.Join(args, ", "))
		sb.WriteByte(')')
	}
	return sb.String()
}

func rubyLiteral(lit *ir.Literal) string {
	switch lit.Kind {
	case ir.LitInt:
		if v, ok := lit.Value.(int64); ok {
			return strconv.FormatInt(v, 10)
		}
	case ir.LitFloat:
		if v, ok := lit.Value.(float64); ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
	case ir.LitString:
		if v, ok := lit.Value.(string); ok {
			return `"` + escapeString(v) + `"`
		}
	case ir.LitSymbol:
		return fmt.Sprintf(":%v", lit.Value)
	case ir.LitBool:
		if v, ok := lit.Value.(bool); ok && v {
			return "true"
		}
		return "false"
	case ir.LitNil:
		return "nil"
	case ir.LitRegex:
		return fmt.Sprintf("/%v/", lit.Value)
	}
	return "nil"
}

func escapeString(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
		"#", `\#`,
	)
	return replacer.Replace(s)
}
