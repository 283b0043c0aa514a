package parser

import (
	"github.com/type-ruby/trb/internal/combinator"
	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/token"
)

// ParseTypeExpr parses a full type expression. Grammar, loosest first:
//
//	union        = intersection { "|" intersection }
//	intersection = postfix { "&" postfix }
//	postfix      = primary { "?" | "[]" }
//	primary      = name [ "[" union { "," union } "]" ]
//	             | "[" tuple-elems "]"
//	             | "(" union { "," union } ")" [ "->" union ]
//	             | "nil"
func ParseTypeExpr(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	return parseUnionType(toks, pos)
}

func parseUnionType(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	first, next, err := parseIntersectionType(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	members := []ir.Type{first}
	pos = next
	for at(toks, pos).Type == token.PIPE {
		m, n, err := parseIntersectionType(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		members = append(members, m)
		pos = n
	}
	if len(members) == 1 {
		return first, pos, nil
	}
	u := &ir.UnionType{Members: members}
	u.Location = first.Loc()
	return u, pos, nil
}

func parseIntersectionType(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	first, next, err := parsePostfixType(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	members := []ir.Type{first}
	pos = next
	for at(toks, pos).Type == token.AMP {
		m, n, err := parsePostfixType(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		members = append(members, m)
		pos = n
	}
	if len(members) == 1 {
		return first, pos, nil
	}
	i := &ir.IntersectionType{Members: members}
	i.Location = first.Loc()
	return i, pos, nil
}

func parsePostfixType(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	t, pos, err := parsePrimaryType(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	for {
		switch at(toks, pos).Type {
		case token.QUESTION:
			n := &ir.NullableType{Inner: t}
			n.Location = t.Loc()
			t = n
			pos++
		case token.LBRACKET:
			// Element-less [] is the Array shorthand: Integer[] == Array[Integer].
			if at(toks, pos+1).Type == token.RBRACKET {
				g := &ir.GenericType{Base: "Array", Args: []ir.Type{t}}
				g.Location = t.Loc()
				t = g
				pos += 2
				continue
			}
			return t, pos, nil
		default:
			return t, pos, nil
		}
	}
}

func parsePrimaryType(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	switch tok.Type {
	case token.CONST, token.IDENT:
		name := tok.Text
		pos++
		if at(toks, pos).Type == token.LBRACKET && at(toks, pos+1).Type != token.RBRACKET {
			args, next, err := parseTypeArgs(toks, pos)
			if err != nil {
				return nil, pos, err
			}
			g := &ir.GenericType{Base: name, Args: args}
			g.Location = locOf(tok)
			return g, next, nil
		}
		s := &ir.SimpleType{Name: name}
		s.Location = locOf(tok)
		return s, pos, nil
	case token.NIL:
		s := &ir.SimpleType{Name: "nil"}
		s.Location = locOf(tok)
		return s, pos + 1, nil
	case token.LBRACKET:
		return parseTupleType(toks, pos)
	case token.LPAREN:
		return parseParenOrFunctionType(toks, pos)
	}
	return nil, pos, diagnostics.NewError(diagnostics.ErrP003, tok,
		"expected a type, found %q", tok.Text)
}

// typeParser adapts ParseTypeExpr to the combinator algebra so type lists
// can be assembled with SepBy. It is assigned in init because its body
// re-enters the grammar it is part of.
var typeParser combinator.Parser[ir.Type]

func init() {
	typeParser = func(toks []token.Token, pos int) combinator.Result[ir.Type] {
		t, next, err := ParseTypeExpr(toks, pos)
		if err != nil {
			return combinator.Fail[ir.Type](pos, "type", err.Message)
		}
		return combinator.Ok(t, next)
	}
}

// parseTypeArgs parses "[" type { "," type } "]".
func parseTypeArgs(toks []token.Token, pos int) ([]ir.Type, int, *diagnostics.Diagnostic) {
	_, pos, err := expect(toks, pos, token.LBRACKET)
	if err != nil {
		return nil, pos, err
	}
	r := combinator.SepBy1(typeParser, combinator.TokenOf(token.COMMA))(toks, pos)
	if r.Failed {
		return nil, pos, diagnostics.NewError(diagnostics.ErrP003, at(toks, r.Fail.Pos),
			"expected a type argument")
	}
	args, pos := r.Value, r.Next
	_, pos, err = expect(toks, pos, token.RBRACKET)
	if err != nil {
		return nil, pos, err
	}
	return args, pos, nil
}

func parseTupleType(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	open := at(toks, pos)
	pos++ // consume [
	var elems []ir.TupleElem
	for at(toks, pos).Type != token.RBRACKET {
		rest := false
		if at(toks, pos).Type == token.ASTERISK {
			rest = true
			pos++
		}
		t, next, err := ParseTypeExpr(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		elems = append(elems, ir.TupleElem{Type: t, Rest: rest})
		pos = next
		if at(toks, pos).Type == token.COMMA {
			pos++
			continue
		}
		break
	}
	_, pos, err := expect(toks, pos, token.RBRACKET)
	if err != nil {
		return nil, pos, err
	}
	tt, terr := ir.NewTupleType(elems)
	if terr != nil {
		return nil, pos, diagnostics.NewError(diagnostics.ErrP005, open, "%s", terr.Error())
	}
	tt.Location = locOf(open)
	return tt, pos, nil
}

func parseParenOrFunctionType(toks []token.Token, pos int) (ir.Type, int, *diagnostics.Diagnostic) {
	open := at(toks, pos)
	pos++ // consume (
	var params []ir.Type
	if at(toks, pos).Type != token.RPAREN {
		r := combinator.SepBy1(typeParser, combinator.TokenOf(token.COMMA))(toks, pos)
		if r.Failed {
			return nil, pos, diagnostics.NewError(diagnostics.ErrP003, at(toks, r.Fail.Pos),
				"expected a type")
		}
		params, pos = r.Value, r.Next
	}
	_, pos, err := expect(toks, pos, token.RPAREN)
	if err != nil {
		return nil, pos, err
	}
	if at(toks, pos).Type == token.ARROW {
		ret, next, err := ParseTypeExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		f := &ir.FunctionType{Params: params, Return: ret}
		f.Location = locOf(open)
		return f, next, nil
	}
	// A parenthesized type is only unambiguous with a single member.
	if len(params) == 1 {
		return params[0], pos, nil
	}
	return nil, pos, diagnostics.NewError(diagnostics.ErrP003, open,
		"parenthesized type list must be followed by ->")
}
