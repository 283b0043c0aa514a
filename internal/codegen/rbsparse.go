package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/type-ruby/trb/internal/ir"
)

// ParseRBSType parses the type subset GenerateRBS emits back into an IR
// type. It exists so a projected signature can be read back and compared
// against the annotation it came from.
func ParseRBSType(src string) (ir.Type, error) {
	p := &rbsParser{src: src}
	p.skipSpaces()
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected trailing input at offset %d in %q", p.pos, src)
	}
	return t, nil
}

type rbsParser struct {
	src string
	pos int
}

func (p *rbsParser) skipSpaces() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *rbsParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *rbsParser) eat(prefix string) bool {
	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *rbsParser) union() (ir.Type, error) {
	first, err := p.intersection()
	if err != nil {
		return nil, err
	}
	members := []ir.Type{first}
	for {
		p.skipSpaces()
		if !p.eat("|") {
			break
		}
		p.skipSpaces()
		next, err := p.intersection()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return &ir.UnionType{Members: members}, nil
}

func (p *rbsParser) intersection() (ir.Type, error) {
	first, err := p.postfix()
	if err != nil {
		return nil, err
	}
	members := []ir.Type{first}
	for {
		p.skipSpaces()
		if !p.eat("&") {
			break
		}
		p.skipSpaces()
		next, err := p.postfix()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return &ir.IntersectionType{Members: members}, nil
}

func (p *rbsParser) postfix() (ir.Type, error) {
	t, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peek() == '?' {
		p.pos++
		t = &ir.NullableType{Inner: t}
	}
	return t, nil
}

func (p *rbsParser) primary() (ir.Type, error) {
	switch {
	case p.eat("^("):
		return p.functionTail()
	case p.eat("("):
		inner, err := p.union()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if !p.eat(")") {
			return nil, fmt.Errorf("missing ) at offset %d in %q", p.pos, p.src)
		}
		return inner, nil
	case p.eat("["):
		return p.tupleTail()
	}

	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected type name at offset %d in %q", p.pos, p.src)
	}
	switch name {
	case "bool":
		return &ir.SimpleType{Name: "Boolean"}, nil
	case "nil":
		return &ir.SimpleType{Name: "nil"}, nil
	case "untyped":
		return ir.Untyped(), nil
	}

	if p.peek() == '[' {
		p.pos++
		var args []ir.Type
		for {
			p.skipSpaces()
			arg, err := p.union()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpaces()
			if p.eat(",") {
				continue
			}
			if p.eat("]") {
				break
			}
			return nil, fmt.Errorf("missing ] at offset %d in %q", p.pos, p.src)
		}
		return &ir.GenericType{Base: name, Args: args}, nil
	}
	return &ir.SimpleType{Name: name}, nil
}

func (p *rbsParser) functionTail() (ir.Type, error) {
	var params []ir.Type
	p.skipSpaces()
	if !p.eat(")") {
		for {
			param, err := p.union()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			p.skipSpaces()
			if p.eat(",") {
				p.skipSpaces()
				continue
			}
			if p.eat(")") {
				break
			}
			return nil, fmt.Errorf("missing ) at offset %d in %q", p.pos, p.src)
		}
	}
	p.skipSpaces()
	if !p.eat("->") {
		return nil, fmt.Errorf("missing -> at offset %d in %q", p.pos, p.src)
	}
	p.skipSpaces()
	ret, err := p.union()
	if err != nil {
		return nil, err
	}
	return &ir.FunctionType{Params: params, Return: ret}, nil
}

func (p *rbsParser) tupleTail() (ir.Type, error) {
	var elems []ir.TupleElem
	p.skipSpaces()
	if p.eat("]") {
		return &ir.TupleType{}, nil
	}
	for {
		elem, err := p.union()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ir.TupleElem{Type: elem})
		p.skipSpaces()
		if p.eat(",") {
			p.skipSpaces()
			continue
		}
		if p.eat("]") {
			break
		}
		return nil, fmt.Errorf("missing ] at offset %d in %q", p.pos, p.src)
	}
	return &ir.TupleType{Elements: elems}, nil
}

func (p *rbsParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}
