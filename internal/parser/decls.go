package parser

import (
	"fmt"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/token"
)

func parseDeclaration(toks []token.Token, pos int) (ir.Decl, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	switch tok.Type {
	case token.PRIVATE, token.PUBLIC, token.PROTECTED, token.DEF:
		return parseMethodDef(toks, pos)
	case token.CLASS:
		return parseClassDecl(toks, pos)
	case token.MODULE:
		return parseModuleDecl(toks, pos)
	case token.TYPE:
		return parseTypeAlias(toks, pos)
	case token.INTERFACE:
		return parseInterface(toks, pos)
	}
	return nil, pos, diagnostics.NewError(diagnostics.ErrP002, tok,
		"expected a declaration, found %q", tok.Text)
}

func parseMethodDef(toks []token.Token, pos int) (*ir.MethodDef, int, *diagnostics.Diagnostic) {
	visibility := ir.Public
	switch at(toks, pos).Type {
	case token.PRIVATE:
		visibility = ir.Private
		pos++
	case token.PROTECTED:
		visibility = ir.Protected
		pos++
	case token.PUBLIC:
		pos++
	}

	defTok, pos, err := expect(toks, pos, token.DEF)
	if err != nil {
		return nil, pos, err
	}
	nameTok := at(toks, pos)
	if nameTok.Type != token.IDENT {
		return nil, pos, diagnostics.NewError(diagnostics.ErrP002, nameTok,
			"expected a method name, found %q", nameTok.Text)
	}
	pos++

	method := &ir.MethodDef{Name: nameTok.Text, Visibility: visibility}
	method.Location = locOf(defTok)

	if at(toks, pos).Type == token.LPAREN {
		method.Params, pos, err = parseParams(toks, pos, method.Name)
		if err != nil {
			return nil, pos, err
		}
	}

	if at(toks, pos).Type == token.COLON {
		ret, next, err := ParseTypeExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		method.ReturnSlot = ir.NewExplicitSlot(ir.SlotReturn,
			fmt.Sprintf("return of %s", method.Name), ret)
		method.ReturnSlot.Location = ret.Loc()
		pos = next
	} else {
		method.ReturnSlot = &ir.TypeSlot{Kind: ir.SlotReturn,
			Context: fmt.Sprintf("return of %s", method.Name)}
	}

	method.Body, pos, err = parseBlock(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return method, pos, nil
}

// parseParams parses "(" param { "," param } ")". Parameter kinds are
// tagged by their sigil: *rest, **keyword splat, &block; a default value
// makes a parameter optional.
func parseParams(toks []token.Token, pos int, methodName string) ([]*ir.Param, int, *diagnostics.Diagnostic) {
	_, pos, err := expect(toks, pos, token.LPAREN)
	if err != nil {
		return nil, pos, err
	}
	var params []*ir.Param
	pos = skipNewlines(toks, pos)
	for at(toks, pos).Type != token.RPAREN {
		param, next, err := parseParam(toks, pos, methodName)
		if err != nil {
			return nil, pos, err
		}
		params = append(params, param)
		pos = skipNewlines(toks, next)
		if at(toks, pos).Type == token.COMMA {
			pos = skipNewlines(toks, pos+1)
			continue
		}
		break
	}
	_, pos, err = expect(toks, pos, token.RPAREN)
	if err != nil {
		return nil, pos, err
	}
	return params, pos, nil
}

func parseParam(toks []token.Token, pos int, methodName string) (*ir.Param, int, *diagnostics.Diagnostic) {
	kind := ir.ParamRequired
	switch at(toks, pos).Type {
	case token.ASTERISK:
		kind = ir.ParamRest
		pos++
	case token.POWER:
		kind = ir.ParamKeyword
		pos++
	case token.AMP:
		kind = ir.ParamBlock
		pos++
	}

	nameTok := at(toks, pos)
	if nameTok.Type != token.IDENT {
		return nil, pos, diagnostics.NewError(diagnostics.ErrP002, nameTok,
			"expected a parameter name, found %q", nameTok.Text)
	}
	pos++

	param := &ir.Param{Name: nameTok.Text, Kind: kind}
	param.Location = locOf(nameTok)
	param.Slot = &ir.TypeSlot{Kind: ir.SlotParameter, Location: locOf(nameTok),
		Context: fmt.Sprintf("param %s of %s", nameTok.Text, methodName)}

	if at(toks, pos).Type == token.COLON {
		t, next, err := ParseTypeExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		param.Slot.Explicit = t
		pos = next
	}
	if at(toks, pos).Type == token.ASSIGN {
		if kind != ir.ParamRequired {
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, nameTok,
				"only plain parameters may have a default value")
		}
		value, next, err := ParseExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		param.Kind = ir.ParamOptional
		param.Default = value
		pos = next
	}
	return param, pos, nil
}

func parseClassDecl(toks []token.Token, pos int) (ir.Decl, int, *diagnostics.Diagnostic) {
	classTok := at(toks, pos)
	nameTok, pos, err := expect(toks, pos+1, token.CONST)
	if err != nil {
		return nil, pos, err
	}
	class := &ir.ClassDecl{Name: nameTok.Text}
	class.Location = locOf(classTok)

	if at(toks, pos).Type == token.LT {
		superTok, next, err := expect(toks, pos+1, token.CONST)
		if err != nil {
			return nil, pos, err
		}
		class.SuperClass = superTok.Text
		pos = next
	}

	pos = skipNewlines(toks, pos)
	for at(toks, pos).Type != token.END {
		switch at(toks, pos).Type {
		case token.IVAR:
			ivar, next, err := parseIVarDecl(toks, pos, class.Name)
			if err != nil {
				return nil, pos, err
			}
			class.IVars = append(class.IVars, ivar)
			pos = skipNewlines(toks, next)
		case token.DEF, token.PRIVATE, token.PUBLIC, token.PROTECTED:
			method, next, err := parseMethodDef(toks, pos)
			if err != nil {
				return nil, pos, err
			}
			class.Methods = append(class.Methods, method)
			pos = skipNewlines(toks, next)
		case token.EOF:
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, at(toks, pos),
				"unterminated class %s", class.Name)
		default:
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, at(toks, pos),
				"unexpected %q in class body", at(toks, pos).Text)
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return class, pos, nil
}

// parseIVarDecl parses a typed instance-variable declaration: @name: Type.
func parseIVarDecl(toks []token.Token, pos int, className string) (*ir.IVarDecl, int, *diagnostics.Diagnostic) {
	ivarTok := at(toks, pos)
	_, pos, err := expect(toks, pos+1, token.COLON)
	if err != nil {
		return nil, pos, err
	}
	t, pos, err := ParseTypeExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	ivar := &ir.IVarDecl{Name: ivarTok.Text}
	ivar.Location = locOf(ivarTok)
	ivar.Slot = ir.NewExplicitSlot(ir.SlotInstanceVar,
		fmt.Sprintf("%s of %s", ivarTok.Text, className), t)
	ivar.Slot.Location = locOf(ivarTok)
	return ivar, pos, nil
}

func parseModuleDecl(toks []token.Token, pos int) (ir.Decl, int, *diagnostics.Diagnostic) {
	moduleTok := at(toks, pos)
	nameTok, pos, err := expect(toks, pos+1, token.CONST)
	if err != nil {
		return nil, pos, err
	}
	module := &ir.ModuleDecl{Name: nameTok.Text}
	module.Location = locOf(moduleTok)

	pos = skipNewlines(toks, pos)
	for at(toks, pos).Type != token.END {
		switch at(toks, pos).Type {
		case token.DEF, token.PRIVATE, token.PUBLIC, token.PROTECTED:
			method, next, err := parseMethodDef(toks, pos)
			if err != nil {
				return nil, pos, err
			}
			module.Methods = append(module.Methods, method)
			pos = skipNewlines(toks, next)
		case token.EOF:
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, at(toks, pos),
				"unterminated module %s", module.Name)
		default:
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, at(toks, pos),
				"unexpected %q in module body", at(toks, pos).Text)
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return module, pos, nil
}

func parseTypeAlias(toks []token.Token, pos int) (ir.Decl, int, *diagnostics.Diagnostic) {
	typeTok := at(toks, pos)
	nameTok, pos, err := expect(toks, pos+1, token.CONST)
	if err != nil {
		return nil, pos, err
	}
	_, pos, err = expect(toks, pos, token.ASSIGN)
	if err != nil {
		return nil, pos, err
	}
	aliased, pos, err := ParseTypeExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	alias := &ir.TypeAlias{Name: nameTok.Text, Aliased: aliased}
	alias.Location = locOf(typeTok)
	return alias, pos, nil
}

func parseInterface(toks []token.Token, pos int) (ir.Decl, int, *diagnostics.Diagnostic) {
	ifaceTok := at(toks, pos)
	nameTok, pos, err := expect(toks, pos+1, token.CONST)
	if err != nil {
		return nil, pos, err
	}
	iface := &ir.Interface{Name: nameTok.Text}
	iface.Location = locOf(ifaceTok)

	pos = skipNewlines(toks, pos)
	for at(toks, pos).Type != token.END {
		memberTok := at(toks, pos)
		if memberTok.Type != token.IDENT {
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, memberTok,
				"expected an interface member name, found %q", memberTok.Text)
		}
		_, next, err := expect(toks, pos+1, token.COLON)
		if err != nil {
			return nil, pos, err
		}
		t, next, err := ParseTypeExpr(toks, next)
		if err != nil {
			return nil, pos, err
		}
		iface.Members = append(iface.Members, ir.InterfaceMember{Name: memberTok.Text, Type: t})
		pos = skipNewlines(toks, next)
		if at(toks, pos).Type == token.EOF {
			return nil, pos, diagnostics.NewError(diagnostics.ErrP002, at(toks, pos),
				"unterminated interface %s", iface.Name)
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return iface, pos, nil
}
