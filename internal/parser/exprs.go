package parser

import (
	"strconv"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/token"
)

// Binary operator precedence, loosest binding first. Exponentiation is
// right-associative; everything else associates left.
const (
	precLowest = iota
	precLogical
	precEquality
	precRelational
	precBitOr
	precBitAnd
	precAdditive
	precMultiplicative
	precPower
)

var binaryPrecedence = map[token.Type]int{
	token.AND:      precLogical,
	token.OR:       precLogical,
	token.EQ:       precEquality,
	token.NOT_EQ:   precEquality,
	token.LT:       precRelational,
	token.GT:       precRelational,
	token.LT_EQ:    precRelational,
	token.GT_EQ:    precRelational,
	token.PIPE:     precBitOr,
	token.AMP:      precBitAnd,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.ASTERISK: precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
	token.POWER:    precPower,
}

// ParseExpr parses one expression, including a trailing ternary.
func ParseExpr(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	left, pos, err := parseBinaryExpr(toks, pos, precLowest+1)
	if err != nil {
		return nil, pos, err
	}
	if at(toks, pos).Type != token.QUESTION {
		return left, pos, nil
	}
	// cond ? then : else
	thenExpr, pos, err := parseBinaryExpr(toks, pos+1, precLowest+1)
	if err != nil {
		return nil, pos, err
	}
	_, pos, err = expect(toks, pos, token.COLON)
	if err != nil {
		return nil, pos, err
	}
	elseExpr, pos, err := ParseExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	t := &ir.Ternary{Cond: left, Then: thenExpr, Else: elseExpr}
	t.Location = left.Loc()
	return t, pos, nil
}

// parseBinaryExpr is the precedence climb.
func parseBinaryExpr(toks []token.Token, pos int, minPrec int) (ir.Expr, int, *diagnostics.Diagnostic) {
	left, pos, err := parseUnaryExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	for {
		op := at(toks, pos)
		prec, ok := binaryPrecedence[op.Type]
		if !ok || prec < minPrec {
			return left, pos, nil
		}
		// Operators to the right bind the right operand when they are
		// strictly tighter, or equally tight for right-associative **.
		nextMin := prec + 1
		if op.Type == token.POWER {
			nextMin = prec
		}
		right, next, err := parseBinaryExpr(toks, pos+1, nextMin)
		if err != nil {
			return nil, pos, err
		}
		b := &ir.BinaryOp{Op: op.Text, Left: left, Right: right}
		b.Location = left.Loc()
		left = b
		pos = next
	}
}

// parseUnaryExpr handles prefix ! and -, which bind tighter than any binary
// operator and recurse into themselves. Unary minus folds directly into
// numeric literals.
func parseUnaryExpr(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	switch tok.Type {
	case token.BANG:
		operand, next, err := parseUnaryExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		u := &ir.UnaryOp{Op: "!", Operand: operand}
		u.Location = locOf(tok)
		return u, next, nil
	case token.MINUS:
		operand, next, err := parseUnaryExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		if lit, ok := operand.(*ir.Literal); ok {
			switch lit.Kind {
			case ir.LitInt:
				folded := &ir.Literal{Kind: ir.LitInt, Value: -lit.Value.(int64)}
				folded.Location = locOf(tok)
				return folded, next, nil
			case ir.LitFloat:
				folded := &ir.Literal{Kind: ir.LitFloat, Value: -lit.Value.(float64)}
				folded.Location = locOf(tok)
				return folded, next, nil
			}
		}
		u := &ir.UnaryOp{Op: "-", Operand: operand}
		u.Location = locOf(tok)
		return u, next, nil
	}
	return parsePostfixExpr(toks, pos)
}

// parsePostfixExpr parses a primary expression and its postfix chain:
// member access, indexing, and argument lists.
func parsePostfixExpr(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	expr, pos, err := parsePrimaryExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	for {
		switch at(toks, pos).Type {
		case token.DOT:
			nameTok := at(toks, pos+1)
			if nameTok.Type != token.IDENT && nameTok.Type != token.CONST {
				return nil, pos, diagnostics.NewError(diagnostics.ErrP004, nameTok,
					"expected a method name after '.', found %q", nameTok.Text)
			}
			call := &ir.MethodCall{Receiver: expr, Name: nameTok.Text}
			call.Location = locOf(nameTok)
			pos += 2
			if at(toks, pos).Type == token.LPAREN {
				args, next, err := parseArguments(toks, pos)
				if err != nil {
					return nil, pos, err
				}
				call.Args = args
				pos = next
			}
			expr = call
		case token.LBRACKET:
			index, next, err := ParseExpr(toks, pos+1)
			if err != nil {
				return nil, pos, err
			}
			_, next, err = expect(toks, next, token.RBRACKET)
			if err != nil {
				return nil, pos, err
			}
			// a[i] desugars to the indexing method call a.[](i).
			call := &ir.MethodCall{Receiver: expr, Name: "[]",
				Args: []*ir.Argument{{Kind: ir.ArgPositional, Value: index}}}
			call.Location = expr.Loc()
			expr = call
			pos = next
		default:
			return expr, pos, nil
		}
	}
}

func parsePrimaryExpr(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	switch tok.Type {
	case token.INT:
		v, perr := strconv.ParseInt(tok.Text, 10, 64)
		if perr != nil {
			return nil, pos, diagnostics.NewError(diagnostics.ErrP004, tok, "invalid integer literal %q", tok.Text)
		}
		lit := &ir.Literal{Kind: ir.LitInt, Value: v}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.FLOAT:
		v, perr := strconv.ParseFloat(tok.Text, 64)
		if perr != nil {
			return nil, pos, diagnostics.NewError(diagnostics.ErrP004, tok, "invalid float literal %q", tok.Text)
		}
		lit := &ir.Literal{Kind: ir.LitFloat, Value: v}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.STRING:
		lit := &ir.Literal{Kind: ir.LitString, Value: tok.Text}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.SYMBOL:
		lit := &ir.Literal{Kind: ir.LitSymbol, Value: tok.Text}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.REGEX:
		lit := &ir.Literal{Kind: ir.LitRegex, Value: tok.Text}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.TRUE, token.FALSE:
		lit := &ir.Literal{Kind: ir.LitBool, Value: tok.Type == token.TRUE}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.NIL:
		lit := &ir.Literal{Kind: ir.LitNil}
		lit.Location = locOf(tok)
		return lit, pos + 1, nil
	case token.STRING_START:
		return parseInterpolatedString(toks, pos)
	case token.IDENT:
		if at(toks, pos+1).Type == token.LPAREN {
			args, next, err := parseArguments(toks, pos+1)
			if err != nil {
				return nil, pos, err
			}
			call := &ir.MethodCall{Name: tok.Text, Args: args}
			call.Location = locOf(tok)
			return call, next, nil
		}
		ref := &ir.VariableRef{Name: tok.Text, Scope: ir.ScopeLocal}
		ref.Location = locOf(tok)
		return ref, pos + 1, nil
	case token.CONST:
		ref := &ir.VariableRef{Name: tok.Text, Scope: ir.ScopeConstant}
		ref.Location = locOf(tok)
		return ref, pos + 1, nil
	case token.IVAR:
		ref := &ir.VariableRef{Name: tok.Text, Scope: ir.ScopeInstance}
		ref.Location = locOf(tok)
		return ref, pos + 1, nil
	case token.CVAR:
		ref := &ir.VariableRef{Name: tok.Text, Scope: ir.ScopeClass}
		ref.Location = locOf(tok)
		return ref, pos + 1, nil
	case token.GVAR:
		ref := &ir.VariableRef{Name: tok.Text, Scope: ir.ScopeGlobal}
		ref.Location = locOf(tok)
		return ref, pos + 1, nil
	case token.SELF:
		ref := &ir.VariableRef{Name: "self", Scope: ir.ScopeLocal}
		ref.Location = locOf(tok)
		return ref, pos + 1, nil
	case token.YIELD:
		y := &ir.Yield{}
		y.Location = locOf(tok)
		pos++
		if at(toks, pos).Type == token.LPAREN {
			args, next, err := parseArguments(toks, pos)
			if err != nil {
				return nil, pos, err
			}
			for _, a := range args {
				if a.Kind != ir.ArgPositional {
					return nil, pos, diagnostics.NewError(diagnostics.ErrP004, tok,
						"yield arguments must be positional")
				}
				y.Args = append(y.Args, a.Value)
			}
			pos = next
		}
		return y, pos, nil
	case token.LPAREN:
		inner, next, err := ParseExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		_, next, err = expect(toks, next, token.RPAREN)
		if err != nil {
			return nil, pos, err
		}
		return inner, next, nil
	case token.LBRACKET:
		return parseArrayLiteral(toks, pos)
	case token.LBRACE:
		return parseHashLiteral(toks, pos)
	}
	return nil, pos, diagnostics.NewError(diagnostics.ErrP004, tok,
		"expected an expression, found %q", tok.Text)
}

func parseInterpolatedString(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	start := at(toks, pos)
	pos++ // consume STRING_START
	var parts []ir.StringPart
	hasExpr := false
	for {
		switch at(toks, pos).Type {
		case token.STRING_CONTENT:
			parts = append(parts, ir.StringPart{Text: at(toks, pos).Text})
			pos++
		case token.INTERP_START:
			expr, next, err := ParseExpr(toks, pos+1)
			if err != nil {
				return nil, pos, err
			}
			_, next, err = expect(toks, next, token.INTERP_END)
			if err != nil {
				return nil, pos, err
			}
			parts = append(parts, ir.StringPart{Expr: expr})
			hasExpr = true
			pos = next
		case token.STRING_END:
			pos++
			if !hasExpr {
				// No embedded expressions: collapse to a plain string literal.
				text := ""
				for _, p := range parts {
					text += p.Text
				}
				lit := &ir.Literal{Kind: ir.LitString, Value: text}
				lit.Location = locOf(start)
				return lit, pos, nil
			}
			s := &ir.InterpolatedString{Parts: parts}
			s.Location = locOf(start)
			return s, pos, nil
		default:
			return nil, pos, diagnostics.NewError(diagnostics.ErrP004, at(toks, pos),
				"malformed interpolated string")
		}
	}
}

// parseArguments parses "(" arg { "," arg } ")". Splat, double-splat and
// named arguments are recognized as first-class forms.
func parseArguments(toks []token.Token, pos int) ([]*ir.Argument, int, *diagnostics.Diagnostic) {
	_, pos, err := expect(toks, pos, token.LPAREN)
	if err != nil {
		return nil, pos, err
	}
	var args []*ir.Argument
	pos = skipNewlines(toks, pos)
	for at(toks, pos).Type != token.RPAREN {
		arg, next, err := parseArgument(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		args = append(args, arg)
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
	return args, pos, nil
}

func parseArgument(toks []token.Token, pos int) (*ir.Argument, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	switch tok.Type {
	case token.ASTERISK:
		value, next, err := ParseExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		arg := &ir.Argument{Kind: ir.ArgSplat, Value: value}
		arg.Location = locOf(tok)
		return arg, next, nil
	case token.POWER:
		value, next, err := ParseExpr(toks, pos+1)
		if err != nil {
			return nil, pos, err
		}
		arg := &ir.Argument{Kind: ir.ArgDoubleSplat, Value: value}
		arg.Location = locOf(tok)
		return arg, next, nil
	case token.IDENT:
		if at(toks, pos+1).Type == token.COLON {
			value, next, err := ParseExpr(toks, pos+2)
			if err != nil {
				return nil, pos, err
			}
			arg := &ir.Argument{Kind: ir.ArgNamed, Name: tok.Text, Value: value}
			arg.Location = locOf(tok)
			return arg, next, nil
		}
	}
	value, next, err := ParseExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	arg := &ir.Argument{Kind: ir.ArgPositional, Value: value}
	arg.Location = value.Loc()
	return arg, next, nil
}

func parseArrayLiteral(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	open := at(toks, pos)
	pos = skipNewlines(toks, pos+1)
	arr := &ir.ArrayLiteral{}
	arr.Location = locOf(open)
	for at(toks, pos).Type != token.RBRACKET {
		el, next, err := ParseExpr(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		arr.Elements = append(arr.Elements, el)
		pos = skipNewlines(toks, next)
		if at(toks, pos).Type == token.COMMA {
			pos = skipNewlines(toks, pos+1)
			continue
		}
		break
	}
	_, pos, err := expect(toks, pos, token.RBRACKET)
	if err != nil {
		return nil, pos, err
	}
	return arr, pos, nil
}

func parseHashLiteral(toks []token.Token, pos int) (ir.Expr, int, *diagnostics.Diagnostic) {
	open := at(toks, pos)
	pos = skipNewlines(toks, pos+1)
	hash := &ir.HashLiteral{}
	hash.Location = locOf(open)
	for at(toks, pos).Type != token.RBRACE {
		pair, next, err := parseHashPair(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		hash.Pairs = append(hash.Pairs, pair)
		pos = skipNewlines(toks, next)
		if at(toks, pos).Type == token.COMMA {
			pos = skipNewlines(toks, pos+1)
			continue
		}
		break
	}
	_, pos, err := expect(toks, pos, token.RBRACE)
	if err != nil {
		return nil, pos, err
	}
	return hash, pos, nil
}

func parseHashPair(toks []token.Token, pos int) (*ir.HashPair, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	// key: value is sugar for a symbol key.
	if tok.Type == token.IDENT && at(toks, pos+1).Type == token.COLON {
		value, next, err := ParseExpr(toks, pos+2)
		if err != nil {
			return nil, pos, err
		}
		key := &ir.Literal{Kind: ir.LitSymbol, Value: tok.Text}
		key.Location = locOf(tok)
		pair := &ir.HashPair{Key: key, Value: value}
		pair.Location = locOf(tok)
		return pair, next, nil
	}
	key, pos, err := ParseExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	_, pos, err = expect(toks, pos, token.FAT_ARROW)
	if err != nil {
		return nil, pos, err
	}
	value, pos, err := ParseExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	pair := &ir.HashPair{Key: key, Value: value}
	pair.Location = key.Loc()
	return pair, pos, nil
}
