package parser

import (
	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/token"
)

// parseBlock parses statements until one of the stop keywords appears at a
// statement boundary. The stop token is not consumed.
func parseBlock(toks []token.Token, pos int, stops ...token.Type) (*ir.Block, int, *diagnostics.Diagnostic) {
	block := &ir.Block{}
	for {
		pos = skipNewlines(toks, pos)
		tok := at(toks, pos)
		if tok.Type == token.EOF {
			return block, pos, nil
		}
		for _, stop := range stops {
			if tok.Type == stop {
				return block, pos, nil
			}
		}
		stmt, next, err := parseStatement(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		block.Statements = append(block.Statements, stmt)
		pos = next
	}
}

func parseStatement(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	var stmt ir.Stmt
	var err *diagnostics.Diagnostic
	tok := at(toks, pos)

	switch tok.Type {
	case token.IF, token.UNLESS:
		return parseConditional(toks, pos)
	case token.WHILE, token.UNTIL:
		return parseLoop(toks, pos)
	case token.CASE:
		return parseCase(toks, pos)
	case token.BEGIN:
		return parseBegin(toks, pos)
	case token.RETURN:
		ret := &ir.Return{}
		ret.Location = locOf(tok)
		pos++
		if !endOfStatement(toks, pos) && !isModifierKeyword(at(toks, pos).Type) {
			ret.Value, pos, err = ParseExpr(toks, pos)
			if err != nil {
				return nil, pos, err
			}
		}
		stmt = ret
	default:
		stmt, pos, err = parseSimpleStatement(toks, pos)
		if err != nil {
			return nil, pos, err
		}
	}

	return parseModifier(toks, pos, stmt)
}

func isModifierKeyword(t token.Type) bool {
	return t == token.IF || t == token.UNLESS || t == token.WHILE || t == token.UNTIL
}

// parseModifier wraps stmt when it carries a trailing statement modifier:
// expr if cond, expr unless cond, expr while cond, expr until cond.
func parseModifier(toks []token.Token, pos int, stmt ir.Stmt) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	if !isModifierKeyword(tok.Type) {
		return stmt, pos, nil
	}
	cond, next, err := ParseExpr(toks, pos+1)
	if err != nil {
		return nil, pos, err
	}
	body := &ir.Block{Statements: []ir.Stmt{stmt}}
	body.Location = stmt.Loc()
	switch tok.Type {
	case token.IF, token.UNLESS:
		c := &ir.Conditional{Unless: tok.Type == token.UNLESS, Cond: cond, Then: body}
		c.Location = stmt.Loc()
		return c, next, nil
	default:
		l := &ir.Loop{Until: tok.Type == token.UNTIL, Cond: cond, Body: body}
		l.Location = stmt.Loc()
		return l, next, nil
	}
}

// parseConditional parses if/unless ... [elsif ...] [else ...] end. An
// elsif chain is desugared into a nested Conditional in the else branch,
// one node per clause.
func parseConditional(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	cond := &ir.Conditional{Unless: tok.Type == token.UNLESS}
	cond.Location = locOf(tok)

	var err *diagnostics.Diagnostic
	cond.Cond, pos, err = ParseExpr(toks, pos+1)
	if err != nil {
		return nil, pos, err
	}
	if at(toks, pos).Type == token.THEN {
		pos++
	}
	cond.Then, pos, err = parseBlock(toks, pos, token.ELSIF, token.ELSE, token.END)
	if err != nil {
		return nil, pos, err
	}

	switch at(toks, pos).Type {
	case token.ELSIF:
		// Reparse the elsif clause as an if nested in the else branch.
		nested, next, err := parseElsifChain(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		cond.Else = &ir.Block{Statements: []ir.Stmt{nested}}
		cond.Else.Location = nested.Loc()
		return cond, next, nil
	case token.ELSE:
		cond.Else, pos, err = parseBlock(toks, pos+1, token.END)
		if err != nil {
			return nil, pos, err
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return cond, pos, nil
}

// parseElsifChain parses one elsif clause plus whatever follows it. The
// shared END is consumed by the innermost clause.
func parseElsifChain(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	cond := &ir.Conditional{}
	cond.Location = locOf(tok)

	var err *diagnostics.Diagnostic
	cond.Cond, pos, err = ParseExpr(toks, pos+1)
	if err != nil {
		return nil, pos, err
	}
	if at(toks, pos).Type == token.THEN {
		pos++
	}
	cond.Then, pos, err = parseBlock(toks, pos, token.ELSIF, token.ELSE, token.END)
	if err != nil {
		return nil, pos, err
	}

	switch at(toks, pos).Type {
	case token.ELSIF:
		nested, next, err := parseElsifChain(toks, pos)
		if err != nil {
			return nil, pos, err
		}
		cond.Else = &ir.Block{Statements: []ir.Stmt{nested}}
		cond.Else.Location = nested.Loc()
		return cond, next, nil
	case token.ELSE:
		cond.Else, pos, err = parseBlock(toks, pos+1, token.END)
		if err != nil {
			return nil, pos, err
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return cond, pos, nil
}

func parseLoop(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	loop := &ir.Loop{Until: tok.Type == token.UNTIL}
	loop.Location = locOf(tok)

	var err *diagnostics.Diagnostic
	loop.Cond, pos, err = ParseExpr(toks, pos+1)
	if err != nil {
		return nil, pos, err
	}
	if at(toks, pos).Type == token.DO {
		pos++
	}
	loop.Body, pos, err = parseBlock(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return loop, pos, nil
}

func parseCase(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	caseStmt := &ir.CaseExpr{}
	caseStmt.Location = locOf(tok)

	var err *diagnostics.Diagnostic
	caseStmt.Subject, pos, err = ParseExpr(toks, pos+1)
	if err != nil {
		return nil, pos, err
	}
	pos = skipNewlines(toks, pos)

	for at(toks, pos).Type == token.WHEN {
		whenTok := at(toks, pos)
		clause := &ir.WhenClause{}
		clause.Location = locOf(whenTok)
		pos++
		for {
			value, next, err := ParseExpr(toks, pos)
			if err != nil {
				return nil, pos, err
			}
			clause.Values = append(clause.Values, value)
			pos = next
			if at(toks, pos).Type == token.COMMA {
				pos++
				continue
			}
			break
		}
		if at(toks, pos).Type == token.THEN {
			pos++
		}
		clause.Body, pos, err = parseBlock(toks, pos, token.WHEN, token.ELSE, token.END)
		if err != nil {
			return nil, pos, err
		}
		caseStmt.Whens = append(caseStmt.Whens, clause)
	}
	if len(caseStmt.Whens) == 0 {
		return nil, pos, diagnostics.NewError(diagnostics.ErrP001, at(toks, pos),
			"case statement needs at least one when clause")
	}
	if at(toks, pos).Type == token.ELSE {
		caseStmt.Else, pos, err = parseBlock(toks, pos+1, token.END)
		if err != nil {
			return nil, pos, err
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return caseStmt, pos, nil
}

func parseBegin(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	begin := &ir.BeginBlock{}
	begin.Location = locOf(tok)

	var err *diagnostics.Diagnostic
	begin.Body, pos, err = parseBlock(toks, pos+1, token.RESCUE, token.ELSE, token.ENSURE, token.END)
	if err != nil {
		return nil, pos, err
	}

	for at(toks, pos).Type == token.RESCUE {
		rescueTok := at(toks, pos)
		clause := &ir.RescueClause{}
		clause.Location = locOf(rescueTok)
		pos++
		if at(toks, pos).Type == token.CONST {
			clause.Exception, pos, err = ParseTypeExpr(toks, pos)
			if err != nil {
				return nil, pos, err
			}
		}
		if at(toks, pos).Type == token.FAT_ARROW {
			nameTok, next, err := expect(toks, pos+1, token.IDENT)
			if err != nil {
				return nil, pos, err
			}
			clause.VarName = nameTok.Text
			pos = next
		}
		clause.Body, pos, err = parseBlock(toks, pos, token.RESCUE, token.ELSE, token.ENSURE, token.END)
		if err != nil {
			return nil, pos, err
		}
		begin.Rescues = append(begin.Rescues, clause)
	}
	if at(toks, pos).Type == token.ELSE {
		begin.Else, pos, err = parseBlock(toks, pos+1, token.ENSURE, token.END)
		if err != nil {
			return nil, pos, err
		}
	}
	if at(toks, pos).Type == token.ENSURE {
		begin.Ensure, pos, err = parseBlock(toks, pos+1, token.END)
		if err != nil {
			return nil, pos, err
		}
	}
	_, pos, err = expect(toks, pos, token.END)
	if err != nil {
		return nil, pos, err
	}
	return begin, pos, nil
}

var compoundOps = map[token.Type]string{
	token.PLUS_ASSIGN:     "+",
	token.MINUS_ASSIGN:    "-",
	token.ASTERISK_ASSIGN: "*",
	token.SLASH_ASSIGN:    "/",
	token.PERCENT_ASSIGN:  "%",
	token.POWER_ASSIGN:    "**",
}

// parseSimpleStatement handles assignment detection and bare expressions.
func parseSimpleStatement(toks []token.Token, pos int) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	if scope, ok := targetScope(tok.Type); ok {
		next := at(toks, pos+1)
		switch {
		case next.Type == token.ASSIGN:
			return parsePlainAssignment(toks, pos, scope)
		case next.Type == token.COLON && scope != ir.ScopeConstant:
			return parseTypedAssignment(toks, pos, scope)
		default:
			if op, ok := compoundOps[next.Type]; ok {
				return parseCompoundAssignment(toks, pos, scope, op)
			}
		}
	}
	expr, pos, err := ParseExpr(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	stmt := &ir.ExprStmt{Expr: expr}
	stmt.Location = expr.Loc()
	return stmt, pos, nil
}

func targetScope(t token.Type) (ir.VarScope, bool) {
	switch t {
	case token.IDENT:
		return ir.ScopeLocal, true
	case token.IVAR:
		return ir.ScopeInstance, true
	case token.CVAR:
		return ir.ScopeClass, true
	case token.GVAR:
		return ir.ScopeGlobal, true
	case token.CONST:
		return ir.ScopeConstant, true
	}
	return ir.ScopeLocal, false
}

func parsePlainAssignment(toks []token.Token, pos int, scope ir.VarScope) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	value, next, err := ParseExpr(toks, pos+2)
	if err != nil {
		return nil, pos, err
	}
	target := &ir.VariableRef{Name: tok.Text, Scope: scope}
	target.Location = locOf(tok)
	a := &ir.Assignment{
		Target: target,
		Slot:   &ir.TypeSlot{Kind: ir.SlotVariable, Location: locOf(tok), Context: tok.Text},
		Value:  value,
	}
	a.Location = locOf(tok)
	return a, next, nil
}

// parseTypedAssignment parses name: Type = value.
func parseTypedAssignment(toks []token.Token, pos int, scope ir.VarScope) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	declared, next, err := ParseTypeExpr(toks, pos+2)
	if err != nil {
		return nil, pos, err
	}
	_, next, err = expect(toks, next, token.ASSIGN)
	if err != nil {
		return nil, pos, err
	}
	value, next, err := ParseExpr(toks, next)
	if err != nil {
		return nil, pos, err
	}
	target := &ir.VariableRef{Name: tok.Text, Scope: scope}
	target.Location = locOf(tok)
	a := &ir.Assignment{
		Target: target,
		Slot: &ir.TypeSlot{Kind: ir.SlotVariable, Location: locOf(tok),
			Context: tok.Text, Explicit: declared},
		Value: value,
	}
	a.Location = locOf(tok)
	return a, next, nil
}

// parseCompoundAssignment eagerly expands target OP= value into
// target = target OP value. The expansion builds a fresh reference for the
// right-hand side so no IR node gains two parents.
func parseCompoundAssignment(toks []token.Token, pos int, scope ir.VarScope, op string) (ir.Stmt, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	value, next, err := ParseExpr(toks, pos+2)
	if err != nil {
		return nil, pos, err
	}
	target := &ir.VariableRef{Name: tok.Text, Scope: scope}
	target.Location = locOf(tok)
	readRef := &ir.VariableRef{Name: tok.Text, Scope: scope}
	readRef.Location = locOf(tok)
	expanded := &ir.BinaryOp{Op: op, Left: readRef, Right: value}
	expanded.Location = locOf(tok)
	a := &ir.Assignment{
		Target: target,
		Slot:   &ir.TypeSlot{Kind: ir.SlotVariable, Location: locOf(tok), Context: tok.Text},
		Value:  expanded,
	}
	a.Location = locOf(tok)
	return a, next, nil
}
