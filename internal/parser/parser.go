// Package parser turns the token sequence into an ir.Program.
//
// The grammar is split into three cooperating layers: declarations drive
// statements drive expressions. Each layer is a set of functions over
// (tokens, position) returning a result with the next position. There is
// no shared mutable cursor, so every rule can be tested in isolation.
// Token-level plumbing (lists, separators, optional pieces) is built from
// the combinator package; expressions use a precedence-climbing parser.
package parser

import (
	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/token"
)

// Parse consumes the whole token sequence and returns the Program. The
// first grammar failure aborts the parse; there is no statement-level
// recovery.
func Parse(toks []token.Token) (*ir.Program, *diagnostics.Diagnostic) {
	prog := &ir.Program{}
	pos := skipNewlines(toks, 0)
	for at(toks, pos).Type != token.EOF {
		decl, next, err := parseDeclaration(toks, pos)
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
		pos = skipNewlines(toks, next)
	}
	return prog, nil
}

func at(toks []token.Token, pos int) token.Token {
	if pos >= len(toks) {
		if len(toks) > 0 {
			return toks[len(toks)-1]
		}
		return token.Token{Type: token.EOF}
	}
	return toks[pos]
}

func skipNewlines(toks []token.Token, pos int) int {
	for at(toks, pos).Type == token.NEWLINE || at(toks, pos).Type == token.SEMI {
		pos++
	}
	return pos
}

func expect(toks []token.Token, pos int, t token.Type) (token.Token, int, *diagnostics.Diagnostic) {
	tok := at(toks, pos)
	if tok.Type != t {
		return tok, pos, diagnostics.NewError(diagnostics.ErrP001, tok,
			"expected %q, found %q", string(t), tok.Text)
	}
	return tok, pos + 1, nil
}

func locOf(tok token.Token) *ir.Location {
	return &ir.Location{Line: tok.Line, Column: tok.Column}
}

// endOfStatement reports whether the token at pos terminates a statement.
func endOfStatement(toks []token.Token, pos int) bool {
	switch at(toks, pos).Type {
	case token.NEWLINE, token.SEMI, token.EOF, token.END,
		token.ELSE, token.ELSIF, token.WHEN, token.RESCUE, token.ENSURE:
		return true
	}
	return false
}
