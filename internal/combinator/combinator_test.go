package combinator_test

import (
	"strconv"
	"testing"

	"github.com/type-ruby/trb/internal/combinator"
	"github.com/type-ruby/trb/internal/scanner"
	"github.com/type-ruby/trb/internal/token"
)

func toks(t *testing.T, input string) []token.Token {
	t.Helper()
	out, diag := scanner.New(input).ScanAll()
	if diag != nil {
		t.Fatalf("scan failed: %v", diag)
	}
	return out
}

func TestTokenOf(t *testing.T) {
	ts := toks(t, "a, b")
	r := combinator.TokenOf(token.IDENT)(ts, 0)
	if r.Failed || r.Value.Text != "a" || r.Next != 1 {
		t.Fatalf("TokenOf(IDENT) = %+v", r)
	}
	r = combinator.TokenOf(token.COMMA)(ts, 0)
	if !r.Failed || r.Fail.Pos != 0 {
		t.Fatalf("TokenOf(COMMA) at an identifier should fail at pos 0: %+v", r)
	}
}

func TestMapAndLabel(t *testing.T) {
	ts := toks(t, "42")
	num := combinator.Map(combinator.TokenOf(token.INT), func(tok token.Token) int {
		n, _ := strconv.Atoi(tok.Text)
		return n
	})
	r := num(ts, 0)
	if r.Failed || r.Value != 42 {
		t.Fatalf("mapped int = %+v", r)
	}

	labeled := combinator.Label(combinator.TokenOf(token.CONST), "a type name")
	lr := labeled(ts, 0)
	if !lr.Failed || lr.Fail.Expected != "a type name" {
		t.Fatalf("label should rewrite expectation: %+v", lr.Fail)
	}
}

func TestAltCommitsToFirstSuccess(t *testing.T) {
	ts := toks(t, "Foo")
	p := combinator.Alt(
		combinator.TokenOf(token.IDENT),
		combinator.TokenOf(token.CONST),
	)
	r := p(ts, 0)
	if r.Failed || r.Value.Type != token.CONST {
		t.Fatalf("Alt = %+v", r)
	}
}

func TestOptionalConsumesNothingOnMiss(t *testing.T) {
	ts := toks(t, "a")
	r := combinator.Optional(combinator.TokenOf(token.COMMA))(ts, 0)
	if r.Failed || r.Value.OK || r.Next != 0 {
		t.Fatalf("Optional miss = %+v", r)
	}
	r = combinator.Optional(combinator.TokenOf(token.IDENT))(ts, 0)
	if r.Failed || !r.Value.OK || r.Next != 1 {
		t.Fatalf("Optional hit = %+v", r)
	}
}

func TestManyStopsOnZeroWidthMatch(t *testing.T) {
	ts := toks(t, "a b")
	// A parser that always succeeds without consuming must not loop forever.
	zeroWidth := func(toks []token.Token, pos int) combinator.Result[int] {
		return combinator.Ok(0, pos)
	}
	r := combinator.Many[int](zeroWidth)(ts, 0)
	if r.Failed || len(r.Value) != 0 || r.Next != 0 {
		t.Fatalf("zero-width Many = %+v", r)
	}
}

func TestSepBy1(t *testing.T) {
	ts := toks(t, "a, b, c")
	idents := combinator.SepBy1(
		combinator.Map(combinator.TokenOf(token.IDENT), func(tok token.Token) string { return tok.Text }),
		combinator.TokenOf(token.COMMA),
	)
	r := idents(ts, 0)
	if r.Failed || len(r.Value) != 3 {
		t.Fatalf("SepBy1 = %+v", r)
	}
	if r.Value[0] != "a" || r.Value[2] != "c" {
		t.Errorf("values = %v", r.Value)
	}
}

func TestSepBy1DoesNotEatTrailingSeparator(t *testing.T) {
	ts := toks(t, "a, b,)")
	idents := combinator.SepBy1(combinator.TokenOf(token.IDENT), combinator.TokenOf(token.COMMA))
	r := idents(ts, 0)
	if r.Failed || len(r.Value) != 2 {
		t.Fatalf("SepBy1 = %+v", r)
	}
	if ts[r.Next].Type != token.COMMA {
		t.Errorf("trailing separator should stay unconsumed, next token is %s", ts[r.Next].Type)
	}
}

func TestSeqAndSkips(t *testing.T) {
	ts := toks(t, "(a)")
	inner := combinator.SkipThen(
		combinator.TokenOf(token.LPAREN),
		combinator.ThenSkip(combinator.TokenOf(token.IDENT), combinator.TokenOf(token.RPAREN)),
	)
	r := inner(ts, 0)
	if r.Failed || r.Value.Text != "a" || r.Next != 3 {
		t.Fatalf("SkipThen/ThenSkip = %+v", r)
	}

	pair := combinator.Seq2(combinator.TokenOf(token.LPAREN), combinator.TokenOf(token.IDENT))
	pr := pair(ts, 0)
	if pr.Failed || pr.Value.Second.Text != "a" {
		t.Fatalf("Seq2 = %+v", pr)
	}
}
