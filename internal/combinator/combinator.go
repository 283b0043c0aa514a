// Package combinator is a small algebra of parsers over a token sequence.
//
// A Parser[T] is a pure function of the token slice and a position. It
// returns a success carrying the parsed value and the next unconsumed
// position, or a failure carrying a message and the position it failed at.
// Parsers hold no state and can be reused across parse attempts.
package combinator

import (
	"fmt"

	"github.com/type-ruby/trb/internal/token"
)

// Failure describes why and where a parser could not match.
type Failure struct {
	Pos      int
	Expected string
	Message  string
}

func (f Failure) Error() string {
	if f.Expected != "" {
		return fmt.Sprintf("expected %s at token %d", f.Expected, f.Pos)
	}
	return f.Message
}

// Result is the outcome of one parse attempt.
type Result[T any] struct {
	Value  T
	Next   int // next unconsumed position on success
	Failed bool
	Fail   Failure
}

// Parser consumes tokens starting at pos and reports how far it got.
type Parser[T any] func(toks []token.Token, pos int) Result[T]

// Ok builds a success result.
func Ok[T any](v T, next int) Result[T] {
	return Result[T]{Value: v, Next: next}
}

// Fail builds a failure result.
func Fail[T any](pos int, expected, message string) Result[T] {
	return Result[T]{Failed: true, Fail: Failure{Pos: pos, Expected: expected, Message: message}}
}

// At returns the token at pos, or the final EOF token when out of range.
func At(toks []token.Token, pos int) token.Token {
	if pos >= len(toks) {
		if len(toks) > 0 {
			return toks[len(toks)-1]
		}
		return token.Token{Type: token.EOF}
	}
	return toks[pos]
}

// TokenOf matches exactly one token of the given type.
func TokenOf(t token.Type) Parser[token.Token] {
	return func(toks []token.Token, pos int) Result[token.Token] {
		tok := At(toks, pos)
		if tok.Type != t {
			return Fail[token.Token](pos, string(t), "")
		}
		return Ok(tok, pos+1)
	}
}

// Satisfy matches one token accepted by pred. desc names the expectation
// for error messages.
func Satisfy(desc string, pred func(token.Token) bool) Parser[token.Token] {
	return func(toks []token.Token, pos int) Result[token.Token] {
		tok := At(toks, pos)
		if !pred(tok) {
			return Fail[token.Token](pos, desc, "")
		}
		return Ok(tok, pos+1)
	}
}

// Map transforms the value of a successful parse.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(toks []token.Token, pos int) Result[B] {
		r := p(toks, pos)
		if r.Failed {
			return Result[B]{Failed: true, Fail: r.Fail}
		}
		return Ok(f(r.Value), r.Next)
	}
}

// Label replaces a parser's expectation with a human-readable one.
func Label[A any](p Parser[A], expectation string) Parser[A] {
	return func(toks []token.Token, pos int) Result[A] {
		r := p(toks, pos)
		if r.Failed {
			r.Fail.Expected = expectation
		}
		return r
	}
}

// Alt tries each alternative in order and commits to the first success.
func Alt[A any](ps ...Parser[A]) Parser[A] {
	return func(toks []token.Token, pos int) Result[A] {
		var last Result[A]
		for _, p := range ps {
			r := p(toks, pos)
			if !r.Failed {
				return r
			}
			last = r
		}
		if len(ps) == 0 {
			return Fail[A](pos, "one of zero alternatives", "")
		}
		return last
	}
}

// Opt carries an optional parse value.
type Opt[T any] struct {
	Value T
	OK    bool
}

// Optional succeeds whether or not p matches, consuming nothing on a miss.
func Optional[A any](p Parser[A]) Parser[Opt[A]] {
	return func(toks []token.Token, pos int) Result[Opt[A]] {
		r := p(toks, pos)
		if r.Failed {
			return Ok(Opt[A]{}, pos)
		}
		return Ok(Opt[A]{Value: r.Value, OK: true}, r.Next)
	}
}

// Many applies p zero or more times. A match that consumes no input stops
// the loop, guarding against zero-width livelock.
func Many[A any](p Parser[A]) Parser[[]A] {
	return func(toks []token.Token, pos int) Result[[]A] {
		var out []A
		for {
			r := p(toks, pos)
			if r.Failed {
				return Ok(out, pos)
			}
			if r.Next == pos {
				return Ok(out, pos)
			}
			out = append(out, r.Value)
			pos = r.Next
		}
	}
}

// Many1 applies p one or more times.
func Many1[A any](p Parser[A]) Parser[[]A] {
	return func(toks []token.Token, pos int) Result[[]A] {
		first := p(toks, pos)
		if first.Failed {
			return Result[[]A]{Failed: true, Fail: first.Fail}
		}
		rest := Many(p)(toks, first.Next)
		return Ok(append([]A{first.Value}, rest.Value...), rest.Next)
	}
}

// SepBy parses zero or more p separated by sep.
func SepBy[A, S any](p Parser[A], sep Parser[S]) Parser[[]A] {
	return func(toks []token.Token, pos int) Result[[]A] {
		r := SepBy1(p, sep)(toks, pos)
		if r.Failed {
			return Ok[[]A](nil, pos)
		}
		return r
	}
}

// SepBy1 parses one or more p separated by sep. A trailing separator is not
// consumed.
func SepBy1[A, S any](p Parser[A], sep Parser[S]) Parser[[]A] {
	return func(toks []token.Token, pos int) Result[[]A] {
		first := p(toks, pos)
		if first.Failed {
			return Result[[]A]{Failed: true, Fail: first.Fail}
		}
		out := []A{first.Value}
		pos = first.Next
		for {
			s := sep(toks, pos)
			if s.Failed {
				return Ok(out, pos)
			}
			r := p(toks, s.Next)
			if r.Failed {
				return Ok(out, pos)
			}
			if r.Next == pos {
				return Ok(out, pos)
			}
			out = append(out, r.Value)
			pos = r.Next
		}
	}
}

// Pair is the value of Seq2.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Seq2 runs two parsers in sequence.
func Seq2[A, B any](pa Parser[A], pb Parser[B]) Parser[Pair[A, B]] {
	return func(toks []token.Token, pos int) Result[Pair[A, B]] {
		ra := pa(toks, pos)
		if ra.Failed {
			return Result[Pair[A, B]]{Failed: true, Fail: ra.Fail}
		}
		rb := pb(toks, ra.Next)
		if rb.Failed {
			return Result[Pair[A, B]]{Failed: true, Fail: rb.Fail}
		}
		return Ok(Pair[A, B]{First: ra.Value, Second: rb.Value}, rb.Next)
	}
}

// Seq3 runs three parsers in sequence, keeping all three values.
func Seq3[A, B, C any](pa Parser[A], pb Parser[B], pc Parser[C]) Parser[Pair[Pair[A, B], C]] {
	return Seq2(Seq2(pa, pb), pc)
}

// SkipThen discards the first parser's value.
func SkipThen[A, B any](pa Parser[A], pb Parser[B]) Parser[B] {
	return Map(Seq2(pa, pb), func(p Pair[A, B]) B { return p.Second })
}

// ThenSkip discards the second parser's value.
func ThenSkip[A, B any](pa Parser[A], pb Parser[B]) Parser[A] {
	return Map(Seq2(pa, pb), func(p Pair[A, B]) A { return p.First })
}
