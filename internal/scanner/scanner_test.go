package scanner_test

import (
	"testing"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/scanner"
	"github.com/type-ruby/trb/internal/token"
)

type tok struct {
	typ  token.Type
	text string
}

func assertTokens(t *testing.T, input string, want []tok) {
	t.Helper()
	toks, diag := scanner.New(input).ScanAll()
	if diag != nil {
		t.Fatalf("unexpected scan error: %v\ninput: %s", diag, input)
	}
	// Drop the trailing EOF for comparison.
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("token stream not EOF-terminated: %v", toks)
	}
	toks = toks[:len(toks)-1]
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d\ngot:  %v\ninput: %s", len(toks), len(want), toks, input)
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Text != w.text {
			t.Errorf("token %d: got (%s %q), want (%s %q)", i, toks[i].Type, toks[i].Text, w.typ, w.text)
		}
	}
}

func TestScanBasicTokens(t *testing.T) {
	assertTokens(t, "x = 1 + 2.5", []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
		{token.PLUS, "+"},
		{token.FLOAT, "2.5"},
	})
}

func TestScanKeywordsAndConstants(t *testing.T) {
	assertTokens(t, "def add(a: Integer)", []tok{
		{token.DEF, "def"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.CONST, "Integer"},
		{token.RPAREN, ")"},
	})
}

func TestScanNumberUnderscores(t *testing.T) {
	assertTokens(t, "1_000_000", []tok{{token.INT, "1000000"}})
}

func TestScanMethodNameSuffixes(t *testing.T) {
	assertTokens(t, "x.nil?", []tok{
		{token.IDENT, "x"},
		{token.DOT, "."},
		{token.IDENT, "nil?"},
	})
	// != stays a comparison, not a bang-method name.
	assertTokens(t, "a != b", []tok{
		{token.IDENT, "a"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "b"},
	})
	// A nullable annotation keeps the ? separate from the constant.
	assertTokens(t, "Integer?", []tok{
		{token.CONST, "Integer"},
		{token.QUESTION, "?"},
	})
}

func TestScanSigilVariables(t *testing.T) {
	assertTokens(t, "@name @@count $debug", []tok{
		{token.IVAR, "@name"},
		{token.CVAR, "@@count"},
		{token.GVAR, "$debug"},
	})
}

func TestScanSymbolVersusColon(t *testing.T) {
	// After = the colon starts a symbol.
	assertTokens(t, "x = :active", []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.SYMBOL, "active"},
	})
	// After an identifier the colon is an annotation separator.
	assertTokens(t, "a: Integer", []tok{
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.CONST, "Integer"},
	})
}

func TestScanRegexVersusDivision(t *testing.T) {
	assertTokens(t, "x = /ab+c/", []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.REGEX, "ab+c"},
	})
	assertTokens(t, "a / b", []tok{
		{token.IDENT, "a"},
		{token.SLASH, "/"},
		{token.IDENT, "b"},
	})
	assertTokens(t, "10 / 2", []tok{
		{token.INT, "10"},
		{token.SLASH, "/"},
		{token.INT, "2"},
	})
}

func TestScanSingleQuotedString(t *testing.T) {
	assertTokens(t, `'it\'s'`, []tok{{token.STRING, "it's"}})
}

func TestScanInterpolatedString(t *testing.T) {
	assertTokens(t, `"sum: #{a + b}!"`, []tok{
		{token.STRING_START, `"`},
		{token.STRING_CONTENT, "sum: "},
		{token.INTERP_START, "#{"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.INTERP_END, "}"},
		{token.STRING_CONTENT, "!"},
		{token.STRING_END, `"`},
	})
}

func TestScanInterpolationWithNestedBraces(t *testing.T) {
	assertTokens(t, `"#{h[:k] || {}.size}"`, []tok{
		{token.STRING_START, `"`},
		{token.INTERP_START, "#{"},
		{token.IDENT, "h"},
		{token.LBRACKET, "["},
		{token.SYMBOL, "k"},
		{token.RBRACKET, "]"},
		{token.OR, "||"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.DOT, "."},
		{token.IDENT, "size"},
		{token.INTERP_END, "}"},
		{token.STRING_END, `"`},
	})
}

func TestScanHeredoc(t *testing.T) {
	input := "x = <<~SQL\n  select 1\n    from t\nSQL\n"
	assertTokens(t, input, []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.STRING, "select 1\n  from t\n"},
	})
}

func TestScanPlainHeredocKeepsIndent(t *testing.T) {
	input := "x = <<TXT\n  a\nTXT\n"
	assertTokens(t, input, []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.STRING, "  a\n"},
	})
}

func TestScanComments(t *testing.T) {
	assertTokens(t, "x # trailing note\ny", []tok{
		{token.IDENT, "x"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "y"},
	})
	// A comment may start with any text, braces included.
	assertTokens(t, "#{not interpolation}\nx = 1", []tok{
		{token.NEWLINE, "\n"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
	})
	assertTokens(t, "y # note with #{braces}\nz", []tok{
		{token.IDENT, "y"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "z"},
	})
}

func TestScanAllMatchesStreaming(t *testing.T) {
	input := "def add(a: Integer, b: Integer): Integer\n  \"v: #{a / b}\"\nend\n"

	all, diag := scanner.New(input).ScanAll()
	if diag != nil {
		t.Fatalf("ScanAll failed: %v", diag)
	}

	s := scanner.New(input)
	var streamed []token.Token
	for {
		tk := s.NextToken()
		if s.Err() != nil {
			t.Fatalf("streaming scan failed: %v", s.Err())
		}
		streamed = append(streamed, tk)
		if tk.Type == token.EOF {
			break
		}
	}

	if len(all) != len(streamed) {
		t.Fatalf("ScanAll produced %d tokens, streaming %d", len(all), len(streamed))
	}
	for i := range all {
		if all[i] != streamed[i] {
			t.Errorf("token %d differs: %v vs %v", i, all[i], streamed[i])
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.Code
	}{
		{`'open`, diagnostics.ErrS001},
		{`"open #{x}`, diagnostics.ErrS001},
		{"x = /never", diagnostics.ErrS002},
		{"x = <<~SQL\nselect 1\n", diagnostics.ErrS003},
		{"x = §", diagnostics.ErrS004},
	}
	for _, tt := range tests {
		_, diag := scanner.New(tt.input).ScanAll()
		if diag == nil {
			t.Errorf("input %q: expected %s, got no error", tt.input, tt.code)
			continue
		}
		if diag.Code != tt.code {
			t.Errorf("input %q: got %s, want %s", tt.input, diag.Code, tt.code)
		}
	}
}
