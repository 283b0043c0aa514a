// Package scanner turns T-Ruby source text into a flat token sequence.
//
// The scanner is a single-pass state machine. It can run in streaming mode
// (one token per NextToken call) or produce the whole cached sequence via
// ScanAll; both yield the same tokens. Interpolated strings are emitted as a
// structured sub-sequence: STRING_START, then alternating STRING_CONTENT and
// INTERP_START ... INTERP_END groups, then STRING_END.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/token"
)

type stringFrame struct {
	inCode     bool // inside a #{...} interpolation
	braceDepth int  // nested { } within the interpolation
}

type Scanner struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position (after current char)
	ch           rune // current char under examination
	line         int
	column       int

	prev    token.Token    // last emitted token, for / and : disambiguation
	hasPrev bool
	strings []*stringFrame // active interpolated-string frames
	err     *diagnostics.Diagnostic
	cached  []token.Token
}

func New(input string) *Scanner {
	s := &Scanner{input: input, line: 1, column: 0}
	s.readChar()
	return s
}

// Err returns the scan error, if any. Once set, NextToken only returns EOF.
func (s *Scanner) Err() *diagnostics.Diagnostic { return s.err }

// ScanAll tokenizes the whole input and caches the result. The returned
// slice is terminated by exactly one EOF token unless a scan error occurred.
func (s *Scanner) ScanAll() ([]token.Token, *diagnostics.Diagnostic) {
	if s.cached != nil || s.err != nil {
		return s.cached, s.err
	}
	var toks []token.Token
	for {
		tok := s.NextToken()
		if s.err != nil {
			return nil, s.err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	s.cached = toks
	return toks, nil
}

func (s *Scanner) readChar() {
	if s.ch == '\n' {
		s.line++
		s.column = 0
	}

	if s.readPosition >= len(s.input) {
		s.ch = 0
		s.position = s.readPosition
		s.readPosition++
		s.column++
		return
	}
	r, w := utf8.DecodeRuneInString(s.input[s.readPosition:])
	s.ch = r
	s.position = s.readPosition
	s.readPosition += w
	s.column++
}

func (s *Scanner) peekChar() rune {
	if s.readPosition >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.readPosition:])
	return r
}

func (s *Scanner) NextToken() token.Token {
	if s.err != nil {
		return token.Token{Type: token.EOF, Line: s.line, Column: s.column, Start: s.position, End: s.position}
	}

	if len(s.strings) > 0 && !s.strings[len(s.strings)-1].inCode {
		return s.emit(s.scanStringSegment())
	}

	s.skipWhitespaceAndComments()

	start := s.position
	line, col := s.line, s.column
	var tok token.Token

	switch s.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: start}
		return s.emit(tok)
	case '\n':
		tok = s.simple(token.NEWLINE, "\n")
	case '+':
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.PLUS_ASSIGN, "+=")
		} else {
			tok = s.simple(token.PLUS, "+")
		}
	case '-':
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.MINUS_ASSIGN, "-=")
		} else if s.peekChar() == '>' {
			s.readChar()
			tok = s.simple(token.ARROW, "->")
		} else {
			tok = s.simple(token.MINUS, "-")
		}
	case '*':
		if s.peekChar() == '*' {
			s.readChar()
			if s.peekChar() == '=' {
				s.readChar()
				tok = s.simple(token.POWER_ASSIGN, "**=")
			} else {
				tok = s.simple(token.POWER, "**")
			}
		} else if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.ASTERISK_ASSIGN, "*=")
		} else {
			tok = s.simple(token.ASTERISK, "*")
		}
	case '/':
		if s.regexPossible() {
			return s.emit(s.scanRegex())
		}
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.SLASH_ASSIGN, "/=")
		} else {
			tok = s.simple(token.SLASH, "/")
		}
	case '%':
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.PERCENT_ASSIGN, "%=")
		} else {
			tok = s.simple(token.PERCENT, "%")
		}
	case '=':
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.EQ, "==")
		} else if s.peekChar() == '>' {
			s.readChar()
			tok = s.simple(token.FAT_ARROW, "=>")
		} else {
			tok = s.simple(token.ASSIGN, "=")
		}
	case '!':
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.NOT_EQ, "!=")
		} else {
			tok = s.simple(token.BANG, "!")
		}
	case '<':
		if s.peekChar() == '<' {
			return s.emit(s.scanHeredoc())
		}
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.LT_EQ, "<=")
		} else {
			tok = s.simple(token.LT, "<")
		}
	case '>':
		if s.peekChar() == '=' {
			s.readChar()
			tok = s.simple(token.GT_EQ, ">=")
		} else {
			tok = s.simple(token.GT, ">")
		}
	case '&':
		if s.peekChar() == '&' {
			s.readChar()
			tok = s.simple(token.AND, "&&")
		} else {
			tok = s.simple(token.AMP, "&")
		}
	case '|':
		if s.peekChar() == '|' {
			s.readChar()
			tok = s.simple(token.OR, "||")
		} else {
			tok = s.simple(token.PIPE, "|")
		}
	case '.':
		tok = s.simple(token.DOT, ".")
	case ',':
		tok = s.simple(token.COMMA, ",")
	case ';':
		tok = s.simple(token.SEMI, ";")
	case '?':
		tok = s.simple(token.QUESTION, "?")
	case ':':
		if s.peekChar() == ':' {
			s.readChar()
			tok = s.simple(token.SCOPE, "::")
		} else if s.symbolPossible() {
			return s.emit(s.scanSymbol())
		} else {
			tok = s.simple(token.COLON, ":")
		}
	case '(':
		tok = s.simple(token.LPAREN, "(")
	case ')':
		tok = s.simple(token.RPAREN, ")")
	case '[':
		tok = s.simple(token.LBRACKET, "[")
	case ']':
		tok = s.simple(token.RBRACKET, "]")
	case '{':
		if top := s.topFrame(); top != nil && top.inCode {
			top.braceDepth++
		}
		tok = s.simple(token.LBRACE, "{")
	case '}':
		if top := s.topFrame(); top != nil && top.inCode {
			if top.braceDepth == 0 {
				top.inCode = false
				tok = s.simple(token.INTERP_END, "}")
				s.readChar()
				return s.emit(tok)
			}
			top.braceDepth--
		}
		tok = s.simple(token.RBRACE, "}")
	case '\'':
		return s.emit(s.scanSingleQuoted())
	case '"':
		s.strings = append(s.strings, &stringFrame{})
		tok = s.simple(token.STRING_START, "\"")
	case '@':
		return s.emit(s.scanInstanceOrClassVar())
	case '$':
		return s.emit(s.scanGlobalVar())
	default:
		if isLetter(s.ch) {
			return s.emit(s.scanIdentifier())
		}
		if isDigit(s.ch) {
			return s.emit(s.scanNumber())
		}
		s.fail(diagnostics.ErrS004, "unrecognized character %q", s.ch)
		return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: start}
	}

	s.readChar()
	return s.emit(tok)
}

func (s *Scanner) emit(tok token.Token) token.Token {
	s.prev = tok
	s.hasPrev = true
	return tok
}

func (s *Scanner) simple(t token.Type, text string) token.Token {
	end := s.position + utf8.RuneLen(s.ch)
	return token.Token{Type: t, Text: text, Start: end - len(text), End: end, Line: s.line, Column: s.column - len(text) + 1}
}

func (s *Scanner) topFrame() *stringFrame {
	if len(s.strings) == 0 {
		return nil
	}
	return s.strings[len(s.strings)-1]
}

func (s *Scanner) fail(code diagnostics.Code, format string, args ...interface{}) {
	if s.err == nil {
		s.err = diagnostics.NewErrorAt(code, s.line, s.column, s.position, format, args...)
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' {
			s.readChar()
		}
		// Outside string content a # always starts a comment; interpolation
		// is only recognized while scanning a string.
		if s.ch == '#' {
			for s.ch != '\n' && s.ch != 0 {
				s.readChar()
			}
			continue
		}
		return
	}
}

// valueEnded reports whether the previously emitted token can end a value,
// which makes a following / mean division and a following : a plain colon.
func (s *Scanner) valueEnded() bool {
	if !s.hasPrev {
		return false
	}
	switch s.prev.Type {
	case token.IDENT, token.CONST, token.IVAR, token.CVAR, token.GVAR,
		token.INT, token.FLOAT, token.STRING, token.STRING_END, token.SYMBOL,
		token.REGEX, token.RPAREN, token.RBRACKET, token.RBRACE,
		token.NIL, token.TRUE, token.FALSE, token.SELF, token.END:
		return true
	}
	return false
}

func (s *Scanner) regexPossible() bool {
	if s.valueEnded() {
		return false
	}
	next := s.peekChar()
	return next != ' ' && next != '\t' && next != '=' && next != 0 && next != '\n'
}

func (s *Scanner) symbolPossible() bool {
	next := s.peekChar()
	if !isLetter(next) {
		return false
	}
	return !s.valueEnded()
}

func (s *Scanner) scanIdentifier() token.Token {
	start := s.position
	line, col := s.line, s.column
	first := s.ch
	for isLetter(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	// Method names may carry a trailing ? or !. Constants never do, so the
	// type Integer? stays two tokens.
	if (s.ch == '?' || s.ch == '!') && !unicode.IsUpper(first) && s.peekChar() != '=' {
		s.readChar()
	}
	text := s.input[start:s.position]
	t := token.LookupIdent(text)
	if t == token.IDENT && unicode.IsUpper(first) {
		t = token.CONST
	}
	return token.Token{Type: t, Text: text, Start: start, End: s.position, Line: line, Column: col}
}

func (s *Scanner) scanNumber() token.Token {
	start := s.position
	line, col := s.line, s.column
	t := token.INT
	for isDigit(s.ch) || s.ch == '_' {
		s.readChar()
	}
	if s.ch == '.' && isDigit(s.peekChar()) {
		t = token.FLOAT
		s.readChar()
		for isDigit(s.ch) || s.ch == '_' {
			s.readChar()
		}
	}
	text := strings.ReplaceAll(s.input[start:s.position], "_", "")
	return token.Token{Type: t, Text: text, Start: start, End: s.position, Line: line, Column: col}
}

func (s *Scanner) scanSymbol() token.Token {
	start := s.position
	line, col := s.line, s.column
	s.readChar() // consume :
	nameStart := s.position
	for isLetter(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	if s.ch == '?' || s.ch == '!' {
		s.readChar()
	}
	return token.Token{Type: token.SYMBOL, Text: s.input[nameStart:s.position], Start: start, End: s.position, Line: line, Column: col}
}

func (s *Scanner) scanInstanceOrClassVar() token.Token {
	start := s.position
	line, col := s.line, s.column
	t := token.IVAR
	s.readChar() // consume @
	if s.ch == '@' {
		t = token.CVAR
		s.readChar()
	}
	for isLetter(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	return token.Token{Type: t, Text: s.input[start:s.position], Start: start, End: s.position, Line: line, Column: col}
}

func (s *Scanner) scanGlobalVar() token.Token {
	start := s.position
	line, col := s.line, s.column
	s.readChar() // consume $
	for isLetter(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	return token.Token{Type: token.GVAR, Text: s.input[start:s.position], Start: start, End: s.position, Line: line, Column: col}
}

// scanSingleQuoted reads a non-interpolated string. Only \' and \\ are
// escapes; everything else is literal.
func (s *Scanner) scanSingleQuoted() token.Token {
	start := s.position
	line, col := s.line, s.column
	var b strings.Builder
	for {
		s.readChar()
		if s.ch == 0 || s.ch == '\n' {
			s.fail(diagnostics.ErrS001, "unterminated string literal")
			return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
		}
		if s.ch == '\'' {
			break
		}
		if s.ch == '\\' && (s.peekChar() == '\'' || s.peekChar() == '\\') {
			s.readChar()
		}
		b.WriteRune(s.ch)
	}
	s.readChar() // consume closing quote
	return token.Token{Type: token.STRING, Text: b.String(), Start: start, End: s.position, Line: line, Column: col}
}

// scanStringSegment is called while inside a double-quoted string, outside
// any interpolation. It emits STRING_CONTENT, INTERP_START or STRING_END.
func (s *Scanner) scanStringSegment() token.Token {
	start := s.position
	line, col := s.line, s.column
	var b strings.Builder
	for {
		if s.ch == 0 {
			s.fail(diagnostics.ErrS001, "unterminated string literal")
			return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
		}
		if s.ch == '"' {
			if b.Len() > 0 {
				return token.Token{Type: token.STRING_CONTENT, Text: b.String(), Start: start, End: s.position, Line: line, Column: col}
			}
			tok := token.Token{Type: token.STRING_END, Text: "\"", Start: s.position, End: s.position + 1, Line: s.line, Column: s.column}
			s.strings = s.strings[:len(s.strings)-1]
			s.readChar()
			return tok
		}
		if s.ch == '#' && s.peekChar() == '{' {
			if b.Len() > 0 {
				return token.Token{Type: token.STRING_CONTENT, Text: b.String(), Start: start, End: s.position, Line: line, Column: col}
			}
			tok := token.Token{Type: token.INTERP_START, Text: "#{", Start: s.position, End: s.position + 2, Line: s.line, Column: s.column}
			s.readChar()
			s.readChar() // now past #{
			s.strings[len(s.strings)-1].inCode = true
			s.strings[len(s.strings)-1].braceDepth = 0
			return tok
		}
		if s.ch == '\\' {
			s.readChar()
			switch s.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '#':
				b.WriteByte('#')
			case 0:
				s.fail(diagnostics.ErrS001, "unterminated string literal")
				return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
			default:
				b.WriteByte('\\')
				b.WriteRune(s.ch)
			}
			s.readChar()
			continue
		}
		b.WriteRune(s.ch)
		s.readChar()
	}
}

func (s *Scanner) scanRegex() token.Token {
	start := s.position
	line, col := s.line, s.column
	var b strings.Builder
	for {
		s.readChar()
		if s.ch == 0 || s.ch == '\n' {
			s.fail(diagnostics.ErrS002, "unterminated regex literal")
			return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
		}
		if s.ch == '/' {
			break
		}
		if s.ch == '\\' {
			b.WriteRune(s.ch)
			s.readChar()
			if s.ch == 0 {
				s.fail(diagnostics.ErrS002, "unterminated regex literal")
				return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
			}
		}
		b.WriteRune(s.ch)
	}
	s.readChar() // consume closing /
	return token.Token{Type: token.REGEX, Text: b.String(), Start: start, End: s.position, Line: line, Column: col}
}

// scanHeredoc reads <<TERM, <<-TERM or <<~TERM. The squiggly variant strips
// the shortest common leading whitespace from every line; the dash variant
// only allows the terminator itself to be indented.
func (s *Scanner) scanHeredoc() token.Token {
	start := s.position
	line, col := s.line, s.column
	s.readChar() // first <
	s.readChar() // second <

	squiggly := false
	dashed := false
	if s.ch == '~' {
		squiggly = true
		s.readChar()
	} else if s.ch == '-' {
		dashed = true
		s.readChar()
	}
	if !isLetter(s.ch) {
		s.fail(diagnostics.ErrS003, "malformed heredoc opener")
		return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
	}
	termStart := s.position
	for isLetter(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	terminator := s.input[termStart:s.position]

	// Body starts after the rest of the opener line.
	for s.ch != '\n' {
		if s.ch == 0 {
			s.fail(diagnostics.ErrS003, "unterminated heredoc %q", terminator)
			return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
		}
		s.readChar()
	}
	s.readChar() // consume the newline

	var lines []string
	for {
		if s.ch == 0 {
			s.fail(diagnostics.ErrS003, "unterminated heredoc %q", terminator)
			return token.Token{Type: token.EOF, Line: line, Column: col, Start: start, End: s.position}
		}
		lineStart := s.position
		for s.ch != '\n' && s.ch != 0 {
			s.readChar()
		}
		text := s.input[lineStart:s.position]
		if s.ch == '\n' {
			s.readChar()
		}
		trimmed := text
		if squiggly || dashed {
			trimmed = strings.TrimLeft(text, " \t")
		}
		if trimmed == terminator {
			break
		}
		lines = append(lines, text)
	}

	if squiggly {
		lines = stripCommonIndent(lines)
	}
	body := strings.Join(lines, "\n")
	if len(lines) > 0 {
		body += "\n"
	}
	return token.Token{Type: token.STRING, Text: body, Start: start, End: s.position, Line: line, Column: col}
}

func stripCommonIndent(lines []string) []string {
	min := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if min < 0 || n < min {
			min = n
		}
	}
	if min <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= min {
			out[i] = l[min:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}
