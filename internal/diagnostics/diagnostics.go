// Package diagnostics defines the structured errors and warnings shared by
// every compiler stage. Scan and parse diagnostics are fatal for their unit;
// type-check diagnostics accumulate and are reported together.
package diagnostics

import (
	"fmt"

	"github.com/type-ruby/trb/internal/token"
)

// Severity partitions diagnostics into those that block downstream use of a
// unit and those that are advisory only.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code is a stable diagnostic identifier. The first letter names the stage:
// S scanner, P parser, T type checker, C config/cache.
type Code string

const (
	// Scanner
	ErrS001 Code = "S001" // unterminated string literal
	ErrS002 Code = "S002" // unterminated regex literal
	ErrS003 Code = "S003" // unterminated heredoc
	ErrS004 Code = "S004" // unrecognized character

	// Parser
	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // malformed declaration
	ErrP003 Code = "P003" // malformed type expression
	ErrP004 Code = "P004" // malformed expression
	ErrP005 Code = "P005" // invalid tuple type

	// Type checker
	ErrT001 Code = "T001" // type mismatch
	ErrT002 Code = "T002" // wrong number of arguments
	ErrT003 Code = "T003" // return type mismatch
	ErrT004 Code = "T004" // unknown member
	ErrT005 Code = "T005" // invalid operand types
	ErrT006 Code = "T006" // unknown type name

	// Config / cache
	ErrC001 Code = "C001" // invalid configuration
	ErrC002 Code = "C002" // cache failure
)

// Diagnostic is one structured error or warning. Expected, Actual and
// Suggestion are only set by the type checker.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
	Offset   int

	Expected   string
	Actual     string
	Suggestion string
}

func (d *Diagnostic) Error() string {
	loc := ""
	if d.Line > 0 {
		loc = fmt.Sprintf("%d:%d: ", d.Line, d.Column)
	}
	if d.File != "" {
		loc = d.File + ":" + loc
	}
	if d.Expected != "" || d.Actual != "" {
		return fmt.Sprintf("%s%s [%s]: %s (expected %s, got %s)",
			loc, d.Severity, d.Code, d.Message, d.Expected, d.Actual)
	}
	return fmt.Sprintf("%s%s [%s]: %s", loc, d.Severity, d.Code, d.Message)
}

// NewError builds an error diagnostic positioned at tok.
func NewError(code Code, tok token.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Line:     tok.Line,
		Column:   tok.Column,
		Offset:   tok.Start,
	}
}

// NewWarning builds a warning diagnostic positioned at tok.
func NewWarning(code Code, tok token.Token, format string, args ...interface{}) *Diagnostic {
	d := NewError(code, tok, format, args...)
	d.Severity = SeverityWarning
	return d
}

// NewErrorAt builds an error diagnostic from raw position data, for stages
// that do not have a token in hand (the scanner mid-literal).
func NewErrorAt(code Code, line, column, offset int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   column,
		Offset:   offset,
	}
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(list []*Diagnostic) bool {
	for _, d := range list {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Partition splits a diagnostic list into errors and warnings, preserving
// order within each.
func Partition(list []*Diagnostic) (errors, warnings []*Diagnostic) {
	for _, d := range list {
		if d.Severity == SeverityError {
			errors = append(errors, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errors, warnings
}
