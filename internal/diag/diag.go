// Package diag provides the diagnostic type reported by the Oran front end.
//
// Codes are stable and grouped by stage:
//
//	E1xxx  lexer
//	E2xxx  parser
//	E3xxx  AST document decoding
package diag

import (
	"fmt"
	"oran-lang/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single problem found while reading a program.
type Diagnostic struct {
	Code     string    `json:"code"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Span     span.Span `json:"span"`
	Hint     string    `json:"hint,omitempty"`
}

// String renders the diagnostic as "[code] severity at line:col: message".
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("[%s] %s at %s: %s", d.Code, d.Severity, d.Span.Start, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// WithHint returns a copy of d carrying hint.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// HasErrors reports whether any diagnostic in diags is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
