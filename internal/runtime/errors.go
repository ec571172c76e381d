package runtime

import (
	"errors"
	"fmt"
	"oran-lang/internal/span"
)

// ErrorKind classifies a fatal runtime error.
type ErrorKind int

const (
	UndefinedIdentifier ErrorKind = iota
	UndefinedFunction
	MissingArgument
	ConstantReassignment
	UndeclaredReassignment
	TypeMismatchArithmetic
	TypeMismatchComparison
	ParseCoercionFailure
	TypeMismatchAssignment
	UnsupportedNode
)

var kindNames = [...]string{
	UndefinedIdentifier:    "UndefinedIdentifier",
	UndefinedFunction:      "UndefinedFunction",
	MissingArgument:        "MissingArgument",
	ConstantReassignment:   "ConstantReassignment",
	UndeclaredReassignment: "UndeclaredReassignment",
	TypeMismatchArithmetic: "TypeMismatchArithmetic",
	TypeMismatchComparison: "TypeMismatchComparison",
	ParseCoercionFailure:   "ParseCoercionFailure",
	TypeMismatchAssignment: "TypeMismatchAssignment",
	UnsupportedNode:        "UnsupportedNode",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a fatal runtime error. Evaluation stops at the first one.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
}

func (e *Error) Error() string {
	if e.Span.Start.IsZero() {
		return fmt.Sprintf("runtime error: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("runtime error at %d:%d: %s: %s", e.Span.Start.Line, e.Span.Start.Column, e.Kind, e.Message)
}

func runtimeErr(kind ErrorKind, s span.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}

// IsKind reports whether err is, or wraps, a runtime error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}
