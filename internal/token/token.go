// Package token defines the token kinds produced by the Oran lexer.
package token

import (
	"fmt"
	"oran-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT  // x, add, total
	NUMBER // 1, 3.14
	STRING // "hello"

	// Template strings: `a ${x} b`
	TEMPLATE_LITERAL // `text` with no ${}
	TEMPLATE_HEAD    // `text${
	TEMPLATE_MIDDLE  // }text${
	TEMPLATE_TAIL    // }text`

	// Operators
	ASSIGN  // =
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^

	EQ  // ==
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	AND // &&
	OR  // ||

	RANGE     // ..
	RANGE_INC // ..=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;

	// Keywords
	KW_LET
	KW_CONST
	KW_FN
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_FOR
	KW_IN
	KW_TRUE
	KW_FALSE
	KW_NULL
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	TEMPLATE_LITERAL: "TEMPLATE",
	TEMPLATE_HEAD:    "TEMPLATE_HEAD",
	TEMPLATE_MIDDLE:  "TEMPLATE_MIDDLE",
	TEMPLATE_TAIL:    "TEMPLATE_TAIL",

	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	CARET:     "^",
	EQ:        "==",
	LT:        "<",
	LTE:       "<=",
	GT:        ">",
	GTE:       ">=",
	AND:       "&&",
	OR:        "||",
	RANGE:     "..",
	RANGE_INC: "..=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",

	KW_LET:    "let",
	KW_CONST:  "const",
	KW_FN:     "fn",
	KW_RETURN: "return",
	KW_IF:     "if",
	KW_ELSE:   "else",
	KW_FOR:    "for",
	KW_IN:     "in",
	KW_TRUE:   "true",
	KW_FALSE:  "false",
	KW_NULL:   "null",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_NULL
}

var keywords = map[string]Kind{
	"let":    KW_LET,
	"const":  KW_CONST,
	"fn":     KW_FN,
	"return": KW_RETURN,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"for":    KW_FOR,
	"in":     KW_IN,
	"true":   KW_TRUE,
	"false":  KW_FALSE,
	"null":   KW_NULL,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
