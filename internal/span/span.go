// Package span provides source positions shared by the lexer, parser and runtime.
package span

import "fmt"

// Position is a point in Oran source text.
type Position struct {
	Offset int `json:"offset" yaml:"offset"` // byte offset from beginning of source
	Line   int `json:"line" yaml:"line"`     // 1-based line number
	Column int `json:"column" yaml:"column"` // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether p was never set, as with nodes decoded from an AST
// document that carried no location.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Offset == 0
}

// Span is a range in source text [Start, End).
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	out := a
	if b.Start.Offset < out.Start.Offset {
		out.Start = b.Start
	}
	if b.End.Offset > out.End.Offset {
		out.End = b.End
	}
	return out
}
