// Package runtime implements the tree-walking evaluator for Oran: runtime
// values and their coercions, the scoped binding store, the mutability guard
// and the evaluator itself.
package runtime

import (
	"math"
	"oran-lang/internal/ast"
	"strconv"
)

// Value is the interface for all runtime values. The set is closed.
type Value interface {
	TypeName() string
	String() string
	value()
}

// NumberVal is the only numeric type; all numbers are float64.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }
func (v NumberVal) String() string   { return formatNumber(float64(v)) }

// StringVal is a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }

// BoolVal is true or false.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// NullVal is null. It prints as the empty string.
type NullVal struct{}

func (v NullVal) TypeName() string { return "null" }
func (v NullVal) String() string   { return "" }

// BoundVal is a scalar annotated with the declaration that produced it. Inner
// is never a BoundVal or a FuncVal.
type BoundVal struct {
	Decl  ast.DeclKind
	Name  string
	Inner Value
}

func (v *BoundVal) TypeName() string { return v.Inner.TypeName() }
func (v *BoundVal) String() string   { return v.Inner.String() }

// FuncVal is a user-defined function. It shares the AST slices of its
// definition.
type FuncVal struct {
	Name   string
	Params []ast.Node
	Body   []ast.Node
	Return ast.Node
}

func (v *FuncVal) TypeName() string { return "function" }
func (v *FuncVal) String() string   { return "<fn " + v.Name + ">" }

func (NumberVal) value() {}
func (StringVal) value() {}
func (BoolVal) value()   {}
func (NullVal) value()   {}
func (*BoundVal) value() {}
func (*FuncVal) value()  {}

// ---- Conversions ----

// formatNumber renders the shortest decimal that round-trips, never using an
// exponent: 2, 0.5, 1e21 as 1000000000000000000000.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Unwrap strips a BoundVal down to its scalar.
func Unwrap(v Value) Value {
	if b, ok := v.(*BoundVal); ok {
		return b.Inner
	}
	return v
}

// IsTruthy converts a value to bool. Only the empty string, 0, false and null
// are false; the string "false" is true.
func IsTruthy(v Value) bool {
	switch val := Unwrap(v).(type) {
	case NullVal:
		return false
	case BoolVal:
		return bool(val)
	case NumberVal:
		return float64(val) != 0
	case StringVal:
		return string(val) != ""
	default:
		return true
	}
}

// ValuesString concatenates the text of each value with no separator.
func ValuesString(vals []Value) string {
	var out []byte
	for _, v := range vals {
		out = append(out, v.String()...)
	}
	return string(out)
}
