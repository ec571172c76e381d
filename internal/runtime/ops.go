package runtime

import (
	"math"
	"oran-lang/internal/ast"
	"oran-lang/internal/span"
	"strconv"
)

// ============================================================
// Numeric coercion
// ============================================================

// toFloat is the general to-number conversion: numbers pass through, numeric
// text is parsed, null is 0. Booleans and functions are not numbers.
func toFloat(v Value, s span.Span) (float64, error) {
	switch val := Unwrap(v).(type) {
	case NumberVal:
		return float64(val), nil
	case StringVal:
		f, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return 0, runtimeErr(ParseCoercionFailure, s, "cannot convert %q to a number", string(val))
		}
		return f, nil
	case NullVal:
		return 0, nil
	default:
		return 0, runtimeErr(TypeMismatchArithmetic, s, "%s is not a number", describe(v))
	}
}

// isNumeric reports whether toFloat would succeed on v.
func isNumeric(v Value) bool {
	switch val := Unwrap(v).(type) {
	case NumberVal, NullVal:
		return true
	case StringVal:
		_, err := strconv.ParseFloat(string(val), 64)
		return err == nil
	default:
		return false
	}
}

// describe names a value for error messages.
func describe(v Value) string {
	v = Unwrap(v)
	switch v.(type) {
	case StringVal:
		return strconv.Quote(v.String())
	case NullVal:
		return "null"
	default:
		return v.TypeName() + " " + v.String()
	}
}

// ============================================================
// Arithmetic
// ============================================================

// arith applies + - * / % ^. The left operand must be a number; the right
// operand is coerced. ^ coerces both sides.
func arith(op ast.ArithOp, left, right Value, s span.Span) (Value, error) {
	if op == ast.Pow {
		base, err := toFloat(left, s)
		if err != nil {
			return nil, err
		}
		exp, err := toFloat(right, s)
		if err != nil {
			return nil, err
		}
		return NumberVal(math.Pow(base, exp)), nil
	}

	l, ok := Unwrap(left).(NumberVal)
	if !ok {
		return nil, runtimeErr(TypeMismatchArithmetic, s, "left operand of '%s' is not a number: %s", op, describe(left))
	}
	r, err := toFloat(right, s)
	if err != nil {
		return nil, err
	}

	a := float64(l)
	switch op {
	case ast.Add:
		return NumberVal(a + r), nil
	case ast.Sub:
		return NumberVal(a - r), nil
	case ast.Mul:
		return NumberVal(a * r), nil
	case ast.Div:
		return NumberVal(a / r), nil
	case ast.Mod:
		return NumberVal(math.Mod(a, r)), nil
	default:
		return nil, runtimeErr(UnsupportedNode, s, "unknown arithmetic operator %d", int(op))
	}
}

// ============================================================
// Comparison
// ============================================================

// equal compares as text when either side is a string or either side is not
// numeric, and as numbers otherwise.
func equal(left, right Value) bool {
	l, r := Unwrap(left), Unwrap(right)
	_, ls := l.(StringVal)
	_, rs := r.(StringVal)
	if ls || rs || !isNumeric(l) || !isNumeric(r) {
		return l.String() == r.String()
	}
	lf, _ := toFloat(l, span.Span{})
	rf, _ := toFloat(r, span.Span{})
	return lf == rf
}

func compare(op ast.CompareOp, left, right Value, s span.Span) (Value, error) {
	if op == ast.Equal {
		return BoolVal(equal(left, right)), nil
	}

	if !isNumeric(left) || !isNumeric(right) {
		return nil, runtimeErr(TypeMismatchComparison, s, "cannot compare %s %s %s", describe(left), op, describe(right))
	}
	l, _ := toFloat(left, s)
	r, _ := toFloat(right, s)

	switch op {
	case ast.Greater:
		return BoolVal(l > r), nil
	case ast.Less:
		return BoolVal(l < r), nil
	case ast.GreaterEq:
		return BoolVal(l >= r), nil
	case ast.LessEq:
		return BoolVal(l <= r), nil
	default:
		return nil, runtimeErr(UnsupportedNode, s, "unknown comparison operator %d", int(op))
	}
}

// logical evaluates && and || over already-evaluated operands.
func logical(op ast.LogicOp, left, right Value) Value {
	if op == ast.And {
		return BoolVal(IsTruthy(left) && IsTruthy(right))
	}
	return BoolVal(IsTruthy(left) || IsTruthy(right))
}
