package runtime

import (
	"fmt"
	"io"
	"oran-lang/internal/ast"
)

// BuiltinFn is the Go signature for built-in functions. Arguments arrive
// already evaluated, in order.
type BuiltinFn func(w io.Writer, args []Value) (Value, error)

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

var builtins = map[ast.Builtin]BuiltinFn{
	ast.Print:   builtinPrint,
	ast.Println: builtinPrintln,
}

// builtinPrint writes the concatenated text of args and flushes the writer so
// partial lines appear immediately.
func builtinPrint(w io.Writer, args []Value) (Value, error) {
	if _, err := io.WriteString(w, ValuesString(args)); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
	}
	return BoolVal(true), nil
}

// builtinPrintln writes the concatenated text of args followed by a newline.
func builtinPrintln(w io.Writer, args []Value) (Value, error) {
	if _, err := fmt.Fprintln(w, ValuesString(args)); err != nil {
		return nil, fmt.Errorf("println: %w", err)
	}
	return BoolVal(true), nil
}
