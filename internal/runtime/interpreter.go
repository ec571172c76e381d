package runtime

import (
	"io"
	"log/slog"
	"math"
	"oran-lang/internal/ast"
	"oran-lang/internal/span"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and evaluates it against its own binding store.
type Interpreter struct {
	store  *Store
	output io.Writer
	logger *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger that receives Debug records for every call
// frame pushed and purged.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewInterpreter creates an interpreter writing program output to output.
func NewInterpreter(output io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		store:  NewStore(),
		output: output,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run evaluates every top-level statement at scope 0 and returns the value of
// the last one. Bindings persist across calls to Run (useful for REPL).
func (i *Interpreter) Run(prog *ast.Program) (Value, error) {
	return i.evalBlock(prog.Body, 0)
}

// Store returns the interpreter's binding store.
func (i *Interpreter) Store() *Store {
	return i.store
}

// ============================================================
// Node dispatch
// ============================================================

func (i *Interpreter) eval(node ast.Node, scope int) (Value, error) {
	switch n := node.(type) {
	case nil:
		return nil, runtimeErr(UnsupportedNode, span.Span{}, "missing node")
	case *ast.Program:
		return i.evalBlock(n.Body, scope)

	// ---- Literals ----
	case *ast.NumberLit:
		return NumberVal(n.Value), nil
	case *ast.StringLit:
		return StringVal(n.Value), nil
	case *ast.BoolLit:
		return BoolVal(n.Value), nil
	case *ast.NullLit:
		return NullVal{}, nil
	case *ast.Interp:
		return i.evalInterp(n, scope)

	// ---- Expressions ----
	case *ast.Ident:
		v, ok := i.store.Get(scope, ValueBinding, n.Name)
		if !ok {
			return nil, runtimeErr(UndefinedIdentifier, n.Span, "undefined variable '%s'", n.Name)
		}
		return v, nil
	case *ast.BinaryExpr:
		left, right, err := i.evalPair(n.Left, n.Right, scope)
		if err != nil {
			return nil, err
		}
		return arith(n.Op, left, right, n.Span)
	case *ast.Logical:
		left, right, err := i.evalPair(n.Left, n.Right, scope)
		if err != nil {
			return nil, err
		}
		return logical(n.Op, left, right), nil
	case *ast.Compare:
		left, right, err := i.evalPair(n.Left, n.Right, scope)
		if err != nil {
			return nil, err
		}
		return compare(n.Op, left, right, n.Span)
	case *ast.Call:
		if n.Builtin != ast.UserFunc {
			return i.callBuiltin(n, scope)
		}
		return i.callFunction(n, scope)

	// ---- Statements ----
	case *ast.Assign:
		return i.evalAssign(n, scope)
	case *ast.FuncDef:
		fn := &FuncVal{Name: n.Name, Params: n.Params, Body: n.Body, Return: n.Return}
		i.store.Insert(scope, FunctionBinding, n.Name, fn)
		return fn, nil
	case *ast.ArgBinding:
		v, err := i.eval(n.Value, scope)
		if err != nil {
			return nil, err
		}
		if _, err := i.bind(scope, ast.Fresh, n.Name, v, n); err != nil {
			return nil, err
		}
		return StringVal(n.Name), nil
	case *ast.If:
		return i.evalIf(n, scope)
	case *ast.RangeLoop:
		return i.evalRangeLoop(n, scope)

	default:
		return nil, runtimeErr(UnsupportedNode, node.GetSpan(), "unsupported node type: %T", node)
	}
}

// evalBlock evaluates nodes in order and returns the last value, or null for
// an empty block.
func (i *Interpreter) evalBlock(nodes []ast.Node, scope int) (Value, error) {
	var last Value = NullVal{}
	for _, node := range nodes {
		v, err := i.eval(node, scope)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// evalPair evaluates both operands left to right. Neither side is skipped.
func (i *Interpreter) evalPair(l, r ast.Node, scope int) (Value, Value, error) {
	left, err := i.eval(l, scope)
	if err != nil {
		return nil, nil, err
	}
	right, err := i.eval(r, scope)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (i *Interpreter) evalInterp(n *ast.Interp, scope int) (Value, error) {
	parts := make([]Value, 0, len(n.Parts))
	for _, part := range n.Parts {
		v, err := i.eval(part, scope)
		if err != nil {
			return nil, err
		}
		parts = append(parts, v)
	}
	return StringVal(ValuesString(parts)), nil
}

// ============================================================
// Bindings
// ============================================================

func (i *Interpreter) evalAssign(n *ast.Assign, scope int) (Value, error) {
	if err := checkMutable(i.store, scope, n.Name, n.Decl, n.Span); err != nil {
		return nil, err
	}
	v, err := i.eval(n.Value, scope)
	if err != nil {
		return nil, err
	}
	b, err := i.bind(scope, n.Decl, n.Name, v, n)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// bind stores v as a BoundVal at (scope, Value, name). Functions are not
// first-class values and cannot be bound to a variable.
func (i *Interpreter) bind(scope int, decl ast.DeclKind, name string, v Value, at ast.Node) (*BoundVal, error) {
	inner := Unwrap(v)
	if fn, ok := inner.(*FuncVal); ok {
		return nil, runtimeErr(TypeMismatchAssignment, at.GetSpan(), "cannot assign function '%s' to '%s'", fn.Name, name)
	}
	b := &BoundVal{Decl: decl, Name: name, Inner: inner}
	i.store.Insert(scope, ValueBinding, name, b)
	return b, nil
}

// ============================================================
// Calls
// ============================================================

func (i *Interpreter) callBuiltin(n *ast.Call, scope int) (Value, error) {
	fn, ok := builtins[n.Builtin]
	if !ok {
		return nil, runtimeErr(UndefinedFunction, n.Span, "unknown builtin '%s'", n.Builtin)
	}
	args := make([]Value, 0, len(n.Args))
	for _, arg := range n.Args {
		v, err := i.eval(arg, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return fn(i.output, args)
}

// callFunction runs a user function one scope above the caller. Parameters,
// locals and nested definitions live in that frame, which is purged when the
// call returns or fails.
//
// Arguments are evaluated at the caller's scope before the frame opens, so a
// call nested in an argument list cannot discard parameters already bound.
// Arguments beyond the parameter list are ignored and never evaluated.
func (i *Interpreter) callFunction(n *ast.Call, scope int) (Value, error) {
	found, _, ok := i.store.Lookup(scope, FunctionBinding, n.Name)
	if !ok {
		return nil, runtimeErr(UndefinedFunction, n.Span, "undefined function '%s'", n.Name)
	}
	fn := found.(*FuncVal)

	args := make([]Value, 0, len(fn.Params))
	for idx := 0; idx < len(fn.Params) && idx < len(n.Args); idx++ {
		v, err := i.eval(n.Args[idx], scope)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	inner := i.store.Enter(scope + 1)
	i.logger.Debug("push stack frame",
		slog.String("function", fn.Name),
		slog.Int("scope", inner),
		slog.Int("argument-count", len(n.Args)))
	defer func() {
		i.store.Purge(inner)
		i.logger.Debug("pop stack frame",
			slog.String("function", fn.Name),
			slog.Int("scope", inner))
	}()

	for idx, param := range fn.Params {
		nameVal, err := i.eval(param, inner)
		if err != nil {
			return nil, err
		}
		name, isName := nameVal.(StringVal)
		if !isName {
			return nil, runtimeErr(UnsupportedNode, param.GetSpan(), "parameter %d of '%s' is not an argument binding", idx+1, fn.Name)
		}
		if idx >= len(args) {
			return nil, runtimeErr(MissingArgument, n.Span, "missing argument '%s' in call to '%s'", string(name), fn.Name)
		}
		if _, err := i.bind(inner, ast.Fresh, string(name), args[idx], n.Args[idx]); err != nil {
			return nil, err
		}
	}

	if _, err := i.evalBlock(fn.Body, inner); err != nil {
		return nil, err
	}
	if fn.Return == nil {
		return NullVal{}, nil
	}
	return i.eval(fn.Return, inner)
}

// ============================================================
// Control flow
// ============================================================

// evalIf runs at most one branch. Each else-if clause tries its conditions in
// order and is taken on the first truthy one.
func (i *Interpreter) evalIf(n *ast.If, scope int) (Value, error) {
	cond, err := i.eval(n.Cond, scope)
	if err != nil {
		return nil, err
	}
	if IsTruthy(cond) {
		return i.evalBranch(n.Body, scope)
	}

	for _, clause := range n.ElseIfs {
		for _, c := range clause.Conds {
			v, err := i.eval(c, scope)
			if err != nil {
				return nil, err
			}
			if IsTruthy(v) {
				return i.evalBranch(clause.Body, scope)
			}
		}
	}

	if n.Else != nil {
		return i.evalBranch(n.Else, scope)
	}
	return NullVal{}, nil
}

func (i *Interpreter) evalBranch(body []ast.Node, scope int) (Value, error) {
	if _, err := i.evalBlock(body, scope); err != nil {
		return nil, err
	}
	return NullVal{}, nil
}

// evalRangeLoop evaluates both bounds once, rounds them half away from zero
// and binds the loop variable in the current scope on every iteration. The
// variable keeps its last value after the loop.
func (i *Interpreter) evalRangeLoop(n *ast.RangeLoop, scope int) (Value, error) {
	startVal, endVal, err := i.evalPair(n.Start, n.End, scope)
	if err != nil {
		return nil, err
	}
	startF, err := toFloat(startVal, n.Start.GetSpan())
	if err != nil {
		return nil, err
	}
	endF, err := toFloat(endVal, n.End.GetSpan())
	if err != nil {
		return nil, err
	}

	start, end := int64(math.Round(startF)), int64(math.Round(endF))
	if n.Inclusive {
		end++
	}
	for k := start; k < end; k++ {
		i.store.Insert(scope, ValueBinding, n.Var, &BoundVal{Decl: ast.Fresh, Name: n.Var, Inner: NumberVal(k)})
		if _, err := i.evalBlock(n.Body, scope); err != nil {
			return nil, err
		}
	}
	return NullVal{}, nil
}
