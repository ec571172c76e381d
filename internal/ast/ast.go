// Package ast defines the abstract syntax tree evaluated by the Oran runtime.
//
// The node set is closed: every node embeds NodeBase, whose unexported marker
// method keeps implementations inside this package. The tree is never mutated
// after construction.
package ast

import "oran-lang/internal/span"

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ============================================================
// Enumerations carried by nodes
// ============================================================

// DeclKind is the declaration kind of an assignment.
type DeclKind int

const (
	Fresh    DeclKind = iota // let x = ...
	Reassign                 // x = ...
	Constant                 // const x = ...
)

var declNames = [...]string{Fresh: "let", Reassign: "reassign", Constant: "const"}

func (d DeclKind) String() string {
	if int(d) < len(declNames) {
		return declNames[d]
	}
	return "unknown"
}

// ArithOp is a binary arithmetic operator.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

var arithNames = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "^"}

func (o ArithOp) String() string {
	if int(o) < len(arithNames) {
		return arithNames[o]
	}
	return "?"
}

// LogicOp is a logical connective.
type LogicOp int

const (
	And LogicOp = iota
	Or
)

func (o LogicOp) String() string {
	if o == And {
		return "&&"
	}
	return "||"
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	Equal CompareOp = iota
	Greater
	Less
	GreaterEq
	LessEq
)

var compareNames = [...]string{Equal: "==", Greater: ">", Less: "<", GreaterEq: ">=", LessEq: "<="}

func (o CompareOp) String() string {
	if int(o) < len(compareNames) {
		return compareNames[o]
	}
	return "?"
}

// Builtin identifies the callee of a Call node.
type Builtin int

const (
	UserFunc Builtin = iota
	Print
	Println
)

var builtinNames = [...]string{UserFunc: "", Print: "print", Println: "println"}

func (b Builtin) String() string {
	if int(b) < len(builtinNames) {
		return builtinNames[b]
	}
	return "?"
}

// LookupBuiltin maps a callee name to its Builtin, or UserFunc.
func LookupBuiltin(name string) Builtin {
	switch name {
	case "print":
		return Print
	case "println":
		return Println
	default:
		return UserFunc
	}
}

// ============================================================
// Root
// ============================================================

// Program is the root of a parsed file: top-level statements in order.
type Program struct {
	NodeBase
	Body []Node
}

// ============================================================
// Literals
// ============================================================

// NumberLit is a numeric literal. All Oran numbers are float64.
type NumberLit struct {
	NodeBase
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	NodeBase
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	NodeBase
	Value bool
}

// NullLit is null.
type NullLit struct {
	NodeBase
}

// Interp is a string interpolation; Parts are stringified and concatenated.
type Interp struct {
	NodeBase
	Parts []Node
}

// ============================================================
// Expressions
// ============================================================

// Ident is a variable reference.
type Ident struct {
	NodeBase
	Name string
}

// BinaryExpr is an arithmetic operation: a + b, a ^ b.
type BinaryExpr struct {
	NodeBase
	Op    ArithOp
	Left  Node
	Right Node
}

// Logical is a && b or a || b. Both sides are always evaluated.
type Logical struct {
	NodeBase
	Op    LogicOp
	Left  Node
	Right Node
}

// Compare is a comparison: a == b, a < b.
type Compare struct {
	NodeBase
	Op    CompareOp
	Left  Node
	Right Node
}

// Call invokes a builtin or a user-defined function by name.
type Call struct {
	NodeBase
	Builtin Builtin
	Name    string
	Args    []Node
}

// ============================================================
// Statements and definitions
// ============================================================

// Assign binds Name to Value with the given declaration kind.
type Assign struct {
	NodeBase
	Decl  DeclKind
	Name  string
	Value Node
}

// FuncDef defines a function. Params are ArgBinding nodes; Return is evaluated
// after Body and is the call's result.
type FuncDef struct {
	NodeBase
	Name   string
	Params []Node
	Body   []Node
	Return Node
}

// ArgBinding binds Name to Value in the current scope and evaluates to the name.
type ArgBinding struct {
	NodeBase
	Name  string
	Value Node
}

// ElseIf is one else-if clause. Conds are tried in order; the first truthy one
// selects Body.
type ElseIf struct {
	Span  span.Span
	Conds []Node
	Body  []Node
}

// If is an if / else if / else chain.
type If struct {
	NodeBase
	Cond    Node
	Body    []Node
	ElseIfs []ElseIf
	Else    []Node
}

// RangeLoop is for Var in Start..End (or Start..=End when Inclusive).
type RangeLoop struct {
	NodeBase
	Inclusive bool
	Var       string
	Start     Node
	End       Node
	Body      []Node
}
