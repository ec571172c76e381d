package ast

import (
	"oran-lang/internal/diag"
	"oran-lang/internal/span"

	"gopkg.in/yaml.v3"
)

// Decode reads an AST document, in the tagged-map shape written by NodeToMap,
// and rebuilds the tree. JSON documents are accepted since JSON is a subset of
// YAML. The root may be a Program map or a bare list of statements.
//
// Diagnostics point at the document line and column of the offending map.
// Nodes without a "span" field get a span starting at their document position.
func Decode(data []byte) (*Program, []diag.Diagnostic) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, []diag.Diagnostic{diag.Errorf("E3001", span.Span{}, "malformed AST document: %v", err)}
	}

	d := &decoder{}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &Program{}, []diag.Diagnostic{diag.Errorf("E3001", span.Span{}, "empty AST document")}
		}
		root = root.Content[0]
	}

	var prog *Program
	switch root.Kind {
	case yaml.SequenceNode:
		prog = &Program{NodeBase: d.base(root), Body: d.nodes(root)}
	case yaml.MappingNode:
		n := d.node(root)
		p, ok := n.(*Program)
		if !ok {
			d.errorf("E3002", root, "document root must be a Program, got %s", d.kindOf(root))
			return &Program{}, d.diags
		}
		prog = p
	default:
		d.errorf("E3001", root, "document root must be a map or a list")
		return &Program{}, d.diags
	}
	return prog, d.diags
}

type decoder struct {
	diags []diag.Diagnostic
}

func (d *decoder) errorf(code string, n *yaml.Node, format string, args ...interface{}) {
	d.diags = append(d.diags, diag.Errorf(code, nodeSpan(n), format, args...))
}

func nodeSpan(n *yaml.Node) span.Span {
	p := span.Position{Line: n.Line, Column: n.Column}
	return span.Span{Start: p, End: p}
}

// field returns the value of key in mapping n, or nil.
func field(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func (d *decoder) kindOf(n *yaml.Node) string {
	k := field(n, "kind")
	if k == nil || k.Kind != yaml.ScalarNode {
		return "<missing kind>"
	}
	return k.Value
}

func (d *decoder) base(n *yaml.Node) NodeBase {
	if s := field(n, "span"); !isNull(s) {
		var sp span.Span
		if err := s.Decode(&sp); err != nil {
			d.errorf("E3003", s, "invalid span: %v", err)
		}
		return NodeBase{Span: sp}
	}
	return NodeBase{Span: nodeSpan(n)}
}

func (d *decoder) str(n *yaml.Node, key string) string {
	v := field(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		d.errorf("E3003", n, "%s: missing string field %q", d.kindOf(n), key)
		return ""
	}
	return v.Value
}

func (d *decoder) scalar(n *yaml.Node, key string, out interface{}) {
	v := field(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		d.errorf("E3003", n, "%s: missing field %q", d.kindOf(n), key)
		return
	}
	if err := v.Decode(out); err != nil {
		d.errorf("E3003", v, "%s: field %q: %v", d.kindOf(n), key, err)
	}
}

// child decodes a required sub-node. A missing child is reported and replaced
// by null so the tree stays walkable.
func (d *decoder) child(n *yaml.Node, key string) Node {
	v := field(n, key)
	if isNull(v) {
		d.errorf("E3003", n, "%s: missing node field %q", d.kindOf(n), key)
		return &NullLit{NodeBase: NodeBase{Span: nodeSpan(n)}}
	}
	return d.node(v)
}

// optional decodes a sub-node that defaults to null.
func (d *decoder) optional(n *yaml.Node, key string) Node {
	v := field(n, key)
	if isNull(v) {
		return &NullLit{NodeBase: NodeBase{Span: nodeSpan(n)}}
	}
	return d.node(v)
}

func (d *decoder) list(n *yaml.Node, key string) []Node {
	v := field(n, key)
	if isNull(v) {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		d.errorf("E3003", v, "%s: field %q must be a list", d.kindOf(n), key)
		return nil
	}
	return d.nodes(v)
}

func (d *decoder) nodes(seq *yaml.Node) []Node {
	out := make([]Node, 0, len(seq.Content))
	for _, item := range seq.Content {
		out = append(out, d.node(item))
	}
	return out
}

func (d *decoder) node(n *yaml.Node) Node {
	if n.Kind != yaml.MappingNode {
		d.errorf("E3001", n, "expected a node map, got %q", n.Value)
		return &NullLit{NodeBase: NodeBase{Span: nodeSpan(n)}}
	}
	b := d.base(n)

	switch kind := d.kindOf(n); kind {
	case "Program":
		return &Program{NodeBase: b, Body: d.list(n, "body")}
	case "Number":
		out := &NumberLit{NodeBase: b}
		d.scalar(n, "value", &out.Value)
		return out
	case "String":
		return &StringLit{NodeBase: b, Value: d.str(n, "value")}
	case "Bool":
		out := &BoolLit{NodeBase: b}
		d.scalar(n, "value", &out.Value)
		return out
	case "Null":
		return &NullLit{NodeBase: b}
	case "Interp":
		return &Interp{NodeBase: b, Parts: d.list(n, "parts")}
	case "Ident":
		return &Ident{NodeBase: b, Name: d.str(n, "name")}
	case "Binary":
		sym := d.str(n, "op")
		op, ok := arithOps[sym]
		if !ok {
			d.errorf("E3004", n, "unknown arithmetic operator %q", sym)
		}
		return &BinaryExpr{NodeBase: b, Op: op, Left: d.child(n, "left"), Right: d.child(n, "right")}
	case "Logical":
		sym := d.str(n, "op")
		op, ok := logicOps[sym]
		if !ok {
			d.errorf("E3004", n, "unknown logical operator %q", sym)
		}
		return &Logical{NodeBase: b, Op: op, Left: d.child(n, "left"), Right: d.child(n, "right")}
	case "Compare":
		sym := d.str(n, "op")
		op, ok := compareOps[sym]
		if !ok {
			d.errorf("E3004", n, "unknown comparison operator %q", sym)
		}
		return &Compare{NodeBase: b, Op: op, Left: d.child(n, "left"), Right: d.child(n, "right")}
	case "Call":
		name := d.str(n, "callee")
		return &Call{NodeBase: b, Builtin: LookupBuiltin(name), Name: name, Args: d.list(n, "args")}
	case "Assign":
		word := d.str(n, "decl")
		decl, ok := declKinds[word]
		if !ok {
			d.errorf("E3004", n, "unknown declaration kind %q", word)
		}
		return &Assign{NodeBase: b, Decl: decl, Name: d.str(n, "name"), Value: d.child(n, "value")}
	case "FuncDef":
		return &FuncDef{
			NodeBase: b,
			Name:     d.str(n, "name"),
			Params:   d.list(n, "params"),
			Body:     d.list(n, "body"),
			Return:   d.optional(n, "return"),
		}
	case "ArgBinding":
		return &ArgBinding{NodeBase: b, Name: d.str(n, "name"), Value: d.optional(n, "value")}
	case "If":
		out := &If{NodeBase: b, Cond: d.child(n, "cond"), Body: d.list(n, "body"), Else: d.list(n, "else")}
		if v := field(n, "elseIfs"); !isNull(v) {
			if v.Kind != yaml.SequenceNode {
				d.errorf("E3003", v, "If: field \"elseIfs\" must be a list")
			} else {
				for _, clause := range v.Content {
					out.ElseIfs = append(out.ElseIfs, ElseIf{
						Span:  d.base(clause).Span,
						Conds: d.list(clause, "conds"),
						Body:  d.list(clause, "body"),
					})
				}
			}
		}
		return out
	case "RangeLoop":
		out := &RangeLoop{
			NodeBase: b,
			Var:      d.str(n, "var"),
			Start:    d.child(n, "start"),
			End:      d.child(n, "end"),
			Body:     d.list(n, "body"),
		}
		if v := field(n, "inclusive"); v != nil {
			d.scalar(n, "inclusive", &out.Inclusive)
		}
		return out
	default:
		d.errorf("E3002", n, "unknown node kind %q", kind)
		return &NullLit{NodeBase: b}
	}
}

var arithOps = map[string]ArithOp{"+": Add, "-": Sub, "*": Mul, "/": Div, "%": Mod, "^": Pow}

var logicOps = map[string]LogicOp{"&&": And, "||": Or}

var compareOps = map[string]CompareOp{"==": Equal, ">": Greater, "<": Less, ">=": GreaterEq, "<=": LessEq}

var declKinds = map[string]DeclKind{"let": Fresh, "reassign": Reassign, "const": Constant}
