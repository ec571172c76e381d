package ast

import "oran-lang/internal/span"

// NodeToMap converts an AST node to a map suitable for JSON or YAML output.
// Every node becomes a tagged map with a "kind" field; Decode reads the same
// shape back.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "body", nodeSlice(n.Body))

	// ---- Literals ----
	case *NumberLit:
		return m("Number", n.Span, "value", n.Value)
	case *StringLit:
		return m("String", n.Span, "value", n.Value)
	case *BoolLit:
		return m("Bool", n.Span, "value", n.Value)
	case *NullLit:
		return m("Null", n.Span)
	case *Interp:
		return m("Interp", n.Span, "parts", nodeSlice(n.Parts))

	// ---- Expressions ----
	case *Ident:
		return m("Ident", n.Span, "name", n.Name)
	case *BinaryExpr:
		return m("Binary", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Logical:
		return m("Logical", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Compare:
		return m("Compare", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Call:
		return m("Call", n.Span, "callee", n.Name, "args", nodeSlice(n.Args))

	// ---- Statements ----
	case *Assign:
		return m("Assign", n.Span,
			"decl", n.Decl.String(),
			"name", n.Name,
			"value", NodeToMap(n.Value))
	case *FuncDef:
		return m("FuncDef", n.Span,
			"name", n.Name,
			"params", nodeSlice(n.Params),
			"body", nodeSlice(n.Body),
			"return", NodeToMap(n.Return))
	case *ArgBinding:
		return m("ArgBinding", n.Span, "name", n.Name, "value", NodeToMap(n.Value))
	case *If:
		result := m("If", n.Span,
			"cond", NodeToMap(n.Cond),
			"body", nodeSlice(n.Body))
		if len(n.ElseIfs) > 0 {
			elseIfs := make([]interface{}, len(n.ElseIfs))
			for i, ei := range n.ElseIfs {
				elseIfs[i] = map[string]interface{}{
					"span":  spanToMap(ei.Span),
					"conds": nodeSlice(ei.Conds),
					"body":  nodeSlice(ei.Body),
				}
			}
			result["elseIfs"] = elseIfs
		}
		if n.Else != nil {
			result["else"] = nodeSlice(n.Else)
		}
		return result
	case *RangeLoop:
		return m("RangeLoop", n.Span,
			"inclusive", n.Inclusive,
			"var", n.Var,
			"start", NodeToMap(n.Start),
			"end", NodeToMap(n.End),
			"body", nodeSlice(n.Body))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		result[kvs[i].(string)] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": posToMap(s.Start),
		"end":   posToMap(s.End),
	}
}

func posToMap(p span.Position) map[string]interface{} {
	return map[string]interface{}{
		"offset": p.Offset,
		"line":   p.Line,
		"column": p.Column,
	}
}

func nodeSlice(nodes []Node) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = NodeToMap(n)
	}
	return result
}
