package parser

import (
	"encoding/json"
	"oran-lang/internal/ast"
	"oran-lang/internal/diag"
	"oran-lang/internal/lexer"
	"testing"
)

// helper: parse source and return AST + check for no errors
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source, "test.oran")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := New(tokens)
	prog, parseDiags := p.ParseProgram()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return prog
}

// helper: parse source that must fail and return the diagnostics
func parseErrors(t *testing.T, source string) []diag.Diagnostic {
	t.Helper()
	tokens, _ := lexer.New(source, "test.oran").Tokenize()
	prog, diags := New(tokens).ParseProgram()
	if prog == nil {
		t.Fatal("program is nil")
	}
	if len(diags) == 0 {
		t.Fatalf("expected parse errors for %q", source)
	}
	return diags
}

// helper: parse and return JSON string (for golden-test style checks)
func parseToJSON(t *testing.T, source string) string {
	t.Helper()
	prog := parseOK(t, source)
	m := ast.NodeToMap(prog)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	return string(data)
}

func TestParseDeclarations(t *testing.T) {
	prog := parseOK(t, "let x = 42\nconst PI = 3.14\nx = 1")
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(prog.Body))
	}
	want := []struct {
		name string
		decl ast.DeclKind
	}{
		{"x", ast.Fresh},
		{"PI", ast.Constant},
		{"x", ast.Reassign},
	}
	for i, w := range want {
		assign, ok := prog.Body[i].(*ast.Assign)
		if !ok {
			t.Fatalf("node %d: expected Assign, got %T", i, prog.Body[i])
		}
		if assign.Name != w.name || assign.Decl != w.decl {
			t.Errorf("node %d: expected %s %s, got %s %s", i, w.decl, w.name, assign.Decl, assign.Name)
		}
	}
	if num := prog.Body[1].(*ast.Assign).Value.(*ast.NumberLit); num.Value != 3.14 {
		t.Errorf("expected 3.14, got %v", num.Value)
	}
}

func TestParseBinaryExpr(t *testing.T) {
	prog := parseOK(t, `let z = 1 + 2 * 3`)
	decl := prog.Body[0].(*ast.Assign)
	// value should be BinaryExpr: 1 + (2 * 3)
	binExpr, ok := decl.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Value)
	}
	if binExpr.Op != ast.Add {
		t.Errorf("expected '+', got %q", binExpr.Op)
	}
	// right should be BinaryExpr: 2 * 3
	rightBin, ok := binExpr.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right BinaryExpr, got %T", binExpr.Right)
	}
	if rightBin.Op != ast.Mul {
		t.Errorf("expected '*', got %q", rightBin.Op)
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	prog := parseOK(t, `2 ^ 3 ^ 2`)
	top := prog.Body[0].(*ast.BinaryExpr)
	if top.Op != ast.Pow {
		t.Fatalf("expected '^', got %q", top.Op)
	}
	if _, ok := top.Left.(*ast.NumberLit); !ok {
		t.Errorf("expected number on the left, got %T", top.Left)
	}
	if right, ok := top.Right.(*ast.BinaryExpr); !ok || right.Op != ast.Pow {
		t.Errorf("expected 3 ^ 2 on the right, got %T", top.Right)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	prog := parseOK(t, `-x ^ 2`)
	sub, ok := prog.Body[0].(*ast.BinaryExpr)
	if !ok || sub.Op != ast.Sub {
		t.Fatalf("expected 0 - (...), got %T", prog.Body[0])
	}
	if zero, ok := sub.Left.(*ast.NumberLit); !ok || zero.Value != 0 {
		t.Errorf("expected literal 0 on the left, got %T", sub.Left)
	}
	if pow, ok := sub.Right.(*ast.BinaryExpr); !ok || pow.Op != ast.Pow {
		t.Errorf("expected x ^ 2 on the right, got %T", sub.Right)
	}
}

func TestParseLogicalAndComparison(t *testing.T) {
	prog := parseOK(t, `a < 1 || b >= 2 && c == 3`)
	or, ok := prog.Body[0].(*ast.Logical)
	if !ok || or.Op != ast.Or {
		t.Fatalf("expected ||, got %T", prog.Body[0])
	}
	if cmp, ok := or.Left.(*ast.Compare); !ok || cmp.Op != ast.Less {
		t.Errorf("expected a < 1 on the left, got %T", or.Left)
	}
	and, ok := or.Right.(*ast.Logical)
	if !ok || and.Op != ast.And {
		t.Fatalf("expected && on the right, got %T", or.Right)
	}
	if cmp, ok := and.Right.(*ast.Compare); !ok || cmp.Op != ast.Equal {
		t.Errorf("expected c == 3, got %T", and.Right)
	}
}

func TestParseIf(t *testing.T) {
	source := `if x > 0 {
  println(x)
} else if x == 0 {
  println(0)
} else if [a, b, c] {
  println(1)
}
else {
  println(-1)
}`
	prog := parseOK(t, source)
	ifStmt, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", prog.Body[0])
	}
	if ifStmt.Cond == nil {
		t.Fatal("condition is nil")
	}
	if len(ifStmt.ElseIfs) != 2 {
		t.Fatalf("expected 2 else-ifs, got %d", len(ifStmt.ElseIfs))
	}
	if len(ifStmt.ElseIfs[0].Conds) != 1 || len(ifStmt.ElseIfs[1].Conds) != 3 {
		t.Errorf("unexpected condition counts %d and %d", len(ifStmt.ElseIfs[0].Conds), len(ifStmt.ElseIfs[1].Conds))
	}
	if len(ifStmt.Else) != 1 {
		t.Errorf("expected 1 else statement, got %d", len(ifStmt.Else))
	}
}

func TestParseRangeLoop(t *testing.T) {
	prog := parseOK(t, "for i in 0..=n + 1 {\n  println(i)\n}\nfor j in 1..3 { }")
	loop, ok := prog.Body[0].(*ast.RangeLoop)
	if !ok {
		t.Fatalf("expected RangeLoop, got %T", prog.Body[0])
	}
	if loop.Var != "i" || !loop.Inclusive {
		t.Errorf("expected inclusive loop over i, got %q inclusive=%v", loop.Var, loop.Inclusive)
	}
	if _, ok := loop.End.(*ast.BinaryExpr); !ok {
		t.Errorf("expected n + 1 as end, got %T", loop.End)
	}
	if len(loop.Body) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(loop.Body))
	}
	if second := prog.Body[1].(*ast.RangeLoop); second.Inclusive {
		t.Error("expected exclusive loop")
	}
}

func TestParseFuncDef(t *testing.T) {
	source := `fn add(a, b) {
  let sum = a + b
  return sum
}`
	prog := parseOK(t, source)
	fn, ok := prog.Body[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("expected FuncDef, got %T", prog.Body[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected name 'add', got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	param, ok := fn.Params[1].(*ast.ArgBinding)
	if !ok || param.Name != "b" {
		t.Errorf("expected ArgBinding b, got %#v", fn.Params[1])
	}
	if _, ok := param.Value.(*ast.NullLit); !ok {
		t.Errorf("expected null default, got %T", param.Value)
	}
	if len(fn.Body) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(fn.Body))
	}
	if ident, ok := fn.Return.(*ast.Ident); !ok || ident.Name != "sum" {
		t.Errorf("expected return sum, got %T", fn.Return)
	}
}

func TestParseFuncDefWithoutReturn(t *testing.T) {
	prog := parseOK(t, `fn hello() { println("hi") }`)
	fn := prog.Body[0].(*ast.FuncDef)
	if _, ok := fn.Return.(*ast.NullLit); !ok {
		t.Errorf("expected null return, got %T", fn.Return)
	}
}

func TestParseCall(t *testing.T) {
	prog := parseOK(t, "println(1, 2, 3)\nprint()\nadd(x)")
	want := []struct {
		name    string
		builtin ast.Builtin
		args    int
	}{
		{"println", ast.Println, 3},
		{"print", ast.Print, 0},
		{"add", ast.UserFunc, 1},
	}
	for i, w := range want {
		call, ok := prog.Body[i].(*ast.Call)
		if !ok {
			t.Fatalf("node %d: expected Call, got %T", i, prog.Body[i])
		}
		if call.Name != w.name || call.Builtin != w.builtin || len(call.Args) != w.args {
			t.Errorf("node %d: expected %s/%d args, got %s/%d args", i, w.name, w.args, call.Name, len(call.Args))
		}
	}
}

func TestParseTemplate(t *testing.T) {
	prog := parseOK(t, "`sum: ${a + b}!`")
	interp, ok := prog.Body[0].(*ast.Interp)
	if !ok {
		t.Fatalf("expected Interp, got %T", prog.Body[0])
	}
	if len(interp.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(interp.Parts))
	}
	if s, ok := interp.Parts[0].(*ast.StringLit); !ok || s.Value != "sum: " {
		t.Errorf("unexpected first part %#v", interp.Parts[0])
	}
	if _, ok := interp.Parts[1].(*ast.BinaryExpr); !ok {
		t.Errorf("expected expression part, got %T", interp.Parts[1])
	}
}

func TestParseSpans(t *testing.T) {
	prog := parseOK(t, "let x = 1\n  println(x)")
	call := prog.Body[1].(*ast.Call)
	if call.Span.Start.Line != 2 || call.Span.Start.Column != 3 {
		t.Errorf("call should start at 2:3, got %s", call.Span.Start)
	}
	if call.Span.End.Column != 13 {
		t.Errorf("call should end at column 13, got %s", call.Span.End)
	}
}

func TestParseJSONOutput(t *testing.T) {
	jsonStr := parseToJSON(t, `let x = 1`)
	// Just make sure it's valid JSON and has the right structure
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["kind"] != "Program" {
		t.Errorf("expected kind 'Program', got %v", m["kind"])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		code   string
	}{
		{`return 1`, "E2005"},
		{`fn f() { return 1; let x = 2 }`, "E2004"},
		{`fn f() { if true { return 1 } }`, "E2004"},
		{`1 +`, "E2002"},
		{`1 2`, "E2003"},
		{`(1)(2)`, "E2007"},
		{`for i in 0 3 { }`, "E2001"},
		{`let = 3`, "E2001"},
	}
	for _, tt := range tests {
		diags := parseErrors(t, tt.source)
		if diags[0].Code != tt.code {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.code, diags[0])
		}
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// Missing closing paren - parser should still produce the next statement
	diags := parseErrors(t, "let x = add(1, 2\nlet y = 3")
	if diags[0].Code != "E2001" {
		t.Errorf("expected E2001, got %s", diags[0])
	}

	tokens, _ := lexer.New("let x = add(1, 2\nlet y = 3", "test.oran").Tokenize()
	prog, _ := New(tokens).ParseProgram()
	last, ok := prog.Body[len(prog.Body)-1].(*ast.Assign)
	if !ok || last.Name != "y" {
		t.Errorf("expected recovery to reach 'let y', got %#v", prog.Body)
	}
}
