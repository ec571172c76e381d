package lexer

import (
	"oran-lang/internal/token"
	"testing"
)

// expectKinds tokenizes source and compares the kind sequence, failing on
// diagnostics.
func expectKinds(t *testing.T, source string, expected ...token.Kind) []token.Token {
	t.Helper()
	l := New(source, "test.oran")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s (%q)", i, exp, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
	return tokens
}

func TestTokenizeSimple(t *testing.T) {
	expectKinds(t, `let x = 1 + 2`,
		token.KW_LET, token.IDENT, token.ASSIGN,
		token.NUMBER, token.PLUS, token.NUMBER, token.EOF)
}

func TestTokenizeKeywords(t *testing.T) {
	expectKinds(t, `let const fn return if else for in true false null`,
		token.KW_LET, token.KW_CONST, token.KW_FN, token.KW_RETURN,
		token.KW_IF, token.KW_ELSE, token.KW_FOR, token.KW_IN,
		token.KW_TRUE, token.KW_FALSE, token.KW_NULL,
		token.EOF)
}

func TestTokenizeOperators(t *testing.T) {
	expectKinds(t, `= == < <= > >= + - * / % ^ && || .. ..=`,
		token.ASSIGN, token.EQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.CARET,
		token.AND, token.OR, token.RANGE, token.RANGE_INC,
		token.EOF)
}

func TestTokenizeDelimiters(t *testing.T) {
	expectKinds(t, `( ) { } [ ] , ;`,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.SEMICOLON,
		token.EOF)
}

func TestTokenizeString(t *testing.T) {
	tokens := expectKinds(t, `"hello" "line1\nline2" "say \"hi\""`,
		token.STRING, token.STRING, token.STRING, token.EOF)

	if tokens[0].Lexeme != "hello" {
		t.Errorf("expected 'hello', got %q", tokens[0].Lexeme)
	}
	if tokens[1].Lexeme != "line1\nline2" {
		t.Errorf("expected string with newline, got %q", tokens[1].Lexeme)
	}
	if tokens[2].Lexeme != `say "hi"` {
		t.Errorf("expected escaped quotes, got %q", tokens[2].Lexeme)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := expectKinds(t, `123 3.14 0`, token.NUMBER, token.NUMBER, token.NUMBER, token.EOF)
	if tokens[1].Lexeme != "3.14" {
		t.Errorf("expected '3.14', got %q", tokens[1].Lexeme)
	}
}

func TestTokenizeRangeAfterNumber(t *testing.T) {
	tokens := expectKinds(t, `0..=3 1.5..2`,
		token.NUMBER, token.RANGE_INC, token.NUMBER,
		token.NUMBER, token.RANGE, token.NUMBER, token.EOF)
	if tokens[0].Lexeme != "0" || tokens[3].Lexeme != "1.5" {
		t.Errorf("unexpected number lexemes %q, %q", tokens[0].Lexeme, tokens[3].Lexeme)
	}
}

func TestTokenizeTemplate(t *testing.T) {
	tokens := expectKinds(t, "`a ${x} b ${y + 1}!` `plain`",
		token.TEMPLATE_HEAD, token.IDENT,
		token.TEMPLATE_MIDDLE, token.IDENT, token.PLUS, token.NUMBER,
		token.TEMPLATE_TAIL, token.TEMPLATE_LITERAL, token.EOF)

	if tokens[0].Lexeme != "a " || tokens[2].Lexeme != " b " || tokens[6].Lexeme != "!" {
		t.Errorf("unexpected template text: %q %q %q", tokens[0].Lexeme, tokens[2].Lexeme, tokens[6].Lexeme)
	}
	if tokens[7].Lexeme != "plain" {
		t.Errorf("expected 'plain', got %q", tokens[7].Lexeme)
	}
}

func TestTokenizeTemplateNestedBraces(t *testing.T) {
	expectKinds(t, "`${f({})}`",
		token.TEMPLATE_HEAD, token.IDENT, token.LPAREN, token.LBRACE, token.RBRACE,
		token.RPAREN, token.TEMPLATE_TAIL, token.EOF)
}

func TestTokenizeNewlines(t *testing.T) {
	expectKinds(t, "a\nb\n", token.IDENT, token.NEWLINE, token.IDENT, token.NEWLINE, token.EOF)
}

func TestTokenizeComment(t *testing.T) {
	expectKinds(t, "x // this is a comment\ny # another\n",
		token.IDENT, token.NEWLINE, token.IDENT, token.NEWLINE, token.EOF)
}

func TestTokenizePositions(t *testing.T) {
	l := New("let x = 1\n  y", "test.oran")
	tokens, _ := l.Tokenize()

	// "let" starts at line 1, col 1
	if tokens[0].Span.Start.Line != 1 || tokens[0].Span.Start.Column != 1 {
		t.Errorf("'let' position: expected 1:1, got %s", tokens[0].Span.Start)
	}
	// "x" starts at line 1, col 5
	if tokens[1].Span.Start.Line != 1 || tokens[1].Span.Start.Column != 5 {
		t.Errorf("'x' position: expected 1:5, got %s", tokens[1].Span.Start)
	}
	// "y" starts at line 2, col 3
	if tokens[5].Span.Start.Line != 2 || tokens[5].Span.Start.Column != 3 {
		t.Errorf("'y' position: expected 2:3, got %s", tokens[5].Span.Start)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		source string
		code   string
	}{
		{`"open`, "E1001"},
		{`"bad \q"`, "E1002"},
		{`a & b`, "E1003"},
		{`a | b`, "E1003"},
		{`@`, "E1003"},
		{"`open ${x}", "E1004"},
	}
	for _, tt := range tests {
		_, diags := New(tt.source, "test.oran").Tokenize()
		if len(diags) == 0 {
			t.Errorf("%q: expected %s, got no diagnostics", tt.source, tt.code)
			continue
		}
		if diags[0].Code != tt.code {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.code, diags[0].Code)
		}
	}
}
