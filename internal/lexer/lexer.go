// Package lexer turns Oran source text into tokens.
package lexer

import (
	"fmt"
	"oran-lang/internal/diag"
	"oran-lang/internal/span"
	"oran-lang/internal/token"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags         []diag.Diagnostic
	templateStack []int // brace depth per open ${ ... } in a template string
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// The final token is always EOF.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// ---- internal helpers ----

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) tok(kind token.Kind, lexeme string, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// skipWhitespace skips spaces and tabs (not newlines).
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) addError(code string, s span.Span, msg string) {
	l.diags = append(l.diags, diag.Errorf(code, s, "%s", msg))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.source) {
			return l.tok(token.EOF, "", l.curPos())
		}
		ch := l.peek()
		if (ch == '/' && l.peekNext() == '/') || ch == '#' {
			l.skipLineComment()
			continue
		}
		break
	}

	start := l.curPos()
	ch := l.peek()

	switch {
	case ch == '\n':
		l.advance()
		return l.tok(token.NEWLINE, "\\n", start)
	case ch == '"':
		return l.readString(start)
	case ch == '`':
		return l.readTemplateStart(start)
	case isDigit(ch):
		return l.readNumber(start)
	case isIdentStart(ch):
		return l.readIdentifier(start)
	default:
		return l.readOperator(start)
	}
}

// readString reads a double-quoted string literal.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // opening "
	var value []byte

	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '"' {
			l.advance()
			return l.tok(token.STRING, string(value), start)
		}
		if ch == '\n' {
			break
		}
		if ch == '\\' {
			l.advance()
			esc := l.peek()
			switch esc {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			default:
				l.addError("E1002", l.makeSpan(start), fmt.Sprintf("unknown escape sequence: \\%c", esc))
				value = append(value, esc)
			}
			if l.pos < len(l.source) {
				l.advance()
			}
			continue
		}
		value = append(value, ch)
		l.advance()
	}

	l.addError("E1001", l.makeSpan(start), "unterminated string literal")
	return l.tok(token.STRING, string(value), start)
}

// readNumber reads a numeric literal. A '.' is only part of the number when a
// digit follows, so "0..3" lexes as NUMBER RANGE NUMBER.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for l.pos < len(l.source) && isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.tok(token.NUMBER, l.source[numStart:l.pos], start)
}

func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for l.pos < len(l.source) && isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := l.source[identStart:l.pos]
	return l.tok(token.LookupIdent(lexeme), lexeme, start)
}

func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	switch ch {
	case '(':
		return l.tok(token.LPAREN, "(", start)
	case ')':
		return l.tok(token.RPAREN, ")", start)
	case '{':
		if len(l.templateStack) > 0 {
			l.templateStack[len(l.templateStack)-1]++
		}
		return l.tok(token.LBRACE, "{", start)
	case '}':
		if n := len(l.templateStack); n > 0 && l.templateStack[n-1] == 0 {
			// end of a ${ ... } expression: resume template text
			l.templateStack = l.templateStack[:n-1]
			return l.continueTemplate(start)
		}
		if n := len(l.templateStack); n > 0 {
			l.templateStack[n-1]--
		}
		return l.tok(token.RBRACE, "}", start)
	case '[':
		return l.tok(token.LBRACKET, "[", start)
	case ']':
		return l.tok(token.RBRACKET, "]", start)
	case ',':
		return l.tok(token.COMMA, ",", start)
	case ';':
		return l.tok(token.SEMICOLON, ";", start)
	case '+':
		return l.tok(token.PLUS, "+", start)
	case '-':
		return l.tok(token.MINUS, "-", start)
	case '*':
		return l.tok(token.STAR, "*", start)
	case '/':
		return l.tok(token.SLASH, "/", start)
	case '%':
		return l.tok(token.PERCENT, "%", start)
	case '^':
		return l.tok(token.CARET, "^", start)
	case '.':
		if l.peek() == '.' {
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return l.tok(token.RANGE_INC, "..=", start)
			}
			return l.tok(token.RANGE, "..", start)
		}
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.EQ, "==", start)
		}
		return l.tok(token.ASSIGN, "=", start)
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.LTE, "<=", start)
		}
		return l.tok(token.LT, "<", start)
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.GTE, ">=", start)
		}
		return l.tok(token.GT, ">", start)
	case '&':
		if l.peek() == '&' {
			l.advance()
			return l.tok(token.AND, "&&", start)
		}
		l.addError("E1003", l.makeSpan(start), "unexpected character: '&', did you mean '&&'?")
		return l.tok(token.ILLEGAL, "&", start)
	case '|':
		if l.peek() == '|' {
			l.advance()
			return l.tok(token.OR, "||", start)
		}
		l.addError("E1003", l.makeSpan(start), "unexpected character: '|', did you mean '||'?")
		return l.tok(token.ILLEGAL, "|", start)
	}

	l.addError("E1003", l.makeSpan(start), fmt.Sprintf("unexpected character: '%c'", ch))
	return l.tok(token.ILLEGAL, string(ch), start)
}

// ---- template strings ----

func (l *Lexer) readTemplateStart(start span.Position) token.Token {
	l.advance() // opening `
	text, closed := l.readTemplateText(start)
	if closed {
		return l.tok(token.TEMPLATE_LITERAL, text, start)
	}
	l.templateStack = append(l.templateStack, 0)
	return l.tok(token.TEMPLATE_HEAD, text, start)
}

func (l *Lexer) continueTemplate(start span.Position) token.Token {
	text, closed := l.readTemplateText(start)
	if closed {
		return l.tok(token.TEMPLATE_TAIL, text, start)
	}
	l.templateStack = append(l.templateStack, 0)
	return l.tok(token.TEMPLATE_MIDDLE, text, start)
}

// readTemplateText reads up to and including the closing ` (closed == true)
// or an opening ${ (closed == false).
func (l *Lexer) readTemplateText(start span.Position) (string, bool) {
	var text []byte
	for l.pos < len(l.source) {
		ch := l.peek()
		switch {
		case ch == '`':
			l.advance()
			return string(text), true
		case ch == '$' && l.peekNext() == '{':
			l.advance()
			l.advance()
			return string(text), false
		case ch == '\\' && l.pos+1 < len(l.source):
			l.advance()
			switch esc := l.advance(); esc {
			case 'n':
				text = append(text, '\n')
			case 't':
				text = append(text, '\t')
			case '`', '$', '\\':
				text = append(text, esc)
			default:
				text = append(text, '\\', esc)
			}
		default:
			text = append(text, l.advance())
		}
	}
	l.addError("E1004", l.makeSpan(start), "unterminated template string")
	return string(text), true
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return true
	}
	if ch >= 0x80 {
		r, _ := utf8.DecodeRuneInString(string(ch))
		return unicode.IsLetter(r)
	}
	return false
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
