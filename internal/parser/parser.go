// Package parser implements the syntax analysis for Oran.
// It uses Pratt parsing for expressions and recursive descent for statements.
package parser

import (
	"fmt"
	"oran-lang/internal/ast"
	"oran-lang/internal/diag"
	"oran-lang/internal/span"
	"oran-lang/internal/token"
	"strconv"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpOr         = 10 // ||
	bpAnd        = 20 // &&
	bpComparison = 30 // == < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * / %
	bpPrefix     = 70 // -x
	bpPower      = 75 // ^ (right-associative)
	bpCall       = 80 // f(...)
)

// infixBP returns the left binding power for an infix/postfix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.OR:
		return bpOr
	case token.AND:
		return bpAnd
	case token.EQ, token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiply
	case token.CARET:
		return bpPower
	case token.LPAREN:
		return bpCall
	default:
		return bpNone
	}
}

var arithOps = map[token.Kind]ast.ArithOp{
	token.PLUS:    ast.Add,
	token.MINUS:   ast.Sub,
	token.STAR:    ast.Mul,
	token.SLASH:   ast.Div,
	token.PERCENT: ast.Mod,
	token.CARET:   ast.Pow,
}

var compareOps = map[token.Kind]ast.CompareOp{
	token.EQ:  ast.Equal,
	token.GT:  ast.Greater,
	token.LT:  ast.Less,
	token.GTE: ast.GreaterEq,
	token.LTE: ast.LessEq,
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic

	fnDepth int // number of enclosing function bodies
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses the whole token stream and returns the AST root and
// diagnostics.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	prog := &ast.Program{}
	startPos := p.peek().Span.Start

	p.skipSep()
	for !p.isAtEnd() {
		if node := p.parseStmt(); node != nil {
			prog.Body = append(prog.Body, node)
		}
		p.skipSep()
	}

	prog.Span = span.Span{Start: startPos, End: p.peek().Span.End}
	return prog, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE and SEMICOLON tokens (separators).
func (p *Parser) skipSep() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.match(token.NEWLINE, token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		if p.match(token.KW_IF, token.KW_FOR, token.KW_FN, token.KW_LET, token.KW_CONST, token.KW_RETURN) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStmt() ast.Node {
	switch p.peekKind() {
	case token.KW_LET, token.KW_CONST:
		return p.parseDecl()
	case token.KW_FN:
		return p.parseFuncDef()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_FOR:
		return p.parseRangeLoop()
	case token.KW_RETURN:
		tok := p.advance()
		if p.fnDepth == 0 {
			p.error("E2005", tok.Span, "return outside of a function body")
		} else {
			p.error("E2004", tok.Span, "return must be the last statement of a function body")
		}
		p.synchronize()
		return nil
	case token.IDENT:
		if p.peekAt(1).Kind == token.ASSIGN {
			return p.parseReassign()
		}
	}
	return p.parseExprStmt()
}

// parseDecl parses: (let | const) IDENT = expr
func (p *Parser) parseDecl() ast.Node {
	start := p.advance() // 'let' or 'const'
	decl := ast.Fresh
	if start.Kind == token.KW_CONST {
		decl = ast.Constant
	}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.ASSIGN); !ok {
		p.synchronize()
		return nil
	}
	value := p.parseRequiredExpr()
	return &ast.Assign{
		NodeBase: ast.NodeBase{Span: p.makeSpan(start.Span.Start)},
		Decl:     decl,
		Name:     nameTok.Lexeme,
		Value:    value,
	}
}

// parseReassign parses: IDENT = expr
func (p *Parser) parseReassign() ast.Node {
	nameTok := p.advance()
	p.advance() // '='
	value := p.parseRequiredExpr()
	return &ast.Assign{
		NodeBase: ast.NodeBase{Span: p.makeSpan(nameTok.Span.Start)},
		Decl:     ast.Reassign,
		Name:     nameTok.Lexeme,
		Value:    value,
	}
}

func (p *Parser) parseExprStmt() ast.Node {
	expr := p.parseExpr(bpNone)
	if expr == nil {
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("unexpected token: '%s'", tok.Kind))
		p.advance()
		p.synchronize()
		return nil
	}
	if !p.match(token.NEWLINE, token.SEMICOLON, token.RBRACE, token.EOF) {
		tok := p.peek()
		p.error("E2003", tok.Span, fmt.Sprintf("expected end of statement, got '%s'", tok.Kind))
		p.synchronize()
	}
	return expr
}

// parseBlock parses: { stmts }
func (p *Parser) parseBlock() []ast.Node {
	stmts := []ast.Node{}
	p.skipNewlines()
	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		return stmts
	}

	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if node := p.parseStmt(); node != nil {
			stmts = append(stmts, node)
		}
		p.skipSep()
	}
	p.expect(token.RBRACE)
	return stmts
}

// parseIf parses:
//
//	if expr { ... } { else if expr { ... } | else if [expr, ...] { ... } } [ else { ... } ]
func (p *Parser) parseIf() ast.Node {
	start := p.advance() // 'if'
	stmt := &ast.If{}
	stmt.Cond = p.parseRequiredExpr()
	stmt.Body = p.parseBlock()

	for p.checkElse() {
		p.skipNewlines()
		p.advance() // 'else'
		if !p.check(token.KW_IF) {
			stmt.Else = p.parseBlock()
			break
		}
		clauseStart := p.advance() // 'if'
		clause := ast.ElseIf{Conds: p.parseCondList()}
		clause.Body = p.parseBlock()
		clause.Span = p.makeSpan(clauseStart.Span.Start)
		stmt.ElseIfs = append(stmt.ElseIfs, clause)
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// checkElse reports whether 'else' follows, possibly after newlines.
func (p *Parser) checkElse() bool {
	for i := 0; ; i++ {
		switch p.peekAt(i).Kind {
		case token.NEWLINE:
			continue
		case token.KW_ELSE:
			return true
		default:
			return false
		}
	}
}

// parseCondList parses the condition of an else-if clause: either a single
// expression or a bracketed list tried in order.
func (p *Parser) parseCondList() []ast.Node {
	if !p.check(token.LBRACKET) {
		return []ast.Node{p.parseRequiredExpr()}
	}
	p.advance() // '['
	var conds []ast.Node
	p.skipNewlines()
	if !p.check(token.RBRACKET) {
		conds = append(conds, p.parseRequiredExpr())
		for p.check(token.COMMA) {
			p.advance()
			p.skipNewlines()
			if p.check(token.RBRACKET) {
				break // trailing comma
			}
			conds = append(conds, p.parseRequiredExpr())
		}
	}
	p.skipNewlines()
	p.expect(token.RBRACKET)
	return conds
}

// parseRangeLoop parses: for IDENT in expr (.. | ..=) expr { ... }
func (p *Parser) parseRangeLoop() ast.Node {
	start := p.advance() // 'for'
	loop := &ast.RangeLoop{}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	loop.Var = nameTok.Lexeme
	if _, ok := p.expect(token.KW_IN); !ok {
		p.synchronize()
		return nil
	}

	loop.Start = p.parseRequiredExpr()
	switch p.peekKind() {
	case token.RANGE:
		p.advance()
	case token.RANGE_INC:
		p.advance()
		loop.Inclusive = true
	default:
		tok := p.peek()
		p.error("E2001", tok.Span, fmt.Sprintf("expected '..' or '..=', got '%s'", tok.Kind))
		p.synchronize()
		return nil
	}
	loop.End = p.parseRequiredExpr()
	loop.Body = p.parseBlock()
	loop.Span = p.makeSpan(start.Span.Start)
	return loop
}

// ============================================================
// Function definitions
// ============================================================

// parseFuncDef parses: fn IDENT ( params ) { stmts [return expr] }
func (p *Parser) parseFuncDef() ast.Node {
	start := p.advance() // 'fn'
	def := &ast.FuncDef{}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	def.Name = nameTok.Lexeme
	def.Params = p.parseParamList()

	p.fnDepth++
	def.Body, def.Return = p.parseFuncBody()
	p.fnDepth--

	def.Span = p.makeSpan(start.Span.Start)
	return def
}

// parseParamList parses: ( ident, ident, ... ). Each parameter becomes an
// ArgBinding whose value is null until a call supplies one.
func (p *Parser) parseParamList() []ast.Node {
	params := []ast.Node{}
	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}

	p.skipNewlines()
	for !p.check(token.RPAREN) && !p.isAtEnd() {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}
		params = append(params, &ast.ArgBinding{
			NodeBase: ast.NodeBase{Span: nameTok.Span},
			Name:     nameTok.Lexeme,
			Value:    &ast.NullLit{NodeBase: ast.NodeBase{Span: nameTok.Span}},
		})
		p.skipNewlines()
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
		p.skipNewlines()
	}
	p.expect(token.RPAREN)
	return params
}

// parseFuncBody parses the function block. A return statement, if present,
// must be the last statement; without one the function returns null.
func (p *Parser) parseFuncBody() ([]ast.Node, ast.Node) {
	body := []ast.Node{}
	p.skipNewlines()
	open, ok := p.expect(token.LBRACE)
	if !ok {
		p.synchronize()
		return body, &ast.NullLit{}
	}

	var ret ast.Node
	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if p.check(token.KW_RETURN) {
			p.advance()
			if p.match(token.NEWLINE, token.SEMICOLON, token.RBRACE) {
				ret = &ast.NullLit{NodeBase: ast.NodeBase{Span: p.peek().Span}}
			} else {
				ret = p.parseRequiredExpr()
			}
			p.skipSep()
			if !p.check(token.RBRACE) {
				tok := p.peek()
				p.error("E2004", tok.Span, "return must be the last statement of a function body")
				for !p.check(token.RBRACE) && !p.isAtEnd() {
					p.advance()
				}
			}
			break
		}
		if node := p.parseStmt(); node != nil {
			body = append(body, node)
		}
		p.skipSep()
	}
	p.expect(token.RBRACE)

	if ret == nil {
		ret = &ast.NullLit{NodeBase: ast.NodeBase{Span: p.makeSpan(open.Span.Start)}}
	}
	return body, ret
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseRequiredExpr parses an expression and reports a diagnostic when none is
// present, returning null in its place.
func (p *Parser) parseRequiredExpr() ast.Node {
	expr := p.parseExpr(bpNone)
	if expr == nil {
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("expected expression, got '%s'", tok.Kind))
		return &ast.NullLit{NodeBase: ast.NodeBase{Span: tok.Span}}
	}
	return expr
}

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) ast.Node {
	left := p.nud()
	if left == nil {
		return nil
	}

	for {
		bp := infixBP(p.peekKind())
		if bp <= minBP {
			break
		}
		left = p.led(left)
	}
	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Node {
	tok := p.peek()
	base := ast.NodeBase{Span: tok.Span}

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.error("E2006", tok.Span, fmt.Sprintf("invalid number literal %q", tok.Lexeme))
		}
		return &ast.NumberLit{NodeBase: base, Value: val}

	case token.STRING:
		p.advance()
		return &ast.StringLit{NodeBase: base, Value: tok.Lexeme}

	case token.TEMPLATE_LITERAL:
		p.advance()
		return &ast.StringLit{NodeBase: base, Value: tok.Lexeme}

	case token.TEMPLATE_HEAD:
		return p.parseTemplate()

	case token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.BoolLit{NodeBase: base, Value: tok.Kind == token.KW_TRUE}

	case token.KW_NULL:
		p.advance()
		return &ast.NullLit{NodeBase: base}

	case token.IDENT:
		p.advance()
		return &ast.Ident{NodeBase: base, Name: tok.Lexeme}

	case token.LPAREN:
		p.advance()
		p.skipNewlines()
		expr := p.parseRequiredExpr()
		p.skipNewlines()
		p.expect(token.RPAREN)
		return expr

	case token.MINUS:
		// -x is sugar for 0 - x
		p.advance()
		p.skipNewlines()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			p.error("E2002", p.peek().Span, "expected operand after '-'")
			operand = &ast.NullLit{NodeBase: ast.NodeBase{Span: p.peek().Span}}
		}
		return &ast.BinaryExpr{
			NodeBase: ast.NodeBase{Span: span.Join(tok.Span, operand.GetSpan())},
			Op:       ast.Sub,
			Left:     &ast.NumberLit{NodeBase: base},
			Right:    operand,
		}

	default:
		return nil
	}
}

// led handles infix/postfix (left denotation) parsing.
func (p *Parser) led(left ast.Node) ast.Node {
	tok := p.advance()
	bp := infixBP(tok.Kind)

	if tok.Kind == token.LPAREN {
		return p.parseCall(left, tok)
	}

	// ^ is right-associative: parse its right side one level lower.
	rightBP := bp
	if tok.Kind == token.CARET {
		rightBP = bp - 1
	}
	p.skipNewlines()
	right := p.parseExpr(rightBP)
	if right == nil {
		p.error("E2002", p.peek().Span, fmt.Sprintf("expected expression after '%s'", tok.Kind))
		right = &ast.NullLit{NodeBase: ast.NodeBase{Span: p.peek().Span}}
	}
	base := ast.NodeBase{Span: span.Join(left.GetSpan(), right.GetSpan())}

	switch tok.Kind {
	case token.AND:
		return &ast.Logical{NodeBase: base, Op: ast.And, Left: left, Right: right}
	case token.OR:
		return &ast.Logical{NodeBase: base, Op: ast.Or, Left: left, Right: right}
	}
	if op, ok := compareOps[tok.Kind]; ok {
		return &ast.Compare{NodeBase: base, Op: op, Left: left, Right: right}
	}
	return &ast.BinaryExpr{NodeBase: base, Op: arithOps[tok.Kind], Left: left, Right: right}
}

// parseCall parses the argument list of name(args). Only named functions can
// be called.
func (p *Parser) parseCall(callee ast.Node, open token.Token) ast.Node {
	ident, isIdent := callee.(*ast.Ident)
	if !isIdent {
		p.error("E2007", open.Span, "only named functions can be called")
	}

	args := []ast.Node{}
	p.skipNewlines()
	if !p.check(token.RPAREN) {
		args = append(args, p.parseRequiredExpr())
		for p.check(token.COMMA) {
			p.advance()
			p.skipNewlines()
			args = append(args, p.parseRequiredExpr())
		}
	}
	p.skipNewlines()
	end, _ := p.expect(token.RPAREN)

	call := &ast.Call{
		NodeBase: ast.NodeBase{Span: span.Join(callee.GetSpan(), end.Span)},
		Args:     args,
	}
	if isIdent {
		call.Name = ident.Name
		call.Builtin = ast.LookupBuiltin(ident.Name)
	}
	return call
}

// parseTemplate parses `text ${expr} text ...` into an Interp node.
func (p *Parser) parseTemplate() ast.Node {
	head := p.advance()
	interp := &ast.Interp{}
	p.addTemplateText(interp, head)

	for {
		expr := p.parseRequiredExpr()
		interp.Parts = append(interp.Parts, expr)

		tok := p.peek()
		switch tok.Kind {
		case token.TEMPLATE_MIDDLE:
			p.advance()
			p.addTemplateText(interp, tok)
			continue
		case token.TEMPLATE_TAIL:
			p.advance()
			p.addTemplateText(interp, tok)
		default:
			p.error("E2008", tok.Span, "unterminated template expression")
		}
		break
	}

	interp.Span = p.makeSpan(head.Span.Start)
	return interp
}

func (p *Parser) addTemplateText(interp *ast.Interp, tok token.Token) {
	if tok.Lexeme == "" {
		return
	}
	interp.Parts = append(interp.Parts, &ast.StringLit{
		NodeBase: ast.NodeBase{Span: tok.Span},
		Value:    tok.Lexeme,
	})
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}
