// Package parser implements the recursive-descent, one-token-lookahead
// parser from the grammar overview: top-level imports/objects/traits/impls
// and expressions, a single flat precedence level for binary operators,
// and send chains for method calls.
package parser

import (
	"fmt"

	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/lexer"
)

// Parser turns a token stream into an *ast.File, reporting diagnostics
// into a *diag.Sink instead of returning bare errors. One Parser parses
// exactly one file.
type Parser struct {
	l    *lexer.Lexer
	file *ast.SourceFile
	sink *diag.Sink

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token
}

// New builds a Parser over l. file supplies the source text for position
// reporting (ast.Pos.File); sink collects every diagnostic this parser
// raises.
func New(l *lexer.Lexer, file *ast.SourceFile, sink *diag.Sink) *Parser {
	p := &Parser{l: l, file: file, sink: sink}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) pos(tok lexer.Token) ast.Pos {
	return ast.Pos{Line: tok.Line, Column: tok.Column, File: p.file}
}

func (p *Parser) span(start lexer.Token) ast.Span {
	return ast.Span{Start: p.pos(start), End: p.pos(p.curToken)}
}

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

// sameLine reports whether b starts on the same source line as a.
func sameLine(a, b lexer.Token) bool { return a.Line == b.Line }

// adjacentToPrev reports whether curToken immediately follows the last consumed
// token on the same line, with nothing but whitespace between them. This
// backs every "same line as" rule in the grammar overview (paren-call,
// trailing block, bracket access) without needing end positions on AST
// nodes: the previous *token*, not the previous *expression*, is what the
// grammar actually measures against.
func (p *Parser) adjacentToPrev() bool {
	return sameLine(p.prevToken, p.curToken)
}

// expect advances past cur if it matches tt, reporting a diagnostic and
// returning false otherwise. Callers that can't sensibly continue after a
// missing delimiter should bail out of the current production.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.curIs(tt) {
		p.next()
		return true
	}
	p.reportUnexpected(tt.String())
	return false
}

func (p *Parser) reportUnexpected(wanted string) {
	if p.curIs(lexer.EOF) {
		p.sink.Add(diag.UnexpectedEOF("parse", p.span(p.curToken), wanted))
		return
	}
	p.sink.Add(diag.UnexpectedToken("parse", p.span(p.curToken), fmt.Sprintf("%q", p.curToken.Literal), wanted))
}

// topLevelStart is the set of tokens that begin a new top-level
// declaration, used both to recognize production starts and as
// synchronization points after a parse error.
func topLevelStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.IMPORT, lexer.OBJECT, lexer.TRAIT, lexer.IMPL, lexer.DEF,
		lexer.LET, lexer.RETURN, lexer.THROW:
		return true
	}
	return false
}

// synchronize advances past tokens until the next top-level boundary: a
// token that starts a new top-level production, a line break from the
// error token's line (the common case — each top-level statement lives on
// its own line), or EOF. This lets one bad line produce one diagnostic
// instead of cascading into the rest of the file.
func (p *Parser) synchronize() {
	errLine := p.curToken.Line
	for {
		if p.curIs(lexer.EOF) {
			return
		}
		if topLevelStart(p.curToken.Type) {
			return
		}
		if p.curToken.Line > errLine {
			return
		}
		p.next()
	}
}

// ParseFile parses one complete source file. Programmer-error panics
// (invariant violations inside the parser itself, not malformed source)
// are recovered here and surfaced as a single diagnostic rather than
// crashing the compiler. This is the only panic-recovery boundary in the
// core; the pass pipeline has none.
func (p *Parser) ParseFile() (file *ast.File, err error) {
	start := p.curToken
	defer func() {
		if r := recover(); r != nil {
			p.sink.Add(diag.New(diag.SynUnexpectedToken, "parse", p.span(p.curToken),
				fmt.Sprintf("internal parser error: %v", r)))
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	f := &ast.File{Pos: p.pos(start)}
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.IMPORT) {
			if imp := p.parseImport(); imp != nil {
				f.Imports = append(f.Imports, imp)
			}
			continue
		}
		decl := p.parseTopLevelDecl()
		if decl != nil {
			f.Decls = append(f.Decls, decl)
		}
	}
	return f, nil
}

func (p *Parser) parseTopLevelDecl() ast.Decl {
	switch p.curToken.Type {
	case lexer.OBJECT:
		return p.parseObjectDef()
	case lexer.TRAIT:
		return p.parseTraitDef()
	case lexer.IMPL:
		return p.parseTraitImpl()
	case lexer.DEF:
		return p.parseMethodDef()
	default:
		node := p.parseStatement()
		expr, ok := node.(ast.Expr)
		if !ok {
			p.synchronize()
			return nil
		}
		return &ast.ExprDecl{Expr: expr}
	}
}

// parseExpression parses a full expression: type cast over a binary chain.
// This is grammar precedence level 1 (lowest).
func (p *Parser) parseExpression() ast.Expr {
	expr := p.parseBinaryChain()
	if expr == nil {
		return nil
	}
	for p.curIs(lexer.AS) {
		p.next()
		typ := p.parseTypeExpr()
		expr = &ast.TypeCast{Value: expr, Type: typ, Pos: expr.Position()}
	}
	return expr
}

// parseBinaryChain implements precedence level 2: a single flat level of
// left-associative binary operators over send-chain operands. After
// building each binary node, if the next token is `.` the parser re-enters
// the send chain with the binary node as receiver (the `.`-continuation
// rule), so `x == y\n  .if_true { }` parses as `(x == y).if_true { }`.
func (p *Parser) parseBinaryChain() ast.Expr {
	left := p.parseSendChainValue()
	if left == nil {
		return nil
	}
	for p.curToken.IsBinaryOperator() {
		opTok := p.curToken
		p.next()
		right := p.parseBinaryOperand()
		if right == nil {
			return left
		}
		send := &ast.Send{
			Method:   opTok.Literal,
			Receiver: left,
			Args:     []ast.Argument{{Value: right}},
			Pos:      left.Position(),
		}
		left = p.continueSendChain(send)
	}
	return left
}

// parseBinaryOperand parses the right-hand side of a binary operator: a
// value with bracket-access and unary-`!` continuations, but deliberately
// not a `.`-chain. A `.` immediately following a bare binary RHS belongs
// to the binary expression as a whole, picked up by parseBinaryChain's
// continueSendChain call on the finished Send node, not to this operand
// alone — this is what lets `x == y\n  .if_true { }` parse as
// `(x == y).if_true { }` instead of `x == y.if_true { }`.
func (p *Parser) parseBinaryOperand() ast.Expr {
	val := p.parseValue()
	if val == nil {
		return nil
	}
	expr := val
	for {
		switch {
		case p.curIs(lexer.LBRACKET) && p.adjacentToPrev():
			expr = p.parseBracketAccess(expr)
		case p.curIs(lexer.BANG) && !p.peekIs(lexer.LPAREN) && p.adjacentToPrev():
			bang := p.curToken
			p.next()
			expr = &ast.Send{Method: "!", Receiver: expr, Pos: p.pos(bang)}
		default:
			return expr
		}
	}
}

// parseSendChainValue parses one primary value followed by any send-chain
// continuations (`.method`, bracket access, parenthesis-less call args).
func (p *Parser) parseSendChainValue() ast.Expr {
	val := p.parseValue()
	if val == nil {
		return nil
	}
	return p.continueSendChain(val)
}

// continueSendChain extends base with `.`-sends, `[...]` bracket accesses,
// and the unary `!` dereference for as long as they continue to appear,
// implementing grammar precedence level 3.
func (p *Parser) continueSendChain(base ast.Expr) ast.Expr {
	expr := base
	for {
		switch {
		case p.curIs(lexer.DOT):
			expr = p.parseMethodSend(expr)
		case p.curIs(lexer.LBRACKET) && p.adjacentToPrev():
			expr = p.parseBracketAccess(expr)
		case p.curIs(lexer.BANG) && !p.peekIs(lexer.LPAREN) && p.adjacentToPrev():
			bang := p.curToken
			p.next()
			expr = &ast.Send{Method: "!", Receiver: expr, Pos: p.pos(bang)}
		default:
			return expr
		}
	}
}

// parseMethodSend parses `.name(args)`, `.name arg1, arg2`, `.name`, and
// their type-argument and trailing-block variants, continuing from a `.`
// that has already been confirmed present.
func (p *Parser) parseMethodSend(receiver ast.Expr) ast.Expr {
	dotTok := p.curToken
	p.next()

	if !p.curIs(lexer.IDENT) && !p.curIs(lexer.CONSTANT) && !p.curToken.IsKeyword() && !p.curToken.IsBinaryOperator() {
		p.sink.Add(diag.New(diag.SynInvalidMessage, "parse", p.span(p.curToken),
			fmt.Sprintf("invalid message name %q", p.curToken.Literal)))
		return receiver
	}
	nameTok := p.curToken
	name := nameTok.Literal
	p.next()

	send := &ast.Send{Receiver: receiver, Method: name, Pos: p.pos(dotTok)}

	if p.curIs(lexer.BANG) && p.peekIs(lexer.LPAREN) {
		p.next() // consume `!`
		send.TypeArgs = p.parseTypeArgList()
	}

	if p.curIs(lexer.LPAREN) && p.adjacentToPrev() {
		send.Args = p.parseParenArgs()
	} else if sameLine(nameTok, p.curToken) && p.curStartsValue() {
		send.Args = p.parseBareArgs()
	}

	if p.curIs(lexer.LBRACE) && p.adjacentToPrev() {
		send.BlockArg = p.parseBlockLiteral()
	}
	return send
}

func (p *Parser) parseParenArgs() []ast.Argument {
	p.next() // consume `(`
	var args []ast.Argument
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseArgument())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return args
}

// parseBareArgs parses a parenthesis-less argument list: comma-separated
// expressions until a newline ends the list (a trailing comma keeps the
// list open across the line break, per the identifier-resolution rule).
func (p *Parser) parseBareArgs() []ast.Argument {
	var args []ast.Argument
	for {
		args = append(args, p.parseArgument())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	return args
}

func (p *Parser) parseArgument() ast.Argument {
	if p.curIs(lexer.IDENT) && p.peekIs(lexer.COLON) {
		name := p.curToken.Literal
		p.next() // name
		p.next() // `:`
		return ast.Argument{Name: name, Value: p.parseExpression()}
	}
	return ast.Argument{Value: p.parseExpression()}
}

// parseBracketAccess parses `recv[args]`, a send to the `[]` message.
func (p *Parser) parseBracketAccess(receiver ast.Expr) ast.Expr {
	lb := p.curToken
	p.next()
	var args []ast.Argument
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseArgument())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	return &ast.Send{Receiver: receiver, Method: "[]", Args: args, Pos: p.pos(lb)}
}
