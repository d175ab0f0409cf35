package parser

import (
	"strconv"

	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/lexer"
)

// curStartsValue reports whether curToken can begin grammar precedence
// level 4 (Value). A plain token-type table is not quite enough because
// `%` doubles as the modulo operator; it only starts a value when directly
// followed by `[` (the hash-map literal opener).
func (p *Parser) curStartsValue() bool {
	switch p.curToken.Type {
	case lexer.IDENT, lexer.CONSTANT, lexer.INT, lexer.FLOAT,
		lexer.STRING, lexer.STRING_OPEN, lexer.STRING_FULL,
		lexer.LPAREN, lexer.LBRACE, lexer.DO, lexer.LAMBDA, lexer.LBRACKET,
		lexer.LET, lexer.RETURN, lexer.SELF,
		lexer.ATTRIBUTE, lexer.THROW, lexer.TRY, lexer.COLONCOLON:
		return true
	case lexer.PERCENT:
		return p.peekIs(lexer.LBRACKET)
	}
	return false
}

// parseValue parses grammar precedence level 4: a single primary value,
// with no send-chain or binary continuation attached yet.
func (p *Parser) parseValue() ast.Expr {
	switch p.curToken.Type {
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.STRING_OPEN, lexer.STRING_FULL:
		return p.parseTemplateString()
	case lexer.IDENT:
		return p.parseIdentifierValue()
	case lexer.CONSTANT:
		return p.parseConstantValue()
	case lexer.COLONCOLON:
		return p.parseGlobal()
	case lexer.ATTRIBUTE:
		return p.parseAttributeRef()
	case lexer.SELF:
		tok := p.curToken
		p.next()
		return &ast.SelfExpr{Pos: p.pos(tok)}
	case lexer.LPAREN:
		return p.parseGroupedExpr()
	case lexer.LBRACE:
		return p.parseBlockLiteral()
	case lexer.DO, lexer.LAMBDA:
		return p.parseSignedBlockLiteral()
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.PERCENT:
		return p.parseHashLiteral()
	case lexer.LET:
		return p.parseVarDef()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.THROW:
		return p.parseThrow()
	case lexer.TRY:
		return p.parseTry()
	default:
		p.reportUnexpected("a value")
		tok := p.curToken
		p.next()
		return &ast.ErrorNode{Msg: "expected a value", Pos: p.pos(tok)}
	}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	tok := p.curToken
	p.next()
	var v int64
	if len(tok.Literal) > 2 && (tok.Literal[0:2] == "0x" || tok.Literal[0:2] == "0X") {
		n, err := strconv.ParseInt(tok.Literal[2:], 16, 64)
		if err != nil {
			p.sink.Add(diag.New(diag.LexMalformedNumber, "parse", p.span(tok), "malformed hex integer literal"))
		}
		v = n
	} else {
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.sink.Add(diag.New(diag.LexMalformedNumber, "parse", p.span(tok), "malformed integer literal"))
		}
		v = n
	}
	return &ast.Literal{Kind: ast.IntLit, Value: v, Pos: p.pos(tok)}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	tok := p.curToken
	p.next()
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.sink.Add(diag.New(diag.LexMalformedNumber, "parse", p.span(tok), "malformed float literal"))
	}
	return &ast.Literal{Kind: ast.FloatLit, Value: v, Pos: p.pos(tok)}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	tok := p.curToken
	p.next()
	return &ast.Literal{Kind: ast.StringLit, Value: tok.Literal, Pos: p.pos(tok)}
}

// parseTemplateString reconstructs a template string's interpolations as
// nested sends to `to_string` joined by string concatenation, since the
// AST has no dedicated template-string node: ``a{x}b`` becomes
// `"a".concat(x.to_string).concat("b")`.
func (p *Parser) parseTemplateString() ast.Expr {
	openTok := p.curToken
	var result ast.Expr = &ast.Literal{Kind: ast.StringLit, Value: openTok.Literal, Pos: p.pos(openTok)}
	if openTok.Type == lexer.STRING_FULL {
		p.next()
		return result
	}
	p.next()
	for {
		exprPart := p.parseExpression()
		if exprPart != nil {
			asStr := &ast.Send{Receiver: exprPart, Method: "to_string", Pos: exprPart.Position()}
			result = &ast.Send{Receiver: result, Method: "concat", Args: []ast.Argument{{Value: asStr}}, Pos: result.Position()}
		}
		switch p.curToken.Type {
		case lexer.STRING_MID:
			seg := p.curToken
			result = &ast.Send{Receiver: result, Method: "concat",
				Args: []ast.Argument{{Value: &ast.Literal{Kind: ast.StringLit, Value: seg.Literal, Pos: p.pos(seg)}}},
				Pos:  result.Position()}
			p.next()
			continue
		case lexer.STRING_CLOSE:
			seg := p.curToken
			result = &ast.Send{Receiver: result, Method: "concat",
				Args: []ast.Argument{{Value: &ast.Literal{Kind: ast.StringLit, Value: seg.Literal, Pos: p.pos(seg)}}},
				Pos:  result.Position()}
			p.next()
			return result
		default:
			p.reportUnexpected("template string continuation")
			return result
		}
	}
}

// parseIdentifierValue implements the identifier-vs-call rule: a bare name
// directly followed by `(` (no space between them) is a parenthesized call; a
// bare name followed (with a gap) by a value-start token on the same line
// is a parenthesis-less call; otherwise it's a plain local reference.
func (p *Parser) parseIdentifierValue() ast.Expr {
	tok := p.curToken
	p.next()
	ident := &ast.Identifier{Name: tok.Literal, Pos: p.pos(tok)}

	if p.curIs(lexer.LPAREN) && p.adjacentToPrev() && p.curToken.Column == tok.Column+len(tok.Literal) {
		send := &ast.Send{Method: tok.Literal, Pos: p.pos(tok)}
		send.Args = p.parseParenArgs()
		if p.curIs(lexer.LBRACE) && p.adjacentToPrev() {
			send.BlockArg = p.parseBlockLiteral()
		}
		return send
	}
	if sameLine(tok, p.curToken) && p.curStartsValue() {
		send := &ast.Send{Method: tok.Literal, Pos: p.pos(tok)}
		send.Args = p.parseBareArgs()
		return send
	}
	return ident
}

func (p *Parser) parseConstantValue() ast.Expr {
	tok := p.curToken
	p.next()
	return &ast.Constant{Name: tok.Literal, Pos: p.pos(tok)}
}

// parseGlobal parses `::Name`.
func (p *Parser) parseGlobal() ast.Expr {
	tok := p.curToken
	p.next()
	if !p.curIs(lexer.CONSTANT) {
		p.reportUnexpected("CONSTANT")
		return &ast.ErrorNode{Msg: "expected a constant after ::", Pos: p.pos(tok)}
	}
	name := p.curToken.Literal
	p.next()
	return &ast.Global{Name: name, Pos: p.pos(tok)}
}

func (p *Parser) parseAttributeRef() ast.Expr {
	tok := p.curToken
	p.next()
	return &ast.AttributeRef{Name: tok.Literal, Pos: p.pos(tok)}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.next() // consume `(`
	expr := p.parseExpression()
	p.expect(lexer.RPAREN)
	return expr
}

// parseArrayLiteral desugars `[e1, e2]` into `Array.new(e1, e2)` per
// scenario E2.
func (p *Parser) parseArrayLiteral() ast.Expr {
	lb := p.curToken
	p.next()
	var elems []ast.Argument
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		elems = append(elems, ast.Argument{Value: p.parseExpression()})
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	return &ast.Send{
		Receiver: &ast.Global{Name: "Array", Pos: p.pos(lb)},
		Method:   "new",
		Args:     elems,
		Pos:      p.pos(lb),
	}
}

// parseHashLiteral desugars `%[k -> v, ...]` into a send carrying two
// Array.new argument lists (keys and values), per the Desugarings section.
func (p *Parser) parseHashLiteral() ast.Expr {
	pctTok := p.curToken
	p.next() // consume `%`
	p.next() // consume `[`
	var keys, values []ast.Argument
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		k := p.parseExpression()
		p.expect(lexer.ARROW)
		v := p.parseExpression()
		keys = append(keys, ast.Argument{Value: k})
		values = append(values, ast.Argument{Value: v})
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	keysArr := &ast.Send{Receiver: &ast.Global{Name: "Array", Pos: p.pos(pctTok)}, Method: "new", Args: keys, Pos: p.pos(pctTok)}
	valuesArr := &ast.Send{Receiver: &ast.Global{Name: "Array", Pos: p.pos(pctTok)}, Method: "new", Args: values, Pos: p.pos(pctTok)}
	return &ast.Send{
		Receiver: &ast.Global{Name: "Map", Pos: p.pos(pctTok)},
		Method:   "new",
		Args:     []ast.Argument{{Value: keysArr}, {Value: valuesArr}},
		Pos:      p.pos(pctTok),
	}
}

// parseVarDef parses `let [mut] name [: Type] = expr`.
func (p *Parser) parseVarDef() ast.Expr {
	tok := p.curToken
	p.next() // consume `let`
	mutable := false
	if p.curIs(lexer.MUT) {
		mutable = true
		p.next()
	}
	if !p.curIs(lexer.IDENT) {
		p.reportUnexpected("identifier")
		return &ast.ErrorNode{Msg: "expected identifier after let", Pos: p.pos(tok)}
	}
	name := p.curToken.Literal
	p.next()
	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.next()
		typ = p.parseTypeExpr()
	}
	p.expect(lexer.ASSIGN)
	value := p.parseExpression()
	return &ast.VarDef{Name: name, Type: typ, Value: value, Mutable: mutable, Pos: p.pos(tok)}
}

func (p *Parser) parseReturn() ast.Expr {
	tok := p.curToken
	p.next()
	var value ast.Expr
	if sameLine(tok, p.curToken) && p.curStartsValue() {
		value = p.parseExpression()
	}
	return &ast.ReturnExpr{Value: value, Pos: p.pos(tok)}
}

// parseThrow parses `throw expr`. Whether this is valid at the current
// nesting level (not module top level, inside a block with a declared
// throw type) is a later pass's job (§7's control-flow diagnostics), not
// the parser's.
func (p *Parser) parseThrow() ast.Expr {
	tok := p.curToken
	p.next()
	value := p.parseExpression()
	return &ast.ThrowExpr{Value: value, Pos: p.pos(tok)}
}

// parseTry parses both `try expr else (e) { body }` and `try! expr`,
// desugaring the latter per scenario E5: `try! foo` becomes
// `try foo else (error) { _INKOC.panic(error.to_string) }`.
func (p *Parser) parseTry() ast.Expr {
	tok := p.curToken
	p.next() // consume `try`

	if p.curIs(lexer.BANG) {
		p.next()
		body := p.parseExpression()
		panicSend := &ast.Send{
			Receiver: &ast.Constant{Name: "_INKOC", Pos: p.pos(tok)},
			Method:   "panic",
			Args: []ast.Argument{{Value: &ast.Send{
				Receiver: &ast.Identifier{Name: "error", Pos: p.pos(tok)},
				Method:   "to_string",
				Pos:      p.pos(tok),
			}}},
			Pos: p.pos(tok),
		}
		return &ast.TryExpr{Body: body, ElseArg: "error", ElseBody: []ast.Node{panicSend}, Pos: p.pos(tok)}
	}

	body := p.parseExpression()
	elseArg := ""
	var elseBody []ast.Node
	if p.curIs(lexer.ELSE) {
		p.next()
		p.expect(lexer.LPAREN)
		if p.curIs(lexer.IDENT) {
			elseArg = p.curToken.Literal
			p.next()
		}
		p.expect(lexer.RPAREN)
		elseBody = p.parseBraceBody()
	}
	return &ast.TryExpr{Body: body, ElseArg: elseArg, ElseBody: elseBody, Pos: p.pos(tok)}
}

// parseBraceBody parses `{ stmt* }`, one statement per line, used by
// block/lambda bodies, try/else bodies, and method bodies alike.
func (p *Parser) parseBraceBody() []ast.Node {
	p.expect(lexer.LBRACE)
	nodes := p.parseBodyStatements()
	p.expect(lexer.RBRACE)
	return nodes
}

// parseBodyStatements parses statements up to (but not consuming) the
// closing `}`, assuming the opening `{` (and any leading `|params|`
// signature) has already been consumed by the caller.
func (p *Parser) parseBodyStatements() []ast.Node {
	var nodes []ast.Node
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		n := p.parseStatement()
		if n != nil {
			nodes = append(nodes, n)
		} else {
			p.next()
		}
	}
	return nodes
}

// parseBlockLiteral parses a plain closure literal: `{ |params| stmt* }` or
// `{ stmt* }` with no parameters. Used both as a standalone value and as a
// trailing block argument attached to a send.
func (p *Parser) parseBlockLiteral() *ast.BlockExpr {
	tok := p.curToken
	p.next() // consume `{`

	var params []ast.Param
	if p.curIs(lexer.PIPE) {
		p.next()
		for !p.curIs(lexer.PIPE) && !p.curIs(lexer.EOF) {
			params = append(params, p.parseParam())
			if p.curIs(lexer.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(lexer.PIPE)
	}

	body := p.parseBodyStatements()
	p.expect(lexer.RBRACE)
	return &ast.BlockExpr{Kind: ast.ClosureBlock, Params: params, Body: body, Pos: p.pos(tok)}
}

// parseSignedBlockLiteral parses `do(...)`/`lambda(...)` block values with
// an explicit parenthesized signature, throw type, and return type.
func (p *Parser) parseSignedBlockLiteral() ast.Expr {
	tok := p.curToken
	kind := ast.ClosureBlock
	if p.curIs(lexer.LAMBDA) {
		kind = ast.LambdaBlock
	}
	p.next()

	var typeParams []string
	if p.curIs(lexer.BANG) && p.peekIs(lexer.LPAREN) {
		p.next()
		p.next() // consume `(`
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			if p.curIs(lexer.CONSTANT) {
				typeParams = append(typeParams, p.curToken.Literal)
				p.next()
			}
			if p.curIs(lexer.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(lexer.RPAREN)
	}

	var params []ast.Param
	p.expect(lexer.LPAREN)
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		params = append(params, p.parseParam())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)

	var throwType, retType ast.TypeExpr
	if p.curIs(lexer.BANGBANG) {
		p.next()
		throwType = p.parseTypeExpr()
	}
	if p.curIs(lexer.ARROW) {
		p.next()
		retType = p.parseTypeExpr()
	}

	body := p.parseBraceBody()
	return &ast.BlockExpr{
		Kind: kind, Params: params, TypeParams: typeParams,
		ThrowType: throwType, ReturnType: retType, Body: body, Pos: p.pos(tok),
	}
}

// parseParam parses one parameter: `name`, `name: T`, `name: T = default`,
// `*rest`, or `mut name: T`.
func (p *Parser) parseParam() ast.Param {
	tok := p.curToken
	var rest, mutable bool
	if p.curIs(lexer.STAR) {
		rest = true
		p.next()
	}
	if p.curIs(lexer.MUT) {
		mutable = true
		p.next()
	}
	if !p.curIs(lexer.IDENT) {
		p.reportUnexpected("parameter name")
		return ast.Param{Name: "<error>", Pos: p.pos(tok)}
	}
	name := p.curToken.Literal
	p.next()

	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.next()
		typ = p.parseTypeExpr()
	}
	var def ast.Expr
	if p.curIs(lexer.ASSIGN) {
		p.next()
		def = p.parseExpression()
	}
	return ast.Param{Name: name, Type: typ, Default: def, Rest: rest, Mutable: mutable, Pos: p.pos(tok)}
}

// parseStatement parses one body-level statement: a reassignment or a bare
// expression.
func (p *Parser) parseStatement() ast.Node {
	if (p.curIs(lexer.IDENT) || p.curIs(lexer.ATTRIBUTE)) && p.statementIsReassignment() {
		return p.parseReassignment()
	}
	return p.parseExpression()
}

// statementIsReassignment looks ahead (without consuming) to see whether
// the current identifier/attribute is the target of `=` or a compound
// assignment, as opposed to the start of an ordinary expression.
func (p *Parser) statementIsReassignment() bool {
	return p.peekIs(lexer.ASSIGN) || p.peekCompoundAssign()
}

func (p *Parser) peekCompoundAssign() bool {
	_, ok := p.peekToken.IsCompoundAssign()
	return ok
}

// parseReassignment parses `name = expr`, `@name = expr`, and compound
// `name op= expr`, desugaring the compound form into a plain reassignment
// of a binary send per the Reassignment section.
func (p *Parser) parseReassignment() ast.Node {
	var target ast.Expr
	tok := p.curToken
	if p.curIs(lexer.ATTRIBUTE) {
		target = p.parseAttributeRef()
	} else {
		name := p.curToken.Literal
		p.next()
		target = &ast.Identifier{Name: name, Pos: p.pos(tok)}
	}

	if plainOp, ok := p.curToken.IsCompoundAssign(); ok {
		opTok := p.curToken
		p.next()
		rhs := p.parseExpression()
		value := &ast.Send{
			Receiver: target,
			Method:   plainOp.String(),
			Args:     []ast.Argument{{Value: rhs}},
			Pos:      p.pos(opTok),
		}
		return &ast.Reassign{Target: target, Value: value, Pos: p.pos(tok)}
	}

	p.expect(lexer.ASSIGN)
	value := p.parseExpression()
	return &ast.Reassign{Target: target, Value: value, Pos: p.pos(tok)}
}
