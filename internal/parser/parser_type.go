package parser

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/lexer"
)

// parseTypeExpr parses a type annotation: `?Type`, a constant chain with
// optional type arguments (`T::U!(V)`), or a block type
// (`do(A,B) !! E -> R` / `lambda(A) -> R`).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch {
	case p.curIs(lexer.QUESTION):
		tok := p.curToken
		p.next()
		return &ast.OptionalTypeExpr{Inner: p.parseTypeExpr(), Pos: p.pos(tok)}
	case p.curIs(lexer.DO) || p.curIs(lexer.LAMBDA):
		return p.parseBlockTypeExpr()
	case p.curIs(lexer.SELF):
		tok := p.curToken
		p.next()
		return &ast.RefTypeExpr{Path: []string{"Self"}, Pos: p.pos(tok)}
	default:
		return p.parseRefTypeExpr()
	}
}

func (p *Parser) parseRefTypeExpr() ast.TypeExpr {
	tok := p.curToken
	if !p.curIs(lexer.CONSTANT) {
		p.reportUnexpected("a type")
		p.next()
		return &ast.RefTypeExpr{Path: []string{"<error>"}, Pos: p.pos(tok)}
	}
	path := []string{p.curToken.Literal}
	p.next()
	for p.curIs(lexer.COLONCOLON) {
		p.next()
		if !p.curIs(lexer.CONSTANT) {
			p.reportUnexpected("CONSTANT")
			break
		}
		path = append(path, p.curToken.Literal)
		p.next()
	}
	var typeArgs []ast.TypeExpr
	if p.curIs(lexer.BANG) && p.peekIs(lexer.LPAREN) {
		p.next()
		typeArgs = p.parseTypeArgList()
	}
	return &ast.RefTypeExpr{Path: path, TypeArgs: typeArgs, Pos: p.pos(tok)}
}

func (p *Parser) parseBlockTypeExpr() ast.TypeExpr {
	tok := p.curToken
	kind := ast.ClosureBlock
	if p.curIs(lexer.LAMBDA) {
		kind = ast.LambdaBlock
	}
	p.next()
	p.expect(lexer.LPAREN)
	var params []ast.TypeExpr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		params = append(params, p.parseTypeExpr())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)

	var throwType, ret ast.TypeExpr
	if p.curIs(lexer.BANGBANG) {
		p.next()
		throwType = p.parseTypeExpr()
	}
	if p.curIs(lexer.ARROW) {
		p.next()
		ret = p.parseTypeExpr()
	}
	return &ast.BlockTypeExpr{Kind: kind, Params: params, ThrowType: throwType, Return: ret, Pos: p.pos(tok)}
}

// parseTypeArgList parses `(T, U, ...)`, assuming curToken is the opening
// `(` (the caller has already consumed the preceding `!`).
func (p *Parser) parseTypeArgList() []ast.TypeExpr {
	p.next() // consume `(`
	var args []ast.TypeExpr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseTypeExpr())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return args
}
