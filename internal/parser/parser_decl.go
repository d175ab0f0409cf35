package parser

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/lexer"
)

// parseImport parses `import a::b::(Sym1, Sym2 as Alias, self, *)`. Steps
// before the `(` are plain identifier components; inside it, each symbol is
// an identifier/constant, `self` (imports the module itself), or `*` (glob),
// each optionally aliased with `as`.
func (p *Parser) parseImport() *ast.Import {
	tok := p.curToken
	p.next() // consume `import`

	var steps []string
	if !p.curIs(lexer.IDENT) {
		p.reportUnexpected("module path")
		p.synchronize()
		return nil
	}
	steps = append(steps, p.curToken.Literal)
	p.next()
	for p.curIs(lexer.COLONCOLON) && !p.peekIs(lexer.LPAREN) {
		p.next()
		if !p.curIs(lexer.IDENT) {
			p.reportUnexpected("module path component")
			p.synchronize()
			return nil
		}
		steps = append(steps, p.curToken.Literal)
		p.next()
	}

	imp := &ast.Import{Steps: steps, Pos: p.pos(tok)}
	if p.curIs(lexer.COLONCOLON) && p.peekIs(lexer.LPAREN) {
		p.next() // consume `::`
		p.next() // consume `(`
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			imp.Symbols = append(imp.Symbols, p.parseImportSymbol())
			if p.curIs(lexer.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(lexer.RPAREN)
	}
	return imp
}

func (p *Parser) parseImportSymbol() ast.ImportSymbol {
	var sym ast.ImportSymbol
	switch {
	case p.curIs(lexer.STAR):
		sym.Glob = true
		p.next()
	case p.curIs(lexer.SELF):
		sym.Self = true
		p.next()
	case p.curIs(lexer.IDENT) || p.curIs(lexer.CONSTANT):
		sym.Name = p.curToken.Literal
		p.next()
	default:
		p.reportUnexpected("import symbol")
		p.next()
		return sym
	}
	if p.curIs(lexer.AS) {
		p.next()
		if p.curIs(lexer.IDENT) || p.curIs(lexer.CONSTANT) {
			sym.Alias = p.curToken.Literal
			p.next()
		} else {
			p.reportUnexpected("alias name")
		}
	}
	return sym
}

// parseTypeParamList parses `!(T, U)`, assuming curToken is `!` and the
// next token is `(`. Returns the bare type parameter names.
func (p *Parser) parseTypeParamList() []string {
	p.next() // consume `!`
	p.next() // consume `(`
	var names []string
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.CONSTANT) {
			names = append(names, p.curToken.Literal)
			p.next()
		} else {
			p.reportUnexpected("type parameter")
			p.next()
		}
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return names
}

// parseObjectDef parses `object Name!(TypeParams) { attributes; methods }`.
func (p *Parser) parseObjectDef() *ast.ObjectDef {
	tok := p.curToken
	p.next() // consume `object`
	if !p.curIs(lexer.CONSTANT) {
		p.reportUnexpected("object name")
		p.synchronize()
		return nil
	}
	name := p.curToken.Literal
	p.next()

	var typeParams []string
	if p.curIs(lexer.BANG) && p.peekIs(lexer.LPAREN) {
		typeParams = p.parseTypeParamList()
	}

	obj := &ast.ObjectDef{Name: name, TypeParams: typeParams, Pos: p.pos(tok)}
	p.expect(lexer.LBRACE)
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		switch {
		case p.curIs(lexer.ATTRIBUTE):
			obj.Attributes = append(obj.Attributes, p.parseAttributeDef())
		case p.curIs(lexer.DEF) || p.curIs(lexer.STATIC):
			if m := p.parseMethodDef(); m != nil {
				obj.Methods = append(obj.Methods, m)
			}
		default:
			p.reportUnexpected("attribute or method definition")
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return obj
}

func (p *Parser) parseAttributeDef() *ast.AttributeDef {
	tok := p.curToken
	name := tok.Literal
	p.next()
	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.next()
		typ = p.parseTypeExpr()
	}
	return &ast.AttributeDef{Name: name, Type: typ, Pos: p.pos(tok)}
}

// parseTraitDef parses `trait Name!(T): Required1 + Required2 { methods }`.
// A method body may be omitted inside a trait, marking it required.
func (p *Parser) parseTraitDef() *ast.TraitDef {
	tok := p.curToken
	p.next() // consume `trait`
	if !p.curIs(lexer.CONSTANT) {
		p.reportUnexpected("trait name")
		p.synchronize()
		return nil
	}
	name := p.curToken.Literal
	p.next()

	var typeParams []string
	if p.curIs(lexer.BANG) && p.peekIs(lexer.LPAREN) {
		typeParams = p.parseTypeParamList()
	}

	var required []string
	if p.curIs(lexer.COLON) {
		p.next()
		for p.curIs(lexer.CONSTANT) {
			required = append(required, p.curToken.Literal)
			p.next()
			if p.curIs(lexer.PLUS) {
				p.next()
				continue
			}
			break
		}
	}

	trait := &ast.TraitDef{Name: name, TypeParams: typeParams, RequiredTraits: required, Pos: p.pos(tok)}
	p.expect(lexer.LBRACE)
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DEF) || p.curIs(lexer.STATIC) {
			if m := p.parseMethodDef(); m != nil {
				trait.Methods = append(trait.Methods, m)
			}
			continue
		}
		p.reportUnexpected("method definition")
		p.next()
	}
	p.expect(lexer.RBRACE)
	return trait
}

// parseTraitImpl parses `impl Trait for Type { methods }`.
func (p *Parser) parseTraitImpl() *ast.TraitImpl {
	tok := p.curToken
	p.next() // consume `impl`
	if !p.curIs(lexer.CONSTANT) {
		p.reportUnexpected("trait name")
		p.synchronize()
		return nil
	}
	traitName := p.curToken.Literal
	p.next()
	if !p.expect(lexer.FOR) {
		p.synchronize()
		return nil
	}
	if !p.curIs(lexer.CONSTANT) {
		p.reportUnexpected("implementing type name")
		p.synchronize()
		return nil
	}
	forType := p.curToken.Literal
	p.next()

	impl := &ast.TraitImpl{Trait: traitName, ForType: forType, Pos: p.pos(tok)}
	p.expect(lexer.LBRACE)
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DEF) || p.curIs(lexer.STATIC) {
			if m := p.parseMethodDef(); m != nil {
				impl.Methods = append(impl.Methods, m)
			}
			continue
		}
		p.reportUnexpected("method definition")
		p.next()
	}
	p.expect(lexer.RBRACE)
	return impl
}

// parseMethodName consumes and returns a method name: a plain identifier,
// an overloadable binary operator, or the `[]` bracket-access message.
func (p *Parser) parseMethodName() (string, bool) {
	switch {
	case p.curIs(lexer.IDENT):
		name := p.curToken.Literal
		p.next()
		return name, true
	case p.curToken.IsBinaryOperator():
		name := p.curToken.Literal
		p.next()
		return name, true
	case p.curIs(lexer.LBRACKET) && p.peekIs(lexer.RBRACKET):
		p.next()
		p.next()
		return "[]", true
	default:
		return "", false
	}
}

// parseMethodDef parses `[static] def name(args)!(TypeParams) !! ThrowType
// -> ReturnType where T1: U, T2: V { body }`. Omitting the body marks the
// method required (valid only inside a trait).
func (p *Parser) parseMethodDef() *ast.MethodDef {
	tok := p.curToken
	static := false
	if p.curIs(lexer.STATIC) {
		static = true
		p.next()
	}
	if !p.expect(lexer.DEF) {
		p.synchronize()
		return nil
	}

	name, ok := p.parseMethodName()
	if !ok {
		p.reportUnexpected("method name")
		p.synchronize()
		return nil
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

	var typeParams []string
	if p.curIs(lexer.BANG) && p.peekIs(lexer.LPAREN) {
		typeParams = p.parseTypeParamList()
	}

	var throwType, retType ast.TypeExpr
	if p.curIs(lexer.BANGBANG) {
		p.next()
		throwType = p.parseTypeExpr()
	}
	if p.curIs(lexer.ARROW) {
		p.next()
		retType = p.parseTypeExpr()
	}

	var where []ast.WhereClause
	if p.curIs(lexer.WHERE) {
		p.next()
		for {
			if !p.curIs(lexer.CONSTANT) {
				p.reportUnexpected("type parameter")
				break
			}
			param := p.curToken.Literal
			p.next()
			p.expect(lexer.COLON)
			var reqs []string
			if p.curIs(lexer.CONSTANT) {
				reqs = append(reqs, p.curToken.Literal)
				p.next()
				for p.curIs(lexer.PLUS) {
					p.next()
					if p.curIs(lexer.CONSTANT) {
						reqs = append(reqs, p.curToken.Literal)
						p.next()
					}
				}
			}
			where = append(where, ast.WhereClause{TypeParam: param, RequiredTraits: reqs})
			if p.curIs(lexer.COMMA) {
				p.next()
				continue
			}
			break
		}
	}

	var body []ast.Node
	if p.curIs(lexer.LBRACE) {
		body = p.parseBraceBody()
		if body == nil {
			body = []ast.Node{} // `{}` is an empty body, not a required method
		}
	} else if !topLevelStart(p.curToken.Type) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		p.sink.Add(diag.New(diag.SynUnexpectedToken, "parse", p.span(p.curToken),
			"expected method body or end of required method declaration"))
	}

	return &ast.MethodDef{
		Name: name, TypeParams: typeParams, Params: params,
		ThrowType: throwType, ReturnType: retType, Where: where,
		Body: body, Static: static, Pos: p.pos(tok),
	}
}
