package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/types"
)

// passDefineTypeSignatures is pass 13: compute the declared type of every
// top-level object, trait, and method — arguments, return, throws, and
// type parameters with trait bounds — without touching any method body.
//
// Object and trait names are registered in a first sweep so forward
// references between top-level declarations in the same file resolve
// (spec.md's grammar does not require declaration-before-use at module
// scope), then a second sweep fills in each type's details.
func passDefineTypeSignatures(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	db := c.State.Types

	for _, decl := range mod.Body.Decls {
		switch d := decl.(type) {
		case *ast.ObjectDef:
			if _, exists := db.LookupObjectType(d.Name); exists {
				c.State.Diagnostics.Add(diag.Redefined("define_type_signatures", ast.Span{Start: d.Pos, End: d.Pos}, "constant", d.Name))
				continue
			}
			if IsReservedConstant(d.Name) {
				c.State.Diagnostics.Add(diag.ReservedConstantRedefined("define_type_signatures", ast.Span{Start: d.Pos, End: d.Pos}, d.Name))
			}
			obj := db.NewObjectType(d.Name)
			d.ResolvedType = obj
			mod.Attributes.Define(d.Name, obj, false)
		case *ast.TraitDef:
			if IsReservedConstant(d.Name) {
				c.State.Diagnostics.Add(diag.ReservedConstantRedefined("define_type_signatures", ast.Span{Start: d.Pos, End: d.Pos}, d.Name))
			}
			trait := db.NewTraitType(d.Name)
			d.ResolvedType = trait
			mod.Attributes.Define(d.Name, trait, false)
		}
	}

	for _, decl := range mod.Body.Decls {
		switch d := decl.(type) {
		case *ast.ObjectDef:
			defineObjectSignature(c, mod, d)
		case *ast.TraitDef:
			defineTraitSignature(c, mod, d)
		case *ast.TraitImpl:
			defineTraitImplSignatures(c, mod, d)
		case *ast.MethodDef:
			sig := defineMethodSignature(c, mod, d, nil, nil, nil)
			mod.Attributes.Define(d.Name, sig, false)
		}
	}
	return v, true
}

func defineObjectSignature(c *ModuleCompiler, mod *Module, d *ast.ObjectDef) {
	obj, _ := c.State.Types.LookupObjectType(d.Name)
	typeParams := make(map[string]*types.TypeParameter, len(d.TypeParams))
	for _, name := range d.TypeParams {
		obj.TypeParams.Add(name)
		typeParams[name] = &types.TypeParameter{Name: name}
	}

	resolver := &typeResolver{db: c.State.Types, sink: c.State.Diagnostics, phase: "define_type_signatures", typeParams: typeParams, self: obj}
	for _, attr := range d.Attributes {
		obj.Attributes.Define(attr.Name, resolver.resolve(attr.Type), true)
	}
	for _, m := range d.Methods {
		sig := defineMethodSignature(c, mod, m, d.TypeParams, typeParams, obj)
		obj.Methods.Define(m.Name, sig, false)
	}
}

func defineTraitSignature(c *ModuleCompiler, mod *Module, d *ast.TraitDef) {
	trait, _ := c.State.Types.LookupTraitType(d.Name)
	typeParams := make(map[string]*types.TypeParameter, len(d.TypeParams))
	for _, name := range d.TypeParams {
		trait.TypeParams.Add(name)
		typeParams[name] = &types.TypeParameter{Name: name}
	}
	for _, reqName := range d.RequiredTraits {
		if req, ok := c.State.Types.LookupTraitType(reqName); ok {
			trait.RequiredTraits = append(trait.RequiredTraits, req)
		} else {
			c.State.Diagnostics.Add(diag.UndefinedConstant("define_type_signatures", ast.Span{Start: d.Pos, End: d.Pos}, reqName))
		}
	}
	for _, m := range d.Methods {
		sig := defineMethodSignature(c, mod, m, d.TypeParams, typeParams, trait)
		trait.Methods.Define(m.Name, sig, false)
		if m.Body == nil {
			trait.RequiredMethods[m.Name] = true
		}
	}
}

func defineTraitImplSignatures(c *ModuleCompiler, mod *Module, d *ast.TraitImpl) {
	obj, ok := c.State.Types.LookupObjectType(d.ForType)
	if !ok {
		c.State.Diagnostics.Add(diag.UndefinedConstant("define_type_signatures", ast.Span{Start: d.Pos, End: d.Pos}, d.ForType))
		return
	}
	for _, m := range d.Methods {
		defineMethodSignature(c, mod, m, nil, nil, obj)
	}
}

// defineMethodSignature resolves m's declared argument/return/throw types
// and records the result as a *types.Block, both on m.ResolvedType and as
// the return value for the caller to bind into whatever method table owns
// it (module attributes, an object's Methods table, a trait's).
func defineMethodSignature(c *ModuleCompiler, mod *Module, m *ast.MethodDef, enclosingNames []string, enclosing map[string]*types.TypeParameter, self types.Type) types.Type {
	typeParams := map[string]*types.TypeParameter{}
	var typeParamNames []string
	for _, name := range enclosingNames {
		typeParams[name] = enclosing[name]
		typeParamNames = append(typeParamNames, name)
	}
	for _, name := range m.TypeParams {
		typeParams[name] = &types.TypeParameter{Name: name}
		typeParamNames = append(typeParamNames, name)
	}
	for _, w := range m.Where {
		tp, ok := typeParams[w.TypeParam]
		if !ok {
			continue
		}
		for _, reqName := range w.RequiredTraits {
			if req, ok := c.State.Types.LookupTraitType(reqName); ok {
				tp.RequiredTraits = append(tp.RequiredTraits, req)
			}
		}
	}

	resolver := &typeResolver{db: c.State.Types, sink: c.State.Diagnostics, phase: "define_type_signatures", typeParams: typeParams, self: self}
	args := make([]types.Type, len(m.Params))
	for i, p := range m.Params {
		args[i] = resolver.resolve(p.Type)
	}
	var throwType types.Type
	if m.ThrowType != nil {
		throwType = resolver.resolve(m.ThrowType)
	}
	block := c.State.Types.NewBlockType(types.MethodBlock, args, throwType, resolver.resolve(m.ReturnType))
	for _, name := range typeParamNames {
		block.TypeParams.Add(name)
	}
	m.ResolvedType = block

	sig := methodSignature{paramNames: make([]string, len(m.Params))}
	rest := false
	for i, p := range m.Params {
		sig.paramNames[i] = p.Name
		switch {
		case p.Rest:
			rest = true
		case p.Default == nil:
			sig.min++
			sig.max++
		default:
			sig.max++
		}
	}
	if rest {
		sig.max = unboundedArity
	}
	c.State.Signatures[block] = sig

	return block
}
