package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/types"
)

// passImplementTraits is pass 14: for each `impl Trait for Type` block,
// register Trait as implemented by Type, check that Type transitively
// implements every trait Trait itself requires, and bind the impl's
// provided methods onto Type.
func passImplementTraits(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	for _, decl := range mod.Body.Decls {
		impl, ok := decl.(*ast.TraitImpl)
		if !ok {
			continue
		}
		span := ast.Span{Start: impl.Pos, End: impl.Pos}

		obj, ok := c.State.Types.LookupObjectType(impl.ForType)
		if !ok {
			continue // already reported by passDefineTypeSignatures
		}
		trait, ok := c.State.Types.LookupTraitType(impl.Trait)
		if !ok {
			c.State.Diagnostics.Add(diag.UndefinedConstant("implement_traits", span, impl.Trait))
			continue
		}

		if !obj.ImplementsTrait(trait) {
			obj.Traits = append(obj.Traits, trait)
		}
		checkRequiredTraits(c, obj, trait, span)

		for _, m := range impl.Methods {
			obj.Methods.Define(m.Name, m.ResolvedType, false)
		}
		checkRequiredMethods(c, obj, trait, impl, span)
	}
	return v, true
}

// checkRequiredTraits walks trait's required-trait set (spec.md §9's
// trait multi-inheritance) and reports any obj does not, directly or
// transitively, implement.
func checkRequiredTraits(c *ModuleCompiler, obj *types.Object, trait *types.Trait, span ast.Span) {
	for _, req := range trait.RequiredTraits {
		if !obj.ImplementsTrait(req) {
			c.State.Diagnostics.Add(diag.RequiredTraitMissing("implement_traits", span, obj.Name, req.Name))
		}
		checkRequiredTraits(c, obj, req, span)
	}
}

// checkRequiredMethods reports every method trait marks required
// (a method definition without a body) that impl does not provide.
func checkRequiredMethods(c *ModuleCompiler, obj *types.Object, trait *types.Trait, impl *ast.TraitImpl, span ast.Span) {
	provided := make(map[string]bool, len(impl.Methods))
	for _, m := range impl.Methods {
		provided[m.Name] = true
	}
	for name, required := range trait.RequiredMethods {
		if !required {
			continue
		}
		if provided[name] {
			continue
		}
		if sym := obj.Methods.Get(name); !sym.IsNull() {
			continue // the object's own method table already has it
		}
		c.State.Diagnostics.Add(diag.RequiredMethodMissing("implement_traits", span, trait.Name, name))
	}
}
