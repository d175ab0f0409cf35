package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
)

// passCollectImports is pass 7: walk the AST to enumerate Import nodes.
// By this point passInsertImplicitImports has already prepended the
// bootstrap/prelude synthetics, so this is a plain copy.
func passCollectImports(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	mod.Imports = mod.Body.Imports
	return v, true
}

// passAddImplicitImportSymbols is pass 8: an import written with no
// explicit symbol list (`import foo::bar`) still binds the imported
// module's own constant at the correct location — ensure that binding is
// present as an explicit `self` symbol before type resolution needs it.
func passAddImplicitImportSymbols(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	for _, imp := range mod.Imports {
		if len(imp.Symbols) == 0 {
			imp.Symbols = []ast.ImportSymbol{{Self: true}}
		}
	}
	return v, true
}

// passCompileImportedModules is pass 9: recursively invoke the module
// compiler for each unique, not-yet-compiled dependency, preserving
// declaration order. The register-before-compile protocol in
// ModuleCompiler.Compile is what keeps this from recursing forever on a
// cyclic module graph (spec.md testable property 6 / scenario E6).
func passCompileImportedModules(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	for _, imp := range mod.Imports {
		name := joinSteps(imp.Steps)
		if !mod.addDependency(name) {
			continue
		}
		c.Compile(name)
	}
	return v, true
}

// passDefineImportTypes is pass 12: for each import symbol, look up the
// corresponding attribute on the imported module and copy it into this
// module's globals. Glob imports copy every attribute the imported
// module's type carries; unresolved symbols report NameImportNotExported.
func passDefineImportTypes(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	for _, imp := range mod.Imports {
		depName := joinSteps(imp.Steps)
		dep, ok := c.State.Modules[depName]
		if !ok || dep.Type == nil {
			continue // the module-not-found diagnostic was already reported compiling dep
		}
		for _, sym := range imp.Symbols {
			switch {
			case sym.Glob:
				for _, attr := range dep.Attributes.All() {
					mod.Globals.Define(attr.Name, attr.Type, attr.Mutable)
				}
			case sym.Self:
				name := imp.Steps[len(imp.Steps)-1]
				if sym.Alias != "" {
					name = sym.Alias
				}
				mod.Globals.Define(name, dep.Type, false)
			default:
				attr := dep.Attributes.Get(sym.Name)
				if attr.IsNull() {
					c.State.Diagnostics.Add(diag.ImportNotExported("define_import_types", ast.Span{Start: imp.Pos, End: imp.Pos}, depName, sym.Name))
					continue
				}
				name := sym.Name
				if sym.Alias != "" {
					name = sym.Alias
				}
				mod.Globals.Define(name, attr.Type, attr.Mutable)
			}
		}
	}
	return v, true
}
