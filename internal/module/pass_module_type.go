package module

import "github.com/veltra-lang/veltc/internal/ast"

// passDefineModuleType is pass 4: install the module's Object type in the
// type database before any import is processed. This is the half of the
// "register-before-compile" cycle protocol (spec.md §9) that matters to a
// module observing another module mid-compile: the in-flight record
// already has a usable Type, even though its Body/Globals are still being
// filled in.
func passDefineModuleType(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	obj := c.State.Types.NewObjectType(mod.QualifiedName)
	obj.Attributes = mod.Attributes // the module's top-level table *is* its type's attribute table
	mod.Type = obj
	return v, true
}

// passTrackModule is pass 5: register the module in the run's module
// table. Compile already inserts the record before running any pass (the
// C7 prose's statement of the same rule), so this pass normally finds the
// entry already in place; when the entry is missing or holds a different
// record, it stores mod under its qualified name, keeping spec.md §3's "a
// module appears in modules at most once".
func passTrackModule(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	if c.State.Modules[mod.QualifiedName] != mod {
		c.State.Modules[mod.QualifiedName] = mod
	}
	return v, true
}

// bootstrapModuleName and preludeModuleName are the two modules every
// other module implicitly depends on. Compiling either of them must not
// recurse into itself.
const (
	bootstrapModuleName = "std::bootstrap"
	preludeModuleName   = "std::prelude"
)

// passInsertImplicitImports is pass 6: prepend synthetic imports for
// bootstrap and prelude, unless this module is one of them.
func passInsertImplicitImports(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	if mod.QualifiedName == bootstrapModuleName || mod.QualifiedName == preludeModuleName {
		return v, true
	}
	implicit := []*ast.Import{
		{Steps: splitQualifiedName(bootstrapModuleName), Symbols: []ast.ImportSymbol{{Glob: true}}, Pos: mod.SourceLocation},
		{Steps: splitQualifiedName(preludeModuleName), Symbols: []ast.ImportSymbol{{Glob: true}}, Pos: mod.SourceLocation},
	}
	mod.Body.Imports = append(implicit, mod.Body.Imports...)
	return v, true
}

// passDefineThisModuleType is pass 11: bind the well-known ThisModule
// global to the current module's type, so expressions can refer to their
// own module constant by name.
func passDefineThisModuleType(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	mod.Globals.Define(ThisModuleConstant, mod.Type, false)
	return v, true
}
