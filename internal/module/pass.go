package module

import "github.com/veltra-lang/veltc/internal/ast"

// passValue is the per-module intermediate value threaded between passes
// (spec.md §4.8: "initially the file path"). Only the first two passes
// actually use it — from "desugar" onward every pass mutates the module
// and its AST in place, so later stages just pass an empty value through.
type passValue struct {
	path   string
	source *ast.SourceFile
}

// passFunc is one pass of the fixed-order pipeline (spec.md §4.8). It
// receives the owning compiler (so passes that recurse, like "compile
// imported modules", can call back into it), the module being compiled,
// and the current per-module value, and returns the next value plus
// whether the pipeline should continue to the next pass. Returning
// ok=false halts the pipeline after this pass even with no diagnostic
// reported — e.g. a pass with nothing further to hand downstream.
type passFunc func(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool)

type pass struct {
	name string
	run  passFunc
}

// pipeline is the fixed order from spec.md §4.8. Passes share state only
// through the module, the type database, and the diagnostics sink.
var pipeline = []pass{
	{"path_to_source", passPathToSource},
	{"source_to_ast", passSourceToAST},
	{"desugar", passDesugar},
	{"define_module_type", passDefineModuleType},
	{"track_module", passTrackModule},
	{"insert_implicit_imports", passInsertImplicitImports},
	{"collect_imports", passCollectImports},
	{"add_implicit_import_symbols", passAddImplicitImportSymbols},
	{"compile_imported_modules", passCompileImportedModules},
	{"setup_symbol_tables", passSetupSymbolTables},
	{"define_this_module_type", passDefineThisModuleType},
	{"define_import_types", passDefineImportTypes},
	{"define_type_signatures", passDefineTypeSignatures},
	{"implement_traits", passImplementTraits},
	{"define_type", passDefineType},
	{"validate_throw", passValidateThrow},
	{"generate_tir", passGenerateTIR},
	{"tail_call_elimination", passTailCallElimination},
	{"code_generation", passCodeGeneration},
}
