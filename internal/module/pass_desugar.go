package module

import "github.com/veltra-lang/veltc/internal/ast"

// passDesugar is pass 3: rewrite object and method definitions into their
// canonical AST shape. The parser already performs the purely syntactic
// desugarings (array/hash literals, `try!`, compound assignment — see
// internal/parser's grammar overview), so what is left here is shape
// normalization that depends on a method's surrounding declaration rather
// than its own tokens.
//
// A method bound by `impl Trait for Type { ... }` always dispatches on the
// receiving instance; "static" on such a method would be meaningless
// (there is no instance to implicitly supply as self), so trait-impl
// methods are canonicalized to instance methods here rather than carried
// through as a dangling possibility for later passes to special-case.
//
// Synthesizing the method's *explicit* self argument (spec.md §4.8's
// description of the TIR) happens later, in passGenerateTIR — the surface
// AST keeps self implicit (a nil Send.Receiver), and only the lowered
// representation needs it spelled out.
func passDesugar(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	for _, decl := range mod.Body.Decls {
		impl, ok := decl.(*ast.TraitImpl)
		if !ok {
			continue
		}
		for _, m := range impl.Methods {
			m.Static = false
		}
	}
	return v, true
}
