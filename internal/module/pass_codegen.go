package module

// passCodeGeneration is pass 19, the pipeline's last step. Lowering TIR to
// bytecode is an explicit Non-goal of this compiler core — the bytecode
// format and VM belong to a separate collaborator — so this pass exists
// only to occupy the slot spec.md's fixed pipeline reserves for it. It
// always succeeds and does not touch the module.
func passCodeGeneration(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	return v, true
}
