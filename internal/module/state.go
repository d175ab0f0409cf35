package module

import (
	"github.com/veltra-lang/veltc/internal/config"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/source"
	"github.com/veltra-lang/veltc/internal/types"
)

// State is the compiler state from spec.md §3: created once per
// compilation unit (a "run"), owned by the ModuleCompiler, released when
// compilation ends. Per spec.md §5 the core is single-threaded and
// cooperative by construction — no component publishes a handle to
// concurrent code — so unlike the teacher's Loader this carries no mutex.
type State struct {
	Config      config.Configuration
	Diagnostics *diag.Sink
	Modules     map[string]*Module
	Types       *types.Database
	Locator     *source.Locator

	// Signatures records the arity range and parameter names declared for
	// a method's *types.Block, keyed by the Block value passDefineTypeSignatures
	// produced for it. types.Block itself only carries argument *types*
	// (spec.md §3) — defaults, rest-parameters, and names live on the
	// originating ast.MethodDef, which isn't reachable from a Block alone
	// once it's been installed on an Object/Trait's Methods table.
	Signatures map[*types.Block]methodSignature
}

// methodSignature is the arity/parameter-name metadata a Block doesn't
// carry on its own. Max == unboundedArity marks a `*rest` parameter
// (spec.md testable property 10's "(1, ∞)" range).
type methodSignature struct {
	min, max   int
	paramNames []string
}

const unboundedArity = -1

// NewState builds a fresh run: an empty module table and a type database
// with its built-in prototypes already installed (spec.md's invariant
// that built-ins are installed exactly once, at state creation).
func NewState(cfg config.Configuration, locator *source.Locator) *State {
	return &State{
		Config:      cfg,
		Diagnostics: diag.NewSink(),
		Modules:     make(map[string]*Module),
		Types:       types.NewDatabase(),
		Locator:     locator,
		Signatures:  make(map[*types.Block]methodSignature),
	}
}
