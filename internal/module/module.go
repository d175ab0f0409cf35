// Package module implements the module compiler (C7) and its fixed-order
// pass pipeline (C8): given a logical module name, it resolves a source
// file, parses it, and runs semantic analysis over the AST in place,
// annotating nodes with resolved types and reporting diagnostics.
package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/symtab"
	"github.com/veltra-lang/veltc/internal/types"
)

// Reserved constants. Redefining any of these at module or constant scope
// reports NameReservedConstant (spec.md testable property 11).
const (
	ThisModuleConstant = "ThisModule"
	RawInstructionName  = "_INKOC"
	SelfTypeConstant    = "Self"
)

// IsReservedConstant reports whether name is one of the three names a
// program may never redefine.
func IsReservedConstant(name string) bool {
	switch name {
	case ThisModuleConstant, RawInstructionName, SelfTypeConstant:
		return true
	default:
		return false
	}
}

// Well-known globals the parser's desugarings already reference by name
// (array/hash-map literals — see internal/parser's grammar overview).
const (
	ArrayGlobal = "Array"
	MapGlobal   = "Map"
)

// sourceExtension is the logical-path suffix the source locator (C1)
// expects, and the suffix a qualified module name is given before being
// handed to it.
const sourceExtension = ".velt"

// Module is a single compilation unit (spec.md §3's Module record).
//
// Body is nil from the moment ModuleCompiler.Compile registers the record
// until the "source -> AST" pass fills it in. A cyclic import observing a
// Module mid-compile still sees a usable Type, installed by the "define
// module type" pass before imports are ever processed (spec.md §9) — so a
// cycle resolves to the in-flight record instead of recursing forever.
type Module struct {
	QualifiedName  string
	Body           *ast.File
	Attributes     *symtab.Table
	Globals        *symtab.Table
	Imports        []*ast.Import
	Type           *types.Object
	SourceLocation ast.Pos

	// Scopes attaches a symbol table to every scope-introducing AST node
	// (method and block bodies), keyed by node identity rather than a
	// field on the node itself — ast.Node is a small, already-stable
	// interface shared by the parser, and interface values holding
	// pointers are valid, comparable map keys. Owned by the module per
	// spec.md §5's resource policy.
	Scopes map[ast.Node]*symtab.Table

	// TIR holds the lowered method bodies produced by the "generate TIR"
	// pass, keyed by the originating *ast.MethodDef. The nil key holds the
	// module's own top-level body, which has no originating MethodDef.
	TIR map[*ast.MethodDef]*Method

	// imported is the set of dependency qualified names already handed to
	// passCompileImportedModules, in declaration order — "Compile imported
	// modules" (pass 9) walks this to avoid recompiling a module twice
	// when two imports name the same dependency.
	imported []string
	seen     map[string]bool
}

func newModule(name string) *Module {
	return &Module{
		QualifiedName: name,
		Attributes:    symtab.New(nil),
		Globals:       symtab.New(nil),
		Scopes:        make(map[ast.Node]*symtab.Table),
		TIR:           make(map[*ast.MethodDef]*Method),
		seen:          make(map[string]bool),
	}
}

// addDependency records dep as a compile-order dependency, returning false
// if it was already recorded (so callers can skip recompiling it).
func (m *Module) addDependency(dep string) bool {
	if m.seen[dep] {
		return false
	}
	m.seen[dep] = true
	m.imported = append(m.imported, dep)
	return true
}
