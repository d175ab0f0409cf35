package module

import (
	"strings"

	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/tracelog"
)

// ModuleCompiler orchestrates the fixed-order pass pipeline over a single
// run's State (C7, spec.md §4.7).
type ModuleCompiler struct {
	State  *State
	Reader FileReader
	Tracer *tracelog.Tracer
}

// NewModuleCompiler builds a compiler over state, reading source bytes
// through reader. tracer may be nil (tracelog.Tracer is nil-safe).
func NewModuleCompiler(state *State, reader FileReader, tracer *tracelog.Tracer) *ModuleCompiler {
	return &ModuleCompiler{State: state, Reader: reader, Tracer: tracer}
}

// qualifiedNameToLogicalPath turns a "::"-joined module name into the
// slash-delimited logical path the source locator expects.
func qualifiedNameToLogicalPath(name string) string {
	return strings.ReplaceAll(name, "::", "/") + sourceExtension
}

// splitQualifiedName breaks a "::"-joined module name into its path steps,
// the inverse of joinSteps below.
func splitQualifiedName(name string) []string {
	return strings.Split(name, "::")
}

// joinSteps rejoins an Import's path steps into a qualified module name.
func joinSteps(steps []string) string {
	return strings.Join(steps, "::")
}

// Compile resolves name to a file, registers an empty Module before
// running any pass — the "register-before-compile" protocol spec.md §9
// describes for breaking cyclic imports — then runs the fixed pipeline.
// It always returns the module record; callers inspect
// c.State.Diagnostics for failure. A name already present in the run's
// module table (whether finished or still in flight) is returned as-is
// without re-running the pipeline, which is what makes a cycle terminate:
// the second module in the cycle observes the first's in-flight record
// instead of recursing into it again.
func (c *ModuleCompiler) Compile(name string) *Module {
	if existing, ok := c.State.Modules[name]; ok {
		return existing
	}

	mod := newModule(name)
	c.State.Modules[name] = mod

	res, found := c.State.Locator.Resolve(qualifiedNameToLogicalPath(name))
	if !found {
		c.State.Diagnostics.Add(diag.ModuleNotFound("path_to_source", ast.Span{}, name))
		return mod
	}

	v := passValue{path: res.AbsolutePath}
	for _, p := range pipeline {
		c.Tracer.PassStart(name, p.name)

		next, cont := p.run(c, mod, v)

		switch {
		case c.State.Diagnostics.HasErrors():
			c.Tracer.PassFail(name, p.name, len(c.State.Diagnostics.Errors()))
			return mod
		case len(c.State.Diagnostics.Warnings()) > 0:
			c.Tracer.PassWarn(name, p.name, len(c.State.Diagnostics.Warnings()))
		default:
			c.Tracer.PassOK(name, p.name)
		}

		if !cont {
			return mod
		}
		v = next
	}
	return mod
}
