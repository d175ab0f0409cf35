package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/types"
)

// checkSend is the Send inference rule from spec.md §4.8: resolve the
// receiver (or self, implicitly), look the method up on its type, check
// the argument count against the method's declared arity range, check
// each argument's type against the method's declared parameter type
// (substituting any bound type parameters), and resolve the return type —
// applying the Optional chain rule last, after every other substitution.
func checkSend(ctx checkCtx, s *ast.Send) types.Type {
	var recvType types.Type
	if s.Receiver != nil {
		recvType = checkExpr(ctx, s.Receiver)
	} else {
		recvType = ctx.self
	}
	for _, a := range s.Args {
		checkExpr(ctx, a.Value)
	}
	if s.BlockArg != nil {
		checkExpr(ctx, s.BlockArg)
	}
	if _, ok := recvType.(types.ErrorType); ok {
		return types.ErrorType{}
	}

	if opt, ok := recvType.(*types.Optional); ok {
		return checkOptionalSend(ctx, s, opt)
	}
	return checkSendOnReceiver(ctx, s, recvType)
}

// checkOptionalSend implements the Optional chain rule (testable
// property 9): a send on Optional(T) succeeds directly if Nil defines the
// method; otherwise it's looked up on T and the result is wrapped in
// Optional(.).
func checkOptionalSend(ctx checkCtx, s *ast.Send, opt *types.Optional) types.Type {
	nilType := ctx.c.State.Types.NilType()
	if _, ok := lookupMethodOnType(ctx.c.State.Types, nilType, s.Method); ok {
		return checkSendOnReceiver(ctx, s, nilType)
	}
	inner := checkSendOnReceiver(ctx, s, opt.Inner)
	if _, ok := inner.(types.ErrorType); ok {
		return inner
	}
	return ctx.c.State.Types.NewOptionalType(inner)
}

func checkSendOnReceiver(ctx checkCtx, s *ast.Send, recvType types.Type) types.Type {
	block, ok := lookupMethodOnType(ctx.c.State.Types, recvType, s.Method)
	if !ok {
		ctx.c.State.Diagnostics.Add(diag.UndefinedMethod("define_type", spanOf(s), recvType.String(), s.Method))
		return types.ErrorType{}
	}

	sig, hasSig := ctx.c.State.Signatures[block]
	checkArity(ctx, s, hasSig, sig)

	bindings := receiverBindings(recvType)
	argTypes := make([]types.Type, len(s.Args))
	for i, a := range s.Args {
		argTypes[i] = a.Value.ResolvedType()
		if argTypes[i] == nil {
			argTypes[i] = types.Dynamic{}
		}
	}
	checkArgumentTypes(ctx, s, block, sig, hasSig, argTypes)
	inferTypeParamBindings(block, argTypes, bindings)

	return substitute(block.ReturnType, bindings)
}

func checkArity(ctx checkCtx, s *ast.Send, hasSig bool, sig methodSignature) {
	if !hasSig {
		return // a primitive or other method with no recorded signature: trust argument count
	}
	got := len(s.Args)
	if got >= sig.min && (sig.max == unboundedArity || got <= sig.max) {
		return
	}
	span := spanOf(s)
	if sig.max == unboundedArity {
		ctx.c.State.Diagnostics.Add(diag.ArgumentCountBelowMinimum("define_type", span, s.Method, sig.min, got))
		return
	}
	ctx.c.State.Diagnostics.Add(diag.ArgumentCountOutOfRange("define_type", span, s.Method, sig.min, sig.max, got))
}

func checkArgumentTypes(ctx checkCtx, s *ast.Send, block *types.Block, sig methodSignature, hasSig bool, argTypes []types.Type) {
	for i, a := range s.Args {
		idx := i
		if a.Name != "" && hasSig {
			found := -1
			for pi, name := range sig.paramNames {
				if name == a.Name {
					found = pi
					break
				}
			}
			if found == -1 {
				ctx.c.State.Diagnostics.Add(diag.UnknownKeywordArgument("define_type", spanOf(s), s.Method, a.Name))
				continue
			}
			idx = found
		}
		if idx < 0 || idx >= len(block.Arguments) {
			continue // rest parameter: untyped passthrough
		}
		declared := block.Arguments[idx]
		if !typesCompatible(declared, argTypes[i]) {
			ctx.c.State.Diagnostics.Add(diag.TypeMismatchReport("define_type", spanOf(s), declared.String(), argTypes[i].String()))
		}
	}
}

// lookupMethodOnType resolves a method by name on any receiver type shape:
// a primitive's attribute table, an object's Methods table (falling back
// through its prototype chain), or a trait's Methods table.
func lookupMethodOnType(db *types.Database, recv types.Type, name string) (*types.Block, bool) {
	switch t := recv.(type) {
	case *types.Primitive:
		typ, ok := db.LookupMethod(t, name)
		if !ok {
			return nil, false
		}
		block, ok := typ.(*types.Block)
		return block, ok
	case *types.Object:
		for obj := t; obj != nil; obj = obj.Prototype {
			sym := obj.Methods.Get(name)
			if !sym.IsNull() {
				if block, ok := sym.Type.(*types.Block); ok {
					return block, true
				}
			}
		}
		return nil, false
	case *types.Trait:
		sym := t.Methods.Get(name)
		if sym.IsNull() {
			return nil, false
		}
		block, ok := sym.Type.(*types.Block)
		return block, ok
	default:
		return nil, false
	}
}

// receiverBindings seeds a substitution map from a shallow-instance
// receiver's already-bound type parameters (e.g. calling a method on a
// Box!(Integer) binds T -> Integer before the method's own arguments are
// considered).
func receiverBindings(recv types.Type) map[string]types.Type {
	bindings := map[string]types.Type{}
	if obj, ok := recv.(*types.Object); ok && obj.TypeParams != nil {
		for _, name := range obj.TypeParams.Names() {
			if bound, ok := obj.TypeParams.Get(name); ok && bound != nil {
				bindings[name] = bound
			}
		}
	}
	return bindings
}

// inferTypeParamBindings extends bindings with whatever a method's own
// type parameters can be inferred to be from the actual argument types at
// this call site, by matching each declared argument type against the
// corresponding actual argument type position by position.
func inferTypeParamBindings(block *types.Block, argTypes []types.Type, bindings map[string]types.Type) {
	for i, declared := range block.Arguments {
		if i >= len(argTypes) {
			break
		}
		bindTypeParam(declared, argTypes[i], bindings)
	}
}

func bindTypeParam(declared, actual types.Type, bindings map[string]types.Type) {
	switch d := declared.(type) {
	case *types.TypeParameter:
		if _, ok := bindings[d.Name]; !ok {
			bindings[d.Name] = actual
		}
	case *types.Optional:
		if a, ok := actual.(*types.Optional); ok {
			bindTypeParam(d.Inner, a.Inner, bindings)
		}
	}
}

// substitute applies bindings to t, one level deep into an Object's own
// type-parameter table and through Optional — spec.md §4.4's "shallow
// instance" generic model does not need a deeper walk than this.
func substitute(t types.Type, bindings map[string]types.Type) types.Type {
	if t == nil {
		return types.Dynamic{}
	}
	switch v := t.(type) {
	case *types.TypeParameter:
		if bound, ok := bindings[v.Name]; ok {
			return bound
		}
		return t
	case *types.Optional:
		return &types.Optional{Inner: substitute(v.Inner, bindings)}
	case *types.Object:
		if v.TypeParams == nil || v.TypeParams.Len() == 0 {
			return t
		}
		params := v.TypeParams.Clone()
		for _, name := range v.TypeParams.Names() {
			if bound, ok := v.TypeParams.Get(name); ok && bound != nil {
				params.Initialize(name, substitute(bound, bindings))
			}
		}
		return &types.Object{Name: v.Name, Prototype: v.Prototype, Attributes: v.Attributes, TypeParams: params, Traits: v.Traits, Methods: v.Methods}
	default:
		return t
	}
}

// typesCompatible is the condensed compatibility check: Dynamic and
// ErrorType are compatible with anything (an escape hatch and a
// failure marker respectively, neither worth cascading more diagnostics
// from), a trait-typed expectation accepts any implementing object, and
// everything else falls back to structural Equal.
func typesCompatible(expected, actual types.Type) bool {
	if expected == nil || actual == nil {
		return true
	}
	if _, ok := expected.(types.Dynamic); ok {
		return true
	}
	if _, ok := actual.(types.Dynamic); ok {
		return true
	}
	if _, ok := expected.(types.ErrorType); ok {
		return true
	}
	if _, ok := actual.(types.ErrorType); ok {
		return true
	}
	if trait, ok := expected.(*types.Trait); ok {
		if obj, ok := actual.(*types.Object); ok {
			return obj.ImplementsTrait(trait)
		}
	}
	return expected.Equal(actual)
}
