package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/types"
)

const validateThrowPhase = "validate_throw"

// throwCtx is validate_throw's per-body context: what self resolves to,
// whether the node currently being checked is directly inside a try's
// body, this body's declared throw type (nil outside any declared-throw
// scope), and a flag recording whether a throw was ever reached so the
// unused-throw-type warning can fire once the body is fully walked.
type throwCtx struct {
	c             *ModuleCompiler
	self          types.Type
	insideTry     bool
	declaredThrow types.Type
	saw           *bool
}

// passValidateThrow is pass 16: catch every call to a throwing method not
// wrapped in try, warn when a declared throw type is never used, and warn
// about code after a terminating return/throw.
func passValidateThrow(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	topSaw := false
	validateThrowBody(throwCtx{c: c, self: mod.Type, saw: &topSaw}, bodyNodes(mod.Body))

	for _, decl := range mod.Body.Decls {
		switch d := decl.(type) {
		case *ast.ObjectDef:
			obj, _ := c.State.Types.LookupObjectType(d.Name)
			for _, m := range d.Methods {
				validateMethodThrow(c, m, obj)
			}
		case *ast.TraitDef:
			trait, _ := c.State.Types.LookupTraitType(d.Name)
			for _, m := range d.Methods {
				validateMethodThrow(c, m, trait)
			}
		case *ast.TraitImpl:
			obj, ok := c.State.Types.LookupObjectType(d.ForType)
			if !ok {
				continue
			}
			for _, m := range d.Methods {
				validateMethodThrow(c, m, obj)
			}
		case *ast.MethodDef:
			validateMethodThrow(c, d, mod.Type)
		}
	}
	return v, true
}

func validateMethodThrow(c *ModuleCompiler, m *ast.MethodDef, self types.Type) {
	if m.Body == nil {
		return
	}
	block, _ := m.ResolvedType.(*types.Block)
	saw := false
	ctx := throwCtx{c: c, self: self, saw: &saw}
	if block != nil {
		ctx.declaredThrow = block.ThrowType
	}
	validateThrowBody(ctx, m.Body)
	if ctx.declaredThrow != nil && !saw {
		c.State.Diagnostics.Add(diag.UnusedThrowType(validateThrowPhase, spanOf(m)))
	}
}

func validateThrowBody(ctx throwCtx, nodes []ast.Node) {
	for i, n := range nodes {
		validateThrowNode(ctx, n)
		if isTerminatingNode(n) && i+1 < len(nodes) {
			ctx.c.State.Diagnostics.Add(diag.UnreachableCode(validateThrowPhase, spanOf(nodes[i+1])))
			return
		}
	}
}

func isTerminatingNode(n ast.Node) bool {
	switch n.(type) {
	case *ast.ReturnExpr, *ast.ThrowExpr:
		return true
	default:
		return false
	}
}

func validateThrowNode(ctx throwCtx, n ast.Node) {
	switch x := n.(type) {
	case *ast.Send:
		if x.Receiver != nil {
			validateThrowNode(ctx, x.Receiver)
		}
		for _, a := range x.Args {
			validateThrowNode(ctx, a.Value)
		}
		if x.BlockArg != nil {
			validateThrowNode(ctx, x.BlockArg)
		}
		validateSendThrow(ctx, x)
	case *ast.BlockExpr:
		validateBlockThrow(ctx, x)
	case *ast.TryExpr:
		inner := ctx
		inner.insideTry = true
		validateThrowNode(inner, x.Body)
		validateThrowBody(ctx, x.ElseBody)
	case *ast.ReturnExpr:
		if x.Value != nil {
			validateThrowNode(ctx, x.Value)
		}
	case *ast.ThrowExpr:
		*ctx.saw = true
		validateThrowNode(ctx, x.Value)
	case *ast.VarDef:
		validateThrowNode(ctx, x.Value)
	case *ast.Reassign:
		validateThrowNode(ctx, x.Value)
	case *ast.TypeCast:
		validateThrowNode(ctx, x.Value)
	}
}

func validateSendThrow(ctx throwCtx, s *ast.Send) {
	var recvType types.Type = ctx.self
	if s.Receiver != nil {
		recvType = s.Receiver.ResolvedType()
	}
	if opt, ok := recvType.(*types.Optional); ok {
		recvType = opt.Inner
	}
	if recvType == nil {
		return
	}
	block, ok := lookupMethodOnType(ctx.c.State.Types, recvType, s.Method)
	if !ok || block.ThrowType == nil {
		return
	}
	*ctx.saw = true
	if !ctx.insideTry {
		ctx.c.State.Diagnostics.Add(diag.MissingTry(validateThrowPhase, spanOf(s), s.Method))
	}
}

func validateBlockThrow(ctx throwCtx, b *ast.BlockExpr) {
	block, _ := b.ResolvedType().(*types.Block)
	saw := false
	inner := throwCtx{c: ctx.c, self: ctx.self, saw: &saw}
	if block != nil {
		inner.declaredThrow = block.ThrowType
	}
	validateThrowBody(inner, b.Body)
	if inner.declaredThrow != nil && !saw {
		ctx.c.State.Diagnostics.Add(diag.UnusedThrowType(validateThrowPhase, spanOf(b)))
	}
}
