package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/symtab"
	"github.com/veltra-lang/veltc/internal/types"
)

// checkCtx is the inference context threaded through one method/block
// body: the scope table active at this point, what `self` and `return`
// resolve to, and the throw type in effect for `throw` expressions.
type checkCtx struct {
	c              *ModuleCompiler
	mod            *Module
	self           types.Type
	scope          *symtab.Table
	declaredThrow  types.Type
	declaredReturn types.Type
	insideMethod   bool
}

// passDefineType is pass 15: the condensed type inference rules from
// spec.md §4.8. It annotates every ast.Expr reachable from a method body
// (and the module's own top-level body) with a resolved type, reporting a
// diagnostic and falling back to types.ErrorType{} wherever resolution
// fails.
func passDefineType(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	topCtx := checkCtx{c: c, mod: mod, self: mod.Type, scope: mod.Scopes[mod.Body]}
	for _, n := range bodyNodes(mod.Body) {
		checkNode(topCtx, n)
	}

	for _, decl := range mod.Body.Decls {
		switch d := decl.(type) {
		case *ast.ObjectDef:
			obj, _ := c.State.Types.LookupObjectType(d.Name)
			for _, m := range d.Methods {
				checkMethodBody(c, mod, m, obj)
			}
		case *ast.TraitDef:
			trait, _ := c.State.Types.LookupTraitType(d.Name)
			for _, m := range d.Methods {
				checkMethodBody(c, mod, m, trait)
			}
		case *ast.TraitImpl:
			obj, ok := c.State.Types.LookupObjectType(d.ForType)
			if !ok {
				continue
			}
			for _, m := range d.Methods {
				checkMethodBody(c, mod, m, obj)
			}
		case *ast.MethodDef:
			checkMethodBody(c, mod, d, mod.Type)
		}
	}
	return v, true
}

func checkMethodBody(c *ModuleCompiler, mod *Module, m *ast.MethodDef, self types.Type) {
	if m.Body == nil {
		return // required method
	}
	block, ok := m.ResolvedType.(*types.Block)
	if !ok {
		return
	}
	scope := mod.Scopes[m]
	for i, p := range m.Params {
		if i < len(block.Arguments) {
			scope.Reassign(p.Name, block.Arguments[i])
		}
	}
	ctx := checkCtx{
		c: c, mod: mod, self: self, scope: scope,
		declaredThrow: block.ThrowType, declaredReturn: block.ReturnType,
		insideMethod: true,
	}
	for _, n := range m.Body {
		checkNode(ctx, n)
	}
}

// checkNode dispatches on whatever non-Expr statement-shaped nodes can
// appear in a body (VarDef, Reassign, ReturnExpr, ThrowExpr are all Expr
// too, so this is really just checkExpr with a Node-typed parameter).
func checkNode(ctx checkCtx, n ast.Node) types.Type {
	e, ok := n.(ast.Expr)
	if !ok {
		return types.ErrorType{}
	}
	return checkExpr(ctx, e)
}

func checkExpr(ctx checkCtx, e ast.Expr) types.Type {
	var t types.Type
	switch n := e.(type) {
	case *ast.Literal:
		t = checkLiteral(ctx, n)
	case *ast.Identifier:
		t = checkIdentifier(ctx, n)
	case *ast.Constant:
		t = checkConstant(ctx, n)
	case *ast.Global:
		t = checkGlobal(ctx, n)
	case *ast.AttributeRef:
		t = checkAttributeRef(ctx, n)
	case *ast.SelfExpr:
		t = ctx.self
	case *ast.Send:
		t = checkSend(ctx, n)
	case *ast.BlockExpr:
		t = checkBlockExpr(ctx, n)
	case *ast.ReturnExpr:
		t = checkReturn(ctx, n)
	case *ast.ThrowExpr:
		t = checkThrow(ctx, n)
	case *ast.TryExpr:
		t = checkTry(ctx, n)
	case *ast.VarDef:
		t = checkVarDef(ctx, n)
	case *ast.Reassign:
		t = checkReassign(ctx, n)
	case *ast.TypeCast:
		t = checkTypeCast(ctx, n)
	case *ast.ErrorNode:
		t = types.ErrorType{}
	default:
		t = types.Dynamic{}
	}
	e.SetResolvedType(t)
	return t
}

func checkLiteral(ctx checkCtx, l *ast.Literal) types.Type {
	db := ctx.c.State.Types
	switch l.Kind {
	case ast.IntLit:
		return db.IntegerType()
	case ast.FloatLit:
		return db.FloatType()
	case ast.StringLit:
		return db.StringType()
	case ast.BoolLit:
		return db.BooleanType()
	case ast.NilLit:
		return db.NilType()
	default:
		return types.Dynamic{}
	}
}

// checkIdentifier resolves in the order spec.md §4.8 gives: the current
// block's arguments, then its enclosing method's locals, then a method on
// self, then a module global.
func checkIdentifier(ctx checkCtx, id *ast.Identifier) types.Type {
	if ctx.scope != nil {
		if _, sym := ctx.scope.LookupWithParent(id.Name); !sym.IsNull() {
			if t, ok := sym.Type.(types.Type); ok {
				return t
			}
		}
	}
	if block, ok := lookupMethodOnType(ctx.c.State.Types, ctx.self, id.Name); ok {
		return block.ReturnType
	}
	if sym := ctx.mod.Globals.Get(id.Name); !sym.IsNull() {
		if t, ok := sym.Type.(types.Type); ok {
			return t
		}
	}
	ctx.c.State.Diagnostics.Add(diag.UndefinedLocal("define_type", spanOf(id), id.Name))
	return types.ErrorType{}
}

// checkConstant resolves block -> method -> self -> module, chaining
// through a receiver expression for qualified A::B paths.
func checkConstant(ctx checkCtx, c *ast.Constant) types.Type {
	if c.Receiver != nil {
		recvType := checkExpr(ctx, c.Receiver)
		if obj, ok := recvType.(*types.Object); ok {
			if sym := obj.Attributes.Get(c.Name); !sym.IsNull() {
				if t, ok := sym.Type.(types.Type); ok {
					return t
				}
			}
		}
		ctx.c.State.Diagnostics.Add(diag.UndefinedConstant("define_type", spanOf(c), c.Name))
		return types.ErrorType{}
	}

	if ctx.scope != nil {
		if _, sym := ctx.scope.LookupWithParent(c.Name); !sym.IsNull() {
			if t, ok := sym.Type.(types.Type); ok {
				return t
			}
		}
	}
	if obj, ok := ctx.self.(*types.Object); ok {
		if sym := obj.Attributes.Get(c.Name); !sym.IsNull() {
			if t, ok := sym.Type.(types.Type); ok {
				return t
			}
		}
	}
	if sym := ctx.mod.Attributes.Get(c.Name); !sym.IsNull() {
		if t, ok := sym.Type.(types.Type); ok {
			return t
		}
	}
	if sym := ctx.mod.Globals.Get(c.Name); !sym.IsNull() {
		if t, ok := sym.Type.(types.Type); ok {
			return t
		}
	}
	ctx.c.State.Diagnostics.Add(diag.UndefinedConstant("define_type", spanOf(c), c.Name))
	return types.ErrorType{}
}

func checkGlobal(ctx checkCtx, g *ast.Global) types.Type {
	if sym := ctx.mod.Globals.Get(g.Name); !sym.IsNull() {
		if t, ok := sym.Type.(types.Type); ok {
			return t
		}
	}
	ctx.c.State.Diagnostics.Add(diag.UndefinedConstant("define_type", spanOf(g), g.Name))
	return types.ErrorType{}
}

func checkAttributeRef(ctx checkCtx, a *ast.AttributeRef) types.Type {
	obj, ok := ctx.self.(*types.Object)
	if !ok {
		ctx.c.State.Diagnostics.Add(diag.UndefinedAttribute("define_type", spanOf(a), a.Name))
		return types.ErrorType{}
	}
	sym := obj.Attributes.Get(a.Name)
	if sym.IsNull() {
		ctx.c.State.Diagnostics.Add(diag.UndefinedAttribute("define_type", spanOf(a), a.Name))
		return types.ErrorType{}
	}
	t, ok := sym.Type.(types.Type)
	if !ok {
		return types.Dynamic{}
	}
	return t
}

func checkBlockExpr(ctx checkCtx, b *ast.BlockExpr) types.Type {
	scope := ctx.mod.Scopes[b]
	resolver := &typeResolver{db: ctx.c.State.Types, sink: ctx.c.State.Diagnostics, phase: "define_type", self: ctx.self}
	args := make([]types.Type, len(b.Params))
	for i, p := range b.Params {
		args[i] = resolver.resolve(p.Type)
		if scope != nil {
			scope.Reassign(p.Name, args[i])
		}
	}
	var throwType types.Type
	if b.ThrowType != nil {
		throwType = resolver.resolve(b.ThrowType)
	}

	inner := ctx
	inner.scope = scope
	inner.declaredThrow = throwType
	inner.declaredReturn = nil
	if b.ReturnType != nil {
		inner.declaredReturn = resolver.resolve(b.ReturnType)
	}

	var last types.Type = ctx.c.State.Types.NilType()
	for _, n := range b.Body {
		last = checkNode(inner, n)
	}
	returnType := inner.declaredReturn
	if returnType == nil {
		returnType = last
	}
	return ctx.c.State.Types.NewBlockType(convertBlockKind(b.Kind), args, throwType, returnType)
}

func checkReturn(ctx checkCtx, r *ast.ReturnExpr) types.Type {
	var valType types.Type = ctx.c.State.Types.NilType()
	if r.Value != nil {
		valType = checkExpr(ctx, r.Value)
	}
	if ctx.declaredReturn != nil && !typesCompatible(ctx.declaredReturn, valType) {
		ctx.c.State.Diagnostics.Add(diag.ReturnTypeMismatch("define_type", spanOf(r), ctx.declaredReturn.String(), valType.String()))
	}
	return valType
}

func checkThrow(ctx checkCtx, t *ast.ThrowExpr) types.Type {
	valType := checkExpr(ctx, t.Value)
	if !ctx.insideMethod {
		ctx.c.State.Diagnostics.Add(diag.ThrowAtTopLevel("define_type", spanOf(t)))
		return valType
	}
	if ctx.declaredThrow == nil {
		ctx.c.State.Diagnostics.Add(diag.ThrowWithoutDeclaredType("define_type", spanOf(t)))
		return valType
	}
	if !typesCompatible(ctx.declaredThrow, valType) {
		ctx.c.State.Diagnostics.Add(diag.TypeMismatchReport("define_type", spanOf(t), ctx.declaredThrow.String(), valType.String()))
	}
	return valType
}

// checkTry's result type is the body expression's type; the else clause is
// checked for its own sake (its locals, its uses) but does not have to
// agree with the body's type — it always runs instead of the body, not
// alongside it.
func checkTry(ctx checkCtx, t *ast.TryExpr) types.Type {
	bodyType := checkExpr(ctx, t.Body)
	elseScope := ctx.mod.Scopes[t]
	elseCtx := ctx
	elseCtx.scope = elseScope
	for _, n := range t.ElseBody {
		checkNode(elseCtx, n)
	}
	return bodyType
}

func checkVarDef(ctx checkCtx, v *ast.VarDef) types.Type {
	valType := checkExpr(ctx, v.Value)
	declared := valType
	if v.Type != nil {
		resolver := &typeResolver{db: ctx.c.State.Types, sink: ctx.c.State.Diagnostics, phase: "define_type", self: ctx.self}
		declared = resolver.resolve(v.Type)
		if !typesCompatible(declared, valType) {
			ctx.c.State.Diagnostics.Add(diag.TypeMismatchReport("define_type", spanOf(v), declared.String(), valType.String()))
		}
	}
	if ctx.scope != nil {
		ctx.scope.Reassign(v.Name, declared)
	}
	return declared
}

func checkReassign(ctx checkCtx, r *ast.Reassign) types.Type {
	valType := checkExpr(ctx, r.Value)
	switch target := r.Target.(type) {
	case *ast.Identifier:
		depth, sym := -1, symtab.NullSymbol
		if ctx.scope != nil {
			depth, sym = ctx.scope.LookupWithParent(target.Name)
		}
		if depth == -1 {
			ctx.c.State.Diagnostics.Add(diag.UndefinedReassign("define_type", spanOf(r), target.Name))
			break
		}
		if !sym.Mutable {
			ctx.c.State.Diagnostics.Add(diag.ImmutableReassign("define_type", spanOf(r), target.Name))
			break
		}
		if t, ok := sym.Type.(types.Type); ok && !typesCompatible(t, valType) {
			ctx.c.State.Diagnostics.Add(diag.TypeMismatchReport("define_type", spanOf(r), t.String(), valType.String()))
		}
	case *ast.AttributeRef:
		obj, ok := ctx.self.(*types.Object)
		if !ok {
			ctx.c.State.Diagnostics.Add(diag.UndefinedAttribute("define_type", spanOf(r), target.Name))
			break
		}
		sym := obj.Attributes.Get(target.Name)
		if sym.IsNull() {
			ctx.c.State.Diagnostics.Add(diag.UndefinedAttribute("define_type", spanOf(r), target.Name))
			break
		}
		if t, ok := sym.Type.(types.Type); ok && !typesCompatible(t, valType) {
			ctx.c.State.Diagnostics.Add(diag.TypeMismatchReport("define_type", spanOf(r), t.String(), valType.String()))
		}
	}
	return valType
}

func checkTypeCast(ctx checkCtx, c *ast.TypeCast) types.Type {
	checkExpr(ctx, c.Value)
	resolver := &typeResolver{db: ctx.c.State.Types, sink: ctx.c.State.Diagnostics, phase: "define_type", self: ctx.self}
	return resolver.resolve(c.Type)
}

func spanOf(n ast.Node) ast.Span {
	return ast.Span{Start: n.Position(), End: n.Position()}
}
