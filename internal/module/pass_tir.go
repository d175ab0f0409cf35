package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/symtab"
	"github.com/veltra-lang/veltc/internal/types"
)

// passGenerateTIR is pass 17: lower every checked method body into the
// typed intermediate representation, resolving identifiers to slot
// indices via the symbol tables "setup symbol tables" (pass 10) built and
// "define type" (pass 15) finished annotating.
func passGenerateTIR(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	top := &Method{Name: mod.QualifiedName, Self: mod.Type}
	for _, n := range bodyNodes(mod.Body) {
		top.Body = append(top.Body, lowerExpr(mod, mod.Scopes[mod.Body], mod.Type, n))
	}
	// nil keys its own entry: module top-level code has no originating
	// *ast.MethodDef, but still needs lowering (module-scope `let`
	// bindings and initialization sends run once, like an implicit init).
	mod.TIR[nil] = top

	for _, decl := range mod.Body.Decls {
		switch d := decl.(type) {
		case *ast.ObjectDef:
			obj, _ := c.State.Types.LookupObjectType(d.Name)
			for _, m := range d.Methods {
				generateMethodTIR(mod, m, obj)
			}
		case *ast.TraitDef:
			trait, _ := c.State.Types.LookupTraitType(d.Name)
			for _, m := range d.Methods {
				generateMethodTIR(mod, m, trait)
			}
		case *ast.TraitImpl:
			obj, ok := c.State.Types.LookupObjectType(d.ForType)
			if !ok {
				continue
			}
			for _, m := range d.Methods {
				generateMethodTIR(mod, m, obj)
			}
		case *ast.MethodDef:
			generateMethodTIR(mod, d, mod.Type)
		}
	}
	return v, true
}

func generateMethodTIR(mod *Module, m *ast.MethodDef, self types.Type) {
	if m.Body == nil {
		return
	}
	block, _ := m.ResolvedType.(*types.Block)
	scope := mod.Scopes[m]

	params := make([]Local, len(m.Params))
	for i, p := range m.Params {
		sym := scope.Get(p.Name)
		var typ types.Type = types.Dynamic{}
		if block != nil && i < len(block.Arguments) {
			typ = block.Arguments[i]
		}
		params[i] = Local{Name: p.Name, Index: sym.Index, Type: typ}
	}

	tm := &Method{Name: m.Name, Self: self, Params: params}
	if block != nil {
		tm.ReturnType = block.ReturnType
		tm.ThrowType = block.ThrowType
	}
	for _, n := range m.Body {
		tm.Body = append(tm.Body, lowerExpr(mod, scope, self, n))
	}
	mod.TIR[m] = tm
}

// lowerExpr lowers a single AST node into its TIR form. nil input (an
// absent optional child, e.g. a bare `return`) lowers to nil.
func lowerExpr(mod *Module, scope *symtab.Table, self types.Type, n ast.Node) Node {
	if n == nil {
		return nil
	}
	e, ok := n.(ast.Expr)
	if !ok {
		return nil
	}
	typ := e.ResolvedType()
	if typ == nil {
		typ = types.Dynamic{}
	}

	switch x := e.(type) {
	case *ast.Literal:
		return &LitExpr{base: base{typ}, Value: x.Value}
	case *ast.Identifier:
		return lowerIdentifier(mod, scope, self, typ, x)
	case *ast.Constant:
		return lowerConstant(mod, scope, self, typ, x)
	case *ast.Global:
		return &GlobalExpr{base: base{typ}, Name: x.Name}
	case *ast.AttributeRef:
		return &AttributeExpr{base: base{typ}, Name: x.Name}
	case *ast.SelfExpr:
		return &SelfExpr{base: base{typ}}
	case *ast.Send:
		return lowerSend(mod, scope, self, typ, x)
	case *ast.BlockExpr:
		return &ClosureExpr{base: base{typ}, Target: lowerBlock(mod, scope, self, x)}
	case *ast.ReturnExpr:
		return &ReturnExpr{base: base{typ}, Value: lowerExpr(mod, scope, self, x.Value)}
	case *ast.ThrowExpr:
		return &ThrowExpr{base: base{typ}, Value: lowerExpr(mod, scope, self, x.Value)}
	case *ast.TryExpr:
		return lowerTry(mod, scope, self, typ, x)
	case *ast.VarDef:
		sym := scope.Get(x.Name)
		return &StoreLocalExpr{base: base{typ}, Index: sym.Index, Value: lowerExpr(mod, scope, self, x.Value)}
	case *ast.Reassign:
		return lowerReassign(mod, scope, self, typ, x)
	case *ast.TypeCast:
		return lowerExpr(mod, scope, self, x.Value)
	default:
		return &LitExpr{base: base{typ}, Value: nil}
	}
}

func lowerIdentifier(mod *Module, scope *symtab.Table, self types.Type, typ types.Type, id *ast.Identifier) Node {
	if scope != nil {
		if _, sym := scope.LookupWithParent(id.Name); !sym.IsNull() {
			return &LocalExpr{base: base{typ}, Index: sym.Index}
		}
	}
	if _, ok := lookupMethodOnType(nil, self, id.Name); ok {
		return &SendExpr{base: base{typ}, Method: id.Name}
	}
	return &GlobalExpr{base: base{typ}, Name: id.Name}
}

func lowerConstant(mod *Module, scope *symtab.Table, self types.Type, typ types.Type, c *ast.Constant) Node {
	if c.Receiver == nil {
		return &GlobalExpr{base: base{typ}, Name: c.Name}
	}
	recv := lowerExpr(mod, scope, self, c.Receiver)
	return &AttributeExpr{base: base{typ}, Name: qualifiedConstantName(recv, c.Name)}
}

func qualifiedConstantName(recv Node, name string) string {
	if g, ok := recv.(*GlobalExpr); ok {
		return g.Name + "::" + name
	}
	return name
}

func lowerSend(mod *Module, scope *symtab.Table, self types.Type, typ types.Type, s *ast.Send) Node {
	send := &SendExpr{base: base{typ}, Receiver: lowerExpr(mod, scope, self, s.Receiver), Method: s.Method}
	for _, a := range s.Args {
		send.Args = append(send.Args, lowerExpr(mod, scope, self, a.Value))
	}
	if s.BlockArg != nil {
		send.Block = lowerBlock(mod, scope, self, s.BlockArg)
	}
	return send
}

func lowerBlock(mod *Module, scope *symtab.Table, self types.Type, b *ast.BlockExpr) *Method {
	blockScope := mod.Scopes[b]
	block, _ := b.ResolvedType().(*types.Block)

	params := make([]Local, len(b.Params))
	for i, p := range b.Params {
		sym := blockScope.Get(p.Name)
		var ptyp types.Type = types.Dynamic{}
		if block != nil && i < len(block.Arguments) {
			ptyp = block.Arguments[i]
		}
		params[i] = Local{Name: p.Name, Index: sym.Index, Type: ptyp}
	}

	tm := &Method{Params: params}
	if block != nil {
		tm.ReturnType = block.ReturnType
		tm.ThrowType = block.ThrowType
	}
	for _, n := range b.Body {
		tm.Body = append(tm.Body, lowerExpr(mod, blockScope, self, n))
	}
	return tm
}

func lowerTry(mod *Module, scope *symtab.Table, self types.Type, typ types.Type, t *ast.TryExpr) Node {
	elseScope := mod.Scopes[t]
	tir := &TryExpr{base: base{typ}, Body: lowerExpr(mod, scope, self, t.Body), ElseLocal: -1}
	if t.ElseArg != "" && elseScope != nil {
		tir.ElseLocal = elseScope.Get(t.ElseArg).Index
	}
	for _, n := range t.ElseBody {
		tir.ElseBody = append(tir.ElseBody, lowerExpr(mod, elseScope, self, n))
	}
	return tir
}

func lowerReassign(mod *Module, scope *symtab.Table, self types.Type, typ types.Type, r *ast.Reassign) Node {
	value := lowerExpr(mod, scope, self, r.Value)
	switch target := r.Target.(type) {
	case *ast.Identifier:
		_, sym := scope.LookupWithParent(target.Name)
		return &StoreLocalExpr{base: base{typ}, Index: sym.Index, Value: value}
	case *ast.AttributeRef:
		return &StoreAttributeExpr{base: base{typ}, Name: target.Name, Value: value}
	default:
		return value
	}
}
