package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/symtab"
	"github.com/veltra-lang/veltc/internal/types"
)

// passSetupSymbolTables is pass 10: walk the AST attaching a symbol table
// to every scope-introducing node (module body, method body, block/lambda
// body, a try's else clause) with the correct parent chain. Parameters and
// `let` bindings are defined into the table of the scope that introduces
// them; a nested block's table parents onto its enclosing method or block,
// matching the identifier-resolution order spec.md §4.8 describes ("the
// current block's arguments, then its enclosing method's locals").
//
// self-method lookup and module-global lookup are not modeled as parent
// tables here — they are separate namespaces consulted explicitly by the
// "define type" pass's identifier resolution, not part of this lexical
// chain.
func passSetupSymbolTables(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	top := symtab.New(nil)
	top.Define("self", mod.Type, false)
	mod.Scopes[mod.Body] = top
	walkScopeBody(mod, top, bodyNodes(mod.Body))

	for _, decl := range mod.Body.Decls {
		switch d := decl.(type) {
		case *ast.ObjectDef:
			for _, m := range d.Methods {
				setupMethodScope(mod, m)
			}
		case *ast.TraitDef:
			for _, m := range d.Methods {
				setupMethodScope(mod, m)
			}
		case *ast.TraitImpl:
			for _, m := range d.Methods {
				setupMethodScope(mod, m)
			}
		case *ast.MethodDef:
			setupMethodScope(mod, d)
		}
	}
	return v, true
}

// bodyNodes adapts a *ast.File's top-level declarations into the []ast.Node
// shape the rest of the walker works over, since only ExprDecl wraps a
// value-producing node worth descending into.
func bodyNodes(f *ast.File) []ast.Node {
	var nodes []ast.Node
	for _, d := range f.Decls {
		if e, ok := d.(*ast.ExprDecl); ok {
			nodes = append(nodes, e.Expr)
		}
	}
	return nodes
}

func setupMethodScope(mod *Module, m *ast.MethodDef) {
	if m.Body == nil {
		return // required method: no body to walk
	}
	table := symtab.New(nil)
	for _, p := range m.Params {
		table.Define(p.Name, dynamicPlaceholder, p.Mutable)
	}
	mod.Scopes[m] = table
	walkScopeBody(mod, table, m.Body)
}

// dynamicPlaceholder is the provisional symbol type recorded during scope
// setup, before parameter types are resolved by passDefineTypeSignatures.
// passDefineType overwrites each parameter symbol with its resolved type
// before the body is checked.
var dynamicPlaceholder types.Type = types.Dynamic{}

// walkScopeBody defines `let` bindings into table as they're encountered
// and recurses into nested scope-introducing nodes.
func walkScopeBody(mod *Module, table *symtab.Table, nodes []ast.Node) {
	for _, n := range nodes {
		walkScopeNode(mod, table, n)
	}
}

func walkScopeNode(mod *Module, table *symtab.Table, n ast.Node) {
	switch node := n.(type) {
	case *ast.VarDef:
		table.Define(node.Name, dynamicPlaceholder, node.Mutable)
		walkScopeNode(mod, table, node.Value)
	case *ast.BlockExpr:
		child := symtab.New(table)
		for _, p := range node.Params {
			child.Define(p.Name, dynamicPlaceholder, p.Mutable)
		}
		mod.Scopes[node] = child
		walkScopeBody(mod, child, node.Body)
	case *ast.TryExpr:
		walkScopeNode(mod, table, node.Body)
		elseTable := symtab.New(table)
		if node.ElseArg != "" {
			elseTable.Define(node.ElseArg, dynamicPlaceholder, false)
		}
		mod.Scopes[node] = elseTable
		walkScopeBody(mod, elseTable, node.ElseBody)
	case *ast.Send:
		if node.Receiver != nil {
			walkScopeNode(mod, table, node.Receiver)
		}
		for _, a := range node.Args {
			walkScopeNode(mod, table, a.Value)
		}
		if node.BlockArg != nil {
			walkScopeNode(mod, table, node.BlockArg)
		}
	case *ast.Reassign:
		walkScopeNode(mod, table, node.Target)
		walkScopeNode(mod, table, node.Value)
	case *ast.ReturnExpr:
		if node.Value != nil {
			walkScopeNode(mod, table, node.Value)
		}
	case *ast.ThrowExpr:
		walkScopeNode(mod, table, node.Value)
	case *ast.TypeCast:
		walkScopeNode(mod, table, node.Value)
	}
}
