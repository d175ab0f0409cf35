package module

// passTailCallElimination is pass 18: mark every self-recursive send in
// tail position so codegen can rewrite it as a backward jump instead of a
// call frame push. "Tail position" is the last node of a method body, the
// value of a `return` in that position, or either arm of a `try` that
// itself sits in tail position.
func passTailCallElimination(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	for _, tm := range mod.TIR {
		markTailPosition(tm.Body, tm.Name)
	}
	return v, true
}

func markTailPosition(nodes []Node, methodName string) {
	if len(nodes) == 0 {
		return
	}
	markTailNode(nodes[len(nodes)-1], methodName)
}

func markTailNode(n Node, methodName string) {
	switch x := n.(type) {
	case *SendExpr:
		if x.Receiver == nil && x.Method == methodName && x.Block == nil {
			x.Tail = true
		}
	case *ReturnExpr:
		if x.Value != nil {
			markTailNode(x.Value, methodName)
		}
	case *TryExpr:
		if x.Body != nil {
			markTailNode(x.Body, methodName)
		}
		markTailPosition(x.ElseBody, methodName)
	}
}
