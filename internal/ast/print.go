package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node, used
// for golden snapshot testing (parser idempotence, precedence checks).
//
// - Omits source positions so output is reproducible across test runs.
// - Every node gets a "node" field identifying its concrete type.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is the single-line variant of Print.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *File:
		m := map[string]interface{}{"node": "File"}
		if len(n.Imports) > 0 {
			m["imports"] = simplifyAll(nodeSlice(n.Imports))
		}
		if len(n.Decls) > 0 {
			m["decls"] = simplifyAll(declSlice(n.Decls))
		}
		return m

	case *Import:
		m := map[string]interface{}{"node": "Import", "steps": n.Steps}
		if len(n.Symbols) > 0 {
			syms := make([]interface{}, len(n.Symbols))
			for i, s := range n.Symbols {
				syms[i] = map[string]interface{}{"name": s.Name, "alias": s.Alias, "self": s.Self, "glob": s.Glob}
			}
			m["symbols"] = syms
		}
		return m

	case *Literal:
		return map[string]interface{}{"node": "Literal", "kind": literalKindString(n.Kind), "value": n.Value}

	case *Identifier:
		return map[string]interface{}{"node": "Identifier", "name": n.Name}

	case *Constant:
		m := map[string]interface{}{"node": "Constant", "name": n.Name}
		if n.Receiver != nil {
			m["receiver"] = simplify(n.Receiver)
		}
		return m

	case *Global:
		return map[string]interface{}{"node": "Global", "name": n.Name}

	case *AttributeRef:
		return map[string]interface{}{"node": "AttributeRef", "name": n.Name}

	case *SelfExpr:
		return map[string]interface{}{"node": "Self"}

	case *Send:
		m := map[string]interface{}{"node": "Send", "method": n.Method}
		if n.Receiver != nil {
			m["receiver"] = simplify(n.Receiver)
		}
		if len(n.Args) > 0 {
			args := make([]interface{}, len(n.Args))
			for i, a := range n.Args {
				args[i] = map[string]interface{}{"name": a.Name, "value": simplify(a.Value)}
			}
			m["args"] = args
		}
		return m

	case *BlockExpr:
		m := map[string]interface{}{"node": "Block", "kind": blockKindString(n.Kind)}
		if len(n.Params) > 0 {
			m["params"] = simplifyParams(n.Params)
		}
		m["body"] = simplifyAll(n.Body)
		return m

	case *ReturnExpr:
		m := map[string]interface{}{"node": "Return"}
		if n.Value != nil {
			m["value"] = simplify(n.Value)
		}
		return m

	case *ThrowExpr:
		return map[string]interface{}{"node": "Throw", "value": simplify(n.Value)}

	case *TryExpr:
		m := map[string]interface{}{
			"node":    "Try",
			"body":    simplify(n.Body),
			"elseArg": n.ElseArg,
		}
		m["elseBody"] = simplifyAll(n.ElseBody)
		return m

	case *VarDef:
		return map[string]interface{}{
			"node": "VarDef", "name": n.Name, "mutable": n.Mutable, "value": simplify(n.Value),
		}

	case *Reassign:
		return map[string]interface{}{"node": "Reassign", "target": simplify(n.Target), "value": simplify(n.Value)}

	case *TypeCast:
		return map[string]interface{}{"node": "TypeCast", "value": simplify(n.Value), "type": simplify(n.Type)}

	case *ArrayLit:
		return map[string]interface{}{"node": "ArrayLit", "elements": simplifyAll(exprSlice(n.Elements))}

	case *HashLit:
		return map[string]interface{}{"node": "HashLit", "keys": simplifyAll(exprSlice(n.Keys)), "values": simplifyAll(exprSlice(n.Values))}

	case *Body:
		return map[string]interface{}{"node": "Body", "nodes": simplifyAll(n.Nodes)}

	case *MethodDef:
		m := map[string]interface{}{"node": "MethodDef", "name": n.Name, "static": n.Static, "required": n.Body == nil}
		if len(n.Params) > 0 {
			m["params"] = simplifyParams(n.Params)
		}
		if n.Body != nil {
			m["body"] = simplifyAll(n.Body)
		}
		return m

	case *ObjectDef:
		m := map[string]interface{}{"node": "ObjectDef", "name": n.Name}
		if len(n.Methods) > 0 {
			ms := make([]interface{}, len(n.Methods))
			for i, md := range n.Methods {
				ms[i] = simplify(md)
			}
			m["methods"] = ms
		}
		return m

	case *TraitDef:
		return map[string]interface{}{"node": "TraitDef", "name": n.Name, "required": n.RequiredTraits}

	case *TraitImpl:
		return map[string]interface{}{"node": "TraitImpl", "trait": n.Trait, "forType": n.ForType}

	case *ExprDecl:
		return simplify(n.Expr)

	case *ErrorNode:
		return map[string]interface{}{"node": "Error", "msg": n.Msg}

	case *RefTypeExpr:
		m := map[string]interface{}{"node": "RefType", "path": n.Path}
		return m

	case *OptionalTypeExpr:
		return map[string]interface{}{"node": "OptionalType", "inner": simplify(n.Inner)}

	case *BlockTypeExpr:
		return map[string]interface{}{"node": "BlockType", "kind": blockKindString(n.Kind)}

	default:
		return map[string]interface{}{"node": fmt.Sprintf("%T", node), "_unhandled": true}
	}
}

func simplifyAll[T Node](nodes []T) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = simplify(n)
	}
	return result
}

func nodeSlice[T Node](in []T) []Node {
	out := make([]Node, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func declSlice(in []Decl) []Node {
	out := make([]Node, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func exprSlice(in []Expr) []Node {
	out := make([]Node, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func simplifyParams(params []Param) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		out[i] = map[string]interface{}{"name": p.Name, "rest": p.Rest, "mutable": p.Mutable}
	}
	return out
}

func literalKindString(kind LiteralKind) string {
	switch kind {
	case IntLit:
		return "Int"
	case FloatLit:
		return "Float"
	case StringLit:
		return "String"
	case BoolLit:
		return "Bool"
	case NilLit:
		return "Nil"
	default:
		return "Unknown"
	}
}

func blockKindString(kind BlockKind) string {
	switch kind {
	case MethodBlock:
		return "method"
	case ClosureBlock:
		return "closure"
	case LambdaBlock:
		return "lambda"
	default:
		return "unknown"
	}
}
