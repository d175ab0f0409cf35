package ast

import (
	"fmt"
	"strings"
)

// TypeExpr is surface-syntax type annotation, as written by the
// programmer. It is distinct from types.Type, the resolved semantic type
// computed by the "define type signatures"/"define type" passes.
type TypeExpr interface {
	Node
	typeExprNode()
}

// RefTypeExpr is a constant chain with optional type arguments:
// `T::U!(V)`.
type RefTypeExpr struct {
	Path     []string
	TypeArgs []TypeExpr
	Pos      Pos
}

func (r *RefTypeExpr) Position() Pos { return r.Pos }
func (r *RefTypeExpr) String() string {
	s := strings.Join(r.Path, "::")
	if len(r.TypeArgs) > 0 {
		args := make([]string, len(r.TypeArgs))
		for i, a := range r.TypeArgs {
			args[i] = a.String()
		}
		s += "!(" + strings.Join(args, ", ") + ")"
	}
	return s
}
func (r *RefTypeExpr) typeExprNode() {}

// OptionalTypeExpr is `?Type`.
type OptionalTypeExpr struct {
	Inner TypeExpr
	Pos   Pos
}

func (o *OptionalTypeExpr) Position() Pos  { return o.Pos }
func (o *OptionalTypeExpr) String() string { return "?" + o.Inner.String() }
func (o *OptionalTypeExpr) typeExprNode()  {}

// BlockTypeExpr is `do(A,B) !! E -> R` or `lambda(A) -> R`.
type BlockTypeExpr struct {
	Kind      BlockKind
	Params    []TypeExpr
	ThrowType TypeExpr
	Return    TypeExpr
	Pos       Pos
}

func (b *BlockTypeExpr) Position() Pos { return b.Pos }
func (b *BlockTypeExpr) String() string {
	kw := "do"
	if b.Kind == LambdaBlock {
		kw = "lambda"
	}
	params := make([]string, len(b.Params))
	for i, p := range b.Params {
		params[i] = p.String()
	}
	s := fmt.Sprintf("%s(%s)", kw, strings.Join(params, ", "))
	if b.ThrowType != nil {
		s += " !! " + b.ThrowType.String()
	}
	if b.Return != nil {
		s += " -> " + b.Return.String()
	}
	return s
}
func (b *BlockTypeExpr) typeExprNode() {}
