// Package types implements the type database (C4) from spec.md §3/§4.4:
// the tagged-union Type representation, type-parameter tables, and the
// Database of built-in prototypes and derived types.
package types

import (
	"fmt"
	"strings"

	"github.com/veltra-lang/veltc/internal/symtab"
)

// Type is the tagged union from spec.md §3. Each concrete variant below
// implements it. Type also implements symtab.TypeRef so values can be
// stored directly on symtab.Symbol without symtab depending on this
// package.
type Type interface {
	Kind() Kind
	String() string
	Equal(other symtab.TypeRef) bool
}

// Primitive is a reference to one of the built-in prototypes (integer,
// float, string, array, ...). Primitives carry only their identity; the
// Database owns the canonical instance for each PrototypeID.
type Primitive struct {
	ID         PrototypeID
	attributes *symtab.Table
}

func (p *Primitive) Kind() Kind     { return KindPrimitive }
func (p *Primitive) String() string { return p.ID.String() }
func (p *Primitive) Equal(o symtab.TypeRef) bool {
	op, ok := o.(*Primitive)
	return ok && op.ID == p.ID
}

// Attributes returns the prototype's attribute table, lazily created.
func (p *Primitive) Attributes() *symtab.Table {
	if p.attributes == nil {
		p.attributes = symtab.New(nil)
	}
	return p.attributes
}

// Object is a user-defined, prototype-inheriting, optionally-generic type.
// A nil Name marks an anonymous object literal's synthesized type.
type Object struct {
	Name       string
	Prototype  *Object // single-inheritance parent, nil at the root
	Attributes *symtab.Table
	TypeParams *TypeParamTable
	Traits     []*Trait
	Methods    *symtab.Table // method name -> Symbol whose Type is a *Block
}

func NewObject(name string) *Object {
	return &Object{
		Name:       name,
		Attributes: symtab.New(nil),
		TypeParams: NewTypeParamTable(),
		Methods:    symtab.New(nil),
	}
}

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) String() string {
	if len(o.TypeParams.Names()) == 0 {
		return o.Name
	}
	return fmt.Sprintf("%s!(%s)", o.Name, strings.Join(o.TypeParams.Names(), ", "))
}

func (o *Object) Equal(other symtab.TypeRef) bool {
	oo, ok := other.(*Object)
	if !ok {
		return false
	}
	// Objects are nominal: same declaration identity (pointer) or, absent
	// that, same name and prototype chain.
	if o == oo {
		return true
	}
	if o.Name != oo.Name {
		return false
	}
	if (o.Prototype == nil) != (oo.Prototype == nil) {
		return false
	}
	if o.Prototype != nil && !o.Prototype.Equal(oo.Prototype) {
		return false
	}
	return true
}

// ImplementsTrait reports whether t is declared directly on this object
// (does not walk the prototype chain; callers resolving method lookup do
// that separately per spec.md §9's prototype/trait resolution note).
func (o *Object) ImplementsTrait(t *Trait) bool {
	for _, tr := range o.Traits {
		if tr == t || tr.Equal(t) {
			return true
		}
	}
	return false
}

// Trait is a named set of required and provided methods, with
// multi-inheritance over other traits (spec.md §9).
type Trait struct {
	Name            string
	RequiredTraits  []*Trait
	TypeParams      *TypeParamTable
	Methods         *symtab.Table // method name -> Symbol whose Type is a *Block
	RequiredMethods map[string]bool
}

func NewTrait(name string) *Trait {
	return &Trait{
		Name:            name,
		TypeParams:      NewTypeParamTable(),
		Methods:         symtab.New(nil),
		RequiredMethods: make(map[string]bool),
	}
}

func (t *Trait) Kind() Kind     { return KindTrait }
func (t *Trait) String() string { return t.Name }
func (t *Trait) Equal(other symtab.TypeRef) bool {
	ot, ok := other.(*Trait)
	return ok && (t == ot || t.Name == ot.Name)
}

// Block is the type of a method/closure/lambda (spec.md §3).
type Block struct {
	BlockKind  BlockKind
	Arguments  []Type
	ThrowType  Type // nil if the block declares no throw type
	ReturnType Type
	TypeParams *TypeParamTable
	Captures   []Type // nil for methods and lambdas, which do not capture
}

func (b *Block) Kind() Kind { return KindBlock }

func (b *Block) String() string {
	args := make([]string, len(b.Arguments))
	for i, a := range b.Arguments {
		args[i] = a.String()
	}
	s := fmt.Sprintf("%s(%s)", b.BlockKind.String(), strings.Join(args, ", "))
	if b.ThrowType != nil {
		s += " !! " + b.ThrowType.String()
	}
	if b.ReturnType != nil {
		s += " -> " + b.ReturnType.String()
	}
	return s
}

func (b *Block) Equal(other symtab.TypeRef) bool {
	ob, ok := other.(*Block)
	if !ok || b.BlockKind != ob.BlockKind || len(b.Arguments) != len(ob.Arguments) {
		return false
	}
	for i := range b.Arguments {
		if !typeEqual(b.Arguments[i], ob.Arguments[i]) {
			return false
		}
	}
	if !typeEqual(b.ReturnType, ob.ReturnType) {
		return false
	}
	return typeEqual(b.ThrowType, ob.ThrowType)
}

// Optional wraps a type whose value may be Nil (spec.md testable property 9).
type Optional struct {
	Inner Type
}

func (o *Optional) Kind() Kind     { return KindOptional }
func (o *Optional) String() string { return "?" + o.Inner.String() }
func (o *Optional) Equal(other symtab.TypeRef) bool {
	oo, ok := other.(*Optional)
	return ok && typeEqual(o.Inner, oo.Inner)
}

// TypeParameter is a generic placeholder constrained by required traits.
type TypeParameter struct {
	Name           string
	RequiredTraits []*Trait
}

func (p *TypeParameter) Kind() Kind     { return KindTypeParameter }
func (p *TypeParameter) String() string { return p.Name }
func (p *TypeParameter) Equal(other symtab.TypeRef) bool {
	op, ok := other.(*TypeParameter)
	return ok && p.Name == op.Name
}

// Dynamic is the "could be anything" type assigned to raw-instruction
// results and other dynamically-typed affordances (spec.md §9).
type Dynamic struct{}

func (Dynamic) Kind() Kind     { return KindDynamic }
func (Dynamic) String() string { return "Dynamic" }
func (Dynamic) Equal(other symtab.TypeRef) bool {
	_, ok := other.(Dynamic)
	return ok
}

// ErrorType marks a node whose type could not be determined because of a
// prior diagnostic. It is distinct from Dynamic: Dynamic is a deliberate
// escape hatch, ErrorType records a failure (testable property 8 treats
// them differently: error-free input must produce no ErrorType).
type ErrorType struct{}

func (ErrorType) Kind() Kind     { return KindError }
func (ErrorType) String() string { return "Error" }
func (ErrorType) Equal(other symtab.TypeRef) bool {
	_, ok := other.(ErrorType)
	return ok
}

// typeEqual treats two nil Types as equal and delegates otherwise; Type's
// Equal method takes a symtab.TypeRef so nil Type values (a typed nil
// interface) need this guard before the call.
func typeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
