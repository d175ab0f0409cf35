// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the semantic analysis passes.
package ast

import (
	"fmt"
	"strings"

	"github.com/veltra-lang/veltc/internal/types"
)

// Pos identifies a single point in a source file.
type Pos struct {
	Line   int
	Column int
	File   *SourceFile
}

func (p Pos) String() string {
	name := "<unknown>"
	if p.File != nil {
		name = p.File.Path
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
}

// Span is a half-open range of positions.
type Span struct {
	Start Pos
	End   Pos
}

// SourceFile is the handle every Pos points into. It owns the raw bytes and
// lazily builds a line-offset index the first time a caller asks for one
// (error rendering is the only consumer; the core itself never needs it).
type SourceFile struct {
	Path string
	Src  string

	lineStarts []int
}

// LineStarts returns the byte offset of the first character of each line,
// computing it on first use.
func (f *SourceFile) LineStarts() []int {
	if f.lineStarts != nil {
		return f.lineStarts
	}
	starts := []int{0}
	for i, b := range []byte(f.Src) {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	f.lineStarts = starts
	return starts
}

// Node is the base interface every AST node implements.
type Node interface {
	Position() Pos
	String() string
}

// Expr is a value-producing node. After the "define type" pass runs without
// errors, ResolvedType() is non-nil and not types.ErrorType (see Module
// invariants in SPEC_FULL.md).
type Expr interface {
	Node
	exprNode()
	ResolvedType() types.Type
	SetResolvedType(types.Type)
}

// exprBase gives every expression node a resolved-type slot without
// repeating the getter/setter on each concrete type.
type exprBase struct {
	Typ types.Type
}

func (e *exprBase) ResolvedType() types.Type     { return e.Typ }
func (e *exprBase) SetResolvedType(t types.Type) { e.Typ = t }
func (e *exprBase) exprNode()                    {}

// ---- Literals, identifiers, self ----------------------------------------

type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	NilLit
)

type Literal struct {
	exprBase
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (l *Literal) Position() Pos { return l.Pos }
func (l *Literal) String() string {
	return fmt.Sprintf("%v", l.Value)
}

// Identifier is a lowercase-start name: a local, a method receiver-less
// send target, or (after resolution) a reference to a local/method.
type Identifier struct {
	exprBase
	Name string
	Pos  Pos
}

func (i *Identifier) Position() Pos  { return i.Pos }
func (i *Identifier) String() string { return i.Name }

// Constant is an uppercase-start name, resolved block -> method -> self ->
// module, chaining through receivers for qualified paths (A::B).
type Constant struct {
	exprBase
	Name     string
	Receiver Expr // non-nil for A::B chains
	Pos      Pos
}

func (c *Constant) Position() Pos { return c.Pos }
func (c *Constant) String() string {
	if c.Receiver != nil {
		return fmt.Sprintf("%s::%s", c.Receiver, c.Name)
	}
	return c.Name
}

// Global is the `::Name` form: an explicit module-global lookup.
type Global struct {
	exprBase
	Name string
	Pos  Pos
}

func (g *Global) Position() Pos  { return g.Pos }
func (g *Global) String() string { return "::" + g.Name }

// AttributeRef is `@name`.
type AttributeRef struct {
	exprBase
	Name string
	Pos  Pos
}

func (a *AttributeRef) Position() Pos  { return a.Pos }
func (a *AttributeRef) String() string { return "@" + a.Name }

// SelfExpr is the bare `self` keyword.
type SelfExpr struct {
	exprBase
	Pos Pos
}

func (s *SelfExpr) Position() Pos  { return s.Pos }
func (s *SelfExpr) String() string { return "self" }

// ---- Sends ---------------------------------------------------------------

// Argument is a single positional or keyword call argument.
type Argument struct {
	Name  string // empty for positional
	Value Expr
}

// Send represents `receiver.name(args)`, the parenthesis-less call form,
// and desugared binary/unary operators (all three collapse to Send nodes,
// per spec.md's grammar overview).
type Send struct {
	exprBase
	Receiver Expr // nil means implicit self
	Method   string
	Args     []Argument
	TypeArgs []TypeExpr
	BlockArg *BlockExpr // trailing block literal, if any
	Pos      Pos
}

func (s *Send) Position() Pos { return s.Pos }
func (s *Send) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		if a.Name != "" {
			args[i] = fmt.Sprintf("%s: %s", a.Name, a.Value)
		} else {
			args[i] = a.Value.String()
		}
	}
	recv := "self"
	if s.Receiver != nil {
		recv = s.Receiver.String()
	}
	return fmt.Sprintf("%s.%s(%s)", recv, s.Method, strings.Join(args, ", "))
}

// BlockKind distinguishes the three Block sub-kinds from the glossary.
type BlockKind int

const (
	MethodBlock BlockKind = iota
	ClosureBlock
	LambdaBlock
)

// Param is a single block/method parameter: `name`, `name: T`,
// `name: T = default`, `*rest`, or `mut name: T`.
type Param struct {
	Name    string
	Type    TypeExpr
	Default Expr
	Rest    bool
	Mutable bool
	Pos     Pos
}

// BlockExpr is a closure or lambda literal. MethodDef below reuses the same
// signature shape for named methods.
type BlockExpr struct {
	exprBase
	Kind       BlockKind
	Params     []Param
	TypeParams []string
	ThrowType  TypeExpr
	ReturnType TypeExpr
	Body       []Node
	Pos        Pos
}

func (b *BlockExpr) Position() Pos { return b.Pos }
func (b *BlockExpr) String() string {
	names := make([]string, len(b.Params))
	for i, p := range b.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("{ |%s| ... }", strings.Join(names, ", "))
}

// ---- Control flow ----------------------------------------------------------

type ReturnExpr struct {
	exprBase
	Value Expr // nil for bare `return`
	Pos   Pos
}

func (r *ReturnExpr) Position() Pos  { return r.Pos }
func (r *ReturnExpr) String() string { return fmt.Sprintf("return %s", valueOrEmpty(r.Value)) }

type ThrowExpr struct {
	exprBase
	Value Expr
	Pos   Pos
}

func (t *ThrowExpr) Position() Pos  { return t.Pos }
func (t *ThrowExpr) String() string { return fmt.Sprintf("throw %s", t.Value) }

// TryExpr models both `try expr else (e) { body }` and the desugared form
// of `try!` (see Parser.parseTry).
type TryExpr struct {
	exprBase
	Body     Expr
	ElseArg  string // bound name in the else clause ("error" for try!)
	ElseBody []Node
	Pos      Pos
}

func (t *TryExpr) Position() Pos { return t.Pos }
func (t *TryExpr) String() string {
	return fmt.Sprintf("try %s else (%s) { ... }", t.Body, t.ElseArg)
}

func valueOrEmpty(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// ---- Bindings --------------------------------------------------------------

type VarDef struct {
	exprBase
	Name    string
	Type    TypeExpr
	Value   Expr
	Mutable bool
	Pos     Pos
}

func (v *VarDef) Position() Pos { return v.Pos }
func (v *VarDef) String() string {
	kw := "let"
	if v.Mutable {
		kw = "let mut"
	}
	return fmt.Sprintf("%s %s = %s", kw, v.Name, v.Value)
}

// Reassign is `name = expr`, `@name = expr`, and compound-operator
// reassignment after desugaring the compound operator into a Send (see
// Parser.parseReassignment).
type Reassign struct {
	exprBase
	Target Expr // *Identifier or *AttributeRef
	Value  Expr
	Pos    Pos
}

func (r *Reassign) Position() Pos  { return r.Pos }
func (r *Reassign) String() string { return fmt.Sprintf("%s = %s", r.Target, r.Value) }

// TypeCast is `expr as Type`.
type TypeCast struct {
	exprBase
	Value Expr
	Type  TypeExpr
	Pos   Pos
}

func (c *TypeCast) Position() Pos  { return c.Pos }
func (c *TypeCast) String() string { return fmt.Sprintf("%s as %s", c.Value, c.Type) }

// ---- Collections -----------------------------------------------------------

// ArrayLit is surface syntax; the parser immediately desugars it into a
// Send to the well-known Array global (spec.md scenario E2), so this node
// never reaches the "define type" pass.
type ArrayLit struct {
	exprBase
	Elements []Expr
	Pos      Pos
}

func (a *ArrayLit) Position() Pos { return a.Pos }
func (a *ArrayLit) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// HashLit is `%[k -> v, ...]` surface syntax, desugared the same way.
type HashLit struct {
	exprBase
	Keys   []Expr
	Values []Expr
	Pos    Pos
}

func (h *HashLit) Position() Pos { return h.Pos }
func (h *HashLit) String() string {
	parts := make([]string, len(h.Keys))
	for i := range h.Keys {
		parts[i] = fmt.Sprintf("%s -> %s", h.Keys[i], h.Values[i])
	}
	return fmt.Sprintf("%%[%s]", strings.Join(parts, ", "))
}

// Body wraps a sequence of nodes evaluated for their side effects, yielding
// the last node's value (module bodies and block bodies are both Body).
type Body struct {
	exprBase
	Nodes []Node
	Pos   Pos
}

func (b *Body) Position() Pos { return b.Pos }
func (b *Body) String() string {
	parts := make([]string, len(b.Nodes))
	for i, n := range b.Nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "\n")
}

// ---- Top-level declarations -------------------------------------------------

// Decl is any top-level construct: import, object/trait def, trait impl,
// method def, or a bare expression.
type Decl interface {
	Node
	declNode()
}

type ImportSymbol struct {
	Name  string // "" for Self/Glob
	Alias string
	Self  bool
	Glob  bool
}

// Import models `import a::b::(Sym1, Sym2 as Alias, self, *)`.
type Import struct {
	Steps   []string
	Symbols []ImportSymbol
	Pos     Pos
}

func (i *Import) Position() Pos { return i.Pos }
func (i *Import) String() string {
	syms := make([]string, len(i.Symbols))
	for idx, s := range i.Symbols {
		switch {
		case s.Self:
			syms[idx] = "self"
		case s.Glob:
			syms[idx] = "*"
		case s.Alias != "":
			syms[idx] = fmt.Sprintf("%s as %s", s.Name, s.Alias)
		default:
			syms[idx] = s.Name
		}
	}
	return fmt.Sprintf("import %s::(%s)", strings.Join(i.Steps, "::"), strings.Join(syms, ", "))
}
func (i *Import) declNode() {}

// MethodDef is `def name(args)!(TypeParams) !! ThrowType -> ReturnType
// where T1: U, T2: V { body }`. A nil Body marks a required method (only
// valid on traits; see ImplementTraits pass).
type WhereClause struct {
	TypeParam      string
	RequiredTraits []string
}

type MethodDef struct {
	Name       string
	TypeParams []string
	Params     []Param
	ThrowType  TypeExpr
	ReturnType TypeExpr
	Where      []WhereClause
	Body       []Node // nil => required method
	Static     bool
	Pos        Pos

	// ResolvedType is filled in by the "define type signatures" pass.
	ResolvedType types.Type
}

func (m *MethodDef) Position() Pos { return m.Pos }
func (m *MethodDef) String() string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("def %s(%s)", m.Name, strings.Join(names, ", "))
}
func (m *MethodDef) declNode() {}

// ObjectDef is `object Name!(TypeParams) { attributes + methods }`.
type AttributeDef struct {
	Name string
	Type TypeExpr
	Pos  Pos
}

type ObjectDef struct {
	Name       string
	TypeParams []string
	Attributes []AttributeDef
	Methods    []*MethodDef
	Pos        Pos

	ResolvedType types.Type
}

func (o *ObjectDef) Position() Pos  { return o.Pos }
func (o *ObjectDef) String() string { return fmt.Sprintf("object %s", o.Name) }
func (o *ObjectDef) declNode()      {}

// TraitDef is `trait Name: Required1 + Required2 { required/default methods }`.
type TraitDef struct {
	Name           string
	TypeParams     []string
	RequiredTraits []string
	Methods        []*MethodDef
	Pos            Pos

	ResolvedType types.Type
}

func (t *TraitDef) Position() Pos  { return t.Pos }
func (t *TraitDef) String() string { return fmt.Sprintf("trait %s", t.Name) }
func (t *TraitDef) declNode()      {}

// TraitImpl is `impl Trait for Type { methods }`.
type TraitImpl struct {
	Trait   string
	ForType string
	Methods []*MethodDef
	Pos     Pos
}

func (t *TraitImpl) Position() Pos  { return t.Pos }
func (t *TraitImpl) String() string { return fmt.Sprintf("impl %s for %s", t.Trait, t.ForType) }
func (t *TraitImpl) declNode()      {}

// ExprDecl wraps a bare top-level expression as a Decl so File.Decls can be
// homogeneous.
type ExprDecl struct {
	Expr Expr
}

func (e *ExprDecl) Position() Pos  { return e.Expr.Position() }
func (e *ExprDecl) String() string { return e.Expr.String() }
func (e *ExprDecl) declNode()      {}

// File is the output of the parser for one source file.
type File struct {
	Imports []*Import
	Decls   []Decl
	Pos     Pos
}

func (f *File) Position() Pos { return f.Pos }
func (f *File) String() string {
	parts := make([]string, 0, len(f.Imports)+len(f.Decls))
	for _, imp := range f.Imports {
		parts = append(parts, imp.String())
	}
	for _, d := range f.Decls {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "\n")
}

// ---- Error node (parser recovery placeholder) ------------------------------

type ErrorNode struct {
	exprBase
	Msg string
	Pos Pos
}

func (e *ErrorNode) Position() Pos  { return e.Pos }
func (e *ErrorNode) String() string { return fmt.Sprintf("<error: %s>", e.Msg) }
func (e *ErrorNode) declNode()      {}
