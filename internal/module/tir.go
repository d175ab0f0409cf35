package module

import (
	"github.com/veltra-lang/veltc/internal/types"
)

// TIR is the lowered, typed intermediate representation "generate TIR"
// (pass 17) produces from an already-checked method body: identifiers
// resolved to local slot indices, the receiver's type recorded on each
// Method as Self (not as a parameter), and every node carrying its resolved type instead of a
// pointer back into the surface AST. Node naming mirrors the AST it's
// lowered from (SendExpr from ast.Send, and so on) the way typed
// intermediate forms elsewhere in this compiler mirror their untyped
// counterpart.
type Node interface {
	Type() types.Type
	tirNode()
}

type base struct {
	Typ types.Type
}

func (b base) Type() types.Type { return b.Typ }
func (base) tirNode()           {}

// Method is one lowered method body, keyed into Module.TIR by its
// originating *ast.MethodDef.
type Method struct {
	Name       string
	Self       types.Type
	Params     []Local
	ReturnType types.Type
	ThrowType  types.Type
	Body       []Node
}

// Local is a resolved symbol slot: the index pass 10's symbol tables
// assigned it, carried forward so codegen never has to re-resolve a name.
type Local struct {
	Name  string
	Index int32
	Type  types.Type
}

// LitExpr is a literal value.
type LitExpr struct {
	base
	Value interface{}
}

// LocalExpr reads a resolved local slot (a parameter or `let` binding).
type LocalExpr struct {
	base
	Index int32
}

// SelfExpr reads the receiver.
type SelfExpr struct{ base }

// AttributeExpr reads an attribute off self.
type AttributeExpr struct {
	base
	Name string
}

// GlobalExpr reads a module-global or constant binding by name; constants
// are not slot-indexed the way locals are, since they're visible from any
// scope in the module rather than lexically nested.
type GlobalExpr struct {
	base
	Name string
}

// SendExpr is a resolved method call: Receiver is nil for an implicit-self
// send. Tail is set by "tail-call elimination" (pass 18) when this send is
// a self-recursive call in tail position.
type SendExpr struct {
	base
	Receiver Node // nil means self
	Method   string
	Args     []Node
	Block    *Method // non-nil for a trailing block-literal argument
	Tail     bool
}

// StoreLocalExpr lowers a `let` binding or a reassignment to a local.
type StoreLocalExpr struct {
	base
	Index int32
	Value Node
}

// StoreAttributeExpr lowers an attribute reassignment.
type StoreAttributeExpr struct {
	base
	Name  string
	Value Node
}

// ReturnExpr lowers an explicit `return`.
type ReturnExpr struct {
	base
	Value Node // nil for a bare return
}

// ThrowExpr lowers a `throw`.
type ThrowExpr struct {
	base
	Value Node
}

// ClosureExpr lowers a block/lambda literal used as a value rather than as
// a trailing call argument.
type ClosureExpr struct {
	base
	Target *Method
}

// TryExpr lowers `try ... else (e) { ... }`.
type TryExpr struct {
	base
	Body      Node
	ElseLocal int32 // -1 if the else clause binds nothing
	ElseBody  []Node
}
