// Package symtab implements the symbol tables from spec.md §3/§4.3 (C3):
// named bindings with lexical nesting and insertion-order indices.
//
// Symbol.Type is typed as the minimal TypeRef interface rather than
// types.Type directly — types.Type owns attribute tables that are
// themselves symtab.Table instances, so a direct dependency the other way
// would be circular. types.Type implements TypeRef.
package symtab

// TypeRef is the minimal contract a semantic type must satisfy to be
// stored on a Symbol: print itself and compare structurally against
// another TypeRef. internal/types.Type implements this.
type TypeRef interface {
	String() string
	Equal(other TypeRef) bool
}

// Symbol is a named binding: (name, type, index, mutable), per spec.md §3.
// Symbols are identity-free: two symbols are equal iff every field is
// equal.
type Symbol struct {
	Name    string
	Type    TypeRef
	Index   int32
	Mutable bool
}

// NullSymbol is the sentinel returned by lookups that fail: Index -1 marks
// an absent lookup.
var NullSymbol = Symbol{Index: -1}

// IsNull reports whether s is the "absent lookup" sentinel.
func (s Symbol) IsNull() bool { return s.Index == -1 }

// Equal implements structural equality, the invariant spec.md §3 requires.
func (s Symbol) Equal(o Symbol) bool {
	if s.Name != o.Name || s.Index != o.Index || s.Mutable != o.Mutable {
		return false
	}
	if s.Type == nil || o.Type == nil {
		return s.Type == nil && o.Type == nil
	}
	return s.Type.Equal(o.Type)
}
