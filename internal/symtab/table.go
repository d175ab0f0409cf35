package symtab

import "fmt"

// Table is an insertion-order mapping from name to Symbol, with an
// optional parent forming a lexical chain (spec.md §3/§4.3).
//
// A table may enter "unique-names mode" for the duration of a scope
// (WithUniqueNames): every Define during that scope rewrites the stored
// name to a globally unique form while keeping the original name
// reachable through a per-scope redirect map. This supports hoisting
// closures whose locals must not collide once lifted out of their
// lexical scope.
type Table struct {
	parent *Table

	names   []string // insertion order
	symbols map[string]Symbol

	uniqueMode bool
	redirect   map[string]string // original name -> unique name, only while uniqueMode
	uniqueSeq  int
}

// New creates an empty table with the given parent (nil for a root table).
func New(parent *Table) *Table {
	return &Table{parent: parent, symbols: make(map[string]Symbol)}
}

// Parent returns the enclosing table, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// Define inserts a new symbol, assigning it the next insertion index.
// Redefining an existing name overwrites it in place (callers wanting
// "already defined" diagnostics must check Get first — the table itself
// never second-guesses the caller, per spec.md §4.3).
func (t *Table) Define(name string, typ TypeRef, mutable bool) Symbol {
	storeName := name
	if t.uniqueMode {
		storeName = t.uniquify(name)
	}

	idx, exists := t.indexOf(storeName)
	if !exists {
		idx = len(t.names)
		t.names = append(t.names, storeName)
	}
	sym := Symbol{Name: storeName, Type: typ, Index: int32(idx), Mutable: mutable}
	t.symbols[storeName] = sym
	return sym
}

func (t *Table) uniquify(name string) string {
	if t.redirect == nil {
		t.redirect = make(map[string]string)
	}
	unique := fmt.Sprintf("%s$%p$%d", name, t, t.uniqueSeq)
	t.uniqueSeq++
	t.redirect[name] = unique
	return unique
}

func (t *Table) indexOf(name string) (int, bool) {
	if s, ok := t.symbols[name]; ok {
		return int(s.Index), true
	}
	return 0, false
}

// resolveLocalName maps a caller-facing name through the redirect table if
// unique-names mode rewrote it.
func (t *Table) resolveLocalName(name string) string {
	if t.redirect != nil {
		if unique, ok := t.redirect[name]; ok {
			return unique
		}
	}
	return name
}

// Get looks up a symbol by name in this table only (no parent walk).
// Returns the null symbol if absent.
func (t *Table) Get(name string) Symbol {
	if s, ok := t.symbols[t.resolveLocalName(name)]; ok {
		return s
	}
	return NullSymbol
}

// GetIndex returns the symbol at the given insertion index, or the null
// symbol if out of range.
func (t *Table) GetIndex(index int) Symbol {
	if index < 0 || index >= len(t.names) {
		return NullSymbol
	}
	return t.symbols[t.names[index]]
}

// Reassign updates the type of an existing binding, preserving its index
// and mutability.
func (t *Table) Reassign(name string, newType TypeRef) Symbol {
	key := t.resolveLocalName(name)
	sym, ok := t.symbols[key]
	if !ok {
		return NullSymbol
	}
	sym.Type = newType
	t.symbols[key] = sym
	return sym
}

// LookupWithParent walks this table then its parent chain, returning the
// depth at which the symbol was found (0 = this table, incrementing by one
// per parent traversed) and the symbol itself. depth = -1 and the null
// symbol indicate "not found anywhere in the chain".
func (t *Table) LookupWithParent(name string) (int, Symbol) {
	depth := 0
	for cur := t; cur != nil; cur = cur.parent {
		if s := cur.Get(name); !s.IsNull() {
			return depth, s
		}
		depth++
	}
	return -1, NullSymbol
}

// LookupInRoot skips straight to the outermost parent and looks up there.
func (t *Table) LookupInRoot(name string) Symbol {
	root := t
	for root.parent != nil {
		root = root.parent
	}
	return root.Get(name)
}

// Names returns the bound names in insertion order (uniquified form, if
// unique-names mode rewrote them).
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Length returns the number of bindings in this table.
func (t *Table) Length() int { return len(t.names) }

// Slice returns the symbols in insertion-order range [from, to).
func (t *Table) Slice(from, to int) []Symbol {
	if from < 0 {
		from = 0
	}
	if to > len(t.names) {
		to = len(t.names)
	}
	if from >= to {
		return nil
	}
	out := make([]Symbol, 0, to-from)
	for _, n := range t.names[from:to] {
		out = append(out, t.symbols[n])
	}
	return out
}

// All returns every symbol in insertion order.
func (t *Table) All() []Symbol {
	return t.Slice(0, len(t.names))
}

// WithUniqueNames runs fn with the table in unique-names mode, restoring
// the previous mode afterward. Definitions made during fn are stored under
// rewritten names; Get/Reassign/LookupWithParent still accept the original
// name via the redirect map.
func (t *Table) WithUniqueNames(fn func()) {
	prev := t.uniqueMode
	t.uniqueMode = true
	defer func() { t.uniqueMode = prev }()
	fn()
}

// Equal implements the structural-equality invariant from spec.md §4.3:
// tables compare equal iff their contents and parent are equal.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.names) != len(o.names) {
		return false
	}
	for i, n := range t.names {
		if o.names[i] != n {
			return false
		}
		if !t.symbols[n].Equal(o.symbols[o.names[i]]) {
			return false
		}
	}
	if (t.parent == nil) != (o.parent == nil) {
		return false
	}
	if t.parent != nil {
		return t.parent.Equal(o.parent)
	}
	return true
}
