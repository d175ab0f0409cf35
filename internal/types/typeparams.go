package types

// TypeParamTable is an ordered name -> Type mapping for a generic type's
// parameters (spec.md §3). A parameter starts "uninitialised" (entry
// present, Type nil) and becomes an "instance" once a concrete Type is
// bound to it.
type TypeParamTable struct {
	names []string
	slots map[string]Type
}

func NewTypeParamTable() *TypeParamTable {
	return &TypeParamTable{slots: make(map[string]Type)}
}

// Add declares a new, uninitialised type parameter.
func (t *TypeParamTable) Add(name string) {
	if _, ok := t.slots[name]; ok {
		return
	}
	t.names = append(t.names, name)
	t.slots[name] = nil
}

// Initialize binds a concrete type to an already-declared parameter.
func (t *TypeParamTable) Initialize(name string, instance Type) {
	if _, ok := t.slots[name]; !ok {
		t.names = append(t.names, name)
	}
	t.slots[name] = instance
}

// Get returns the parameter's current binding (nil if uninitialised) and
// whether the parameter is declared at all.
func (t *TypeParamTable) Get(name string) (Type, bool) {
	v, ok := t.slots[name]
	return v, ok
}

// IsInitialized reports whether name is bound to a concrete instance.
func (t *TypeParamTable) IsInitialized(name string) bool {
	v, ok := t.slots[name]
	return ok && v != nil
}

// Names returns declared parameter names in declaration order.
func (t *TypeParamTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len reports the number of declared parameters.
func (t *TypeParamTable) Len() int { return len(t.names) }

// Merge returns a new table with this table's declarations, overlaid with
// any instance bindings from other that share a name. Used by
// new_shallow_instance-style generic specialization (spec.md §4.4).
func (t *TypeParamTable) Merge(other *TypeParamTable) *TypeParamTable {
	out := NewTypeParamTable()
	for _, n := range t.names {
		out.Add(n)
		out.slots[n] = t.slots[n]
	}
	if other != nil {
		for _, n := range other.names {
			if _, declared := out.slots[n]; !declared {
				out.Add(n)
			}
			if other.slots[n] != nil {
				out.slots[n] = other.slots[n]
			}
		}
	}
	return out
}

// Clone returns a shallow copy whose slot map is independent of t's,
// used when specializing a generic type per call site.
func (t *TypeParamTable) Clone() *TypeParamTable {
	out := NewTypeParamTable()
	out.names = append(out.names, t.names...)
	for k, v := range t.slots {
		out.slots[k] = v
	}
	return out
}
