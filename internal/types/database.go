package types

import "sync"

// Database is the global registry of built-in prototypes and
// programmer-defined derived types (C4, spec.md §4.4). It is installed
// exactly once per compiler run and then only ever grows via New*
// constructors that register their result before returning it.
type Database struct {
	mu sync.Mutex

	builtins map[PrototypeID]*Primitive
	objects  map[string]*Object
	traits   map[string]*Trait

	once sync.Once
}

// NewDatabase builds a Database with every built-in prototype installed.
func NewDatabase() *Database {
	db := &Database{
		builtins: make(map[PrototypeID]*Primitive),
		objects:  make(map[string]*Object),
		traits:   make(map[string]*Trait),
	}
	db.installBuiltins()
	return db
}

// installBuiltins populates every PrototypeID exactly once. Guarded by
// sync.Once, so a repeated call never double-installs.
func (db *Database) installBuiltins() {
	db.once.Do(func() {
		for id := ProtoObject; id <= ProtoPointer; id++ {
			db.builtins[id] = &Primitive{ID: id}
		}
	})
}

func (db *Database) proto(id PrototypeID) *Primitive {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.builtins[id]
}

func (db *Database) IntegerType() *Primitive        { return db.proto(ProtoInteger) }
func (db *Database) FloatType() *Primitive          { return db.proto(ProtoFloat) }
func (db *Database) StringType() *Primitive         { return db.proto(ProtoString) }
func (db *Database) ArrayType() *Primitive          { return db.proto(ProtoArray) }
func (db *Database) BlockType() *Primitive          { return db.proto(ProtoBlock) }
func (db *Database) BooleanType() *Primitive        { return db.proto(ProtoBoolean) }
func (db *Database) ByteArrayType() *Primitive      { return db.proto(ProtoByteArray) }
func (db *Database) NilType() *Primitive            { return db.proto(ProtoNil) }
func (db *Database) ModuleType() *Primitive         { return db.proto(ProtoModule) }
func (db *Database) PrototypeByID(id PrototypeID) *Primitive {
	return db.proto(id)
}

// LookupMethod resolves a method name on a primitive's attribute table,
// returning ok=false if undefined (spec.md's "nil_type.lookup_method(name)"
// style accessor, generalized to any prototype).
func (db *Database) LookupMethod(p *Primitive, name string) (Type, bool) {
	sym := p.Attributes().Get(name)
	if sym.IsNull() {
		return nil, false
	}
	t, ok := sym.Type.(Type)
	return t, ok
}

// NewObjectType creates and registers a fresh Object type. Redeclaration
// under the same name overwrites the registry entry; callers detecting
// "already defined" do so via symtab lookups before calling this, per
// spec.md's name-resolution diagnostics.
func (db *Database) NewObjectType(name string) *Object {
	db.mu.Lock()
	defer db.mu.Unlock()
	o := NewObject(name)
	db.objects[name] = o
	return o
}

// LookupObjectType returns a previously registered Object by name.
func (db *Database) LookupObjectType(name string) (*Object, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.objects[name]
	return o, ok
}

// NewTraitType creates and registers a fresh Trait type.
func (db *Database) NewTraitType(name string) *Trait {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := NewTrait(name)
	db.traits[name] = t
	return t
}

// LookupTraitType returns a previously registered Trait by name.
func (db *Database) LookupTraitType(name string) (*Trait, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := db.traits[name]
	return t, ok
}

// NewBlockType builds a Block type; blocks are structural, not registered
// in any name table.
func (db *Database) NewBlockType(kind BlockKind, args []Type, throwType, returnType Type) *Block {
	return &Block{
		BlockKind:  kind,
		Arguments:  args,
		ThrowType:  throwType,
		ReturnType: returnType,
		TypeParams: NewTypeParamTable(),
	}
}

// NewOptionalType wraps inner in an Optional, per spec.md's optional
// wrapping rule (testable property 9).
func (db *Database) NewOptionalType(inner Type) *Optional {
	return &Optional{Inner: inner}
}

// NewShallowInstance returns a copy of a generic Object whose own
// type-parameter table is replaced by params, leaving the attribute
// table untouched — attribute types resolve lazily through the
// parameter table at lookup time (spec.md §4.4).
func (db *Database) NewShallowInstance(generic *Object, params *TypeParamTable) *Object {
	return &Object{
		Name:       generic.Name,
		Prototype:  generic.Prototype,
		Attributes: generic.Attributes,
		TypeParams: params,
		Traits:     generic.Traits,
		Methods:    generic.Methods,
	}
}
