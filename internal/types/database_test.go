package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseInstallsAllBuiltinPrototypes(t *testing.T) {
	db := NewDatabase()

	assert.Equal(t, ProtoInteger, db.IntegerType().ID)
	assert.Equal(t, ProtoFloat, db.FloatType().ID)
	assert.Equal(t, ProtoString, db.StringType().ID)
	assert.Equal(t, ProtoArray, db.ArrayType().ID)
	assert.Equal(t, ProtoBlock, db.BlockType().ID)
	assert.Equal(t, ProtoBoolean, db.BooleanType().ID)
	assert.Equal(t, ProtoByteArray, db.ByteArrayType().ID)
	assert.Equal(t, ProtoNil, db.NilType().ID)
	assert.Equal(t, ProtoModule, db.ModuleType().ID)

	// every ID in the closed [0, 21] range resolves to a distinct instance
	seen := make(map[*Primitive]bool)
	for id := ProtoObject; id <= ProtoPointer; id++ {
		p := db.PrototypeByID(id)
		require.NotNil(t, p)
		assert.False(t, seen[p], "prototype %v installed more than once", id)
		seen[p] = true
	}
}

func TestNewObjectTypeRegistersUnderName(t *testing.T) {
	db := NewDatabase()
	obj := db.NewObjectType("Point")

	got, ok := db.LookupObjectType("Point")
	require.True(t, ok)
	assert.Same(t, obj, got)
}

func TestLookupObjectTypeMissing(t *testing.T) {
	db := NewDatabase()
	_, ok := db.LookupObjectType("Nope")
	assert.False(t, ok)
}

func TestNewShallowInstanceSharesAttributesReplacesParams(t *testing.T) {
	db := NewDatabase()
	generic := db.NewObjectType("Box")
	generic.TypeParams.Add("T")
	generic.Attributes.Define("value", &TypeParameter{Name: "T"}, true)

	params := NewTypeParamTable()
	params.Initialize("T", db.IntegerType())

	instance := db.NewShallowInstance(generic, params)

	assert.Same(t, generic.Attributes, instance.Attributes, "attribute table must be shared, not copied")
	assert.NotSame(t, generic.TypeParams, instance.TypeParams)
	bound, ok := instance.TypeParams.Get("T")
	require.True(t, ok)
	assert.True(t, bound.Equal(db.IntegerType()))
}

func TestLookupMethodOnPrimitive(t *testing.T) {
	db := NewDatabase()
	nilType := db.NilType()
	nilType.Attributes().Define("to_string", db.StringType(), false)

	got, ok := db.LookupMethod(nilType, "to_string")
	require.True(t, ok)
	assert.Equal(t, "String", got.String())

	_, ok = db.LookupMethod(nilType, "missing")
	assert.False(t, ok)
}
