package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubType is a minimal TypeRef for table tests that don't need the real
// internal/types package.
type stubType string

func (s stubType) String() string { return string(s) }
func (s stubType) Equal(o TypeRef) bool {
	other, ok := o.(stubType)
	return ok && s == other
}

func TestTableDefineAssignsSequentialIndices(t *testing.T) {
	tbl := New(nil)
	a := tbl.Define("a", stubType("Int"), false)
	b := tbl.Define("b", stubType("String"), true)

	assert.Equal(t, int32(0), a.Index)
	assert.Equal(t, int32(1), b.Index)
	assert.True(t, b.Mutable)
	assert.Equal(t, 2, tbl.Length())
}

func TestTableGetMissingReturnsNull(t *testing.T) {
	tbl := New(nil)
	assert.True(t, tbl.Get("missing").IsNull())
}

func TestTableReassignPreservesIndex(t *testing.T) {
	tbl := New(nil)
	sym := tbl.Define("x", stubType("Int"), true)
	updated := tbl.Reassign("x", stubType("String"))

	require.False(t, updated.IsNull())
	assert.Equal(t, sym.Index, updated.Index)
	assert.Equal(t, stubType("String"), updated.Type)
}

func TestTableReassignMissingReturnsNull(t *testing.T) {
	tbl := New(nil)
	assert.True(t, tbl.Reassign("nope", stubType("Int")).IsNull())
}

func TestLookupWithParentWalksChain(t *testing.T) {
	root := New(nil)
	root.Define("outer", stubType("Int"), false)

	child := New(root)
	child.Define("inner", stubType("String"), false)

	depth, sym := child.LookupWithParent("outer")
	assert.Equal(t, 1, depth)
	assert.Equal(t, "outer", sym.Name)

	depth, sym = child.LookupWithParent("inner")
	assert.Equal(t, 0, depth)
	assert.Equal(t, "inner", sym.Name)

	depth, sym = child.LookupWithParent("nowhere")
	assert.Equal(t, -1, depth)
	assert.True(t, sym.IsNull())
}

func TestLookupInRootSkipsIntermediateScopes(t *testing.T) {
	root := New(nil)
	root.Define("g", stubType("Int"), false)

	mid := New(root)
	mid.Define("g", stubType("String"), false) // shadow, should be skipped

	leaf := New(mid)

	sym := leaf.LookupInRoot("g")
	require.False(t, sym.IsNull())
	assert.Equal(t, stubType("Int"), sym.Type)
}

func TestSliceAndNames(t *testing.T) {
	tbl := New(nil)
	tbl.Define("a", stubType("Int"), false)
	tbl.Define("b", stubType("Int"), false)
	tbl.Define("c", stubType("Int"), false)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())

	mid := tbl.Slice(1, 3)
	require.Len(t, mid, 2)
	assert.Equal(t, "b", mid[0].Name)
	assert.Equal(t, "c", mid[1].Name)
}

func TestWithUniqueNamesRewritesStorageButKeepsLookupByOriginalName(t *testing.T) {
	tbl := New(nil)
	var sym Symbol
	tbl.WithUniqueNames(func() {
		sym = tbl.Define("tmp", stubType("Int"), false)
	})

	assert.NotEqual(t, "tmp", sym.Name, "stored name should be rewritten under unique-names mode")
	got := tbl.Get("tmp")
	require.False(t, got.IsNull())
	assert.Equal(t, sym.Name, got.Name)

	// Outside the scope, new definitions use plain names again.
	plain := tbl.Define("other", stubType("Int"), false)
	assert.Equal(t, "other", plain.Name)
}

func TestTableEqualComparesContentsAndParent(t *testing.T) {
	root1 := New(nil)
	root1.Define("x", stubType("Int"), false)
	root2 := New(nil)
	root2.Define("x", stubType("Int"), false)
	assert.True(t, root1.Equal(root2))

	child1 := New(root1)
	child1.Define("y", stubType("String"), true)
	child2 := New(root2)
	child2.Define("y", stubType("String"), true)
	assert.True(t, child1.Equal(child2))

	child3 := New(New(nil))
	child3.Define("y", stubType("String"), true)
	assert.False(t, child1.Equal(child3), "different parent contents should break equality")
}

func TestSymbolEqual(t *testing.T) {
	a := Symbol{Name: "x", Type: stubType("Int"), Index: 0, Mutable: false}
	b := Symbol{Name: "x", Type: stubType("Int"), Index: 0, Mutable: false}
	c := Symbol{Name: "x", Type: stubType("String"), Index: 0, Mutable: false}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
