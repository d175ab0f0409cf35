package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltra-lang/veltc/internal/ast"
)

func TestObjectDefWithAttributesAndMethod(t *testing.T) {
	f := mustParse(t, `
object Point {
  @x
  @y: Integer

  def initialize(x: Integer, y: Integer) {
    @x = x
    @y = y
  }
}
`)
	require.Len(t, f.Decls, 1)
	obj, ok := f.Decls[0].(*ast.ObjectDef)
	require.True(t, ok)
	assert.Equal(t, "Point", obj.Name)
	require.Len(t, obj.Attributes, 2)
	assert.Equal(t, "x", obj.Attributes[0].Name)
	assert.Nil(t, obj.Attributes[0].Type)
	assert.Equal(t, "y", obj.Attributes[1].Name)
	require.NotNil(t, obj.Attributes[1].Type)

	require.Len(t, obj.Methods, 1)
	m := obj.Methods[0]
	assert.Equal(t, "initialize", m.Name)
	require.Len(t, m.Params, 2)
	assert.Equal(t, "x", m.Params[0].Name)
	require.Len(t, m.Body, 2)
}

func TestObjectDefWithTypeParamsAndStaticMethod(t *testing.T) {
	f := mustParse(t, `
object Box!(T) {
  @value: T

  static def wrapping(value: T) -> Box!(T) {
    value
  }
}
`)
	obj, ok := f.Decls[0].(*ast.ObjectDef)
	require.True(t, ok)
	assert.Equal(t, []string{"T"}, obj.TypeParams)
	require.Len(t, obj.Methods, 1)
	assert.True(t, obj.Methods[0].Static)
}

func TestTraitDefWithRequiredMethodAndRequiredTraits(t *testing.T) {
	f := mustParse(t, `
trait Comparable: Equal + Hashable {
  def compare_to(other: Self) -> Integer
}
`)
	trait, ok := f.Decls[0].(*ast.TraitDef)
	require.True(t, ok)
	assert.Equal(t, "Comparable", trait.Name)
	assert.Equal(t, []string{"Equal", "Hashable"}, trait.RequiredTraits)
	require.Len(t, trait.Methods, 1)
	assert.Nil(t, trait.Methods[0].Body, "omitted body marks the method required")
}

func TestTraitImplForType(t *testing.T) {
	f := mustParse(t, `
impl Comparable for Point {
  def compare_to(other: Self) -> Integer {
    0
  }
}
`)
	impl, ok := f.Decls[0].(*ast.TraitImpl)
	require.True(t, ok)
	assert.Equal(t, "Comparable", impl.Trait)
	assert.Equal(t, "Point", impl.ForType)
	require.Len(t, impl.Methods, 1)
}

func TestMethodDefWithThrowTypeAndWhereClause(t *testing.T) {
	f := mustParse(t, `
def map(items: Array!(T), transform: do (T) -> U)!(T, U) !! Error -> Array!(U) where T: Equal, U: Hashable {
  items
}
`)
	m, ok := f.Decls[0].(*ast.MethodDef)
	require.True(t, ok)
	assert.Equal(t, "map", m.Name)
	assert.Equal(t, []string{"T", "U"}, m.TypeParams)
	require.Len(t, m.Params, 2)
	require.NotNil(t, m.ThrowType)
	require.NotNil(t, m.ReturnType)
	require.Len(t, m.Where, 2)
	assert.Equal(t, "T", m.Where[0].TypeParam)
	assert.Equal(t, []string{"Equal"}, m.Where[0].RequiredTraits)
}

func TestMethodDefWithRestAndDefaultParams(t *testing.T) {
	f := mustParse(t, `
def f(a, b = 1, *rest) {
  a
}
`)
	m, ok := f.Decls[0].(*ast.MethodDef)
	require.True(t, ok)
	require.Len(t, m.Params, 3)
	assert.Equal(t, "a", m.Params[0].Name)
	assert.Equal(t, "b", m.Params[1].Name)
	require.NotNil(t, m.Params[1].Default)
	assert.True(t, m.Params[2].Rest)
	assert.Equal(t, "rest", m.Params[2].Name)
}

func TestOperatorOverloadMethodName(t *testing.T) {
	f := mustParse(t, `
impl Add for Point {
  def +(other: Point) -> Point {
    other
  }
}
`)
	impl, ok := f.Decls[0].(*ast.TraitImpl)
	require.True(t, ok)
	require.Len(t, impl.Methods, 1)
	assert.Equal(t, "+", impl.Methods[0].Name)
}

func TestTypeExprOptionalAndBlockForms(t *testing.T) {
	f := mustParse(t, `
def f(cb: do (Integer) !! Error -> ?String) {
  cb
}
`)
	m, ok := f.Decls[0].(*ast.MethodDef)
	require.True(t, ok)
	require.Len(t, m.Params, 1)
	blockType, ok := m.Params[0].Type.(*ast.BlockTypeExpr)
	require.True(t, ok)
	require.Len(t, blockType.Params, 1)
	require.NotNil(t, blockType.ThrowType)
	_, ok = blockType.Return.(*ast.OptionalTypeExpr)
	assert.True(t, ok)
}
