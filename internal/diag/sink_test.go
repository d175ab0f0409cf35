package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltra-lang/veltc/internal/ast"
)

func dummySpan() ast.Span {
	f := &ast.SourceFile{Path: "t.velt", Src: "x"}
	p := ast.Pos{Line: 1, Column: 1, File: f}
	return ast.Span{Start: p, End: p}
}

func TestSinkCollectsWithoutShortCircuiting(t *testing.T) {
	s := NewSink()
	s.Add(UndefinedLocal("resolve", dummySpan(), "a"))
	s.Add(UndefinedLocal("resolve", dummySpan(), "b"))
	s.Add(UndefinedLocal("resolve", dummySpan(), "c"))

	require.Equal(t, 3, s.Len())
	assert.True(t, s.HasErrors())
	assert.Len(t, s.Errors(), 3)
	assert.Empty(t, s.Warnings())
}

func TestSinkSeparatesWarningsFromErrors(t *testing.T) {
	s := NewSink()
	s.Add(UnusedThrowType("check_throws", dummySpan()))
	s.Add(UnreachableCode("check_throws", dummySpan()))

	assert.False(t, s.HasErrors())
	assert.Len(t, s.Warnings(), 2)
	assert.Empty(t, s.Errors())
}

func TestSinkMixedLevels(t *testing.T) {
	s := NewSink()
	s.Add(UnusedThrowType("check_throws", dummySpan()))
	s.Add(ThrowAtTopLevel("check_throws", dummySpan()))

	assert.True(t, s.HasErrors())
	assert.Len(t, s.Warnings(), 1)
	assert.Len(t, s.Errors(), 1)
}

func TestCategoryOfKnownAndUnknownCode(t *testing.T) {
	assert.Equal(t, CategoryNameRes, CategoryOf(NameUndefinedLocal))
	assert.Equal(t, CategoryType, CategoryOf(TypeMismatch))
	assert.Equal(t, Category(""), CategoryOf(Code("NOPE999")))
}

func TestIsWarningOnlyMarksTheTwoControlFlowWarnings(t *testing.T) {
	assert.True(t, IsWarning(CtrlUnusedThrowType))
	assert.True(t, IsWarning(CtrlUnreachableCode))
	assert.False(t, IsWarning(CtrlThrowAtTopLevel))
	assert.False(t, IsWarning(TypeMismatch))
}

func TestReportErrorStringIncludesSpanAndCode(t *testing.T) {
	r := UndefinedConstant("resolve", dummySpan(), "Foo")
	msg := r.Error()
	assert.Contains(t, msg, "NAM003")
	assert.Contains(t, msg, "Foo")
	assert.Contains(t, msg, "t.velt:1:1")
}

func TestReportJSONMarshalsLevelAsString(t *testing.T) {
	r := TypeMismatchReport("typecheck", dummySpan(), "Integer", "String")
	data, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"error"`)
	assert.Contains(t, string(data), `"code":"TYP001"`)
}

func TestSinkResetClears(t *testing.T) {
	s := NewSink()
	s.Add(UndefinedLocal("resolve", dummySpan(), "a"))
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.HasErrors())
}
