package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/config"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/source"
	"github.com/veltra-lang/veltc/internal/types"
)

func newSendTestCtx() (checkCtx, *ModuleCompiler) {
	state := NewState(config.Configuration{}, source.New(nil))
	c := NewModuleCompiler(state, nil, nil)
	return checkCtx{c: c}, c
}

func typedArg(t types.Type) ast.Argument {
	lit := &ast.Literal{Kind: ast.IntLit}
	lit.SetResolvedType(t)
	return ast.Argument{Value: lit}
}

// Testable property 9: a send on Optional(T) resolves directly against Nil
// when Nil itself defines the method, and the result is not wrapped in a
// second Optional layer.
func TestOptionalSendPrefersNilMethod(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	nilBlock := db.NewBlockType(types.MethodBlock, nil, nil, db.StringType())
	db.NilType().Attributes().Define("to_string", nilBlock, false)

	opt := db.NewOptionalType(db.IntegerType())
	send := &ast.Send{Method: "to_string"}

	result := checkOptionalSend(ctx, send, opt)
	assert.True(t, db.StringType().Equal(result), "expected String, got %s", result)
}

// Testable property 9: when Nil has no such method, it's looked up on the
// inner type instead, and the result is wrapped back in Optional.
func TestOptionalSendFallsBackToInnerAndWraps(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	obj := db.NewObjectType("Box")
	block := db.NewBlockType(types.MethodBlock, nil, nil, db.IntegerType())
	obj.Methods.Define("unwrap", block, false)

	opt := db.NewOptionalType(obj)
	send := &ast.Send{Method: "unwrap"}

	result := checkOptionalSend(ctx, send, opt)
	wrapped, ok := result.(*types.Optional)
	require.True(t, ok, "expected *types.Optional, got %T", result)
	assert.True(t, db.IntegerType().Equal(wrapped.Inner))
}

// Testable property 10: a method declared with a *rest parameter reports
// ArgumentCountBelowMinimum (the unbounded-max case) rather than the
// fixed-range ArgumentCountOutOfRange message.
func TestArityBelowMinimumWithRestParameter(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	obj := db.NewObjectType("Logger")
	block := db.NewBlockType(types.MethodBlock, []types.Type{db.StringType()}, nil, db.NilType())
	obj.Methods.Define("log", block, false)
	c.State.Signatures[block] = methodSignature{min: 1, max: unboundedArity, paramNames: []string{"first"}}

	send := &ast.Send{Method: "log"} // zero arguments, below the declared minimum of 1

	checkSendOnReceiver(ctx, send, obj)

	errs := c.State.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.TypeArgumentCount, errs[0].Code)
}

// Testable property 10: enough arguments for a *rest method's minimum
// reports nothing, no matter how many extra arguments follow.
func TestArityWithRestParameterAcceptsAnyCountAboveMinimum(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	obj := db.NewObjectType("Logger")
	block := db.NewBlockType(types.MethodBlock, []types.Type{db.StringType()}, nil, db.NilType())
	obj.Methods.Define("log", block, false)
	c.State.Signatures[block] = methodSignature{min: 1, max: unboundedArity, paramNames: []string{"first"}}

	send := &ast.Send{Method: "log", Args: []ast.Argument{
		typedArg(db.StringType()), typedArg(db.StringType()), typedArg(db.StringType()),
	}}

	checkSendOnReceiver(ctx, send, obj)
	assert.Empty(t, c.State.Diagnostics.Errors())
}

// A fixed-arity method out of range still reports the ordinary
// ArgumentCountOutOfRange shape, not the unbounded-range one.
func TestArityOutOfRangeWithFixedMax(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	obj := db.NewObjectType("Point")
	block := db.NewBlockType(types.MethodBlock, []types.Type{db.IntegerType(), db.IntegerType()}, nil, db.NilType())
	obj.Methods.Define("move", block, false)
	c.State.Signatures[block] = methodSignature{min: 2, max: 2, paramNames: []string{"x", "y"}}

	send := &ast.Send{Method: "move", Args: []ast.Argument{typedArg(db.IntegerType())}}

	checkSendOnReceiver(ctx, send, obj)

	errs := c.State.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.TypeArgumentCount, errs[0].Code)
}

// Testable property: generic return types substitute the receiver's own
// shallow-instance bindings before the argument-inferred bindings are
// applied, e.g. calling a method on Box!(Integer) resolves T to Integer.
func TestSubstituteAppliesReceiverShallowInstanceBinding(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	generic := db.NewObjectType("Box")
	params := types.NewTypeParamTable()
	params.Add("T")
	block := db.NewBlockType(types.MethodBlock, nil, nil, &types.TypeParameter{Name: "T"})
	generic.Methods.Define("get", block, false)

	bound := types.NewTypeParamTable()
	bound.Add("T")
	bound.Initialize("T", db.IntegerType())
	instance := db.NewShallowInstance(generic, bound)

	send := &ast.Send{Method: "get"}
	result := checkSendOnReceiver(ctx, send, instance)

	assert.True(t, db.IntegerType().Equal(result), "expected T bound to Integer, got %s", result)
}

// A keyword argument naming a parameter the method doesn't declare reports
// UnknownKeywordArgument instead of silently matching by position.
func TestUnknownKeywordArgumentReported(t *testing.T) {
	ctx, c := newSendTestCtx()
	db := c.State.Types

	obj := db.NewObjectType("Point")
	block := db.NewBlockType(types.MethodBlock, []types.Type{db.IntegerType()}, nil, db.NilType())
	obj.Methods.Define("move", block, false)
	c.State.Signatures[block] = methodSignature{min: 1, max: 1, paramNames: []string{"x"}}

	send := &ast.Send{Method: "move", Args: []ast.Argument{{Name: "z", Value: func() ast.Expr {
		lit := &ast.Literal{Kind: ast.IntLit}
		lit.SetResolvedType(db.IntegerType())
		return lit
	}()}}}

	checkSendOnReceiver(ctx, send, obj)

	errs := c.State.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, diag.TypeUnknownKeywordArg, errs[0].Code)
}
