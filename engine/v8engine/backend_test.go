//go:build v8

package v8engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/value"
)

func TestV8Actor(t *testing.T) {
	a, err := engine.New(engine.Options{Backend: Name})
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()

	o, err := a.Evaluate(ctx, "1+1;")
	require.NoError(t, err)
	assert.Equal(t, value.Ok{Value: value.NumberValue(2)}, o)

	o, err = a.Evaluate(ctx, "[1, 2, 3]")
	require.NoError(t, err)
	assert.Equal(t, value.Ok{Value: value.ArrayValue("[1,2,3]")}, o)

	o, err = a.Evaluate(ctx, "10n ** 3n")
	require.NoError(t, err)
	assert.Equal(t, value.Ok{Value: value.BigIntValue(1000)}, o)

	o, err = a.Evaluate(ctx, "function (")
	require.NoError(t, err)
	f, ok := o.(value.CompileFailure)
	require.True(t, ok)
	assert.Empty(t, f.Stack())

	o, err = a.Evaluate(ctx, "function fail() { throw new Error('x'); } fail();")
	require.NoError(t, err)
	rf, ok := o.(value.RuntimeFailure)
	require.True(t, ok)
	assert.Contains(t, rf.Exception(), "x")
	assert.NotEmpty(t, rf.Stack())

	o, err = a.Invoke(ctx, "doesNotExist", nil)
	require.NoError(t, err)
	assert.Equal(t, value.ResolutionFailure{Function: "doesNotExist", Found: "undefined"}, o)

	_, err = a.Evaluate(ctx, "function kind(v) { return typeof v; }")
	require.NoError(t, err)
	o, err = a.Invoke(ctx, "kind", []value.Argument{value.BigIntArg(7)})
	require.NoError(t, err)
	assert.Equal(t, value.Ok{Value: value.StringValue("bigint")}, o)

	o, err = a.Invoke(ctx, "kind", []value.Argument{value.SymbolArg("s")})
	require.NoError(t, err)
	assert.Equal(t, value.Ok{Value: value.StringValue("symbol")}, o)

	h, err := a.HeapSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, h.Consistent())
	assert.GreaterOrEqual(t, h.NumberOfNativeContexts, uint64(1))
}
