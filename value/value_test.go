package value

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jseval/errors"
)

func TestFromGo(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	tests := []struct {
		name string
		in   any
		want Argument
	}{
		{"string", "hi", StringArg("hi")},
		{"symbol", Symbol("tag"), SymbolArg("tag")},
		{"json", JSON(`{"a":1}`), ObjectArg(`{"a":1}`)},
		{"raw message", json.RawMessage(`[1]`), ObjectArg(`[1]`)},
		{"bool", true, BoolArg(true)},
		{"float64", 2.5, NumberArg(2.5)},
		{"float32", float32(0.5), NumberArg(0.5)},
		{"int", 7, NumberArg(7)},
		{"uint8", uint8(255), NumberArg(255)},
		{"int64", int64(9007199254740993), BigIntArg(9007199254740993)},
		{"uint64", uint64(42), BigIntArg(42)},
		{"big.Int", big.NewInt(-5), BigIntArg(-5)},
		{"struct", point{1, 2}, ObjectArg(`{"x":1,"y":2}`)},
		{"nil", nil, ObjectArg("null")},
		{"argument passthrough", NumberArg(3), NumberArg(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromGoRejects(t *testing.T) {
	_, err := FromGo(uint64(math.MaxUint64))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindTypeMismatch}))

	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	_, err = FromGo(huge)
	require.Error(t, err)

	_, err = FromGo(make(chan int))
	require.Error(t, err)
}

func TestFromGoAllReportsIndex(t *testing.T) {
	args, err := FromGoAll([]any{"a", 1, true})
	require.NoError(t, err)
	assert.Equal(t, []Argument{StringArg("a"), NumberArg(1), BoolArg(true)}, args)

	_, err = FromGoAll([]any{"a", func() {}})
	require.Error(t, err)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, []string{"args", "1"}, e.Path)
}

func TestArgumentString(t *testing.T) {
	assert.Equal(t, `"x"`, StringArg("x").String())
	assert.Equal(t, "Symbol(s)", SymbolArg("s").String())
	assert.Equal(t, "1.5", NumberArg(1.5).String())
	assert.Equal(t, "12n", BigIntArg(12).String())
	assert.Equal(t, "false", BoolArg(false).String())
	assert.Equal(t, `{"a":1}`, ObjectArg(`{"a":1}`).String())
	assert.Equal(t, "<invalid>", Argument{}.String())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello").String())
	assert.Equal(t, "2", NumberValue(2).String())
	assert.Equal(t, "NaN", NumberValue(math.NaN()).String())
	assert.Equal(t, "-3n", BigIntValue(-3).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "[1,2]", ArrayValue("[1,2]").String())
	assert.Equal(t, `{"a":1}`, ObjectValue(`{"a":1}`).String())
}

func TestValueDecode(t *testing.T) {
	var s string
	require.NoError(t, StringValue("x").Decode(&s))
	assert.Equal(t, "x", s)

	var n int
	require.NoError(t, NumberValue(4).Decode(&n))
	assert.Equal(t, 4, n)

	var i int64
	require.NoError(t, BigIntValue(1<<60).Decode(&i))
	assert.Equal(t, int64(1<<60), i)

	var xs []int
	require.NoError(t, ArrayValue("[1,2,3]").Decode(&xs))
	assert.Equal(t, []int{1, 2, 3}, xs)

	var m map[string]any
	require.NoError(t, ObjectValue(`{"a":"b"}`).Decode(&m))
	assert.Equal(t, map[string]any{"a": "b"}, m)

	var b bool
	assert.Error(t, StringValue("x").Decode(&b))
	assert.Error(t, Value{}.Decode(&s))
	assert.Error(t, StringValue("x").Decode(nil))
}

func TestValueMarshalJSON(t *testing.T) {
	data, err := json.Marshal(ObjectValue(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"object","value":{"a":1}}`, string(data))

	data, err = json.Marshal(BigIntValue(9007199254740993))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"bigint","value":"9007199254740993"}`, string(data))

	data, err = json.Marshal(NumberValue(1.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"number","value":1.5}`, string(data))
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name      string
		out       Failure
		kind      FailureKind
		exception string
		stack     string
	}{
		{"compile", CompileFailure{Message: "SyntaxError: x"}, FailureCompile, "SyntaxError: x", ""},
		{"runtime", RuntimeFailure{Message: "Error: boom", StackTrace: "    at f"}, FailureRuntime, "Error: boom", "    at f"},
		{"resolution", ResolutionFailure{Function: "nope", Found: "undefined"}, FailureResolution, "function 'nope' not found, got: undefined", ""},
		{"argument", ArgumentFailure{Index: 2, Reason: "bad json"}, FailureArgument, "invalid argument 2: bad json", ""},
		{"argument list", ArgumentFailure{Index: -1, Reason: "null list"}, FailureArgument, "invalid arguments: null list", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.out.FailureKind())
			assert.Equal(t, tt.exception, tt.out.Exception())
			assert.Equal(t, tt.stack, tt.out.Stack())
		})
	}
}

func TestAsError(t *testing.T) {
	v, err := AsError(Ok{Value: NumberValue(2)})
	require.NoError(t, err)
	assert.Equal(t, NumberValue(2), v)

	_, err = AsError(RuntimeFailure{Message: "Error: boom", StackTrace: "    at <eval>:1:7(3)"})
	var se *ScriptError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, FailureRuntime, se.Kind)
	assert.Equal(t, "    at <eval>:1:7(3)", se.StackTrace)
	assert.Equal(t, "runtime error: Error: boom", err.Error())
}

func TestHeapSnapshotConsistent(t *testing.T) {
	ok := HeapSnapshot{
		TotalHeapSize:          100,
		UsedHeapSize:           60,
		HeapSizeLimit:          1000,
		MallocedMemory:         10,
		PeakMallocedMemory:     20,
		UsedGlobalHandlesSize:  1,
		TotalGlobalHandlesSize: 2,
	}
	assert.True(t, ok.Consistent())

	bad := ok
	bad.UsedHeapSize = 200
	assert.False(t, bad.Consistent())

	bad = ok
	bad.PeakMallocedMemory = 5
	assert.False(t, bad.Consistent())

	assert.True(t, HeapSnapshot{}.Consistent())
}
