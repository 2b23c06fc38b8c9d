package gojaengine

import (
	stderrors "errors"
	"math/big"
	"strings"

	"github.com/dop251/goja"

	"github.com/wippyai/jseval/value"
)

// project converts a completion value. Primitive strings, numbers, bigints
// and booleans map directly. Everything else goes through JSON.stringify
// and is classified as array, plain object or string. Symbols export as
// their description, so they skip the primitive switch.
func (b *Backend) project(v goja.Value) value.Outcome {
	switch v.(type) {
	case nil, *goja.Object, *goja.Symbol:
	default:
		switch x := v.Export().(type) {
		case string:
			return value.Ok{Value: value.StringValue(x)}
		case int64:
			return value.Ok{Value: value.NumberValue(float64(x))}
		case float64:
			return value.Ok{Value: value.NumberValue(x)}
		case bool:
			return value.Ok{Value: value.BoolValue(x)}
		case *big.Int:
			return value.Ok{Value: value.BigIntValue(x.Int64())}
		}
	}

	arg := v
	if arg == nil {
		arg = goja.Undefined()
	}
	text, err := b.stringify(goja.Undefined(), arg)
	if err != nil {
		return runtimeFailure(err)
	}
	s := b.describe(text)

	obj, isObject := v.(*goja.Object)
	switch {
	case isObject && obj.ClassName() == "Array":
		return value.Ok{Value: value.ArrayValue(s)}
	case isObject:
		if _, callable := goja.AssertFunction(obj); !callable {
			return value.Ok{Value: value.ObjectValue(s)}
		}
	}
	return value.Ok{Value: value.StringValue(s)}
}

// arguments converts tagged arguments to runtime values. Object arguments
// are parsed with the runtime's own JSON.parse.
func (b *Backend) arguments(args []value.Argument) ([]goja.Value, *value.ArgumentFailure) {
	out := make([]goja.Value, len(args))
	for i, a := range args {
		switch a.Kind {
		case value.ArgumentString:
			out[i] = b.vm.ToValue(a.Text)
		case value.ArgumentSymbol:
			out[i] = goja.NewSymbol(a.Text)
		case value.ArgumentNumber:
			out[i] = b.vm.ToValue(a.Number)
		case value.ArgumentBigInt:
			out[i] = b.vm.ToValue(big.NewInt(a.BigInt))
		case value.ArgumentBool:
			out[i] = b.vm.ToValue(a.Bool)
		case value.ArgumentObject:
			v, err := b.parse(goja.Undefined(), b.vm.ToValue(a.Text))
			if err != nil {
				return nil, &value.ArgumentFailure{Index: i, Reason: "invalid JSON: " + exceptionText(err)}
			}
			out[i] = v
		default:
			return nil, &value.ArgumentFailure{Index: i, Reason: "argument has no variant"}
		}
	}
	return out, nil
}

// runtimeFailure captures a thrown value as its string form plus the
// stack frames the runtime recorded.
func runtimeFailure(err error) value.RuntimeFailure {
	var ex *goja.Exception
	if !stderrors.As(err, &ex) {
		// interrupts and stack overflows carry no thrown value
		return value.RuntimeFailure{Message: err.Error(), StackTrace: err.Error()}
	}
	msg := exceptionText(ex)
	full := ex.String()
	stack := strings.Trim(strings.TrimPrefix(full, msg), "\n")
	if stack == "" {
		stack = full
	}
	return value.RuntimeFailure{Message: msg, StackTrace: stack}
}

func exceptionText(err error) string {
	var ex *goja.Exception
	if stderrors.As(err, &ex) {
		if v := ex.Value(); v != nil {
			return v.String()
		}
	}
	return err.Error()
}
