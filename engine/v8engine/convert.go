//go:build v8

package v8engine

import (
	v8 "github.com/tommie/v8go"

	"github.com/wippyai/jseval/value"
)

func (b *Backend) project(v *v8.Value) value.Outcome {
	switch {
	case v.IsString():
		return value.Ok{Value: value.StringValue(v.String())}
	case v.IsNumber():
		return value.Ok{Value: value.NumberValue(v.Number())}
	case v.IsBigInt():
		return value.Ok{Value: value.BigIntValue(v.BigInt().Int64())}
	case v.IsBoolean():
		return value.Ok{Value: value.BoolValue(v.Boolean())}
	}

	s, err := v8.JSONStringify(b.ctx, v)
	if err != nil {
		return runtimeFailure(err)
	}
	if s == "" {
		s = "undefined"
	}

	switch {
	case v.IsArray():
		return value.Ok{Value: value.ArrayValue(s)}
	case v.IsObject() && !v.IsFunction():
		return value.Ok{Value: value.ObjectValue(s)}
	}
	return value.Ok{Value: value.StringValue(s)}
}

func (b *Backend) arguments(args []value.Argument) ([]v8.Valuer, *value.ArgumentFailure) {
	out := make([]v8.Valuer, len(args))
	for i, a := range args {
		var (
			v   *v8.Value
			err error
		)
		switch a.Kind {
		case value.ArgumentString:
			v, err = v8.NewValue(b.iso, a.Text)
		case value.ArgumentSymbol:
			var desc *v8.Value
			if desc, err = v8.NewValue(b.iso, a.Text); err == nil {
				v, err = b.symbol.Call(v8.Undefined(b.iso), desc)
			}
		case value.ArgumentNumber:
			v, err = v8.NewValue(b.iso, a.Number)
		case value.ArgumentBigInt:
			v, err = v8.NewValue(b.iso, a.BigInt)
		case value.ArgumentBool:
			v, err = v8.NewValue(b.iso, a.Bool)
		case value.ArgumentObject:
			v, err = v8.JSONParse(b.ctx, a.Text)
			if err != nil {
				return nil, &value.ArgumentFailure{Index: i, Reason: "invalid JSON: " + err.Error()}
			}
		default:
			return nil, &value.ArgumentFailure{Index: i, Reason: "argument has no variant"}
		}
		if err != nil {
			return nil, &value.ArgumentFailure{Index: i, Reason: err.Error()}
		}
		out[i] = v
	}
	return out, nil
}
