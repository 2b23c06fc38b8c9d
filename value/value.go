package value

import (
	"encoding/json"
	"strconv"

	"github.com/wippyai/jseval/errors"
)

// Kind is the projected category of a successful completion value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBigInt
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a projected completion value. Arrays and objects carry their
// JSON serialization in Text; everything the engine cannot express as one
// of the other kinds is projected to its string conversion.
type Value struct {
	Text   string
	Number float64
	BigInt int64
	Kind   Kind
	Bool   bool
}

func StringValue(s string) Value   { return Value{Kind: KindString, Text: s} }
func NumberValue(n float64) Value  { return Value{Kind: KindNumber, Number: n} }
func BigIntValue(n int64) Value    { return Value{Kind: KindBigInt, BigInt: n} }
func BoolValue(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func ArrayValue(text string) Value { return Value{Kind: KindArray, Text: text} }
func ObjectValue(text string) Value {
	return Value{Kind: KindObject, Text: text}
}

// String renders the value the way a REPL would print it.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindBigInt:
		return strconv.FormatInt(v.BigInt, 10) + "n"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

// Interface returns the natural Go form: string, float64, int64, bool, or
// json.RawMessage for arrays and objects.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Text
	case KindNumber:
		return v.Number
	case KindBigInt:
		return v.BigInt
	case KindBool:
		return v.Bool
	case KindArray, KindObject:
		return json.RawMessage(v.Text)
	default:
		return nil
	}
}

// Decode stores the value into dst, which must be a non-nil pointer.
// Arrays and objects are unmarshaled from their JSON text; scalars go
// through a JSON round trip so any compatible Go type works.
func (v Value) Decode(dst any) error {
	switch p := dst.(type) {
	case nil:
		return errors.NilPointer(errors.PhaseDecode, nil, "<nil>")
	case *string:
		if v.Kind == KindString {
			*p = v.Text
			return nil
		}
	case *float64:
		if v.Kind == KindNumber {
			*p = v.Number
			return nil
		}
	case *int64:
		if v.Kind == KindBigInt {
			*p = v.BigInt
			return nil
		}
	case *bool:
		if v.Kind == KindBool {
			*p = v.Bool
			return nil
		}
	}

	var data []byte
	switch v.Kind {
	case KindArray, KindObject:
		data = []byte(v.Text)
	case KindInvalid:
		return errors.New(errors.PhaseDecode, errors.KindInvalidVariant).
			Detail("empty value").Build()
	default:
		var err error
		if data, err = json.Marshal(v.Interface()); err != nil {
			return errors.Wrap(errors.PhaseDecode, errors.KindTypeMismatch, err, "marshal "+v.Kind.String())
		}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			JSType(v.Kind.String()).Cause(err).Build()
	}
	return nil
}

type wireValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}; array and
// object text is embedded verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.Kind.String(), Value: v.Interface()}
	if v.Kind == KindBigInt {
		// bigint exceeds float64 precision in most JSON readers
		w.Value = strconv.FormatInt(v.BigInt, 10)
	}
	return json.Marshal(w)
}
