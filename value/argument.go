package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/wippyai/jseval/errors"
)

// ArgumentKind discriminates the populated variant of an Argument.
type ArgumentKind uint8

const (
	ArgumentInvalid ArgumentKind = iota
	ArgumentString
	ArgumentSymbol
	ArgumentNumber
	ArgumentBigInt
	ArgumentBool
	ArgumentObject
)

func (k ArgumentKind) String() string {
	switch k {
	case ArgumentString:
		return "string"
	case ArgumentSymbol:
		return "symbol"
	case ArgumentNumber:
		return "number"
	case ArgumentBigInt:
		return "bigint"
	case ArgumentBool:
		return "bool"
	case ArgumentObject:
		return "object"
	default:
		return "invalid"
	}
}

// Argument is a tagged function argument. Kind alone decides which field
// carries the payload; Text holds the string, the symbol description or
// the object's JSON text.
type Argument struct {
	Text   string
	Number float64
	BigInt int64
	Kind   ArgumentKind
	Bool   bool
}

func StringArg(s string) Argument    { return Argument{Kind: ArgumentString, Text: s} }
func SymbolArg(desc string) Argument { return Argument{Kind: ArgumentSymbol, Text: desc} }
func NumberArg(n float64) Argument   { return Argument{Kind: ArgumentNumber, Number: n} }
func BigIntArg(n int64) Argument     { return Argument{Kind: ArgumentBigInt, BigInt: n} }
func BoolArg(b bool) Argument        { return Argument{Kind: ArgumentBool, Bool: b} }

// ObjectArg carries JSON text that the engine parses with its own JSON.parse
// at call time.
func ObjectArg(jsonText string) Argument { return Argument{Kind: ArgumentObject, Text: jsonText} }

func (a Argument) String() string {
	switch a.Kind {
	case ArgumentString:
		return strconv.Quote(a.Text)
	case ArgumentSymbol:
		return "Symbol(" + a.Text + ")"
	case ArgumentNumber:
		return strconv.FormatFloat(a.Number, 'g', -1, 64)
	case ArgumentBigInt:
		return strconv.FormatInt(a.BigInt, 10) + "n"
	case ArgumentBool:
		return strconv.FormatBool(a.Bool)
	case ArgumentObject:
		return a.Text
	default:
		return "<invalid>"
	}
}

// Symbol marks a Go string that should reach the script as a fresh
// Symbol with this description rather than as a string.
type Symbol string

// JSON marks Go text that is already a JSON document and should be parsed
// by the engine instead of being re-encoded.
type JSON string

// FromGo converts a Go value into an Argument.
//
//	string                       -> string
//	Symbol                       -> symbol
//	JSON, json.RawMessage        -> object (text passed through)
//	bool                         -> bool
//	float32, float64, int, int8..int32, uint, uint8..uint32 -> number
//	int64, uint64, *big.Int      -> bigint (must fit in int64)
//	Argument                     -> unchanged
//	nil, anything else           -> object via encoding/json
func FromGo(v any) (Argument, error) {
	switch x := v.(type) {
	case Argument:
		return x, nil
	case string:
		return StringArg(x), nil
	case Symbol:
		return SymbolArg(string(x)), nil
	case JSON:
		return ObjectArg(string(x)), nil
	case json.RawMessage:
		return ObjectArg(string(x)), nil
	case bool:
		return BoolArg(x), nil
	case float64:
		return NumberArg(x), nil
	case float32:
		return NumberArg(float64(x)), nil
	case int:
		return NumberArg(float64(x)), nil
	case int8:
		return NumberArg(float64(x)), nil
	case int16:
		return NumberArg(float64(x)), nil
	case int32:
		return NumberArg(float64(x)), nil
	case uint:
		return NumberArg(float64(x)), nil
	case uint8:
		return NumberArg(float64(x)), nil
	case uint16:
		return NumberArg(float64(x)), nil
	case uint32:
		return NumberArg(float64(x)), nil
	case int64:
		return BigIntArg(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Argument{}, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				GoType("uint64").JSType("bigint").Value(x).
				Detail("value overflows a signed 64-bit bigint").Build()
		}
		return BigIntArg(int64(x)), nil
	case *big.Int:
		if x == nil || !x.IsInt64() {
			return Argument{}, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				GoType("*big.Int").JSType("bigint").
				Detail("value does not fit a signed 64-bit bigint").Build()
		}
		return BigIntArg(x.Int64()), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Argument{}, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			GoType(fmt.Sprintf("%T", v)).JSType("object").Cause(err).
			Detail("value is not JSON encodable").Build()
	}
	return ObjectArg(string(data)), nil
}

// FromGoAll converts a list of Go values, reporting the index of the first
// value that cannot be converted.
func FromGoAll(vs []any) ([]Argument, error) {
	args := make([]Argument, len(vs))
	for i, v := range vs {
		a, err := FromGo(v)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = []string{"args", strconv.Itoa(i)}
			}
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}
