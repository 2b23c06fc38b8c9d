package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/wippyai/jseval/value"
)

// argList collects typed -arg flags.
type argList []value.Argument

func (a *argList) String() string {
	return strings.Join(lo.Map(*a, func(v value.Argument, _ int) string { return v.String() }), ", ")
}

func (a *argList) Set(s string) error {
	v, err := parseArg(s)
	if err != nil {
		return err
	}
	*a = append(*a, v)
	return nil
}

func (a argList) values() []value.Argument {
	return a
}

// parseArg reads "kind:text". Text without a known prefix is a string.
func parseArg(s string) (value.Argument, error) {
	kind, text, found := strings.Cut(s, ":")
	if !found {
		return value.StringArg(s), nil
	}
	switch kind {
	case "s":
		return value.StringArg(text), nil
	case "sym":
		return value.SymbolArg(text), nil
	case "n":
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Argument{}, fmt.Errorf("number argument %q: %w", text, err)
		}
		return value.NumberArg(n), nil
	case "i":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return value.Argument{}, fmt.Errorf("bigint argument %q: %w", text, err)
		}
		return value.BigIntArg(n), nil
	case "b":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return value.Argument{}, fmt.Errorf("bool argument %q: %w", text, err)
		}
		return value.BoolArg(b), nil
	case "o":
		if !json.Valid([]byte(text)) {
			return value.Argument{}, fmt.Errorf("object argument is not valid JSON: %s", text)
		}
		return value.ObjectArg(text), nil
	default:
		return value.StringArg(s), nil
	}
}
