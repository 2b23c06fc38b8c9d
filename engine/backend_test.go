package engine

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/wippyai/jseval/value"
)

// scriptedBackend interprets a tiny command language so actor behavior can
// be tested without a real engine:
//
//	set k v   store v under k
//	get k     read k
//	block     wait until the test closes the gate
//	panic     panic inside the engine
//	throw     runtime failure
//	<other>   echo the source
type scriptedBackend struct {
	globals map[string]string
	gate    chan struct{}
	closed  *atomic.Int32
}

var (
	scriptedSetups atomic.Int32
	scriptedClosed atomic.Int32
	scriptedGate   = make(chan struct{})
)

func init() {
	Register(Factory{
		Name: "scripted",
		Setup: func(Options) error {
			scriptedSetups.Add(1)
			return nil
		},
		New: func(Options) (Backend, error) {
			return &scriptedBackend{
				globals: map[string]string{},
				gate:    scriptedGate,
				closed:  &scriptedClosed,
			}, nil
		},
	})
	Register(Factory{
		Name: "broken",
		New: func(Options) (Backend, error) {
			return nil, fmt.Errorf("no engine available")
		},
	})
	Register(Factory{
		Name:  "unsetup",
		Setup: func(Options) error { return fmt.Errorf("platform init failed") },
		New:   func(Options) (Backend, error) { return &scriptedBackend{}, nil },
	})
}

func (b *scriptedBackend) Evaluate(src string) value.Outcome {
	fields := strings.Fields(src)
	switch {
	case src == "panic":
		panic("engine abort")
	case src == "block":
		<-b.gate
		return value.Ok{Value: value.StringValue("unblocked")}
	case src == "throw":
		return value.RuntimeFailure{Message: "boom", StackTrace: "    at <eval>:1:1(1)"}
	case len(fields) == 3 && fields[0] == "set":
		b.globals[fields[1]] = fields[2]
		return value.Ok{Value: value.StringValue(fields[2])}
	case len(fields) == 2 && fields[0] == "get":
		v, ok := b.globals[fields[1]]
		if !ok {
			return value.RuntimeFailure{Message: "ReferenceError: " + fields[1] + " is not defined", StackTrace: "    at <eval>"}
		}
		return value.Ok{Value: value.StringValue(v)}
	default:
		return value.Ok{Value: value.StringValue(src)}
	}
}

func (b *scriptedBackend) Invoke(name string, args []value.Argument) value.Outcome {
	if name == "echo" && len(args) == 1 {
		return value.Ok{Value: value.StringValue(args[0].Text)}
	}
	return value.ResolutionFailure{Function: name, Found: "undefined"}
}

func (b *scriptedBackend) HeapSnapshot() value.HeapSnapshot {
	return value.HeapSnapshot{
		TotalHeapSize:          1000,
		UsedHeapSize:           100,
		HeapSizeLimit:          10000,
		NumberOfNativeContexts: 1,
	}
}

func (b *scriptedBackend) Close() error {
	if b.closed != nil {
		b.closed.Add(1)
	}
	return nil
}
