package gojaengine

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"go.uber.org/zap"

	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/value"
)

// Name is the registry name of this backend.
const Name = "goja"

func init() {
	engine.Register(engine.Factory{Name: Name, New: New})
}

// Backend evaluates scripts in one goja runtime.
type Backend struct {
	vm        *goja.Runtime
	stringify goja.Callable
	parse     goja.Callable
	peak      uint64
}

// New creates a runtime configured from opts.
func New(opts engine.Options) (engine.Backend, error) {
	log := opts.Logger
	if log == nil {
		log = engine.Logger()
	}

	vm := goja.New()
	if opts.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(opts.MaxCallStackSize)
	}

	var printer *engine.Console
	if opts.Console {
		printer = engine.NewConsole(log)
	} else {
		printer = engine.NewConsole(zap.NewNop())
	}

	var registry *require.Registry
	if opts.ModuleDir != "" {
		registry = require.NewRegistry(require.WithGlobalFolders(opts.ModuleDir))
	} else {
		registry = require.NewRegistry(require.WithLoader(func(string) ([]byte, error) {
			return nil, require.ModuleFileDoesNotExistError
		}))
	}
	registry.RegisterNativeModule("console", console.RequireWithPrinter(printer))
	registry.Enable(vm)
	console.Enable(vm)

	b := &Backend{vm: vm}

	json := vm.Get("JSON")
	if json == nil {
		return nil, errors.Unsupported(errors.PhaseLifecycle, "runtime has no JSON object")
	}
	jsonObj := json.ToObject(vm)
	var ok bool
	if b.stringify, ok = goja.AssertFunction(jsonObj.Get("stringify")); !ok {
		return nil, errors.Unsupported(errors.PhaseLifecycle, "JSON.stringify is not callable")
	}
	if b.parse, ok = goja.AssertFunction(jsonObj.Get("parse")); !ok {
		return nil, errors.Unsupported(errors.PhaseLifecycle, "JSON.parse is not callable")
	}

	return b, nil
}

// Evaluate compiles source as a classic script and runs it in the global
// scope.
func (b *Backend) Evaluate(source string) value.Outcome {
	prog, err := goja.Compile("<eval>", source, false)
	if err != nil {
		return value.CompileFailure{Message: "script failed to compile: " + err.Error()}
	}

	v, err := b.vm.RunProgram(prog)
	if err != nil {
		return runtimeFailure(err)
	}
	return b.project(v)
}

// Invoke resolves name on the global object and calls it with the global
// object as receiver.
func (b *Backend) Invoke(name string, args []value.Argument) value.Outcome {
	global := b.vm.GlobalObject()
	target, err := b.lookup(global, name)
	if err != nil {
		return runtimeFailure(err)
	}
	fn, ok := goja.AssertFunction(target)
	if !ok {
		return value.ResolutionFailure{Function: name, Found: b.describe(target)}
	}

	jsArgs, failure := b.arguments(args)
	if failure != nil {
		return *failure
	}

	v, err := fn(global, jsArgs...)
	if err != nil {
		return runtimeFailure(err)
	}
	return b.project(v)
}

// Close drops the runtime. goja holds no native resources.
func (b *Backend) Close() error {
	b.vm = nil
	return nil
}

// lookup reads name from obj. Accessors and proxy traps run script code, so
// an exception they throw is returned instead of unwinding the worker.
func (b *Backend) lookup(obj *goja.Object, name string) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			ex, ok := r.(*goja.Exception)
			if !ok {
				panic(r)
			}
			err = ex
		}
	}()
	return obj.Get(name), nil
}

// describe converts v to a string for diagnostics without letting a
// throwing toString escape.
func (b *Backend) describe(v goja.Value) (s string) {
	if v == nil {
		return "undefined"
	}
	defer func() {
		if r := recover(); r != nil {
			ex, ok := r.(*goja.Exception)
			if !ok {
				panic(r)
			}
			s = "<unprintable: " + ex.Error() + ">"
		}
	}()
	return v.String()
}
