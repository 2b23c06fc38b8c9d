//go:build v8

package v8engine

import (
	stderrors "errors"
	"strings"

	v8 "github.com/tommie/v8go"
	"go.uber.org/zap"

	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/value"
)

// Name is the registry name of this backend.
const Name = "v8"

func init() {
	engine.Register(engine.Factory{Name: Name, Setup: setup, New: New})
}

func setup(opts engine.Options) error {
	if len(opts.Flags) > 0 {
		v8.SetFlags(opts.Flags...)
	}
	return nil
}

// Backend evaluates scripts in one V8 isolate and context.
type Backend struct {
	iso    *v8.Isolate
	ctx    *v8.Context
	symbol *v8.Function
	log    *zap.Logger
}

// New creates an isolate and a context, with console bound to the logger
// when opts.Console is set.
func New(opts engine.Options) (engine.Backend, error) {
	log := opts.Logger
	if log == nil {
		log = engine.Logger()
	}
	if opts.ModuleDir != "" {
		log.Warn("v8 backend has no module loader, ignoring module dir", zap.String("dir", opts.ModuleDir))
	}

	iso := v8.NewIsolate()
	ctx := v8.NewContext(iso)
	b := &Backend{iso: iso, ctx: ctx, log: log}

	if err := b.bindConsole(opts.Console); err != nil {
		b.Close()
		return nil, errors.Wrap(errors.PhaseLifecycle, errors.KindRegistration, err, "binding console")
	}

	sym, err := ctx.Global().Get("Symbol")
	if err == nil && sym.IsFunction() {
		b.symbol, err = sym.AsFunction()
	}
	if err != nil {
		b.Close()
		return nil, errors.Wrap(errors.PhaseLifecycle, errors.KindUnsupported, err, "resolving Symbol")
	}

	return b, nil
}

func (b *Backend) bindConsole(enabled bool) error {
	log := zap.NewNop()
	if enabled {
		log = b.log
	}
	printer := engine.NewConsole(log)

	obj, err := v8.NewObjectTemplate(b.iso).NewInstance(b.ctx)
	if err != nil {
		return err
	}
	methods := map[string]func(string){
		"log":   printer.Log,
		"info":  printer.Info,
		"debug": printer.Debug,
		"warn":  printer.Warn,
		"error": printer.Error,
	}
	for name, emit := range methods {
		tmpl := v8.NewFunctionTemplate(b.iso, func(info *v8.FunctionCallbackInfo) *v8.Value {
			args := info.Args()
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.String()
			}
			emit(strings.Join(parts, " "))
			return nil
		})
		if err := obj.Set(name, tmpl.GetFunction(b.ctx)); err != nil {
			return err
		}
	}
	return b.ctx.Global().Set("console", obj)
}

// Evaluate compiles source as a classic script and runs it in the context.
func (b *Backend) Evaluate(source string) value.Outcome {
	script, err := b.iso.CompileUnboundScript(source, "<eval>", v8.CompileOptions{})
	if err != nil {
		return value.CompileFailure{Message: "script failed to compile: " + err.Error()}
	}
	v, err := script.Run(b.ctx)
	if err != nil {
		return runtimeFailure(err)
	}
	return b.project(v)
}

// Invoke resolves name on the global object and calls it with the global
// object as receiver.
func (b *Backend) Invoke(name string, args []value.Argument) value.Outcome {
	global := b.ctx.Global()
	target, err := global.Get(name)
	if err != nil {
		return runtimeFailure(err)
	}
	if !target.IsFunction() {
		return value.ResolutionFailure{Function: name, Found: target.String()}
	}
	fn, err := target.AsFunction()
	if err != nil {
		return runtimeFailure(err)
	}

	jsArgs, failure := b.arguments(args)
	if failure != nil {
		return *failure
	}

	v, err := fn.Call(global, jsArgs...)
	if err != nil {
		return runtimeFailure(err)
	}
	return b.project(v)
}

// HeapSnapshot copies the isolate heap statistics.
func (b *Backend) HeapSnapshot() value.HeapSnapshot {
	s := b.iso.GetHeapStatistics()
	return value.HeapSnapshot{
		TotalHeapSize:            s.TotalHeapSize,
		TotalHeapSizeExecutable:  s.TotalHeapSizeExecutable,
		TotalPhysicalSize:        s.TotalPhysicalSize,
		TotalAvailableSize:       s.TotalAvailableSize,
		UsedHeapSize:             s.UsedHeapSize,
		HeapSizeLimit:            s.HeapSizeLimit,
		MallocedMemory:           s.MallocedMemory,
		PeakMallocedMemory:       s.PeakMallocedMemory,
		NumberOfNativeContexts:   s.NumberOfNativeContexts,
		NumberOfDetachedContexts: s.NumberOfDetachedContexts,
	}
}

// Close disposes the context and isolate.
func (b *Backend) Close() error {
	if b.ctx != nil {
		b.ctx.Close()
		b.ctx = nil
	}
	if b.iso != nil {
		b.iso.Dispose()
		b.iso = nil
	}
	return nil
}

func runtimeFailure(err error) value.RuntimeFailure {
	var jsErr *v8.JSError
	if !stderrors.As(err, &jsErr) {
		return value.RuntimeFailure{Message: err.Error(), StackTrace: err.Error()}
	}
	stack := jsErr.StackTrace
	if stack == "" {
		stack = jsErr.Location
	}
	return value.RuntimeFailure{Message: jsErr.Message, StackTrace: stack}
}
