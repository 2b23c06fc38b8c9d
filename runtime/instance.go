package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/resource"
	"github.com/wippyai/jseval/value"
)

// Instance is one isolated script environment. Its methods are safe for
// concurrent use; requests run one at a time in submission order.
type Instance struct {
	actor   *engine.Actor
	runtime *Runtime
	handle  resource.Handle
}

// Result is delivered by the async helpers.
type Result struct {
	Err   error
	Value value.Value
}

// HeapResult is delivered by HeapSnapshotAsync.
type HeapResult struct {
	Err  error
	Heap value.HeapSnapshot
}

func (i *Instance) Handle() resource.Handle { return i.handle }

func (i *Instance) ID() uint64 { return i.actor.ID() }

// Alive reports whether the instance accepts requests.
func (i *Instance) Alive() bool { return i.actor.Alive() }

// Err returns the fatal failure that stopped the instance, if any.
func (i *Instance) Err() error { return i.actor.Err() }

// Pending returns the number of queued requests.
func (i *Instance) Pending() int { return i.actor.Pending() }

// Evaluate runs source and returns the raw outcome. The error is non-nil
// only when the request could not run.
func (i *Instance) Evaluate(ctx context.Context, source string) (value.Outcome, error) {
	return i.actor.Evaluate(ctx, source)
}

// Invoke calls a global function with tagged arguments.
func (i *Instance) Invoke(ctx context.Context, name string, args []value.Argument) (value.Outcome, error) {
	return i.actor.Invoke(ctx, name, args)
}

func (i *Instance) HeapSnapshot(ctx context.Context) (value.HeapSnapshot, error) {
	return i.actor.HeapSnapshot(ctx)
}

func (i *Instance) BeginEvaluate(source string, done engine.Completion) error {
	return i.actor.BeginEvaluate(source, done)
}

func (i *Instance) BeginInvoke(name string, args []value.Argument, done engine.Completion) error {
	return i.actor.BeginInvoke(name, args, done)
}

func (i *Instance) BeginHeapSnapshot(done engine.Completion) error {
	return i.actor.BeginHeapSnapshot(done)
}

// BeginFailure queues a failure decided before a request could be built so
// it completes in order with the instance's other requests.
func (i *Instance) BeginFailure(kind engine.RequestKind, f value.Failure, done engine.Completion) error {
	return i.actor.BeginFailure(kind, f, done)
}

// Eval runs source and returns its value. Script failures are returned as
// *value.ScriptError.
func (i *Instance) Eval(ctx context.Context, source string) (value.Value, error) {
	o, err := i.Evaluate(ctx, source)
	if err != nil {
		return value.Value{}, err
	}
	return value.AsError(o)
}

// Exec runs source for its side effects.
func (i *Instance) Exec(ctx context.Context, source string) error {
	_, err := i.Eval(ctx, source)
	return err
}

// Call invokes a global function, converting Go arguments with
// value.FromGo.
func (i *Instance) Call(ctx context.Context, name string, args ...any) (value.Value, error) {
	tagged, err := value.FromGoAll(args)
	if err != nil {
		return value.Value{}, err
	}
	o, err := i.Invoke(ctx, name, tagged)
	if err != nil {
		return value.Value{}, err
	}
	return value.AsError(o)
}

// EvalInto runs source and decodes the result into dst.
func (i *Instance) EvalInto(ctx context.Context, source string, dst any) error {
	v, err := i.Eval(ctx, source)
	if err != nil {
		return err
	}
	return v.Decode(dst)
}

// CallInto invokes name and decodes the result into dst.
func (i *Instance) CallInto(ctx context.Context, name string, dst any, args ...any) error {
	v, err := i.Call(ctx, name, args...)
	if err != nil {
		return err
	}
	return v.Decode(dst)
}

// EvalAsync queues source and returns a channel that yields exactly one
// result.
func (i *Instance) EvalAsync(source string) <-chan Result {
	ch := make(chan Result, 1)
	if err := i.actor.BeginEvaluate(source, deliver(ch)); err != nil {
		ch <- Result{Err: err}
	}
	return ch
}

// CallAsync queues a call and returns a channel that yields exactly one
// result.
func (i *Instance) CallAsync(name string, args ...any) <-chan Result {
	ch := make(chan Result, 1)
	tagged, err := value.FromGoAll(args)
	if err == nil {
		err = i.actor.BeginInvoke(name, tagged, deliver(ch))
	}
	if err != nil {
		ch <- Result{Err: err}
	}
	return ch
}

func (i *Instance) HeapSnapshotAsync() <-chan HeapResult {
	ch := make(chan HeapResult, 1)
	err := i.actor.BeginHeapSnapshot(func(resp engine.Response) {
		ch <- HeapResult{Heap: resp.Heap, Err: resp.Err}
	})
	if err != nil {
		ch <- HeapResult{Err: err}
	}
	return ch
}

func deliver(ch chan<- Result) engine.Completion {
	return func(resp engine.Response) {
		if resp.Err != nil {
			ch <- Result{Err: resp.Err}
			return
		}
		v, err := value.AsError(resp.Outcome)
		ch <- Result{Value: v, Err: err}
	}
}

// Close stops accepting requests, finishes queued ones and releases the
// engine. Calls after Close fail with an error matching errors.ErrClosed.
func (i *Instance) Close() error {
	i.runtime.instances.Remove(i.handle)
	return i.actor.Close()
}

// Drop implements resource.Dropper.
func (i *Instance) Drop() {
	if err := i.actor.Close(); err != nil {
		i.runtime.log.Debug("instance close failed", zap.Error(err))
	}
}
