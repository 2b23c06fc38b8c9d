package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/value"
)

// State is the actor's position in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateExecuting
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExecuting:
		return "executing"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var actorIDs atomic.Uint64

// Actor owns one backend on one dedicated, OS-thread-locked goroutine and
// runs requests against it strictly in submission order.
type Actor struct {
	mailbox   *mailbox
	log       *zap.Logger
	done      chan struct{}
	fatal     atomic.Pointer[errors.Error]
	closeErr  error // set before done is closed
	opts      Options
	id        uint64
	seq       atomic.Uint64
	state     atomic.Int32
	closed    atomic.Bool
	closeOnce sync.Once
}

// New starts an actor for opts.Backend. The backend is created on the
// worker goroutine; New returns once it is ready or failed to start.
func New(opts Options) (*Actor, error) {
	reg, err := lookup(opts.Backend)
	if err != nil {
		return nil, err
	}
	if err := reg.setup(opts); err != nil {
		return nil, errors.Registration(opts.Backend, err)
	}

	id := actorIDs.Add(1)
	base := opts.Logger
	if base == nil {
		base = Logger()
	}
	opts.Logger = base.With(zap.Uint64("instance", id), zap.String("backend", opts.Backend))

	a := &Actor{
		mailbox: newMailbox(opts.MailboxLimit),
		log:     opts.Logger,
		done:    make(chan struct{}),
		opts:    opts,
		id:      id,
	}

	ready := make(chan error, 1)
	go a.run(reg.factory.New, ready)
	if err := <-ready; err != nil {
		return nil, errors.New(errors.PhaseLifecycle, errors.KindRegistration).
			Detail("create %s context", opts.Backend).Cause(err).Build()
	}
	a.log.Debug("actor started")
	return a, nil
}

// ID returns the process-unique actor id.
func (a *Actor) ID() uint64 { return a.id }

// State returns the current lifecycle state.
func (a *Actor) State() State { return State(a.state.Load()) }

// Alive reports whether the actor still accepts requests.
func (a *Actor) Alive() bool {
	if a.closed.Load() {
		return false
	}
	s := a.State()
	return s == StateIdle || s == StateExecuting
}

// Err returns nil while the actor is alive, the fatal failure if the worker
// died, or a closed error after Close.
func (a *Actor) Err() error {
	if fatal := a.fatal.Load(); fatal != nil {
		return fatal
	}
	if a.closed.Load() {
		return errors.Closed("instance")
	}
	return nil
}

// Done is closed when the worker goroutine has exited.
func (a *Actor) Done() <-chan struct{} { return a.done }

// Pending returns the number of queued requests.
func (a *Actor) Pending() int { return a.mailbox.len() }

func (a *Actor) run(create func(Options) (Backend, error), ready chan<- error) {
	// The thread exits with the goroutine; engines that keep thread-local
	// state never see another thread.
	runtime.LockOSThread()

	b, err := safeCreate(create, a.opts)
	if err != nil {
		a.state.Store(int32(StateStopped))
		a.mailbox.abort()
		close(a.done)
		ready <- err
		return
	}
	liveContexts.Add(1)
	ready <- nil

	if fatal := a.loop(b); fatal != nil {
		a.fatal.Store(fatal)
		a.state.Store(int32(StateFailed))
		detachedContexts.Add(1)
		a.log.Error("engine worker failed", zap.Error(fatal), zap.Any("stack", fatal.Value))
		for _, r := range a.mailbox.abort() {
			a.complete(r, Response{Kind: r.kind, Err: fatal})
		}
	} else {
		a.state.Store(int32(StateStopped))
	}

	a.closeErr = safeClose(b)
	liveContexts.Add(-1)
	close(a.done)
}

// loop executes requests until the mailbox is drained and shut down. A
// panic escaping the backend ends the loop with a fatal error after the
// request that caused it has been failed.
func (a *Actor) loop(b Backend) (fatal *errors.Error) {
	var current *request
	defer func() {
		if rec := recover(); rec != nil {
			fatal = errors.Panic(rec, debug.Stack())
			a.fatal.Store(fatal)
			a.state.Store(int32(StateFailed))
			if current != nil {
				a.complete(current, Response{Kind: current.kind, Err: fatal})
			}
		}
	}()

	for {
		r, ok := a.mailbox.pop()
		if !ok {
			return nil
		}
		current = r
		a.state.Store(int32(StateExecuting))
		resp := a.execute(b, r)
		a.state.Store(int32(StateIdle))
		current = nil
		a.complete(r, resp)
	}
}

func (a *Actor) execute(b Backend, r *request) Response {
	start := time.Now()
	resp := Response{Kind: r.kind}
	switch {
	case r.failure != nil:
		resp.Outcome = r.failure
	case r.kind == RequestEvaluate:
		resp.Outcome = b.Evaluate(r.target)
	case r.kind == RequestInvoke:
		resp.Outcome = b.Invoke(r.target, r.args)
	case r.kind == RequestHeapSnapshot:
		resp.Heap = b.HeapSnapshot()
	}

	if ce := a.log.Check(zap.DebugLevel, "request completed"); ce != nil {
		fields := []zap.Field{
			zap.Uint64("seq", r.seq),
			zap.Stringer("kind", r.kind),
			zap.Duration("queued", start.Sub(r.enqueued)),
			zap.Duration("took", time.Since(start)),
		}
		if f, ok := resp.Outcome.(value.Failure); ok {
			fields = append(fields,
				zap.Stringer("failure", f.FailureKind()),
				zap.String("exception", f.Exception()))
		}
		ce.Write(fields...)
	}
	return resp
}

func (a *Actor) complete(r *request, resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("completion callback panicked",
				zap.Uint64("seq", r.seq),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	r.done(resp)
}

func safeCreate(create func(Options) (Backend, error), opts Options) (b Backend, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Panic(rec, debug.Stack())
		}
	}()
	b, err = create(opts)
	if err == nil && b == nil {
		err = errors.NilPointer(errors.PhaseLifecycle, nil, "Backend")
	}
	return b, err
}

func safeClose(b Backend) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Panic(rec, debug.Stack())
		}
	}()
	return b.Close()
}

func (a *Actor) submit(r *request) error {
	r.seq = a.seq.Add(1)
	r.enqueued = time.Now()
	switch err := a.mailbox.push(r); {
	case err == nil:
		return nil
	case stderrors.Is(err, errMailboxFull):
		return errors.Busy(r.kind.String(), a.opts.MailboxLimit)
	default:
		if fatal := a.fatal.Load(); fatal != nil {
			return errors.Fatal(fatal)
		}
		return errors.Closed(r.kind.String())
	}
}

// BeginEvaluate queues source for evaluation. done fires exactly once on
// the worker goroutine unless an error is returned.
func (a *Actor) BeginEvaluate(source string, done Completion) error {
	return a.submit(&request{kind: RequestEvaluate, target: source, done: done})
}

// BeginInvoke queues a call of the global function name.
func (a *Actor) BeginInvoke(name string, args []value.Argument, done Completion) error {
	return a.submit(&request{kind: RequestInvoke, target: name, args: args, done: done})
}

// BeginHeapSnapshot queues a heap snapshot read.
func (a *Actor) BeginHeapSnapshot(done Completion) error {
	return a.submit(&request{kind: RequestHeapSnapshot, done: done})
}

// BeginFailure queues a failure decided before the request could be built,
// such as undecodable arguments. It completes in order with the other
// requests without reaching the backend.
func (a *Actor) BeginFailure(kind RequestKind, f value.Failure, done Completion) error {
	return a.submit(&request{kind: kind, failure: f, done: done})
}

// call submits r and waits for its response. ctx bounds only the wait:
// a request that has been queued still runs to completion.
func (a *Actor) call(ctx context.Context, r *request) (Response, error) {
	reply := make(chan Response, 1)
	r.done = func(resp Response) { reply <- resp }
	if err := a.submit(r); err != nil {
		return Response{}, err
	}

	select {
	case resp := <-reply:
		return resp, resp.Err
	case <-ctx.Done():
		return Response{}, fmt.Errorf("waiting for %s: %w", r.kind, ctx.Err())
	}
}

// Evaluate compiles and runs source and waits for the outcome.
func (a *Actor) Evaluate(ctx context.Context, source string) (value.Outcome, error) {
	resp, err := a.call(ctx, &request{kind: RequestEvaluate, target: source})
	return resp.Outcome, err
}

// Invoke calls the global function name and waits for the outcome.
func (a *Actor) Invoke(ctx context.Context, name string, args []value.Argument) (value.Outcome, error) {
	resp, err := a.call(ctx, &request{kind: RequestInvoke, target: name, args: args})
	return resp.Outcome, err
}

// HeapSnapshot reads the engine memory counters.
func (a *Actor) HeapSnapshot(ctx context.Context) (value.HeapSnapshot, error) {
	resp, err := a.call(ctx, &request{kind: RequestHeapSnapshot})
	return resp.Heap, err
}

// Close stops accepting requests, lets queued requests finish, and waits
// for the worker to release the backend. Safe to call more than once; it
// must not be called from a Completion of the same actor.
func (a *Actor) Close() error {
	a.closeOnce.Do(func() {
		a.mailbox.shutdown()
		a.closed.Store(true)
		<-a.done
		if a.fatal.Load() != nil {
			detachedContexts.Add(-1)
		}
		a.log.Debug("actor closed", zap.Stringer("state", a.State()))
	})
	return a.closeErr
}
