// Package engine runs script engines behind single-threaded actors.
//
// An Actor owns exactly one Backend (one engine execution context) for its
// whole life. All access to the backend happens on one worker goroutine
// that is locked to its OS thread, so engines with thread affinity never
// observe a second thread and never see re-entrant calls.
//
// # Architecture
//
//	caller ──► Begin*/sync call ──► mailbox (FIFO) ──► worker goroutine
//	                                                     │
//	                                       Backend.Evaluate / Invoke / HeapSnapshot
//	                                                     │
//	caller ◄── reply channel / Completion (on worker) ◄──┘
//
// # Backends
//
// Backends register a Factory by name, usually from an init function:
//
//	engine.Register(engine.Factory{
//	    Name:  "goja",
//	    Setup: setupOnce,   // runs once per process
//	    New:   newBackend,  // runs on the worker goroutine
//	})
//
// The gojaengine package registers "goja". The v8engine package registers
// "v8" when built with the v8 tag.
//
// # Ordering
//
// Requests run strictly in submission order with no preemption. An
// evaluate that defines a function, followed by an invoke of that
// function, always observes the definition. Global script state persists
// across requests for the life of the actor.
//
// # Completions
//
// Asynchronous requests carry a Completion that fires exactly once on the
// worker goroutine. A Completion must not make synchronous calls on, or
// Close, its own actor; it may submit further Begin* requests.
//
// # Failure
//
// Compile errors, thrown exceptions and unresolved functions are ordinary
// outcomes (value.Outcome). A panic escaping the backend is fatal: the
// request that caused it and every queued request complete with an error
// matching errors.ErrFatal, and every later submission fails immediately.
//
// # Cancellation
//
// There is none. A context passed to a synchronous call bounds only how
// long the caller waits; the queued request still runs. A script that
// never terminates blocks its actor forever.
package engine
