// Package jseval embeds a long-lived JavaScript engine behind a single
// worker goroutine and exchanges values with it across a foreign-call
// boundary built from primitive, pointer-and-flag records.
//
// # Architecture Overview
//
//	jseval/            Root package with the foreign memory Allocator interface
//	├── runtime/       High-level API: Runtime (process setup) and Instance
//	├── engine/        Engine actor: mailbox, dedicated worker, backend registry
//	│   ├── gojaengine/  Default backend on goja
//	│   └── v8engine/    Optional V8 backend (build tag v8)
//	├── value/         Tagged Argument, projected Value, Outcome sum type
//	├── transcoder/    Fixed-layout records, argument decoding, result encoding
//	├── resource/      Handle table for instances exposed to the host
//	├── errors/        Structured error types
//	├── config/        YAML/env configuration, logger construction
//	└── capi/          c-shared library exporting the C boundary
//
// # Quick Start
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	inst, err := rt.NewInstance(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close()
//
//	if err := inst.Exec(ctx, "function echo(v) { return v; }"); err != nil {
//	    log.Fatal(err)
//	}
//	v, err := inst.Call(ctx, "echo", "hello world")
//	fmt.Println(v.Text) // "hello world"
//
// # Thread Safety
//
// Runtime and Instance are safe for concurrent use. Every request to an
// Instance is queued to its worker and executed strictly in submission
// order, so "define a function, then call it" is always observed in order.
// Completion callbacks of the Begin* calls run on the worker goroutine,
// never on the caller's goroutine.
//
// # Memory Model
//
// Values never leave the worker as engine handles: every result is copied
// into a self-contained Go value (or, on the C boundary, into memory
// obtained from an Allocator) before the worker moves on. Foreign-owned
// records must be released explicitly; releasing twice or releasing nil is
// a no-op.
//
// # Limitations
//
// There is no cancellation. A script that never terminates blocks its
// instance; a caller's context only bounds how long that caller waits.
package jseval
