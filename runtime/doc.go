// Package runtime provides the high-level Go API for embedded script
// engines.
//
// # Quick Start
//
//	ctx := context.Background()
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
//	if err := inst.Exec(ctx, "function greet(n) { return 'Hello, ' + n; }"); err != nil {
//	    log.Fatal(err)
//	}
//	v, err := inst.Call(ctx, "greet", "World")
//	fmt.Println(v) // Hello, World
//
// # Instances
//
// Every instance owns one engine context driven by a dedicated worker.
// Requests from any goroutine are queued and run one at a time in
// submission order, so global state left by one script is visible to the
// next. Instances are fully isolated from each other.
//
// # Calling Styles
//
//	Evaluate / Invoke        raw value.Outcome, script failures are values
//	Eval / Exec / Call       value.Value, script failures as *value.ScriptError
//	EvalInto / CallInto      decode the result into a Go destination
//	EvalAsync / CallAsync    a channel that yields exactly one Result
//	BeginEvaluate / ...      a completion callback run on the worker
//
// A context passed to a synchronous call bounds only how long the caller
// waits. A started script always runs to completion.
//
// # Failures
//
// Compile errors, thrown exceptions, unresolvable functions and bad
// arguments leave the instance usable. A fatal engine failure stops the
// instance: queued requests complete with an error matching
// errors.ErrFatal and later calls fail the same way immediately. Calls
// after Close fail with errors.ErrClosed.
//
// # Backends
//
// The goja backend is always available. Building with -tags v8 adds the
// V8 backend:
//
//	rt, err := runtime.New(ctx, runtime.WithBackend("v8"))
package runtime
