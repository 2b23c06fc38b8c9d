// Package value defines the values that cross the engine boundary.
//
// Three shapes flow through the system:
//
//	Argument  - one tagged input to an invoked function (string, symbol,
//	            number, bigint, bool or JSON object text)
//	Value     - the projection of a successful completion value
//	            (string, number, bigint, bool, array JSON, object JSON)
//	Outcome   - the sealed sum of Ok and every recoverable failure
//
// Outcome is closed: callers switch over its concrete types, which keeps
// compile failures, thrown exceptions, unresolved functions and rejected
// arguments visible at every call site:
//
//	switch o := out.(type) {
//	case value.Ok:
//	    use(o.Value)
//	case value.CompileFailure:
//	    log(o.Message)
//	case value.RuntimeFailure:
//	    log(o.Message, o.StackTrace)
//	case value.ResolutionFailure:
//	    log(o.Function, o.Found)
//	case value.ArgumentFailure:
//	    log(o.Index, o.Reason)
//	}
//
// Engine handles never appear here; every value is a self-contained copy.
package value
