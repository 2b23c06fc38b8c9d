package value

import (
	"strconv"
	"strings"
)

// Outcome is the result of evaluating a script or invoking a function.
// The set of implementations is closed.
type Outcome interface {
	isOutcome()
}

// Failure is implemented by every non-Ok outcome.
type Failure interface {
	Outcome
	FailureKind() FailureKind
	// Exception is the human readable failure message.
	Exception() string
	// Stack is the engine stack trace; empty for failures that never ran code.
	Stack() string
}

// FailureKind names the failure variants.
type FailureKind uint8

const (
	FailureCompile FailureKind = iota + 1
	FailureRuntime
	FailureResolution
	FailureArgument
)

func (k FailureKind) String() string {
	switch k {
	case FailureCompile:
		return "compile"
	case FailureRuntime:
		return "runtime"
	case FailureResolution:
		return "resolution"
	case FailureArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Ok carries the projected completion value.
type Ok struct {
	Value Value
}

// CompileFailure reports a syntax error; no code ran.
type CompileFailure struct {
	Message string
}

// RuntimeFailure reports an uncaught exception, or an engine-level abort
// during execution.
type RuntimeFailure struct {
	Message    string
	StackTrace string
}

// ResolutionFailure reports that the invoked global name is not callable.
type ResolutionFailure struct {
	Function string
	// Found is the string conversion of whatever the name resolved to.
	Found string
}

// ArgumentFailure reports an argument that could not be decoded or
// converted before the call. Index is -1 when the list as a whole is
// malformed.
type ArgumentFailure struct {
	Reason string
	Index  int
}

func (Ok) isOutcome()                {}
func (CompileFailure) isOutcome()    {}
func (RuntimeFailure) isOutcome()    {}
func (ResolutionFailure) isOutcome() {}
func (ArgumentFailure) isOutcome()   {}

func (CompileFailure) FailureKind() FailureKind { return FailureCompile }
func (f CompileFailure) Exception() string      { return f.Message }
func (CompileFailure) Stack() string            { return "" }

func (RuntimeFailure) FailureKind() FailureKind { return FailureRuntime }
func (f RuntimeFailure) Exception() string      { return f.Message }
func (f RuntimeFailure) Stack() string          { return f.StackTrace }

func (ResolutionFailure) FailureKind() FailureKind { return FailureResolution }
func (ResolutionFailure) Stack() string            { return "" }

// Exception names the function and what was found in its place.
func (f ResolutionFailure) Exception() string {
	return "function '" + f.Function + "' not found, got: " + f.Found
}

func (ArgumentFailure) FailureKind() FailureKind { return FailureArgument }
func (ArgumentFailure) Stack() string            { return "" }

func (f ArgumentFailure) Exception() string {
	if f.Index < 0 {
		return "invalid arguments: " + f.Reason
	}
	return "invalid argument " + strconv.Itoa(f.Index) + ": " + f.Reason
}

// ScriptError adapts a Failure to the error interface.
type ScriptError struct {
	Message    string
	StackTrace string
	Kind       FailureKind
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error: ")
	b.WriteString(e.Message)
	return b.String()
}

// AsError splits an outcome into its value or a *ScriptError.
func AsError(o Outcome) (Value, error) {
	switch x := o.(type) {
	case Ok:
		return x.Value, nil
	case Failure:
		return Value{}, &ScriptError{Kind: x.FailureKind(), Message: x.Exception(), StackTrace: x.Stack()}
	default:
		return Value{}, &ScriptError{Message: "no outcome"}
	}
}
