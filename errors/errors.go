package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // foreign record to Go
	PhaseEncode    Phase = "encode"    // Go to foreign record
	PhaseCompile   Phase = "compile"   // script compilation
	PhaseRuntime   Phase = "runtime"   // script execution
	PhaseResolve   Phase = "resolve"   // invoke target lookup
	PhaseLifecycle Phase = "lifecycle" // instance create/destroy/liveness
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseBoundary  Phase = "boundary"  // handle and ownership bookkeeping
)

// Kind categorizes the error
type Kind string

const (
	KindCompileError     Kind = "compile_error"
	KindRuntimeException Kind = "runtime_exception"
	KindResolutionError  Kind = "resolution_error"
	KindInvalidArgument  Kind = "invalid_argument"
	KindInvalidVariant   Kind = "invalid_variant"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindFatal            Kind = "fatal_engine_failure"
	KindClosed           Kind = "closed"
	KindNotFound         Kind = "not_found"
	KindAllocation       Kind = "allocation"
	KindNilPointer       Kind = "nil_pointer"
	KindInvalidConfig    Kind = "invalid_config"
	KindUnsupported      Kind = "unsupported"
	KindRegistration     Kind = "registration"
	KindTypeMismatch     Kind = "type_mismatch"
	KindBusy             Kind = "busy"
)

// Sentinels for errors.Is. Matching is by Phase and Kind.
var (
	ErrClosed = &Error{Phase: PhaseLifecycle, Kind: KindClosed}
	ErrFatal  = &Error{Phase: PhaseLifecycle, Kind: KindFatal}
)

// Error is the structured error type used throughout jseval
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	JSType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.JSType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.JSType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", JS type ")
			b.WriteString(e.JSType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("JS type ")
			b.WriteString(e.JSType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.JSType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// JSType sets the JavaScript type name
func (b *Builder) JSType(t string) *Builder {
	b.err.JSType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, jsType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		JSType: jsType,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uintptr) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// InvalidArgument creates an error for an argument record that cannot be decoded
func InvalidArgument(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidArgument,
		Path:   path,
		Detail: detail,
	}
}

// AmbiguousVariant creates an error for a tagged record with more than one populated slot
func AmbiguousVariant(phase Phase, path []string, populated []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("%d slots populated (%s), exactly one expected", len(populated), strings.Join(populated, ", ")),
		Value:  populated,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Lifecycle convenience constructors

// Closed reports an operation attempted on a destroyed instance
func Closed(operation string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s invoked on a closed engine instance", operation),
	}
}

// Fatal reports that the engine worker terminated unexpectedly.
// The instance is unusable afterwards.
func Fatal(cause error) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindFatal,
		Detail: "engine worker terminated",
		Cause:  cause,
	}
}

// Panic wraps a recovered panic value as a fatal engine failure
func Panic(recovered any, stack []byte) *Error {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindFatal,
		Detail: "engine worker panicked",
		Cause:  cause,
		Value:  string(stack),
	}
}

// Busy reports a full request queue
func Busy(operation string, limit int) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindBusy,
		Detail: fmt.Sprintf("%s rejected, %d requests already queued", operation, limit),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Registration creates a backend registration error
func Registration(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("backend %q", name),
		Cause:  cause,
	}
}

// InvalidConfig creates a configuration error
func InvalidConfig(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Detail: detail,
		Cause:  cause,
	}
}
