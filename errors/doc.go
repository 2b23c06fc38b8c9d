// Package errors provides structured error types for the jseval library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the field path, the Go/JS type names involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidVariant).
//		Path("args", "2").
//		Detail("more than one slot populated").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Closed("evaluate")
//	err := errors.Fatal(cause)
//
// Script failures (syntax errors, thrown exceptions, unresolved functions)
// are values, not errors: see value.Outcome. The errors in this package
// describe failures of the machinery around the script.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
