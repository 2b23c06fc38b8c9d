// Package v8engine registers a "v8" engine backend built on V8 through
// v8go. It is compiled only with the v8 build tag, since it needs cgo and
// the prebuilt V8 static libraries:
//
//	go build -tags v8 ./...
//
// Each backend owns one isolate with a single context. Engine flags from
// Options.Flags are applied once per process, before the first isolate is
// created. The backend has no CommonJS loader, so Options.ModuleDir is
// ignored.
package v8engine
