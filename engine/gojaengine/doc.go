// Package gojaengine is the default engine backend, built on goja, a
// pure Go ECMAScript implementation.
//
// Importing the package registers the "goja" backend with the engine
// registry. Each backend owns one goja.Runtime; the engine actor
// guarantees it is only touched from one goroutine.
//
// Console output goes through goja_nodejs/console to the actor's logger.
// When a module directory is configured, require() resolves CommonJS
// modules from it; otherwise require() only knows built-in modules.
//
// Heap counters come from the Go runtime and are process wide, since goja
// values live on the Go heap.
package gojaengine
