package engine

import (
	"time"

	"github.com/wippyai/jseval/value"
)

// RequestKind identifies what a request asks the engine to do.
type RequestKind uint8

const (
	RequestEvaluate RequestKind = iota + 1
	RequestInvoke
	RequestHeapSnapshot
)

func (k RequestKind) String() string {
	switch k {
	case RequestEvaluate:
		return "evaluate"
	case RequestInvoke:
		return "invoke"
	case RequestHeapSnapshot:
		return "heap_snapshot"
	default:
		return "unknown"
	}
}

// Response completes one request. Err is set only when the request never
// ran because the worker failed; Outcome is set for evaluate and invoke,
// Heap for heap snapshots.
type Response struct {
	Outcome value.Outcome
	Err     error
	Heap    value.HeapSnapshot
	Kind    RequestKind
}

// Completion receives the response of an asynchronous request. It runs on
// the actor's worker goroutine, never on the submitter's, and must not make
// synchronous calls or Close the same actor.
type Completion func(Response)

type request struct {
	enqueued time.Time
	done     Completion
	target   string // source text or function name
	args     []value.Argument
	failure  value.Failure // decided before submission, skips the backend
	seq      uint64
	kind     RequestKind
}
