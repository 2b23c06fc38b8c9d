package main

/*
#include "jseval_types.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/jseval/transcoder"
)

//export jseval_create_instance
func jseval_create_instance() C.jseval_handle {
	b := shared()
	if b == nil {
		return 0
	}
	return C.jseval_handle(b.create())
}

//export jseval_destroy_instance
func jseval_destroy_instance(h C.jseval_handle) {
	if b := shared(); b != nil {
		b.destroy(uint64(h))
	}
}

//export jseval_is_alive
func jseval_is_alive(h C.jseval_handle) C.bool {
	b := shared()
	return C.bool(b != nil && b.alive(uint64(h)))
}

//export jseval_instance_error
func jseval_instance_error(h C.jseval_handle) *C.char {
	b := shared()
	if b == nil {
		return nil
	}
	return (*C.char)(b.instanceError(uint64(h)))
}

//export jseval_evaluate
func jseval_evaluate(h C.jseval_handle, source *C.char) *C.jseval_result {
	b := shared()
	if b == nil {
		return nil
	}
	return (*C.jseval_result)(unsafe.Pointer(b.evaluate(uint64(h), unsafe.Pointer(source))))
}

//export jseval_begin_evaluate
func jseval_begin_evaluate(h C.jseval_handle, source *C.char, cb C.jseval_result_callback, userData unsafe.Pointer) C.int {
	b := shared()
	if b == nil || cb == nil {
		return -1
	}
	if !b.beginEvaluate(uint64(h), unsafe.Pointer(source), resultCallback(cb, userData)) {
		return -1
	}
	return 0
}

//export jseval_invoke
func jseval_invoke(h C.jseval_handle, name *C.char, args *C.jseval_primitive, nargs C.size_t) *C.jseval_result {
	b := shared()
	if b == nil {
		return nil
	}
	rec := b.invoke(uint64(h), unsafe.Pointer(name), unsafe.Pointer(args), int(nargs))
	return (*C.jseval_result)(unsafe.Pointer(rec))
}

//export jseval_begin_invoke
func jseval_begin_invoke(h C.jseval_handle, name *C.char, args *C.jseval_primitive, nargs C.size_t, cb C.jseval_result_callback, userData unsafe.Pointer) C.int {
	b := shared()
	if b == nil || cb == nil {
		return -1
	}
	if !b.beginInvoke(uint64(h), unsafe.Pointer(name), unsafe.Pointer(args), int(nargs), resultCallback(cb, userData)) {
		return -1
	}
	return 0
}

//export jseval_heap_snapshot
func jseval_heap_snapshot(h C.jseval_handle) *C.jseval_heap_stats {
	b := shared()
	if b == nil {
		return nil
	}
	return (*C.jseval_heap_stats)(unsafe.Pointer(b.heapSnapshot(uint64(h))))
}

//export jseval_begin_heap_snapshot
func jseval_begin_heap_snapshot(h C.jseval_handle, cb C.jseval_heap_callback, userData unsafe.Pointer) C.int {
	b := shared()
	if b == nil || cb == nil {
		return -1
	}
	if !b.beginHeapSnapshot(uint64(h), heapCallback(cb, userData)) {
		return -1
	}
	return 0
}

//export jseval_release_string
func jseval_release_string(s *C.char) {
	if b := shared(); b != nil {
		b.ledger.ReleaseString(unsafe.Pointer(s))
	}
}

//export jseval_release_result
func jseval_release_result(r *C.jseval_result) {
	if b := shared(); b != nil {
		b.ledger.ReleaseResult((*transcoder.ResultRecord)(unsafe.Pointer(r)))
	}
}

//export jseval_release_heap_snapshot
func jseval_release_heap_snapshot(s *C.jseval_heap_stats) {
	if b := shared(); b != nil {
		b.ledger.ReleaseHeapSnapshot((*transcoder.HeapSnapshotRecord)(unsafe.Pointer(s)))
	}
}
