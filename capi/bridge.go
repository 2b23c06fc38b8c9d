package main

/*
#include "jseval_types.h"

static inline void jseval_call_result(jseval_result_callback cb, jseval_result *r, void *user_data) {
	cb(r, user_data);
}

static inline void jseval_call_heap(jseval_heap_callback cb, jseval_heap_stats *s, void *user_data) {
	cb(s, user_data);
}
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/jseval/transcoder"
)

// resultCallback adapts a C completion to a Go one. userData is held as a
// C pointer and passed back untouched.
func resultCallback(cb C.jseval_result_callback, userData unsafe.Pointer) func(*transcoder.ResultRecord) {
	return func(r *transcoder.ResultRecord) {
		C.jseval_call_result(cb, (*C.jseval_result)(unsafe.Pointer(r)), userData)
	}
}

func heapCallback(cb C.jseval_heap_callback, userData unsafe.Pointer) func(*transcoder.HeapSnapshotRecord) {
	return func(s *transcoder.HeapSnapshotRecord) {
		C.jseval_call_heap(cb, (*C.jseval_heap_stats)(unsafe.Pointer(s)), userData)
	}
}
