package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/jseval/errors"
)

// cAllocator hands out zeroed C heap memory, so records stay valid after
// the Go call returns and are invisible to the Go garbage collector.
type cAllocator struct{}

func (cAllocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	p := C.calloc(1, C.size_t(size))
	if p == nil {
		return nil, errors.AllocationFailed(errors.PhaseEncode, size)
	}
	return p, nil
}

func (cAllocator) Free(p unsafe.Pointer) {
	C.free(p)
}
