package jseval

import "unsafe"

// Allocator hands out memory owned by the host side of the boundary.
// Memory returned by Alloc is zeroed and stays valid until Free is called
// with the same pointer; the Go garbage collector never reclaims it.
type Allocator interface {
	Alloc(size uintptr) (unsafe.Pointer, error)
	Free(ptr unsafe.Pointer)
}
