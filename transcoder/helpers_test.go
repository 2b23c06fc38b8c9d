package transcoder

import (
	"fmt"
	"sync"
	"unsafe"
)

// heapAllocator hands out Go heap memory and keeps it reachable until
// freed, standing in for calloc/free in tests.
type heapAllocator struct {
	live      map[unsafe.Pointer][]uint64
	failAfter int
	allocs    int
	frees     int
	badFrees  int
	mu        sync.Mutex
}

func newHeapAllocator() *heapAllocator {
	return &heapAllocator{live: make(map[unsafe.Pointer][]uint64), failAfter: -1}
}

func (a *heapAllocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAfter >= 0 && a.allocs >= a.failAfter {
		return nil, fmt.Errorf("out of memory")
	}
	a.allocs++
	buf := make([]uint64, (size+7)/8)
	p := unsafe.Pointer(&buf[0])
	a.live[p] = buf
	return p, nil
}

func (a *heapAllocator) Free(p unsafe.Pointer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p]; !ok {
		a.badFrees++
		return
	}
	delete(a.live, p)
	a.frees++
}

func (a *heapAllocator) outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// cstr returns a pointer to a NUL-terminated copy of s.
func cstr(s string) unsafe.Pointer {
	b := append([]byte(s), 0)
	return unsafe.Pointer(&b[0])
}
