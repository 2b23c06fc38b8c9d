package transcoder

import (
	"sync"
	"unsafe"

	"github.com/wippyai/jseval"
	"github.com/wippyai/jseval/errors"
)

type allocKind uint8

const (
	allocString allocKind = iota + 1
	allocResult
	allocError
	allocHeapSnapshot
)

func (k allocKind) String() string {
	switch k {
	case allocString:
		return "string"
	case allocResult:
		return "result"
	case allocError:
		return "error"
	case allocHeapSnapshot:
		return "heap_snapshot"
	default:
		return "unknown"
	}
}

type ledgerEntry struct {
	size uintptr
	kind allocKind
}

// Ledger tracks every allocation handed across the boundary so release is
// idempotent and never frees memory it did not produce.
type Ledger struct {
	alloc jseval.Allocator
	live  map[unsafe.Pointer]ledgerEntry
	bytes uintptr
	mu    sync.Mutex
}

func NewLedger(alloc jseval.Allocator) *Ledger {
	return &Ledger{
		alloc: alloc,
		live:  make(map[unsafe.Pointer]ledgerEntry),
	}
}

func (l *Ledger) allocate(kind allocKind, size uintptr) (unsafe.Pointer, error) {
	p, err := l.alloc.Alloc(size)
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindAllocation).
			Detail("allocate %d byte %s", size, kind).Cause(err).Build()
	}
	if p == nil {
		return nil, errors.AllocationFailed(errors.PhaseEncode, size)
	}
	l.mu.Lock()
	l.live[p] = ledgerEntry{size: size, kind: kind}
	l.bytes += size
	l.mu.Unlock()
	return p, nil
}

// take removes p from the ledger if it is a live allocation of kind.
// Only the caller that wins take may touch or free the memory.
func (l *Ledger) take(p unsafe.Pointer, kind allocKind) bool {
	if p == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.live[p]
	if !ok || e.kind != kind {
		return false
	}
	delete(l.live, p)
	l.bytes -= e.size
	return true
}

func (l *Ledger) free(p unsafe.Pointer, kind allocKind) {
	if l.take(p, kind) {
		l.alloc.Free(p)
	}
}

// Owns reports whether p is a live allocation produced by this ledger.
func (l *Ledger) Owns(p unsafe.Pointer) bool {
	l.mu.Lock()
	_, ok := l.live[p]
	l.mu.Unlock()
	return ok
}

// Live returns the number of outstanding allocations.
func (l *Ledger) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// LiveBytes returns the number of outstanding bytes.
func (l *Ledger) LiveBytes() uintptr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bytes
}

// ReleaseString frees a string produced by the encoder. NULL, unknown and
// already released pointers are ignored.
func (l *Ledger) ReleaseString(p unsafe.Pointer) {
	l.free(p, allocString)
}

// ReleaseResult frees a result record, every populated string field and
// the nested error record.
func (l *Ledger) ReleaseResult(r *ResultRecord) {
	if !l.take(unsafe.Pointer(r), allocResult) {
		return
	}
	l.free(r.StringValue, allocString)
	l.free(r.ArrayValue, allocString)
	l.free(r.ObjectValue, allocString)
	if e := r.Error; e != nil && l.take(unsafe.Pointer(e), allocError) {
		l.free(e.Exception, allocString)
		l.free(e.StackTrace, allocString)
		l.alloc.Free(unsafe.Pointer(e))
	}
	l.alloc.Free(unsafe.Pointer(r))
}

// ReleaseHeapSnapshot frees a heap snapshot record.
func (l *Ledger) ReleaseHeapSnapshot(h *HeapSnapshotRecord) {
	l.free(unsafe.Pointer(h), allocHeapSnapshot)
}

type allocation struct {
	ptr  unsafe.Pointer
	kind allocKind
}

// AllocationList records allocations made while encoding one value so they
// can be rolled back if encoding fails part way.
type AllocationList struct {
	allocations []allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. List invalid after Release.
func (al *AllocationList) Release() {
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(l *Ledger) {
	al.Free(l)
	al.Release()
}

func (al *AllocationList) Add(ptr unsafe.Pointer, kind allocKind) {
	al.allocations = append(al.allocations, allocation{ptr: ptr, kind: kind})
}

// Free releases the recorded allocations in reverse order.
func (al *AllocationList) Free(l *Ledger) {
	if l == nil {
		return
	}
	for i := len(al.allocations) - 1; i >= 0; i-- {
		a := al.allocations[i]
		l.free(a.ptr, a.kind)
	}
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}
