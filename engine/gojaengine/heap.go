package gojaengine

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/value"
)

// HeapSnapshot reports Go runtime memory counters, since goja allocates on
// the Go heap. The limit is the runtime soft memory limit.
func (b *Backend) HeapSnapshot() value.HeapSnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	limit := uint64(math.MaxInt64)
	if l := debug.SetMemoryLimit(-1); l > 0 {
		limit = uint64(l)
	}
	limit = max(limit, ms.HeapSys)

	malloced := ms.Sys - ms.HeapSys
	b.peak = max(b.peak, malloced)

	live, detached := engine.Contexts()

	return value.HeapSnapshot{
		TotalHeapSize:            ms.HeapSys,
		TotalPhysicalSize:        ms.HeapSys - ms.HeapReleased,
		TotalAvailableSize:       limit - ms.HeapAlloc,
		UsedHeapSize:             ms.HeapAlloc,
		HeapSizeLimit:            limit,
		MallocedMemory:           malloced,
		NumberOfNativeContexts:   max(live, 1),
		NumberOfDetachedContexts: detached,
		PeakMallocedMemory:       b.peak,
	}
}
