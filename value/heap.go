package value

// HeapSnapshot is a point-in-time copy of engine memory counters. Backends
// that do not track a counter report zero for it.
type HeapSnapshot struct {
	TotalHeapSize            uint64 `json:"total_heap_size"`
	TotalHeapSizeExecutable  uint64 `json:"total_heap_size_executable"`
	TotalPhysicalSize        uint64 `json:"total_physical_size"`
	TotalAvailableSize       uint64 `json:"total_available_size"`
	UsedHeapSize             uint64 `json:"used_heap_size"`
	HeapSizeLimit            uint64 `json:"heap_size_limit"`
	MallocedMemory           uint64 `json:"malloced_memory"`
	DoesZapGarbage           uint64 `json:"does_zap_garbage"`
	NumberOfNativeContexts   uint64 `json:"number_of_native_contexts"`
	NumberOfDetachedContexts uint64 `json:"number_of_detached_contexts"`
	PeakMallocedMemory       uint64 `json:"peak_malloced_memory"`
	UsedGlobalHandlesSize    uint64 `json:"used_global_handles_size"`
	TotalGlobalHandlesSize   uint64 `json:"total_global_handles_size"`
}

// Consistent reports whether the counters obey the basic ordering rules
// every engine guarantees: used <= total <= limit, and the peak is never
// below the current malloc figure.
func (h HeapSnapshot) Consistent() bool {
	if h.UsedHeapSize > h.TotalHeapSize {
		return false
	}
	if h.HeapSizeLimit != 0 && h.TotalHeapSize > h.HeapSizeLimit {
		return false
	}
	if h.PeakMallocedMemory < h.MallocedMemory {
		return false
	}
	return h.UsedGlobalHandlesSize <= h.TotalGlobalHandlesSize
}
