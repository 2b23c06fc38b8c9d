package transcoder

import "unsafe"

// ArgumentRecord mirrors jseval_primitive.
type ArgumentRecord struct {
	NumberValue    float64
	NumberValueSet bool
	BigIntValue    int64
	BigIntValueSet bool
	BoolValue      bool
	BoolValueSet   bool
	StringValue    unsafe.Pointer
	SymbolValue    unsafe.Pointer
	ObjectValue    unsafe.Pointer
}

// ErrorRecord mirrors jseval_error.
type ErrorRecord struct {
	Exception  unsafe.Pointer
	StackTrace unsafe.Pointer
}

// ResultRecord mirrors jseval_result. At most one value slot is populated;
// Error is non-nil for failures.
type ResultRecord struct {
	NumberValue    float64
	NumberValueSet bool
	BigIntValue    int64
	BigIntValueSet bool
	BoolValue      bool
	BoolValueSet   bool
	StringValue    unsafe.Pointer
	ArrayValue     unsafe.Pointer
	ObjectValue    unsafe.Pointer
	Error          *ErrorRecord
}

// HeapSnapshotRecord mirrors jseval_heap_stats. Fields are size_t.
type HeapSnapshotRecord struct {
	TotalHeapSize            uintptr
	TotalHeapSizeExecutable  uintptr
	TotalPhysicalSize        uintptr
	TotalAvailableSize       uintptr
	UsedHeapSize             uintptr
	HeapSizeLimit            uintptr
	MallocedMemory           uintptr
	DoesZapGarbage           uintptr
	NumberOfNativeContexts   uintptr
	NumberOfDetachedContexts uintptr
	PeakMallocedMemory       uintptr
	UsedGlobalHandlesSize    uintptr
	TotalGlobalHandlesSize   uintptr
}

const (
	ArgumentRecordSize     = unsafe.Sizeof(ArgumentRecord{})
	ErrorRecordSize        = unsafe.Sizeof(ErrorRecord{})
	ResultRecordSize       = unsafe.Sizeof(ResultRecord{})
	HeapSnapshotRecordSize = unsafe.Sizeof(HeapSnapshotRecord{})
)

// Safety limits for data read from caller memory.
const (
	MaxStringSize = 256 << 20
	MaxArguments  = 1 << 16
)
