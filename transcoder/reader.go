package transcoder

import (
	"github.com/wippyai/jseval/value"
)

// ReadResult converts a result record back into an outcome. Error records
// come back as RuntimeFailure since the record does not carry the failure
// variant. A record with no populated slot reads as the empty string.
func (d *Decoder) ReadResult(r *ResultRecord) (value.Outcome, error) {
	if r == nil {
		return nil, nil
	}
	if r.Error != nil {
		msg, err := d.Text(r.Error.Exception, "error", "exception")
		if err != nil {
			return nil, err
		}
		stack, err := d.Text(r.Error.StackTrace, "error", "stack_trace")
		if err != nil {
			return nil, err
		}
		return value.RuntimeFailure{Message: msg, StackTrace: stack}, nil
	}

	switch {
	case r.StringValue != nil:
		s, err := d.Text(r.StringValue, "string_value")
		return value.Ok{Value: value.StringValue(s)}, err
	case r.ArrayValue != nil:
		s, err := d.Text(r.ArrayValue, "array_value")
		return value.Ok{Value: value.ArrayValue(s)}, err
	case r.ObjectValue != nil:
		s, err := d.Text(r.ObjectValue, "object_value")
		return value.Ok{Value: value.ObjectValue(s)}, err
	case r.NumberValueSet:
		return value.Ok{Value: value.NumberValue(r.NumberValue)}, nil
	case r.BigIntValueSet:
		return value.Ok{Value: value.BigIntValue(r.BigIntValue)}, nil
	case r.BoolValueSet:
		return value.Ok{Value: value.BoolValue(r.BoolValue)}, nil
	default:
		return value.Ok{Value: value.StringValue("")}, nil
	}
}

// ReadHeapSnapshot copies a heap snapshot record.
func ReadHeapSnapshot(r *HeapSnapshotRecord) value.HeapSnapshot {
	if r == nil {
		return value.HeapSnapshot{}
	}
	return value.HeapSnapshot{
		TotalHeapSize:            uint64(r.TotalHeapSize),
		TotalHeapSizeExecutable:  uint64(r.TotalHeapSizeExecutable),
		TotalPhysicalSize:        uint64(r.TotalPhysicalSize),
		TotalAvailableSize:       uint64(r.TotalAvailableSize),
		UsedHeapSize:             uint64(r.UsedHeapSize),
		HeapSizeLimit:            uint64(r.HeapSizeLimit),
		MallocedMemory:           uint64(r.MallocedMemory),
		DoesZapGarbage:           uint64(r.DoesZapGarbage),
		NumberOfNativeContexts:   uint64(r.NumberOfNativeContexts),
		NumberOfDetachedContexts: uint64(r.NumberOfDetachedContexts),
		PeakMallocedMemory:       uint64(r.PeakMallocedMemory),
		UsedGlobalHandlesSize:    uint64(r.UsedGlobalHandlesSize),
		TotalGlobalHandlesSize:   uint64(r.TotalGlobalHandlesSize),
	}
}
