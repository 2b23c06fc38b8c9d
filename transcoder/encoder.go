package transcoder

import (
	"unsafe"

	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/value"
)

// Encoder writes outcomes and heap snapshots into caller-owned records.
type Encoder struct {
	ledger *Ledger
}

func NewEncoder(ledger *Ledger) *Encoder {
	return &Encoder{ledger: ledger}
}

// Ledger returns the ledger that owns every record this encoder produces.
func (e *Encoder) Ledger() *Ledger {
	return e.ledger
}

// String allocates a caller-owned copy of s.
func (e *Encoder) String(s string) (unsafe.Pointer, error) {
	return e.string(s, nil)
}

func (e *Encoder) string(s string, al *AllocationList) (unsafe.Pointer, error) {
	p, err := e.ledger.allocate(allocString, uintptr(len(s))+1)
	if err != nil {
		return nil, err
	}
	if al != nil {
		al.Add(p, allocString)
	}
	writeCString(p, s)
	return p, nil
}

// Outcome encodes o into a new result record.
func (e *Encoder) Outcome(o value.Outcome) (*ResultRecord, error) {
	al := NewAllocationList()
	rec, err := e.outcome(o, al)
	if err != nil {
		al.FreeAndRelease(e.ledger)
		return nil, err
	}
	al.Release()
	return rec, nil
}

func (e *Encoder) outcome(o value.Outcome, al *AllocationList) (*ResultRecord, error) {
	if o == nil {
		return nil, errors.NilPointer(errors.PhaseEncode, nil, "value.Outcome")
	}

	p, err := e.ledger.allocate(allocResult, ResultRecordSize)
	if err != nil {
		return nil, err
	}
	al.Add(p, allocResult)
	rec := (*ResultRecord)(p)
	*rec = ResultRecord{}

	switch x := o.(type) {
	case value.Ok:
		err = e.projected(rec, x.Value, al)
	case value.Failure:
		rec.Error, err = e.failure(x, al)
	default:
		err = errors.Unsupported(errors.PhaseEncode, "outcome type")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (e *Encoder) projected(rec *ResultRecord, v value.Value, al *AllocationList) error {
	var err error
	switch v.Kind {
	case value.KindString:
		rec.StringValue, err = e.string(v.Text, al)
	case value.KindNumber:
		rec.NumberValue, rec.NumberValueSet = v.Number, true
	case value.KindBigInt:
		rec.BigIntValue, rec.BigIntValueSet = v.BigInt, true
	case value.KindBool:
		rec.BoolValue, rec.BoolValueSet = v.Bool, true
	case value.KindArray:
		rec.ArrayValue, err = e.string(v.Text, al)
	case value.KindObject:
		rec.ObjectValue, err = e.string(v.Text, al)
	default:
		err = errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
			Detail("value kind %s", v.Kind).Build()
	}
	return err
}

// failure writes an error record. Both text fields are always allocated;
// a missing stack trace is the empty string.
func (e *Encoder) failure(f value.Failure, al *AllocationList) (*ErrorRecord, error) {
	p, err := e.ledger.allocate(allocError, ErrorRecordSize)
	if err != nil {
		return nil, err
	}
	al.Add(p, allocError)
	er := (*ErrorRecord)(p)
	*er = ErrorRecord{}

	if er.Exception, err = e.string(f.Exception(), al); err != nil {
		return nil, err
	}
	if er.StackTrace, err = e.string(f.Stack(), al); err != nil {
		return nil, err
	}
	return er, nil
}

// HeapSnapshot encodes h into a new heap snapshot record.
func (e *Encoder) HeapSnapshot(h value.HeapSnapshot) (*HeapSnapshotRecord, error) {
	p, err := e.ledger.allocate(allocHeapSnapshot, HeapSnapshotRecordSize)
	if err != nil {
		return nil, err
	}
	rec := (*HeapSnapshotRecord)(p)
	*rec = HeapSnapshotRecord{
		TotalHeapSize:            uintptr(h.TotalHeapSize),
		TotalHeapSizeExecutable:  uintptr(h.TotalHeapSizeExecutable),
		TotalPhysicalSize:        uintptr(h.TotalPhysicalSize),
		TotalAvailableSize:       uintptr(h.TotalAvailableSize),
		UsedHeapSize:             uintptr(h.UsedHeapSize),
		HeapSizeLimit:            uintptr(h.HeapSizeLimit),
		MallocedMemory:           uintptr(h.MallocedMemory),
		DoesZapGarbage:           uintptr(h.DoesZapGarbage),
		NumberOfNativeContexts:   uintptr(h.NumberOfNativeContexts),
		NumberOfDetachedContexts: uintptr(h.NumberOfDetachedContexts),
		PeakMallocedMemory:       uintptr(h.PeakMallocedMemory),
		UsedGlobalHandlesSize:    uintptr(h.UsedGlobalHandlesSize),
		TotalGlobalHandlesSize:   uintptr(h.TotalGlobalHandlesSize),
	}
	return rec, nil
}
