package transcoder

import (
	stderrors "errors"
	"strconv"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/value"
)

// Decoder reads ArgumentRecords and NUL-terminated text from caller memory.
type Decoder struct {
	log    *zap.Logger
	strict bool
}

type DecoderOption func(*Decoder)

// Strict makes the decoder reject records with more than one populated slot.
func Strict(on bool) DecoderOption {
	return func(d *Decoder) { d.strict = on }
}

func WithLogger(log *zap.Logger) DecoderOption {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Text copies the NUL-terminated string at p. NULL reads as the empty
// string; invalid UTF-8 is repaired.
func (d *Decoder) Text(p unsafe.Pointer, path ...string) (string, error) {
	if p == nil {
		return "", nil
	}
	b, err := cBytes(p, path)
	if err != nil {
		return "", err
	}
	s, repaired := repairUTF8(b)
	if repaired {
		d.log.Debug("repaired invalid UTF-8",
			zap.Strings("path", path),
			zap.Error(errors.InvalidUTF8(errors.PhaseDecode, path, b)))
	}
	return s, nil
}

// Argument decodes one record. Slot precedence is string, symbol, object,
// number, bigint, bool.
func (d *Decoder) Argument(rec *ArgumentRecord, path ...string) (value.Argument, error) {
	if rec == nil {
		return value.Argument{}, errors.NilPointer(errors.PhaseDecode, path, "*ArgumentRecord")
	}

	populated := populatedSlots(rec)
	switch {
	case len(populated) == 0:
		return value.Argument{}, errors.InvalidArgument(path, "no variant populated")
	case len(populated) > 1:
		amb := errors.AmbiguousVariant(errors.PhaseDecode, path, populated)
		if d.strict {
			return value.Argument{}, amb
		}
		d.log.Warn("ambiguous argument record, using first populated slot",
			zap.String("chosen", populated[0]), zap.Error(amb))
	}

	switch populated[0] {
	case "string":
		s, err := d.Text(rec.StringValue, path...)
		return value.StringArg(s), err
	case "symbol":
		s, err := d.Text(rec.SymbolValue, path...)
		return value.SymbolArg(s), err
	case "object":
		s, err := d.Text(rec.ObjectValue, path...)
		return value.ObjectArg(s), err
	case "number":
		return value.NumberArg(rec.NumberValue), nil
	case "bigint":
		return value.BigIntArg(rec.BigIntValue), nil
	default:
		return value.BoolArg(rec.BoolValue), nil
	}
}

func populatedSlots(rec *ArgumentRecord) []string {
	var slots []string
	if rec.StringValue != nil {
		slots = append(slots, "string")
	}
	if rec.SymbolValue != nil {
		slots = append(slots, "symbol")
	}
	if rec.ObjectValue != nil {
		slots = append(slots, "object")
	}
	if rec.NumberValueSet {
		slots = append(slots, "number")
	}
	if rec.BigIntValueSet {
		slots = append(slots, "bigint")
	}
	if rec.BoolValueSet {
		slots = append(slots, "bool")
	}
	return slots
}

// Arguments decodes a contiguous array of n records starting at recs.
func (d *Decoder) Arguments(recs unsafe.Pointer, n int) ([]value.Argument, error) {
	if n == 0 {
		return nil, nil
	}
	if n < 0 || n > MaxArguments {
		return nil, errors.InvalidArgument([]string{"args"}, "argument count "+strconv.Itoa(n)+" out of range")
	}
	if recs == nil {
		return nil, errors.InvalidArgument([]string{"args"}, "null argument list with count "+strconv.Itoa(n))
	}

	records := unsafe.Slice((*ArgumentRecord)(recs), n)
	args := make([]value.Argument, n)
	for i := range records {
		a, err := d.Argument(&records[i], "args", strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}

// ArgumentFailure converts a decoding error into the failure outcome
// reported to the caller in place of running the call.
func ArgumentFailure(err error) value.ArgumentFailure {
	f := value.ArgumentFailure{Index: -1, Reason: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		if e.Detail != "" {
			f.Reason = e.Detail
		}
		if len(e.Path) == 2 && e.Path[0] == "args" {
			if i, perr := strconv.Atoi(e.Path[1]); perr == nil {
				f.Index = i
			}
		}
	}
	return f
}
