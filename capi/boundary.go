package main

import (
	"context"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/jseval"
	"github.com/wippyai/jseval/config"
	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/resource"
	"github.com/wippyai/jseval/runtime"
	"github.com/wippyai/jseval/transcoder"
	"github.com/wippyai/jseval/value"
)

// boundary holds the process-wide state behind the exported functions.
type boundary struct {
	rt      *runtime.Runtime
	log     *zap.Logger
	decoder *transcoder.Decoder
	encoder *transcoder.Encoder
	ledger  *transcoder.Ledger
}

var (
	sharedOnce sync.Once
	sharedB    *boundary
)

// shared returns the boundary, building it from the environment on first
// use. It returns nil when configuration is invalid.
func shared() *boundary {
	sharedOnce.Do(func() {
		cfg, err := config.FromEnv()
		if err != nil {
			zap.NewExample().Error("jseval configuration", zap.Error(err))
			return
		}
		log, err := cfg.Logger()
		if err != nil {
			zap.NewExample().Error("jseval logger", zap.Error(err))
			return
		}
		engine.SetLogger(log)

		b, err := newBoundary(cfg, log, cAllocator{})
		if err != nil {
			log.Error("jseval runtime", zap.Error(err))
			return
		}
		sharedB = b
	})
	return sharedB
}

func newBoundary(cfg *config.Config, log *zap.Logger, alloc jseval.Allocator) (*boundary, error) {
	rt, err := runtime.New(context.Background(), runtime.WithConfig(cfg), runtime.WithLogger(log))
	if err != nil {
		return nil, err
	}
	ledger := transcoder.NewLedger(alloc)
	return &boundary{
		rt:  rt,
		log: log.Named("capi"),
		decoder: transcoder.NewDecoder(
			transcoder.Strict(cfg.StrictArguments),
			transcoder.WithLogger(log),
		),
		encoder: transcoder.NewEncoder(ledger),
		ledger:  ledger,
	}, nil
}

func (b *boundary) instance(h uint64) *runtime.Instance {
	inst, ok := b.rt.Instance(resource.Handle(h))
	if !ok {
		return nil
	}
	return inst
}

func (b *boundary) create() uint64 {
	inst, err := b.rt.NewInstance(context.Background())
	if err != nil {
		b.log.Error("create instance", zap.Error(err))
		return 0
	}
	return uint64(inst.Handle())
}

func (b *boundary) destroy(h uint64) {
	if !b.rt.Destroy(resource.Handle(h)) {
		b.log.Debug("destroy of unknown handle", zap.Uint64("handle", h))
	}
}

func (b *boundary) alive(h uint64) bool {
	inst := b.instance(h)
	return inst != nil && inst.Alive()
}

// instanceError returns the fatal failure text of h, or nil.
func (b *boundary) instanceError(h uint64) unsafe.Pointer {
	inst := b.instance(h)
	if inst == nil || inst.Err() == nil {
		return nil
	}
	p, err := b.encoder.String(inst.Err().Error())
	if err != nil {
		b.log.Error("encode instance error", zap.Error(err))
		return nil
	}
	return p
}

// result encodes o, or returns nil when the record cannot be allocated.
func (b *boundary) result(o value.Outcome) *transcoder.ResultRecord {
	rec, err := b.encoder.Outcome(o)
	if err != nil {
		b.log.Error("encode result", zap.Error(err))
		return nil
	}
	return rec
}

func (b *boundary) heap(h value.HeapSnapshot) *transcoder.HeapSnapshotRecord {
	rec, err := b.encoder.HeapSnapshot(h)
	if err != nil {
		b.log.Error("encode heap snapshot", zap.Error(err))
		return nil
	}
	return rec
}

func (b *boundary) complete(done func(*transcoder.ResultRecord)) engine.Completion {
	return func(resp engine.Response) {
		if resp.Err != nil {
			done(nil)
			return
		}
		done(b.result(resp.Outcome))
	}
}

func (b *boundary) evaluate(h uint64, source unsafe.Pointer) *transcoder.ResultRecord {
	inst := b.instance(h)
	if inst == nil {
		return nil
	}
	src, err := b.decoder.Text(source, "source")
	if err != nil {
		return b.result(transcoder.ArgumentFailure(err))
	}
	o, err := inst.Evaluate(context.Background(), src)
	if err != nil {
		return nil
	}
	return b.result(o)
}

func (b *boundary) beginEvaluate(h uint64, source unsafe.Pointer, done func(*transcoder.ResultRecord)) bool {
	inst := b.instance(h)
	if inst == nil {
		return false
	}
	src, err := b.decoder.Text(source, "source")
	if err != nil {
		return inst.BeginFailure(engine.RequestEvaluate, transcoder.ArgumentFailure(err), b.complete(done)) == nil
	}
	return inst.BeginEvaluate(src, b.complete(done)) == nil
}

// call decodes the function name and arguments. Decoding failures become
// an ArgumentFailure instead of a call.
func (b *boundary) call(name, args unsafe.Pointer, n int) (string, []value.Argument, *value.ArgumentFailure) {
	fn, err := b.decoder.Text(name, "name")
	if err != nil {
		f := transcoder.ArgumentFailure(err)
		return "", nil, &f
	}
	tagged, err := b.decoder.Arguments(args, n)
	if err != nil {
		f := transcoder.ArgumentFailure(err)
		return "", nil, &f
	}
	return fn, tagged, nil
}

func (b *boundary) invoke(h uint64, name, args unsafe.Pointer, n int) *transcoder.ResultRecord {
	inst := b.instance(h)
	if inst == nil {
		return nil
	}
	fn, tagged, failure := b.call(name, args, n)
	if failure != nil {
		return b.result(*failure)
	}
	o, err := inst.Invoke(context.Background(), fn, tagged)
	if err != nil {
		return nil
	}
	return b.result(o)
}

func (b *boundary) beginInvoke(h uint64, name, args unsafe.Pointer, n int, done func(*transcoder.ResultRecord)) bool {
	inst := b.instance(h)
	if inst == nil {
		return false
	}
	fn, tagged, failure := b.call(name, args, n)
	if failure != nil {
		return inst.BeginFailure(engine.RequestInvoke, *failure, b.complete(done)) == nil
	}
	return inst.BeginInvoke(fn, tagged, b.complete(done)) == nil
}

func (b *boundary) heapSnapshot(h uint64) *transcoder.HeapSnapshotRecord {
	inst := b.instance(h)
	if inst == nil {
		return nil
	}
	snap, err := inst.HeapSnapshot(context.Background())
	if err != nil {
		return nil
	}
	return b.heap(snap)
}

func (b *boundary) beginHeapSnapshot(h uint64, done func(*transcoder.HeapSnapshotRecord)) bool {
	inst := b.instance(h)
	if inst == nil {
		return false
	}
	return inst.BeginHeapSnapshot(func(resp engine.Response) {
		if resp.Err != nil {
			done(nil)
			return
		}
		done(b.heap(resp.Heap))
	}) == nil
}
