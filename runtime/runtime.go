package runtime

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wippyai/jseval/config"
	"github.com/wippyai/jseval/engine"
	_ "github.com/wippyai/jseval/engine/gojaengine"
	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/resource"
)

// Runtime creates engine instances and tracks them by handle.
type Runtime struct {
	cfg       *config.Config
	log       *zap.Logger
	instances *resource.Table[*Instance]
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(r *Runtime) {
		if cfg != nil {
			c := *cfg
			r.cfg = &c
		}
	}
}

// WithBackend selects the engine backend by registry name.
func WithBackend(name string) Option {
	return func(r *Runtime) { r.cfg.Backend = name }
}

// WithLogger sets the logger used by the runtime and its instances.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runtime) { r.log = log }
}

// New creates a runtime. The backend must be registered; "goja" always is,
// "v8" only in builds with the v8 tag.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &Runtime{cfg: config.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = engine.Logger()
	}

	if !lo.Contains(engine.Backends(), r.cfg.Backend) {
		return nil, errors.NotFound(errors.PhaseLifecycle, "backend", r.cfg.Backend)
	}

	r.instances = resource.NewTable[*Instance]()
	r.instances.Subscribe(resource.ObserverFunc(func(e resource.Event) {
		r.log.Debug("instance "+e.Type.String(), zap.Stringer("handle", e.Handle))
	}))

	return r, nil
}

// Config returns a copy of the active configuration.
func (r *Runtime) Config() config.Config {
	return *r.cfg
}

func (r *Runtime) Logger() *zap.Logger {
	return r.log
}

// NewInstance starts an engine instance on its own worker.
func (r *Runtime) NewInstance(ctx context.Context) (*Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	actor, err := engine.New(r.cfg.EngineOptions(r.log))
	if err != nil {
		return nil, err
	}

	inst := &Instance{actor: actor, runtime: r}
	inst.handle = r.instances.Insert(inst)
	if inst.handle == 0 {
		_ = actor.Close()
		return nil, errors.Closed("create instance")
	}
	return inst, nil
}

// Instance looks up a live instance by handle. Stale handles of destroyed
// instances are never resolved.
func (r *Runtime) Instance(h resource.Handle) (*Instance, bool) {
	return r.instances.Get(h)
}

// Destroy closes the instance behind h. It reports false when h is unknown.
func (r *Runtime) Destroy(h resource.Handle) bool {
	_, ok := r.instances.Remove(h)
	return ok
}

// Instances returns the number of instances not yet closed.
func (r *Runtime) Instances() int {
	return r.instances.Len()
}

// Close closes every instance. Queued requests finish first.
func (r *Runtime) Close(ctx context.Context) error {
	return r.instances.Close()
}
