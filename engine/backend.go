package engine

import (
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wippyai/jseval/errors"
	"github.com/wippyai/jseval/value"
)

// Backend is one script engine execution context. Implementations are
// only ever called from the goroutine that created them.
type Backend interface {
	// Evaluate compiles and runs source in the global scope.
	Evaluate(source string) value.Outcome

	// Invoke calls the global function name with the global object as
	// receiver.
	Invoke(name string, args []value.Argument) value.Outcome

	// HeapSnapshot reads the current memory counters.
	HeapSnapshot() value.HeapSnapshot

	// Close releases the context.
	Close() error
}

// Options configure an actor and the backend it creates.
type Options struct {
	// Logger receives request and console output. Defaults to Logger().
	Logger *zap.Logger

	// Backend names a registered Factory.
	Backend string

	// ModuleDir enables CommonJS require() resolving from this folder,
	// for backends that support it.
	ModuleDir string

	// Flags are passed to the engine once per process by Setup.
	Flags []string

	// MaxCallStackSize bounds script recursion depth. 0 keeps the
	// backend default.
	MaxCallStackSize int

	// MailboxLimit caps queued requests. 0 means unbounded.
	MailboxLimit int

	// Console routes console.* output to Logger when set.
	Console bool
}

// Factory creates backends of one kind.
type Factory struct {
	// Setup runs once per process before the first backend is created.
	Setup func(Options) error

	// New creates a backend. It is called on the actor's worker goroutine.
	New func(Options) (Backend, error)

	Name string
}

type registration struct {
	factory Factory
	once    sync.Once
	err     error
}

func (r *registration) setup(opts Options) error {
	r.once.Do(func() {
		if r.factory.Setup != nil {
			r.err = r.factory.Setup(opts)
		}
	})
	return r.err
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*registration{}
)

// Register makes a backend available by name. Registering a name twice
// replaces the earlier factory.
func Register(f Factory) {
	if f.Name == "" || f.New == nil {
		panic("engine: Register requires a name and a constructor")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f.Name] = &registration{factory: f}
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	names := lo.Keys(registry)
	registryMu.RUnlock()
	slices.Sort(names)
	return names
}

func lookup(name string) (*registration, error) {
	registryMu.RLock()
	r, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.New(errors.PhaseLifecycle, errors.KindNotFound).
			Detail("backend %q is not registered (available: %v)", name, Backends()).Build()
	}
	return r, nil
}
