// Package kernel implements a dependency-injection container runtime: a
// multi-stage resolver that turns service identifiers into fully wired
// objects through a deterministic, observable finite-state pipeline.
//
// Build a Kernel, register services against it, and resolve:
//
//	k := kernel.New()
//	k.Struct("Logger", FileLogger{}, NewFileLogger)
//	k.Singleton("Logger", kernel.Class("Logger"))
//
//	v, err := k.Get("Logger")
//
// Every entry point takes an explicit *Kernel or *Scope receiver; there is
// no package-level global accessor.
package kernel

import (
	"sync"
	"time"

	"github.com/junioryono/kernel/internal/engine"
	"github.com/junioryono/kernel/internal/prototype"
	"github.com/junioryono/kernel/internal/scoperegistry"
	"github.com/junioryono/kernel/internal/store"
	"go.uber.org/zap"
)

// Kernel composes the Prototype Factory, Definition Store, Scope
// Registry, and Resolution Engine behind the registration and resolution
// DSLs, and is the sole facade external code depends on.
type Kernel struct {
	mu sync.RWMutex

	store   *store.Store
	factory *prototype.Factory
	scopes  *scoperegistry.Registry
	eng     *engine.Engine

	opts  *options
	hooks *hooks

	closed bool
}

// New constructs a Kernel. With no options, the prototype cache is
// L1-only at capacity 1024, the depth cap is 256, strict mode is off, and
// logging is a no-op.
func New(opts ...Option) *Kernel {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	st := store.New()

	var l2 prototype.Cache
	if o.prototypeCachePath != "" {
		l2 = prototype.NewDiskCache(o.prototypeCachePath)
	}
	factory := prototype.NewFactory(o.prototypeCacheCapacity, l2)
	scopes := scoperegistry.New()

	st.OnDuplicate(func(kind, serviceId string) {
		o.logger.Warn("duplicate registration", zap.String("kind", kind), zap.String("serviceId", serviceId))
	})
	st.OnAfterBuild(func(op, serviceId string) {
		o.logger.Info("registration after boot", zap.String("op", op), zap.String("serviceId", serviceId))
	})

	eng := engine.New(st, factory, scopes, engine.Options{
		MaxDepth:   o.maxResolutionDepth,
		StrictMode: o.strictMode,
	})
	if o.guard != nil {
		eng.SetGuard(engineGuard{g: o.guard})
	}

	return &Kernel{
		store:   st,
		factory: factory,
		scopes:  scopes,
		eng:     eng,
		opts:    o,
		hooks:   newHooks(),
	}
}

// MarkBuilt closes the registration phase: further Bind/Instance/
// WithArgument calls still succeed but emit an INFO-level diagnostic,
// per "registrations after boot are allowed but emit a diagnostic event."
func (k *Kernel) MarkBuilt() {
	k.store.MarkBuilt()
}

// Get resolves id as a top-level request: a fresh KernelContext with no
// parent, depth 0, and no overrides.
func (k *Kernel) Get(id string) (any, error) {
	return k.resolve(id, nil, nil)
}

// Call normalizes callable (a "Class@method" string, a [2]string
// className/method pair, or a plain function) and invokes it, resolving
// its parameters the same way a constructor's are resolved.
func (k *Kernel) Call(callable Callable, overrides map[string]any) (any, error) {
	return k.call(callable, overrides, nil)
}

func (k *Kernel) call(callable Callable, overrides map[string]any, frame *scoperegistry.Frame) (any, error) {
	if k.isClosed() {
		return nil, ErrKernelClosed
	}
	className, fn, err := k.normalizeCallable(callable)
	if err != nil {
		return nil, err
	}
	ctx := engine.NewRootContext(className, overrides, frame, k)
	return k.eng.Invoke(ctx, fn, className)
}

// InjectInto applies property and method injection to an
// already-constructed target, which must be a pointer to a type
// registered via Struct under className.
func (k *Kernel) InjectInto(target any, className string) (any, error) {
	if k.isClosed() {
		return nil, ErrKernelClosed
	}
	ctx := engine.NewRootContext(className, nil, nil, k)
	return k.eng.InjectInto(ctx, target, className)
}

// resolve is the shared top-level entry point for Kernel.Get and
// Scope.Get: it fires lifecycle hooks, drives the engine, and fans the
// completed trace out to diagnostics sinks.
func (k *Kernel) resolve(id string, overrides map[string]any, frame *scoperegistry.Frame) (any, error) {
	if k.isClosed() {
		return nil, ErrKernelClosed
	}

	k.firePreResolve(id)

	ctx := engine.NewRootContext(id, overrides, frame, k)

	var captured *Trace
	started := time.Now()
	result, err := k.eng.Resolve(ctx, engine.ObserverFunc(func(trace *Trace) {
		captured = trace
	}))

	k.recordDiagnostics(captured, id, started, err)

	if err != nil {
		k.fireResolveError(id, err)
		return nil, err
	}

	k.firePostResolve(id, result)
	return result, nil
}

func (k *Kernel) isClosed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.closed
}

// Close tears the Kernel down: clears the singleton cache and the
// prototype cache (both tiers), and refuses further resolution calls with
// ErrKernelClosed. Registration methods are not checked and still write
// to the definition store. It does not close any Scope the caller still
// holds open — close those first via Scope.Close.
func (k *Kernel) Close() error {
	k.mu.Lock()
	k.closed = true
	k.mu.Unlock()

	k.scopes.Clear()
	k.factory.Clear()
	return nil
}
