package kernel

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PreResolveHook observes a ServiceId about to enter the FSM.
type PreResolveHook func(serviceId string)

// PostResolveHook observes a successfully resolved value.
type PostResolveHook func(serviceId string, instance any)

// ErrorHook observes a resolution failure. On a top-level resolve, error
// hooks fire at most once for the entire sub-tree (a deeply nested
// failure is reported once, at the top, not once per frame it unwound
// through).
type ErrorHook func(serviceId string, err error)

// hooks holds the per-ServiceId lifecycle hook registrations.
type hooks struct {
	mu    sync.RWMutex
	pre   map[string][]PreResolveHook
	post  map[string][]PostResolveHook
	onErr map[string][]ErrorHook
}

func newHooks() *hooks {
	return &hooks{
		pre:   make(map[string][]PreResolveHook),
		post:  make(map[string][]PostResolveHook),
		onErr: make(map[string][]ErrorHook),
	}
}

// OnPreResolve registers fn to run immediately before a top-level
// resolution of id (Kernel.Get or Scope.Get) enters the FSM. Resolving id
// as a nested dependency does not fire it.
func (k *Kernel) OnPreResolve(id string, fn PreResolveHook) {
	k.hooks.mu.Lock()
	defer k.hooks.mu.Unlock()
	k.hooks.pre[id] = append(k.hooks.pre[id], fn)
}

// OnPostResolve registers fn to run after a top-level resolution of id
// (Kernel.Get or Scope.Get) succeeds. Resolving id as a nested dependency
// does not fire it.
func (k *Kernel) OnPostResolve(id string, fn PostResolveHook) {
	k.hooks.mu.Lock()
	defer k.hooks.mu.Unlock()
	k.hooks.post[id] = append(k.hooks.post[id], fn)
}

// OnResolveError registers fn to run once when a top-level resolution of
// id fails, regardless of how deep in the sub-tree the failure occurred.
func (k *Kernel) OnResolveError(id string, fn ErrorHook) {
	k.hooks.mu.Lock()
	defer k.hooks.mu.Unlock()
	k.hooks.onErr[id] = append(k.hooks.onErr[id], fn)
}

func (k *Kernel) firePreResolve(id string) {
	k.hooks.mu.RLock()
	fns := k.hooks.pre[id]
	k.hooks.mu.RUnlock()
	for _, fn := range fns {
		fn(id)
	}
}

func (k *Kernel) firePostResolve(id string, instance any) {
	k.hooks.mu.RLock()
	fns := k.hooks.post[id]
	k.hooks.mu.RUnlock()
	for _, fn := range fns {
		fn(id, instance)
	}
}

// fireResolveError runs every registered on-error hook for id, aggregating
// any panics with multierr so one misbehaving hook never prevents the
// others from observing the failure. Aggregated hook panics are logged,
// never returned — hook failures must not mask the original resolution
// error.
func (k *Kernel) fireResolveError(id string, resolveErr error) {
	k.hooks.mu.RLock()
	fns := k.hooks.onErr[id]
	k.hooks.mu.RUnlock()

	var hookErr error
	for _, fn := range fns {
		hookErr = multierr.Append(hookErr, safeInvoke(func() error {
			fn(id, resolveErr)
			return nil
		}))
	}
	if hookErr != nil {
		k.opts.logger.Warn("resolve-error hook failed", zap.String("serviceId", id), zap.Error(hookErr))
	}
}
