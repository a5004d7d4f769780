package kernel

import "github.com/junioryono/kernel/internal/engine"

// FactoryContainer is the container handle a Factory or Decorator closure
// receives while its ServiceId is mid-resolution. It exposes the same
// Get/Call surface as Kernel, but resolves through the Context that is
// already in flight rather than starting a fresh resolution root: a
// callback's Get continues the same parent/depth chain (so two factories
// that delegate to each other via Get raise CycleError instead of
// recursing forever) and keeps the enclosing scope Frame active (so a
// Scoped dependency resolved from inside a callback resolves against the
// scope that triggered the callback, not the top level).
//
// *Kernel implements engine.ContextBinder so the engine hands this out in
// place of the raw *Kernel automatically; callers never construct one
// directly.
type FactoryContainer struct {
	kernel *Kernel
	ctx    *engine.Context
}

// BindContext implements engine.ContextBinder.
func (k *Kernel) BindContext(ctx *engine.Context) any {
	return &FactoryContainer{kernel: k, ctx: ctx}
}

// Get resolves id as a child of the resolution that produced fc, so cycle
// detection and the active scope Frame both see the callback as part of
// the same resolution chain.
func (fc *FactoryContainer) Get(id string) (any, error) {
	if fc.kernel.isClosed() {
		return nil, ErrKernelClosed
	}
	child := fc.ctx.Child(id, nil)
	return fc.kernel.eng.Resolve(child, nil)
}

// Call normalizes and invokes callable the same way Kernel.Call does,
// except any "Class@method"/[2]string lookup it performs also continues
// fc's resolution chain rather than starting a fresh one.
func (fc *FactoryContainer) Call(callable Callable, overrides map[string]any) (any, error) {
	if fc.kernel.isClosed() {
		return nil, ErrKernelClosed
	}
	className, fn, err := normalizeCallableWith(callable, fc.Get)
	if err != nil {
		return nil, err
	}
	child := fc.ctx.Child(className, overrides)
	return fc.kernel.eng.Invoke(child, fn, className)
}

// Kernel returns the underlying *Kernel, for a Factory/Decorator that
// needs the full facade (e.g. to read options or registration state)
// rather than another resolution.
func (fc *FactoryContainer) Kernel() *Kernel { return fc.kernel }
