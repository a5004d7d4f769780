package engine

import "github.com/junioryono/kernel/internal/scoperegistry"

// Context is the KernelContext data-model entry from spec §3: the
// per-resolution carrier of target id, overrides, parent pointer, depth,
// and diagnostics metadata. It is created per top-level Resolve call and
// discarded once that call (and every child it spawned) returns.
type Context struct {
	ServiceId string
	Overrides map[string]any
	Parent    *Context
	Depth     int

	// Frame is the active scope, or nil if resolution is happening outside
	// any BeginScope/EndScope pair.
	Frame *scoperegistry.Frame

	// Container is the facade (*kernel.Kernel) passed to factory functions
	// and available to delegate/child resolutions. Typed any to avoid an
	// import cycle; the root package hands itself in and the engine threads
	// it through, inspecting it only in ForCallback (for ContextBinder).
	Container any

	Metadata map[string]any

	Instance any
	Success  bool
}

// ContextBinder is implemented by the root package's Kernel facade. A
// Factory or Decorator closure is handed ctx.Container as-is by default;
// when that value also implements ContextBinder, evaluateCandidate and
// applyDecorators instead hand the closure BindContext(ctx)'s result, so a
// callback that re-enters the container continues this Context's own
// parent/depth chain and active scope Frame instead of starting a fresh
// resolution root. Without this, a factory that calls back into the
// container mid-resolution can never be caught by checkDepthAndCycle.
type ContextBinder interface {
	BindContext(ctx *Context) any
}

// ForCallback returns the value a Factory/Decorator closure invoked during
// ctx's resolution should receive: ctx.Container itself, unless it
// implements ContextBinder, in which case its context-bound form.
func (c *Context) ForCallback() any {
	if binder, ok := c.Container.(ContextBinder); ok {
		return binder.BindContext(c)
	}
	return c.Container
}

// NewRootContext creates depth-0 context with no parent, the shape every
// top-level Kernel.Get/Call produces.
func NewRootContext(serviceId string, overrides map[string]any, frame *scoperegistry.Frame, container any) *Context {
	return &Context{
		ServiceId: serviceId,
		Overrides: overrides,
		Frame:     frame,
		Container: container,
		Metadata:  make(map[string]any),
	}
}

// Child spawns a new context one level deeper, chained to this one as
// parent — invariant 6's depth monotonicity and the acyclic parent tree.
func (c *Context) Child(serviceId string, overrides map[string]any) *Context {
	return &Context{
		ServiceId: serviceId,
		Overrides: overrides,
		Parent:    c,
		Depth:     c.Depth + 1,
		Frame:     c.Frame,
		Container: c.Container,
		Metadata:  make(map[string]any),
	}
}

// Chain walks the parent pointers, most recent first, including c itself.
func (c *Context) Chain() []*Context {
	var out []*Context
	for cur := c; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}
