package kernel

import (
	"context"

	"github.com/junioryono/kernel/internal/scoperegistry"
)

// Scope is one LIFO frame of the Scope Registry: the realization of
// beginScope()/endScope() as an explicit value rather than shared
// goroutine-local state (Open Question decision 3, see DESIGN.md). A
// Scope returned from BeginScope may itself spawn nested scopes; Scoped
// lookups check the frame, then its parents. A Scoped id is never looked
// up in the singleton map.
type Scope struct {
	kernel *Kernel
	frame  *scoperegistry.Frame
	ended  bool
}

// BeginScope opens a new top-level scope frame.
func (k *Kernel) BeginScope() *Scope {
	return &Scope{kernel: k, frame: scoperegistry.NewFrame(nil)}
}

// BeginScope opens a scope frame nested under s, so a Scoped lookup miss
// in the child falls through to the parent frame and its ancestors.
func (s *Scope) BeginScope() *Scope {
	return &Scope{kernel: s.kernel, frame: scoperegistry.NewFrame(s.frame)}
}

// Get resolves id within this scope: Scoped bindings are stored in and
// retrieved from this frame (or an ancestor), rather than the root.
func (s *Scope) Get(id string) (any, error) {
	return s.kernel.resolve(id, nil, s.frame)
}

// Call invokes callable with this scope's frame active, so any resolved
// argument that is Scoped comes from this scope.
func (s *Scope) Call(callable Callable, overrides map[string]any) (any, error) {
	return s.kernel.call(callable, overrides, s.frame)
}

// ID returns the scope frame's unique identity, also attached to every
// trace recorded for a resolution that ran under this scope.
func (s *Scope) ID() string { return s.frame.ID() }

// Close ends the scope, disposing every Scoped instance that implements
// Disposable/DisposableWithContext in reverse construction order.
func (s *Scope) Close() error {
	return s.CloseContext(context.Background())
}

// CloseContext is the context-aware variant of Close, passed through to
// any DisposableWithContext instance.
func (s *Scope) CloseContext(ctx context.Context) error {
	if s.ended {
		return nil
	}
	s.ended = true

	instances := s.frame.End()
	var firstErr error
	for _, instance := range instances {
		if err := dispose(ctx, instance); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// EndScope is the Kernel-surface spelling of s.Close(), mirroring the
// spec's beginScope()/endScope() pairing. Calling EndScope on a scope not
// opened via this Kernel is harmless but has no effect on that scope's
// ownership.
func (k *Kernel) EndScope(s *Scope) error {
	return s.Close()
}
