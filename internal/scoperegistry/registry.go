// Package scoperegistry implements the Scope Registry (component 4.3): a
// global singleton cache plus a LIFO stack of scope frames holding Scoped
// instances.
//
// The "stack" is realized as explicit *Frame values chained through a
// Parent pointer, returned to the caller from BeginScope, rather than as
// mutable state shared on the Registry itself. That is a deliberate Open
// Question decision (see DESIGN.md): Go has no safe, portable thread-local
// storage, and the spec explicitly permits "an explicit context argument"
// as the realization of per-execution-context scope state. An explicit
// *Frame IS that context argument, and it is exactly how the teacher's own
// Scope/CreateScope API already works.
package scoperegistry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry holds the process-wide singleton cache. setOnce race
// resolution (the first writer to Set wins, every other caller's
// candidate is discarded) is handled by mu, not by a separate signaling
// structure.
type Registry struct {
	mu         sync.Mutex
	singletons map[string]any
}

func New() *Registry {
	return &Registry{
		singletons: make(map[string]any),
	}
}

func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.singletons[id]
	return ok
}

func (r *Registry) Get(id string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.singletons[id]
	return v, ok
}

// Set publishes instance as the singleton for id, unless another caller
// already published one first — "the first write wins and the second
// discards its candidate". Returns the value now cached (which may not be
// the instance passed in) and whether this call's value won the race.
func (r *Registry) Set(id string, instance any) (published any, won bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.singletons[id]; ok {
		return existing, false
	}
	r.singletons[id] = instance
	return instance, true
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.singletons = make(map[string]any)
}

// ErrNoActiveScope is returned when a Scoped write is attempted with a nil
// Frame.
var ErrNoActiveScope = fmt.Errorf("scope registry: no active scope")

// Frame is one entry of the scope stack: a LIFO frame holding Scoped
// instances, optionally nested under a parent frame (BeginScope called
// again on an already-active Scope).
type Frame struct {
	id        string
	parent    *Frame
	mu        sync.Mutex
	instances map[string]any
	// order records construction order so disposal can run in reverse.
	order []string
	ended bool
}

// NewFrame creates a fresh scope frame, nested under parent (nil for a
// top-level scope).
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		id:        uuid.NewString(),
		parent:    parent,
		instances: make(map[string]any),
	}
}

func (f *Frame) ID() string { return f.id }

func (f *Frame) Parent() *Frame { return f.parent }

// Has looks up id in this frame and every ancestor, top to bottom.
func (f *Frame) Has(id string) bool {
	for cur := f; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		_, ok := cur.instances[id]
		cur.mu.Unlock()
		if ok {
			return true
		}
	}
	return false
}

func (f *Frame) Get(id string) (any, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		v, ok := cur.instances[id]
		cur.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes into THIS frame (the top of the stack), never an ancestor.
func (f *Frame) Set(id string, instance any) error {
	if f == nil {
		return ErrNoActiveScope
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ended {
		return fmt.Errorf("scope registry: scope %s already ended", f.id)
	}
	if _, exists := f.instances[id]; !exists {
		f.order = append(f.order, id)
	}
	f.instances[id] = instance
	return nil
}

// End marks the frame closed and returns its instances in reverse
// construction order, for the caller (the Injector/Kernel layer) to run
// disposal against. End with an already-ended frame is a no-op returning
// nil. No layer reports ending a scope twice as an error: Kernel.EndScope
// and Scope.Close on an already-closed scope also return nil.
func (f *Frame) End() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ended {
		return nil
	}
	f.ended = true

	out := make([]any, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		out = append(out, f.instances[f.order[i]])
	}
	return out
}
