package engine

import (
	"github.com/junioryono/kernel/internal/scoperegistry"
	"github.com/junioryono/kernel/internal/store"
)

// lifetimeStrategy is the tiny interface from component 4.6:
// {store(id,instance), has(id), retrieve(id)}. It has no clear(); cached
// instances are dropped on the Registry and Frame directly (Kernel.Close,
// Scope.Close). Three implementations below cover Transient, Singleton,
// and Scoped.
type lifetimeStrategy interface {
	has(id string) bool
	retrieve(id string) (any, bool)
	store(id string, instance any) (any, error)
}

type transientStrategy struct{}

func (transientStrategy) has(string) bool                { return false }
func (transientStrategy) retrieve(string) (any, bool)    { return nil, false }
func (transientStrategy) store(_ string, v any) (any, error) { return v, nil }

type singletonStrategy struct{ registry *scoperegistry.Registry }

func (s singletonStrategy) has(id string) bool             { return s.registry.Has(id) }
func (s singletonStrategy) retrieve(id string) (any, bool)  { return s.registry.Get(id) }
func (s singletonStrategy) store(id string, v any) (any, error) {
	published, _ := s.registry.Set(id, v)
	return published, nil
}

type scopedStrategy struct{ frame *scoperegistry.Frame }

func (s scopedStrategy) has(id string) bool {
	return s.frame != nil && s.frame.Has(id)
}

func (s scopedStrategy) retrieve(id string) (any, bool) {
	if s.frame == nil {
		return nil, false
	}
	return s.frame.Get(id)
}

func (s scopedStrategy) store(id string, v any) (any, error) {
	if err := s.frame.Set(id, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) strategyFor(lt store.Lifetime, frame *scoperegistry.Frame) lifetimeStrategy {
	switch lt {
	case store.Singleton:
		return singletonStrategy{registry: e.scopes}
	case store.Scoped:
		return scopedStrategy{frame: frame}
	default:
		return transientStrategy{}
	}
}
