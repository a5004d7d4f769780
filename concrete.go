package kernel

import "github.com/junioryono/kernel/internal/store"

// ConcreteSpec is what a ServiceDefinition resolves to: a class name to
// autowire, a factory to invoke, an already-built instance, a delegate to
// another ServiceId, or the zero value for pure autowire.
type ConcreteSpec struct {
	concrete store.Concrete
}

// Factory builds a service given a container handle and the caller's
// named overrides.
type Factory func(container any, overrides map[string]any) (any, error)

// Class names an existing Go type (registered via RegisterType/Struct) to
// autowire when this ServiceId is resolved.
func Class(className string) ConcreteSpec {
	return ConcreteSpec{concrete: store.Concrete{Kind: store.ConcreteClass, ClassName: className}}
}

// FromFactory binds a ServiceId to a factory function invoked on demand.
func FromFactory(fn Factory) ConcreteSpec {
	return ConcreteSpec{concrete: store.Concrete{
		Kind: store.ConcreteFactory,
		Factory: func(container any, overrides map[string]any) (any, error) {
			return fn(container, overrides)
		},
	}}
}

// FromInstance binds a ServiceId directly to an already-built value.
func FromInstance(value any) ConcreteSpec {
	return ConcreteSpec{concrete: store.Concrete{Kind: store.ConcreteInstance, Instance: value}}
}

// DelegateTo binds a ServiceId to resolve by delegating to a different
// ServiceId, recursing through the engine as a child resolution.
func DelegateTo(serviceId string) ConcreteSpec {
	return ConcreteSpec{concrete: store.Concrete{Kind: store.ConcreteDelegate, ClassName: serviceId}}
}

// autowire is the zero-value ConcreteSpec: no explicit concrete, defer
// entirely to the Autowire discovery stage.
var autowire = ConcreteSpec{concrete: store.Concrete{Kind: store.ConcreteAutowire}}
