package kernel

import (
	"reflect"

	"github.com/junioryono/kernel/internal/prototype"
	"github.com/junioryono/kernel/internal/store"
)

// Bind upserts a ServiceDefinition for id with the given concrete and
// lifetime. Last write wins for a duplicate id; the Kernel's logger emits
// a WARN-level diagnostic rather than raising.
func (k *Kernel) Bind(id string, concrete ConcreteSpec, lifetime Lifetime) {
	k.store.Bind(id, concrete.concrete, lifetime.toStoreLifetime())
}

// Autowire registers id with no explicit concrete, so resolution falls
// through to the Autowire discovery stage against the type registered via
// Struct.
func (k *Kernel) Autowire(id string, lifetime Lifetime) {
	k.store.Bind(id, autowire.concrete, lifetime.toStoreLifetime())
}

// Singleton is shorthand for Bind(id, concrete, Singleton).
func (k *Kernel) Singleton(id string, concrete ConcreteSpec) {
	k.Bind(id, concrete, Singleton)
}

// Scoped is shorthand for Bind(id, concrete, Scoped).
func (k *Kernel) Scoped(id string, concrete ConcreteSpec) {
	k.Bind(id, concrete, Scoped)
}

// Instance stores value directly as id's singleton, bypassing
// construction entirely.
func (k *Kernel) Instance(id string, value any) {
	k.store.Instance(id, value)
}

// WithArgument stores a named constructor/property override on id's
// definition, creating a pure-autowire definition if none exists yet.
func (k *Kernel) WithArgument(id, name string, value any) {
	k.store.WithArgument(id, name, value)
}

// Tag associates id with one or more tags.
func (k *Kernel) Tag(id string, tags ...string) {
	k.store.Tag(id, tags...)
}

// TaggedBy returns every ServiceId registered under tag, in registration
// order.
func (k *Kernel) TaggedBy(tag string) []string {
	return k.store.TaggedBy(tag)
}

// ContextualBuilder is the in-progress when(consumer).needs(need).give(...)
// chain.
type ContextualBuilder struct {
	inner *store.ContextualBuilder
}

// When begins a contextual-binding chain: when resolving inside a
// resolution whose parent ServiceId is consumer, Needs(x).Give(concrete)
// overrides what x resolves to.
func (k *Kernel) When(consumer string) *ContextualBuilder {
	return &ContextualBuilder{inner: k.store.When(consumer)}
}

func (b *ContextualBuilder) Needs(need string) *ContextualBuilder {
	b.inner.Needs(need)
	return b
}

// Give completes the chain. Returns ErrGiveWithoutNeeds if Needs was never
// called on this builder.
func (b *ContextualBuilder) Give(concrete ConcreteSpec) error {
	if err := b.inner.Give(concrete.concrete); err != nil {
		return ErrGiveWithoutNeeds
	}
	return nil
}

// Struct registers the Go type backing id so the Autowire discovery stage
// and the Prototype Factory can reflect it by ServiceId alone — the
// stand-in for class_exists()/reflection-by-name.
//
// ctor, if non-nil, must be a function returning (T) or (T, error); it is
// used by Instantiate in place of a bare reflect.New. injectedMethods
// names setter-style methods on T to invoke after property injection.
func (k *Kernel) Struct(id string, zero any, ctor any, injectedMethods ...string) {
	desc := prototype.TypeDescriptor{
		ClassName:           id,
		Type:                reflect.TypeOf(zero),
		InjectedMethodNames: injectedMethods,
	}
	if ctor != nil {
		desc.Constructor = reflect.ValueOf(ctor)
	}
	k.store.RegisterType(desc)
}

// ClassExists reports whether id has a Go type registered via Struct.
func (k *Kernel) ClassExists(id string) bool {
	return k.store.ClassExists(id)
}
