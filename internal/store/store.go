// Package store implements the Definition Store (component 4.2): the
// registration state consulted by the resolver. It performs zero
// construction — it only holds data and answers lookups.
package store

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/junioryono/kernel/internal/prototype"
)

// Lifetime is the store's own lifetime enum. The root package declares a
// separate Lifetime type (importing it here would create an import cycle)
// and converts to and from this one with toStoreLifetime/fromStoreLifetime.
type Lifetime int

const (
	Singleton Lifetime = iota
	Scoped
	Transient
)

// ConcreteKind tags the shape of a ServiceDefinition's concrete value —
// the Go realization of the spec's tagged Candidate variant, applied at
// registration time rather than resolution time.
type ConcreteKind int

const (
	ConcreteAutowire ConcreteKind = iota
	ConcreteClass
	ConcreteFactory
	ConcreteInstance
	ConcreteDelegate
)

// FactoryFunc builds a value given a resolver-supplied container handle
// and the caller's named overrides. The container handle is typed `any`
// here to avoid an import cycle; the root package supplies a *Kernel and
// the engine package type-asserts it back via a narrow interface.
type FactoryFunc func(container any, overrides map[string]any) (any, error)

// Concrete is what a ServiceDefinition resolves to.
type Concrete struct {
	Kind      ConcreteKind
	ClassName string      // ConcreteClass, ConcreteDelegate (target service id)
	Factory   FactoryFunc // ConcreteFactory
	Instance  any         // ConcreteInstance
}

// ServiceDefinition is a registration: what a ServiceId maps to, its
// lifetime, tags, and any named-argument overrides supplied at bind time.
type ServiceDefinition struct {
	ServiceId string
	Concrete  Concrete
	Lifetime  Lifetime
	Tags      []string
	Arguments map[string]any
}

// ContextualBinding is "when consumer needs X, give concrete" — active
// only when resolving X with a parent whose serviceId equals Consumer.
type ContextualBinding struct {
	Consumer string
	Need     string
	Concrete Concrete
}

// Store holds all registration state.
type Store struct {
	mu sync.RWMutex

	definitions map[string]*ServiceDefinition
	contextual  map[string]map[string]Concrete // consumer -> need -> concrete
	tags        map[string][]string            // tag -> []serviceId
	types       map[string]prototype.TypeDescriptor
	decorators  map[string][]DecoratorFunc

	built bool // registration phase closed; further writes still allowed but flagged

	// onDuplicate is invoked whenever a bind/contextual registration
	// overwrites an existing entry, so the Kernel can emit its
	// WARN-level diagnostic without the store depending on a logger.
	onDuplicate func(kind, serviceId string)

	// onAfterBuild is invoked by Bind (and so Instance), WithArgument and a
	// completed when/needs/give chain once built=true. Tag, RegisterType
	// and Decorate do not invoke it.
	onAfterBuild func(op, serviceId string)
}

func New() *Store {
	return &Store{
		definitions: make(map[string]*ServiceDefinition),
		contextual:  make(map[string]map[string]Concrete),
		tags:        make(map[string][]string),
		types:       make(map[string]prototype.TypeDescriptor),
		decorators:  make(map[string][]DecoratorFunc),
	}
}

func (s *Store) OnDuplicate(fn func(kind, serviceId string))   { s.onDuplicate = fn }
func (s *Store) OnAfterBuild(fn func(op, serviceId string))    { s.onAfterBuild = fn }

// MarkBuilt closes the registration phase. Further writes are still
// accepted (the spec allows post-boot registration); those listed on
// onAfterBuild trigger it for diagnostics.
func (s *Store) MarkBuilt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.built = true
}

func (s *Store) checkAfterBuild(op, serviceId string) {
	if s.built && s.onAfterBuild != nil {
		s.onAfterBuild(op, serviceId)
	}
}

// RegisterType associates a ServiceId with the Go reflect.Type (and,
// optionally, constructor) backing it, so the Prototype Factory and
// autowire can reason about it by name.
func (s *Store) RegisterType(desc prototype.TypeDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[desc.ClassName] = desc
}

func (s *Store) TypeDescriptor(serviceId string) (prototype.TypeDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.types[serviceId]
	return d, ok
}

// ClassExists reports whether serviceId has a known Go type backing it —
// the substitute for PHP's class_exists() used by the Autowire stage.
func (s *Store) ClassExists(serviceId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.types[serviceId]
	return ok && d.Type != nil
}

// Bind upserts a ServiceDefinition. Last write wins (Open Question
// decision); the caller decides whether to log it via onDuplicate. Named
// arguments already stored for serviceId via WithArgument are kept.
func (s *Store) Bind(serviceId string, concrete Concrete, lifetime Lifetime) {
	s.mu.Lock()
	prev, existed := s.definitions[serviceId]
	args := make(map[string]any)
	if existed {
		for k, v := range prev.Arguments {
			args[k] = v
		}
	}
	s.definitions[serviceId] = &ServiceDefinition{
		ServiceId: serviceId,
		Concrete:  concrete,
		Lifetime:  lifetime,
		Arguments: args,
	}
	s.mu.Unlock()

	if existed && s.onDuplicate != nil {
		s.onDuplicate("bind", serviceId)
	}
	s.checkAfterBuild("bind", serviceId)
}

func (s *Store) Instance(serviceId string, value any) {
	s.Bind(serviceId, Concrete{Kind: ConcreteInstance, Instance: value}, Singleton)
}

// WithArgument stores a named override on an existing (or newly created,
// pure-autowire) definition.
func (s *Store) WithArgument(serviceId, name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.definitions[serviceId]
	if !ok {
		def = &ServiceDefinition{ServiceId: serviceId, Lifetime: Transient, Arguments: make(map[string]any)}
		s.definitions[serviceId] = def
	}
	if def.Arguments == nil {
		def.Arguments = make(map[string]any)
	}
	def.Arguments[name] = value

	s.checkAfterBuild("withArgument", serviceId)
}

func (s *Store) FindDefinition(serviceId string) (*ServiceDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.definitions[serviceId]
	return d, ok
}

// FindContextual looks up a contextual binding for (consumer, need).
func (s *Store) FindContextual(consumer, need string) (Concrete, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.contextual[consumer]
	if !ok {
		return Concrete{}, false
	}
	c, ok := m[need]
	return c, ok
}

// bindContextual is called by the When/Needs/Give builder once the chain
// completes.
func (s *Store) bindContextual(consumer, need string, concrete Concrete) {
	s.mu.Lock()
	m, ok := s.contextual[consumer]
	if !ok {
		m = make(map[string]Concrete)
		s.contextual[consumer] = m
	}
	_, existed := m[need]
	m[need] = concrete
	s.mu.Unlock()

	if existed && s.onDuplicate != nil {
		s.onDuplicate("contextual", fmt.Sprintf("%s needs %s", consumer, need))
	}
	s.checkAfterBuild("when/needs/give", consumer)
}

// When begins a contextual-binding chain: when(consumer).needs(need).give(concrete).
func (s *Store) When(consumer string) *ContextualBuilder {
	return &ContextualBuilder{store: s, consumer: consumer}
}

// ContextualBuilder is the two-step when/needs/give chain. Calling Give
// without a prior Needs is a registration-time error (ErrGiveWithoutNeeds),
// matching "give resets the in-progress needs marker to enforce one rule
// per chain".
type ContextualBuilder struct {
	store    *Store
	consumer string
	need     string
	hasNeed  bool
}

func (b *ContextualBuilder) Needs(need string) *ContextualBuilder {
	b.need = need
	b.hasNeed = true
	return b
}

// Give completes the chain, binding consumer+need to concrete, and resets
// the in-progress need so a reused builder cannot silently rebind.
func (b *ContextualBuilder) Give(concrete Concrete) error {
	if !b.hasNeed {
		return ErrGiveWithoutNeeds
	}
	b.store.bindContextual(b.consumer, b.need, concrete)
	b.hasNeed = false
	b.need = ""
	return nil
}

// Tag associates serviceId with one or more tags.
func (s *Store) Tag(serviceId string, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tags {
		s.tags[t] = appendUnique(s.tags[t], serviceId)
	}
}

func (s *Store) TaggedBy(tag string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.tags[tag]))
	copy(out, s.tags[tag])
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// ErrGiveWithoutNeeds is returned when Give() is called before Needs().
var ErrGiveWithoutNeeds = fmt.Errorf("contextual binding: give called without a prior needs")

// DecoratorFunc wraps a freshly evaluated value before the lifetime
// strategy stores it, returning the (possibly replaced) value.
type DecoratorFunc func(instance any, container any) (any, error)

// Decorate registers fn to run, in registration order, after id's
// candidate is evaluated and before it is stored under its lifetime.
func (s *Store) Decorate(serviceId string, fn DecoratorFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decorators[serviceId] = append(s.decorators[serviceId], fn)
}

// Decorators returns the decorators registered for serviceId, in
// registration order.
func (s *Store) Decorators(serviceId string) []DecoratorFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DecoratorFunc, len(s.decorators[serviceId]))
	copy(out, s.decorators[serviceId])
	return out
}

// ReflectTypeOf is a small helper re-exported for callers building
// TypeDescriptors from a constructor function or zero value.
func ReflectTypeOf(v any) reflect.Type {
	return reflect.TypeOf(v)
}
