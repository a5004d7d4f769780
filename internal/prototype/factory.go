package prototype

import (
	"fmt"
	"reflect"
)

// Error is PrototypeError from the spec's error taxonomy: reflection or
// cache-load failure while building a ServicePrototype.
type Error struct {
	ClassName string
	Cause     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("prototype: class %q: %v", e.ClassName, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// injectTag is the struct-field tag that marks a field for property
// injection, the Go stand-in for PHP's attribute-driven property
// injection.
const injectTag = "inject"

// Factory produces and caches ServicePrototypes. It owns the two-tier
// cache described by component 4.1: an in-memory LRU (L1) and, optionally,
// a persistent L2 behind the Cache interface.
type Factory struct {
	l1 *lru
	l2 Cache
}

// Stats mirrors the spec's `stats() -> {size, capacity, utilization}`.
type Stats struct {
	Size        int
	Capacity    int
	Utilization float64
}

// NewFactory creates a Factory. capacity <= 0 uses the spec's default of
// 1024. l2 may be nil to disable the persistent tier.
func NewFactory(capacity int, l2 Cache) *Factory {
	return &Factory{l1: newLRU(capacity), l2: l2}
}

// CreateFor builds (or returns the cached) ServicePrototype for desc.
func (f *Factory) CreateFor(desc TypeDescriptor) (*ServicePrototype, error) {
	if cached, ok := f.l1.get(desc.ClassName); ok {
		return cached, nil
	}

	if f.l2 != nil {
		if flat, ok := f.l2.Load(desc.ClassName); ok {
			sp := FromFlat(flat)
			sp.Type = desc.Type
			if desc.HasConstructor() {
				sp.Constructor.Func = desc.Constructor
			}
			f.l1.set(desc.ClassName, sp)
			return sp, nil
		}
	}

	sp, err := reflectPrototype(desc)
	if err != nil {
		return nil, &Error{ClassName: desc.ClassName, Cause: err}
	}

	// L2 is written through at insertion time (not only on eviction) so a
	// process restart never loses a prototype the L1 cache happened to be
	// holding when it exited.
	f.l1.set(desc.ClassName, sp)
	if f.l2 != nil {
		_ = f.l2.Store(desc.ClassName, sp.ToFlat())
	}

	return sp, nil
}

func reflectPrototype(desc TypeDescriptor) (*ServicePrototype, error) {
	if desc.Type == nil {
		return nil, fmt.Errorf("type not registered for autowire")
	}

	t := desc.Type
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	sp := &ServicePrototype{
		ClassName: desc.ClassName,
		Type:      desc.Type,
	}

	switch t.Kind() {
	case reflect.Interface:
		sp.IsInstantiable = false
		return sp, nil
	case reflect.Struct:
		sp.IsInstantiable = true
	default:
		// A registered scalar/func/etc type can still be produced (e.g. by
		// a factory concrete) but can never be the target of Instantiate.
		sp.IsInstantiable = false
	}

	if desc.HasConstructor() {
		ctorType := desc.Constructor.Type()
		mp := MethodPrototype{Name: "__construct", Func: desc.Constructor}
		for i := 0; i < ctorType.NumIn(); i++ {
			if ctorType.IsVariadic() && i == ctorType.NumIn()-1 {
				elem := ctorType.In(i).Elem()
				mp.Parameters = append(mp.Parameters, ParameterPrototype{
					Name:       fmt.Sprintf("arg%d", i),
					Type:       elem,
					TypeName:   NormalizeType(elem),
					IsVariadic: true,
					AllowsNull: isNilable(elem),
				})
				continue
			}
			pt := ctorType.In(i)
			mp.Parameters = append(mp.Parameters, ParameterPrototype{
				Name:       fmt.Sprintf("arg%d", i),
				Type:       pt,
				TypeName:   NormalizeType(pt),
				AllowsNull: isNilable(pt),
			})
		}
		sp.Constructor = &mp
	}

	if sp.IsInstantiable {
		sp.Properties = collectProperties(t, desc.ClassName)
	}

	for _, name := range desc.InjectedMethodNames {
		m, ok := desc.Type.MethodByName(name)
		if !ok {
			continue
		}
		mp := MethodPrototype{Name: name}
		// index 0 of m.Type is the receiver for a method obtained via
		// reflect.Type.MethodByName on a non-interface type.
		for i := 1; i < m.Type.NumIn(); i++ {
			pt := m.Type.In(i)
			mp.Parameters = append(mp.Parameters, ParameterPrototype{
				Name:       fmt.Sprintf("arg%d", i-1),
				Type:       pt,
				TypeName:   NormalizeType(pt),
				AllowsNull: isNilable(pt),
			})
		}
		sp.InjectedMethods = append(sp.InjectedMethods, mp)
	}

	return sp, nil
}

func collectProperties(t reflect.Type, className string) []PropertyPrototype {
	var props []PropertyPrototype
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup(injectTag)
		if !ok || tag == "false" {
			continue
		}
		props = append(props, PropertyPrototype{
			Name:        field.Name,
			Type:        field.Type,
			TypeName:    NormalizeType(field.Type),
			AllowsNull:  isNilable(field.Type),
			OwningClass: className,
			FieldIndex:  i,
			ReadOnly:    field.PkgPath != "", // unexported fields are unassignable via reflect
		})
	}
	return props
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

// Clear empties both cache tiers.
func (f *Factory) Clear() {
	f.l1.clear()
	if f.l2 != nil {
		_ = f.l2.Clear()
	}
}

// SetCapacity changes the L1 capacity, evicting immediately if needed.
func (f *Factory) SetCapacity(capacity int) {
	f.l1.setCapacity(capacity)
}

// Stats reports current cache occupancy.
func (f *Factory) Stats() Stats {
	size := f.l1.size()
	cap := f.l1.capacity
	util := 0.0
	if cap > 0 {
		util = float64(size) / float64(cap)
	}
	return Stats{Size: size, Capacity: cap, Utilization: util}
}
