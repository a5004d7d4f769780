// Package prototype implements the structural metadata model described by
// the "Prototype Model & Factory" component: an immutable, reflection-derived
// description of a class's constructor, properties, and injected methods,
// cached behind a two-tier (in-memory LRU + optional on-disk) registry.
package prototype

import (
	"reflect"
)

// ParameterPrototype is a leaf, immutable description of a single
// constructor or method parameter.
type ParameterPrototype struct {
	Name         string
	Type         reflect.Type
	TypeName     string // normalized per the type normalization policy
	HasDefault   bool
	Default      any
	AllowsNull   bool
	IsVariadic   bool
}

// Required is derived, never stored: ¬hasDefault ∧ ¬allowsNull.
func (p ParameterPrototype) Required() bool {
	return !p.HasDefault && !p.AllowsNull
}

// PropertyPrototype describes a struct field eligible for injection.
type PropertyPrototype struct {
	Name        string
	Type        reflect.Type
	TypeName    string
	AllowsNull  bool
	HasDefault  bool
	OwningClass string
	FieldIndex  int
	ReadOnly    bool // unexported or otherwise unassignable via reflection
}

func (p PropertyPrototype) Required() bool {
	return !p.HasDefault && !p.AllowsNull
}

// MethodPrototype describes a setter-style injected method or the
// constructor itself: a name plus an ordered parameter list.
type MethodPrototype struct {
	Name       string
	Parameters []ParameterPrototype
	Func       reflect.Value // zero Value for the flat/round-tripped form
}

// ServicePrototype is the full structural description of a class. Once
// built it is never mutated; replacements are produced by the factory, not
// by in-place edits (invariant 1 in the data model).
type ServicePrototype struct {
	ClassName       string
	Type            reflect.Type
	IsInstantiable  bool
	Constructor     *MethodPrototype
	Properties      []PropertyPrototype
	InjectedMethods []MethodPrototype
}

// Flat is the serializable, round-trippable form of a ServicePrototype used
// by the L2 persistence layer. It carries no reflect.Type or reflect.Value —
// those cannot survive a restart — only the names and flags needed to
// reconstruct behavior once the class is re-reflected at cache-load time by
// the Factory.
type Flat struct {
	SchemaVersion   int                  `json:"schema_version"`
	ClassName       string               `json:"class_name"`
	IsInstantiable  bool                 `json:"is_instantiable"`
	Constructor     *FlatMethod          `json:"constructor,omitempty"`
	Properties      []FlatProperty       `json:"properties"`
	InjectedMethods []FlatMethod         `json:"injected_methods"`
}

type FlatParameter struct {
	Name       string `json:"name"`
	TypeName   string `json:"type_name"`
	HasDefault bool   `json:"has_default"`
	Default    any    `json:"default,omitempty"`
	AllowsNull bool   `json:"allows_null"`
	IsVariadic bool   `json:"is_variadic"`
}

type FlatProperty struct {
	Name        string `json:"name"`
	TypeName    string `json:"type_name"`
	AllowsNull  bool   `json:"allows_null"`
	HasDefault  bool   `json:"has_default"`
	OwningClass string `json:"owning_class"`
	FieldIndex  int    `json:"field_index"`
	ReadOnly    bool   `json:"read_only"`
}

type FlatMethod struct {
	Name       string          `json:"name"`
	Parameters []FlatParameter `json:"parameters"`
}

// SchemaVersion is bumped whenever the shape of Flat changes in a way that
// would make previously persisted L2 entries unsafe to reuse. A mismatch at
// load time discards the entry rather than risk a stale structural read
// (Open Question decision, see DESIGN.md).
const SchemaVersion = 1

// ToFlat produces the serializable projection of a prototype. Round-tripping
// through ToFlat/FromFlat must be exact for the fields that survive a
// restart (everything except reflect.Type/reflect.Value, which the factory
// recomputes from ClassName on load).
func (sp *ServicePrototype) ToFlat() Flat {
	f := Flat{
		SchemaVersion:  SchemaVersion,
		ClassName:      sp.ClassName,
		IsInstantiable: sp.IsInstantiable,
		Properties:     make([]FlatProperty, len(sp.Properties)),
	}

	if sp.Constructor != nil {
		fm := flattenMethod(*sp.Constructor)
		f.Constructor = &fm
	}

	for i, p := range sp.Properties {
		f.Properties[i] = FlatProperty{
			Name:        p.Name,
			TypeName:    p.TypeName,
			AllowsNull:  p.AllowsNull,
			HasDefault:  p.HasDefault,
			OwningClass: p.OwningClass,
			FieldIndex:  p.FieldIndex,
			ReadOnly:    p.ReadOnly,
		}
	}

	f.InjectedMethods = make([]FlatMethod, len(sp.InjectedMethods))
	for i, m := range sp.InjectedMethods {
		f.InjectedMethods[i] = flattenMethod(m)
	}

	return f
}

func flattenMethod(m MethodPrototype) FlatMethod {
	fm := FlatMethod{Name: m.Name, Parameters: make([]FlatParameter, len(m.Parameters))}
	for i, p := range m.Parameters {
		fm.Parameters[i] = FlatParameter{
			Name:       p.Name,
			TypeName:   p.TypeName,
			HasDefault: p.HasDefault,
			Default:    p.Default,
			AllowsNull: p.AllowsNull,
			IsVariadic: p.IsVariadic,
		}
	}
	return fm
}

// FromFlat reconstructs a ServicePrototype's non-reflective fields from its
// flat form. The caller (the Factory) is responsible for re-attaching
// reflect.Type/reflect.Value by re-reflecting ClassName, since those cannot
// be serialized.
func FromFlat(f Flat) *ServicePrototype {
	sp := &ServicePrototype{
		ClassName:      f.ClassName,
		IsInstantiable: f.IsInstantiable,
		Properties:     make([]PropertyPrototype, len(f.Properties)),
	}

	if f.Constructor != nil {
		m := unflattenMethod(*f.Constructor)
		sp.Constructor = &m
	}

	for i, fp := range f.Properties {
		sp.Properties[i] = PropertyPrototype{
			Name:        fp.Name,
			TypeName:    fp.TypeName,
			AllowsNull:  fp.AllowsNull,
			HasDefault:  fp.HasDefault,
			OwningClass: fp.OwningClass,
			FieldIndex:  fp.FieldIndex,
			ReadOnly:    fp.ReadOnly,
		}
	}

	sp.InjectedMethods = make([]MethodPrototype, len(f.InjectedMethods))
	for i, fm := range f.InjectedMethods {
		sp.InjectedMethods[i] = unflattenMethod(fm)
	}

	return sp
}

func unflattenMethod(fm FlatMethod) MethodPrototype {
	m := MethodPrototype{Name: fm.Name, Parameters: make([]ParameterPrototype, len(fm.Parameters))}
	for i, fp := range fm.Parameters {
		m.Parameters[i] = ParameterPrototype{
			Name:       fp.Name,
			TypeName:   fp.TypeName,
			HasDefault: fp.HasDefault,
			Default:    fp.Default,
			AllowsNull: fp.AllowsNull,
			IsVariadic: fp.IsVariadic,
		}
	}
	return m
}
