package engine

import (
	"reflect"

	"github.com/junioryono/kernel/internal/prototype"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// instantiate implements the Instantiator contract (component 4.6):
// fetch the ServicePrototype, refuse non-instantiable classes, build the
// constructor argument vector via the Dependency Resolver, construct, then
// run property and method injection.
func (e *Engine) instantiate(ctx *Context, className string) (any, error) {
	desc, ok := e.store.TypeDescriptor(className)
	if !ok {
		return nil, &ResolutionError{Kind: KindNotInstantiable, ServiceId: className}
	}

	sp, err := e.factory.CreateFor(desc)
	if err != nil {
		return nil, &ResolutionError{Kind: KindPrototypeError, ServiceId: className, Cause: err}
	}

	if !sp.IsInstantiable {
		return nil, &ResolutionError{Kind: KindNotInstantiable, ServiceId: className}
	}

	t := sp.Type
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var instance reflect.Value
	if sp.Constructor != nil && sp.Constructor.Func.IsValid() {
		args, err := e.resolveArguments(ctx, sp.Constructor.Parameters, className)
		if err != nil {
			return nil, err
		}
		results := sp.Constructor.Func.Call(args)
		instance, err = firstValueAndError(results)
		if err != nil {
			return nil, &ResolutionError{Kind: KindFactoryThrew, ServiceId: className, Cause: err}
		}
	} else {
		instance = reflect.New(t)
		if sp.Type.Kind() != reflect.Ptr {
			instance = instance.Elem()
		}
	}

	if err := e.injectProperties(ctx, sp, instance); err != nil {
		return nil, err
	}

	if err := e.invokeInjectedMethods(ctx, sp, instance); err != nil {
		return nil, err
	}

	return instance.Interface(), nil
}

// firstValueAndError extracts (value, error) from a constructor's Call
// results, which per the registration contract returns either just the
// value or (value, error).
func firstValueAndError(results []reflect.Value) (reflect.Value, error) {
	if len(results) == 0 {
		return reflect.Value{}, nil
	}
	if len(results) == 1 {
		return results[0], nil
	}
	errVal := results[len(results)-1]
	if !errVal.IsNil() {
		return reflect.Value{}, errVal.Interface().(error)
	}
	return results[0], nil
}

// injectProperties implements the Property Injector contract: resolve in
// the same override -> type -> nullable order as parameters; a required-
// but-unresolvable property raises, and writing to a readonly property
// raises without mutating any other property.
func (e *Engine) injectProperties(ctx *Context, sp *prototype.ServicePrototype, instance reflect.Value) error {
	if len(sp.Properties) == 0 {
		return nil
	}

	target := instance
	for target.Kind() == reflect.Ptr {
		target = target.Elem()
	}

	type pendingWrite struct{ field, value reflect.Value }
	var writes []pendingWrite

	for _, prop := range sp.Properties {
		if prop.HasDefault {
			// "Properties with only a default are skipped (not overwritten)."
			continue
		}

		value, resolved, err := e.resolvePropertyValue(ctx, prop)
		if err != nil {
			return err
		}
		if !resolved {
			if prop.Required() {
				return &ResolutionError{Kind: KindUnresolvableParameter, ServiceId: prop.OwningClass, Parameter: prop.Name, Owner: prop.OwningClass}
			}
			continue
		}

		if prop.ReadOnly {
			return &ResolutionError{Kind: KindReadonlyProperty, ServiceId: prop.OwningClass, Property: prop.Name, Owner: prop.OwningClass}
		}

		field := target.Field(prop.FieldIndex)
		if !field.CanSet() {
			return &ResolutionError{Kind: KindReadonlyProperty, ServiceId: prop.OwningClass, Property: prop.Name, Owner: prop.OwningClass}
		}
		writes = append(writes, pendingWrite{field: field, value: coerceValue(value, prop.Type)})
	}

	for _, w := range writes {
		w.field.Set(w.value)
	}
	return nil
}

func (e *Engine) resolvePropertyValue(ctx *Context, prop prototype.PropertyPrototype) (any, bool, error) {
	if ctx.Overrides != nil {
		if val, ok := ctx.Overrides[prop.Name]; ok {
			return val, true, nil
		}
	}

	if prop.TypeName != "" && e.canResolve(prop.TypeName) {
		child := ctx.Child(prop.TypeName, nil)
		result, err := e.Resolve(child, nil)
		if err == nil {
			return result, true, nil
		}
		if !isNotFound(err) {
			return nil, false, err
		}
	}

	if prop.AllowsNull {
		return nil, true, nil
	}

	return nil, false, nil
}

// invokeInjectedMethods runs every setter-style injected method in
// declaration order, resolving its parameters the same way constructor
// parameters are resolved.
func (e *Engine) invokeInjectedMethods(ctx *Context, sp *prototype.ServicePrototype, instance reflect.Value) error {
	if len(sp.InjectedMethods) == 0 {
		return nil
	}

	for _, m := range sp.InjectedMethods {
		args, err := e.resolveArguments(ctx, m.Parameters, sp.ClassName)
		if err != nil {
			return err
		}
		method := instance.MethodByName(m.Name)
		if !method.IsValid() {
			continue
		}
		results := method.Call(args)
		if len(results) > 0 {
			if errVal := results[len(results)-1]; errVal.Type().Implements(errorType) && !errVal.IsNil() {
				return &ResolutionError{Kind: KindFactoryThrew, ServiceId: sp.ClassName, Cause: errVal.Interface().(error)}
			}
		}
	}

	return nil
}
