package engine

import (
	"fmt"
	"reflect"

	"github.com/junioryono/kernel/internal/prototype"
)

// Invoke implements the Method Invoker contract (component 4.6): build a
// parameter prototype list from fn's signature via reflection, resolve an
// argument vector the same way a constructor's is resolved, call fn, and
// return its first result, unwrapping a trailing error return.
func (e *Engine) Invoke(ctx *Context, fn reflect.Value, owner string) (any, error) {
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("engine: invoke target is not callable (%s)", fn.Kind())
	}

	t := fn.Type()
	params := make([]prototype.ParameterPrototype, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		if t.IsVariadic() && i == t.NumIn()-1 {
			elem := t.In(i).Elem()
			params = append(params, prototype.ParameterPrototype{
				Name:       fmt.Sprintf("arg%d", i),
				Type:       elem,
				TypeName:   prototype.NormalizeType(elem),
				IsVariadic: true,
				AllowsNull: true,
			})
			continue
		}
		pt := t.In(i)
		params = append(params, prototype.ParameterPrototype{
			Name:     fmt.Sprintf("arg%d", i),
			Type:     pt,
			TypeName: prototype.NormalizeType(pt),
		})
	}

	args, err := e.resolveArguments(ctx, params, owner)
	if err != nil {
		return nil, err
	}

	results := fn.Call(args)
	value, err := firstValueAndError(results)
	if err != nil {
		return nil, &ResolutionError{Kind: KindFactoryThrew, ServiceId: owner, Cause: err}
	}
	if !value.IsValid() {
		return nil, nil
	}
	return value.Interface(), nil
}

// InjectInto runs property and method injection against an
// already-constructed instance, the counterpart to Instantiate for
// objects the caller built itself.
func (e *Engine) InjectInto(ctx *Context, instance any, className string) (any, error) {
	desc, ok := e.store.TypeDescriptor(className)
	if !ok {
		return instance, nil
	}
	sp, err := e.factory.CreateFor(desc)
	if err != nil {
		return nil, &ResolutionError{Kind: KindPrototypeError, ServiceId: className, Cause: err}
	}

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("engine: injectInto requires a pointer, got %s", v.Kind())
	}

	if err := e.injectProperties(ctx, sp, v); err != nil {
		return nil, err
	}
	if err := e.invokeInjectedMethods(ctx, sp, v); err != nil {
		return nil, err
	}
	return instance, nil
}
