package engine

import (
	"fmt"
	"reflect"

	"github.com/junioryono/kernel/internal/prototype"
)

// resolveArguments implements the Dependency Resolver (component 4.5):
// given an ordered parameter list and the current context's overrides, it
// produces an ordered argument vector by recursing through the Engine for
// any parameter whose type names a resolvable service.
func (e *Engine) resolveArguments(ctx *Context, params []prototype.ParameterPrototype, owner string) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, len(params))

	for _, p := range params {
		if p.IsVariadic {
			values, err := e.resolveVariadic(ctx, p, owner)
			if err != nil {
				return nil, err
			}
			args = append(args, values...)
			continue
		}

		v, err := e.resolveOneArgument(ctx, p, owner)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return args, nil
}

func (e *Engine) resolveOneArgument(ctx *Context, p prototype.ParameterPrototype, owner string) (reflect.Value, error) {
	// 1. Named override, used verbatim.
	if ctx.Overrides != nil {
		if val, ok := ctx.Overrides[p.Name]; ok {
			return coerceValue(val, p.Type), nil
		}
	}

	// 2. A resolvable service type: recurse via the engine.
	if p.TypeName != "" && e.canResolve(p.TypeName) {
		child := ctx.Child(p.TypeName, nil)
		result, err := e.Resolve(child, nil)
		if err == nil {
			return coerceValue(result, p.Type), nil
		}
		// fall through to default/nullable handling only if the miss was a
		// plain NotFound — a deeper structural error still propagates.
		if !isNotFound(err) {
			return reflect.Value{}, err
		}
	}

	// 3. Default value.
	if p.HasDefault {
		return coerceValue(p.Default, p.Type), nil
	}

	// 4. Nullable fallback.
	if p.AllowsNull {
		if p.Type != nil {
			return reflect.Zero(p.Type), nil
		}
		return reflect.Value{}, nil
	}

	// 5. Unresolvable.
	return reflect.Value{}, &ResolutionError{
		Kind:      KindUnresolvableParameter,
		ServiceId: owner,
		Parameter: p.Name,
		Owner:     owner,
	}
}

// resolveVariadic handles a variadic parameter: overrides may supply zero
// or more values (a slice is spread); otherwise zero or more resolved
// values accumulate, with an empty vector being success, not an error.
func (e *Engine) resolveVariadic(ctx *Context, p prototype.ParameterPrototype, owner string) ([]reflect.Value, error) {
	if ctx.Overrides != nil {
		if val, ok := ctx.Overrides[p.Name]; ok {
			rv := reflect.ValueOf(val)
			if rv.Kind() == reflect.Slice {
				out := make([]reflect.Value, rv.Len())
				for i := 0; i < rv.Len(); i++ {
					out[i] = coerceValue(rv.Index(i).Interface(), p.Type)
				}
				return out, nil
			}
			return []reflect.Value{coerceValue(val, p.Type)}, nil
		}
	}

	if p.TypeName != "" && e.canResolve(p.TypeName) {
		child := ctx.Child(p.TypeName, nil)
		result, err := e.Resolve(child, nil)
		if err == nil {
			return []reflect.Value{coerceValue(result, p.Type)}, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	return nil, nil
}

// canResolve answers "does this type name a resolvable service": either a
// definition exists for it, or it names a known Go type (autowire
// candidate).
func (e *Engine) canResolve(serviceId string) bool {
	if _, ok := e.store.FindDefinition(serviceId); ok {
		return true
	}
	return e.store.ClassExists(serviceId)
}

func isNotFound(err error) bool {
	re, ok := err.(*ResolutionError)
	return ok && re.Kind == KindNotFound
}

// coerceValue adapts a loosely-typed override/default value to the
// reflect.Value the constructor expects, zero-valuing when t is unknown or
// val is nil.
func coerceValue(val any, t reflect.Type) reflect.Value {
	if t == nil {
		return reflect.ValueOf(val)
	}
	if val == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	panic(fmt.Sprintf("engine: value of type %s is not assignable to parameter type %s", rv.Type(), t))
}
