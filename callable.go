package kernel

import (
	"fmt"
	"reflect"
	"strings"
)

// Callable is anything Kernel.Call can normalize and invoke: a
// "Class@method" string, a (className, methodName) pair, a bound
// object-method value, or a plain function.
type Callable = any

// InvocationContext is the immutable, copy-with-updates record of one
// Call: the caller's original target, what it normalized to, and
// (once invocation completes) the result.
type InvocationContext struct {
	OriginalTarget  Callable
	NormalizedClass string
	NormalizedFunc  reflect.Value
	Result          any
}

// EffectiveTarget returns NormalizedFunc if it is valid, else the zero
// Value — mirroring "normalizedTarget if set, else originalTarget" for a
// Go signature where the original target may not itself be callable
// until normalized (e.g. a "Class@method" string).
func (ic InvocationContext) EffectiveTarget() reflect.Value {
	return ic.NormalizedFunc
}

// normalizeCallable resolves target into (className-for-trace, callable
// reflect.Value). className is "" when target was already a plain
// function with no associated service identity.
func (k *Kernel) normalizeCallable(target Callable) (string, reflect.Value, error) {
	return normalizeCallableWith(target, k.Get)
}

// normalizeCallableWith is normalizeCallable parameterized on the getter
// used to resolve a "Class@method"/[2]string target's class. Kernel.Call
// passes k.Get; FactoryContainer.Call passes its own context-bound Get so
// the lookup continues the in-flight resolution's chain instead of
// starting a fresh one.
func normalizeCallableWith(target Callable, get func(string) (any, error)) (string, reflect.Value, error) {
	switch v := target.(type) {
	case string:
		// "Class@method"
		className, method, ok := strings.Cut(v, "@")
		if !ok {
			return "", reflect.Value{}, fmt.Errorf("kernel: callable string %q is not in Class@method form", v)
		}
		instance, err := get(className)
		if err != nil {
			return "", reflect.Value{}, err
		}
		fn := reflect.ValueOf(instance).MethodByName(method)
		if !fn.IsValid() {
			return "", reflect.Value{}, fmt.Errorf("kernel: %s has no method %q", className, method)
		}
		return className, fn, nil

	case [2]string:
		instance, err := get(v[0])
		if err != nil {
			return "", reflect.Value{}, err
		}
		fn := reflect.ValueOf(instance).MethodByName(v[1])
		if !fn.IsValid() {
			return "", reflect.Value{}, fmt.Errorf("kernel: %s has no method %q", v[0], v[1])
		}
		return v[0], fn, nil

	default:
		fn := reflect.ValueOf(target)
		if fn.Kind() != reflect.Func {
			return "", reflect.Value{}, fmt.Errorf("kernel: callable must be a function, Class@method string, or [2]string pair, got %T", target)
		}
		return "", fn, nil
	}
}
