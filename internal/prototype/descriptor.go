package prototype

import "reflect"

// TypeDescriptor is what Go substitutes for PHP's implicit class_exists()
// + constructor reflection: since Go cannot look up an arbitrary type from
// a bare string at runtime, whoever registers a ServiceId under a concrete
// Go type also registers the TypeDescriptor that connects the two. The
// Factory only ever reflects types it has been told about through this
// struct — that is the "small descriptor struct at registration time"
// the design notes call for on a language without open-ended reflection
// over a class-name string.
type TypeDescriptor struct {
	ClassName string
	Type      reflect.Type // struct or interface type; nil means "unknown"

	// Constructor is the registered factory function's reflect.Value, or
	// the zero Value if the class is autowired with no explicit
	// constructor (zero-value struct allocation + property injection
	// only).
	Constructor reflect.Value

	// InjectedMethodNames are setter-style methods invoked after
	// construction and property injection, in declaration order.
	InjectedMethodNames []string
}

func (d TypeDescriptor) HasConstructor() bool {
	return d.Constructor.IsValid() && d.Constructor.Kind() == reflect.Func
}
