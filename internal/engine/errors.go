package engine

import "fmt"

// Kind enumerates the semantic error taxonomy from spec §7. It is a plain
// string enum (not an iota) so it serializes cleanly into trace payloads
// and diagnostics events.
type Kind string

const (
	KindNotFound             Kind = "NotFound"
	KindNotInstantiable      Kind = "NotInstantiable"
	KindUnresolvableParameter Kind = "UnresolvableParameter"
	KindReadonlyProperty     Kind = "ReadonlyProperty"
	KindCycle                Kind = "Cycle"
	KindDepthExceeded        Kind = "DepthExceeded"
	KindPolicyBlocked        Kind = "PolicyBlocked"
	KindPrototypeError       Kind = "PrototypeError"
	KindFactoryThrew         Kind = "FactoryThrew"
)

// ResolutionError is the envelope every surfaced error carries: kind, the
// offending serviceId, the resolution trace, and (where relevant) a
// parameter/property name and owner class.
type ResolutionError struct {
	Kind      Kind
	ServiceId string
	Parameter string
	Property  string
	Owner     string
	Chain     []string
	Cause     error
	Trace     *Trace
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("service %q not found", e.ServiceId)
	case KindNotInstantiable:
		return fmt.Sprintf("service %q is not instantiable (interface, abstract, or private constructor)", e.ServiceId)
	case KindUnresolvableParameter:
		return fmt.Sprintf("cannot resolve parameter %q of %q while building %q", e.Parameter, e.Owner, e.ServiceId)
	case KindReadonlyProperty:
		return fmt.Sprintf("cannot inject into readonly property %q of %q", e.Property, e.Owner)
	case KindCycle:
		return fmt.Sprintf("circular dependency: %v", e.Chain)
	case KindDepthExceeded:
		return fmt.Sprintf("resolution depth exceeded while building %q", e.ServiceId)
	case KindPolicyBlocked:
		return fmt.Sprintf("policy blocked resolution of %q", e.ServiceId)
	case KindPrototypeError:
		return fmt.Sprintf("prototype error for %q: %v", e.ServiceId, e.Cause)
	case KindFactoryThrew:
		return fmt.Sprintf("factory for %q failed: %v", e.ServiceId, e.Cause)
	default:
		return fmt.Sprintf("resolution error for %q: %v", e.ServiceId, e.Cause)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Cause }
