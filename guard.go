package kernel

import "github.com/junioryono/kernel/internal/engine"

// Guard is an optional pre-resolve veto. It runs before any discovery
// stage; returning a non-nil error blocks the resolution with
// KindPolicyBlocked without fetching a prototype, constructing anything,
// or mutating scope state. Property injection (InjectInto) explicitly
// skips this gate.
type Guard interface {
	Check(serviceId string, parent *ResolutionContext) error
}

// GuardFunc adapts a plain function to Guard.
type GuardFunc func(serviceId string, parent *ResolutionContext) error

func (f GuardFunc) Check(serviceId string, parent *ResolutionContext) error {
	return f(serviceId, parent)
}

// ResolutionContext is the read-only view of an in-flight resolution
// exposed to a Guard — the parent that triggered the current lookup, if
// any.
type ResolutionContext struct {
	ServiceId string
	Depth     int
}

// engineGuard adapts a kernel.Guard to the narrower interface
// internal/engine expects, translating its *engine.Context parent
// pointer to the read-only ResolutionContext guards see.
type engineGuard struct{ g Guard }

func (eg engineGuard) Check(serviceId string, parent *engine.Context) error {
	if eg.g == nil {
		return nil
	}
	var rc *ResolutionContext
	if parent != nil {
		rc = &ResolutionContext{ServiceId: parent.ServiceId, Depth: parent.Depth}
	}
	return eg.g.Check(serviceId, rc)
}

// StrictGuard rejects, with KindPolicyBlocked, resolution of any ServiceId
// for which allowed returns false, regardless of the Kernel's own
// strictMode option; a nil allowed lets every ServiceId through. It does
// not consult definitions or registered Go types.
func StrictGuard(allowed func(serviceId string) bool) Guard {
	return GuardFunc(func(serviceId string, _ *ResolutionContext) error {
		if allowed == nil || allowed(serviceId) {
			return nil
		}
		return &ResolutionError{Kind: KindPolicyBlocked, ServiceId: serviceId}
	})
}
