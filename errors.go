package kernel

import (
	"errors"
	"fmt"

	"github.com/junioryono/kernel/internal/engine"
	"github.com/junioryono/kernel/internal/scoperegistry"
)

// Kind is the semantic error taxonomy from the error handling design: a
// plain string enum so callers can branch on it without type-asserting
// every concrete error shape.
type Kind = engine.Kind

const (
	KindNotFound              = engine.KindNotFound
	KindNotInstantiable       = engine.KindNotInstantiable
	KindUnresolvableParameter = engine.KindUnresolvableParameter
	KindReadonlyProperty      = engine.KindReadonlyProperty
	KindCycle                 = engine.KindCycle
	KindDepthExceeded         = engine.KindDepthExceeded
	KindPolicyBlocked         = engine.KindPolicyBlocked
	KindPrototypeError        = engine.KindPrototypeError
	KindFactoryThrew          = engine.KindFactoryThrew
)

// ResolutionError is the envelope every surfaced resolution failure
// carries: kind, offending serviceId, resolution trace, and (where
// relevant) a parameter/property name and owner class.
type ResolutionError = engine.ResolutionError

// CycleError and PolicyError are named aliases for the two ResolutionError
// kinds the external interfaces section calls out separately; both are
// still *ResolutionError underneath so errors.As(&ResolutionError{}) always
// works regardless of which name the caller reaches for.
type CycleError = engine.ResolutionError
type PolicyError = engine.ResolutionError

var (
	// ErrKernelClosed is returned when a resolution call (Get, Call,
	// InjectInto, or a Scope or FactoryContainer lookup) is made against a
	// Kernel that has already been closed. Registration methods do not
	// check whether the Kernel is closed.
	ErrKernelClosed = errors.New("kernel: closed")

	// ErrNoActiveScope is scoperegistry's sentinel, re-exported: the cause
	// (wrapped in a *ResolutionError) when a Scoped service is resolved
	// with no active scope.
	ErrNoActiveScope = scoperegistry.ErrNoActiveScope

	// ErrGiveWithoutNeeds is returned by a when(...).Give(...) chain called
	// before a prior Needs(...).
	ErrGiveWithoutNeeds = errors.New("kernel: give called without a prior needs")
)

// LifetimeError indicates an invalid serialized Lifetime value.
type LifetimeError struct {
	Value any
}

func (e *LifetimeError) Error() string {
	return fmt.Sprintf("kernel: invalid lifetime %v", e.Value)
}

// ModuleError wraps a failure raised while applying a Module's builders.
type ModuleError struct {
	Module string
	Cause  error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("kernel: module %q: %v", e.Module, e.Cause)
}

func (e *ModuleError) Unwrap() error { return e.Cause }

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *ResolutionError.
func KindOf(err error) (Kind, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// IsNotFound reports whether err is a NotFound resolution failure.
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}

// IsCycle reports whether err is a Cycle resolution failure.
func IsCycle(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindCycle
}

// IsPolicyBlocked reports whether err is a PolicyBlocked resolution failure.
func IsPolicyBlocked(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindPolicyBlocked
}
