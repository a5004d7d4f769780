package kernel

import (
	"encoding/json"
	"fmt"

	"github.com/junioryono/kernel/internal/store"
)

// Lifetime is the reuse policy for a resolved service: Transient (new every
// call), Singleton (one per Kernel), or Scoped (one per active scope frame).
type Lifetime int

const (
	Transient Lifetime = iota
	Scoped
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Scoped:
		return "Scoped"
	case Singleton:
		return "Singleton"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

func (l Lifetime) IsValid() bool {
	return l >= Transient && l <= Singleton
}

func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Transient", "transient":
		*l = Transient
	case "Scoped", "scoped":
		*l = Scoped
	case "Singleton", "singleton":
		*l = Singleton
	default:
		return &LifetimeError{Value: string(text)}
	}
	return nil
}

func (l Lifetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return l.UnmarshalText([]byte(s))
}

// toStoreLifetime translates the public enum to internal/store's, which is
// redeclared there to avoid an import cycle back into this package.
func (l Lifetime) toStoreLifetime() store.Lifetime {
	switch l {
	case Scoped:
		return store.Scoped
	case Singleton:
		return store.Singleton
	default:
		return store.Transient
	}
}

func fromStoreLifetime(l store.Lifetime) Lifetime {
	switch l {
	case store.Scoped:
		return Scoped
	case store.Singleton:
		return Singleton
	default:
		return Transient
	}
}
