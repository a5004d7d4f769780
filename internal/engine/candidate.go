package engine

import "github.com/junioryono/kernel/internal/store"

// CandidateKind tags the variant held by a Candidate — the design notes'
// prescribed replacement for the source's dynamically-typed "anything"
// candidate slot.
type CandidateKind int

const (
	CandidateNone CandidateKind = iota
	CandidateInstance
	CandidateFactory
	CandidateDelegate
	CandidateClassRef
)

// Candidate is the tagged variant produced by each discovery handler and
// consumed by Evaluate.
type Candidate struct {
	Kind      CandidateKind
	Instance  any
	Factory   store.FactoryFunc
	ClassName string // CandidateDelegate (target service id), CandidateClassRef (class to instantiate)
}

func (c Candidate) IsNone() bool { return c.Kind == CandidateNone }

func fromConcrete(c store.Concrete) Candidate {
	switch c.Kind {
	case store.ConcreteInstance:
		return Candidate{Kind: CandidateInstance, Instance: c.Instance}
	case store.ConcreteFactory:
		return Candidate{Kind: CandidateFactory, Factory: c.Factory}
	case store.ConcreteDelegate:
		return Candidate{Kind: CandidateDelegate, ClassName: c.ClassName}
	case store.ConcreteClass:
		return Candidate{Kind: CandidateClassRef, ClassName: c.ClassName}
	default: // ConcreteAutowire
		return Candidate{Kind: CandidateNone}
	}
}
