// Package engine drives the Resolution Engine FSM (component 4.4), the
// Dependency Resolver (4.5), and the Injector/Invoker/Instantiator (4.6).
// These three are tightly coupled in the spec and, as in the teacher's own
// resolver.go/reflection_helpers.go pairing, are kept in one package.
package engine

import "time"

// State is the FSM's ResolutionState.
type State int

const (
	ContextualLookup State = iota
	DefinitionLookup
	Autowire
	Evaluate
	Instantiate
	Success
	NotFound
)

func (s State) String() string {
	switch s {
	case ContextualLookup:
		return "ContextualLookup"
	case DefinitionLookup:
		return "DefinitionLookup"
	case Autowire:
		return "Autowire"
	case Evaluate:
		return "Evaluate"
	case Instantiate:
		return "Instantiate"
	case Success:
		return "Success"
	case NotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Outcome is one discovery/stage result.
type Outcome int

const (
	OutcomeStart Outcome = iota
	OutcomeHit
	OutcomeMiss
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStart:
		return "start"
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Record is one append-only trace entry.
type Record struct {
	State     State
	Stage     string
	Outcome   Outcome
	Timestamp time.Time
	Payload   any
}

// Trace is the ordered, append-only record of one resolution.
type Trace struct {
	ServiceId string
	ScopeID   string
	Records   []Record
}

func (t *Trace) append(state State, stage string, outcome Outcome, payload any) {
	t.Records = append(t.Records, Record{
		State:     state,
		Stage:     stage,
		Outcome:   outcome,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// Observer receives a completed trace once per top-level resolution,
// success or failure.
type Observer interface {
	Record(trace *Trace)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(trace *Trace)

func (f ObserverFunc) Record(trace *Trace) { f(trace) }
