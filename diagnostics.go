package kernel

import (
	"fmt"
	"time"

	"github.com/junioryono/kernel/internal/engine"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Trace is the append-only record of FSM states and outcomes produced
// during one top-level resolution, surrendered to an Observer once it
// completes.
type Trace = engine.Trace

// TraceRecord is a single entry of a Trace.
type TraceRecord = engine.Record

// Observer receives a completed Trace once per top-level resolution,
// success or failure.
type Observer = engine.Observer

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc = engine.ObserverFunc

// MetricsEvent is one timing event emitted per resolution (and, in a
// future extension, per FSM step): what happened, to which service, how
// long it took, and how it ended.
type MetricsEvent struct {
	Event      string
	ServiceId  string
	Step       string
	DurationMs float64
	Status     string // "success" or "error"
	StartedAt  time.Time
	EndedAt    time.Time
	Error      error
}

// MetricsCollector receives MetricsEvents. Implementations must not block
// meaningfully; the Kernel calls Collect synchronously on the resolving
// goroutine.
type MetricsCollector interface {
	Collect(event MetricsEvent)
}

// MetricsCollectorFunc adapts a plain function to MetricsCollector.
type MetricsCollectorFunc func(event MetricsEvent)

func (f MetricsCollectorFunc) Collect(event MetricsEvent) { f(event) }

// PrototypeSummary is the shape-only view of a class's reflected
// structure returned by Inspect, independent of any particular instance.
type PrototypeSummary struct {
	ClassName      string
	IsInstantiable bool
	ParameterCount int
	PropertyCount  int
	MethodCount    int
}

// Inspection is the result of Kernel.Inspect(id).
type Inspection struct {
	Id        string
	Defined   bool
	Cached    bool
	Lifetime  *Lifetime
	Tags      []string
	Prototype *PrototypeSummary
	Error     error
}

// Inspect reports what the Kernel knows about id without resolving it:
// whether it has a definition, its lifetime, and, for an id with a type
// registered via Struct, a structural summary (or the error that prevented
// building one). Building or fetching that prototype caches it, and Cached
// is then true. Tags is not populated.
func (k *Kernel) Inspect(id string) Inspection {
	insp := Inspection{Id: id}

	def, defined := k.store.FindDefinition(id)
	insp.Defined = defined
	if defined {
		lt := fromStoreLifetime(def.Lifetime)
		insp.Lifetime = &lt
	}

	desc, ok := k.store.TypeDescriptor(id)
	if !ok {
		return insp
	}

	sp, err := k.factory.CreateFor(desc)
	if err != nil {
		insp.Error = err
		return insp
	}
	insp.Cached = true

	summary := &PrototypeSummary{
		ClassName:      sp.ClassName,
		IsInstantiable: sp.IsInstantiable,
		PropertyCount:  len(sp.Properties),
		MethodCount:    len(sp.InjectedMethods),
	}
	if sp.Constructor != nil {
		summary.ParameterCount = len(sp.Constructor.Parameters)
	}
	insp.Prototype = summary

	return insp
}

// recordDiagnostics fans the completed trace and a derived metrics event
// out to the configured sinks. Sink failures (panics or explicit errors
// from a MetricsCollector that chooses to return one via a wrapped
// recover) are aggregated with multierr and logged — they never alter the
// resolution outcome already determined by resolveErr.
func (k *Kernel) recordDiagnostics(trace *Trace, serviceId string, started time.Time, resolveErr error) {
	var sinkErr error

	if k.opts.observer != nil {
		sinkErr = multierr.Append(sinkErr, safeInvoke(func() error {
			k.opts.observer.Record(trace)
			return nil
		}))
	}

	if k.opts.metrics != nil {
		status := "success"
		if resolveErr != nil {
			status = "error"
		}
		ended := time.Now()
		event := MetricsEvent{
			Event:      "resolve",
			ServiceId:  serviceId,
			DurationMs: float64(ended.Sub(started).Microseconds()) / 1000.0,
			Status:     status,
			StartedAt:  started,
			EndedAt:    ended,
			Error:      resolveErr,
		}
		sinkErr = multierr.Append(sinkErr, safeInvoke(func() error {
			k.opts.metrics.Collect(event)
			return nil
		}))
	}

	if sinkErr != nil {
		k.opts.logger.Warn("diagnostics sink failed", zap.String("serviceId", serviceId), zap.Error(sinkErr))
	}
}

func safeInvoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diagnostics sink panicked: %v", r)
		}
	}()
	return fn()
}
