package engine

import (
	"github.com/junioryono/kernel/internal/prototype"
	"github.com/junioryono/kernel/internal/scoperegistry"
	"github.com/junioryono/kernel/internal/store"
)

// Guard is the policy/guard gate: an optional pre-resolve veto. A nil
// Guard always allows resolution.
type Guard interface {
	Check(serviceId string, parent *Context) error
}

// GuardFunc adapts a function to Guard.
type GuardFunc func(serviceId string, parent *Context) error

func (f GuardFunc) Check(serviceId string, parent *Context) error { return f(serviceId, parent) }

// Engine drives one resolution through the FSM described by component
// 4.4: ContextualLookup -> DefinitionLookup -> Autowire -> Evaluate ->
// Instantiate -> Success, or NotFound on a terminal miss.
type Engine struct {
	store      *store.Store
	factory    *prototype.Factory
	scopes     *scoperegistry.Registry
	guard      Guard
	maxDepth   int
	strictMode bool
}

// Options configures a new Engine.
type Options struct {
	MaxDepth   int
	StrictMode bool
	Guard      Guard
}

func New(st *store.Store, factory *prototype.Factory, scopes *scoperegistry.Registry, opts Options) *Engine {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 256
	}
	return &Engine{
		store:      st,
		factory:    factory,
		scopes:     scopes,
		guard:      opts.Guard,
		maxDepth:   maxDepth,
		strictMode: opts.StrictMode,
	}
}

// SetGuard lets the Kernel attach/replace the policy evaluator after
// construction (e.g. once wired from options).
func (e *Engine) SetGuard(g Guard) { e.guard = g }

// Resolve drives ctx through the FSM. observer, if non-nil, receives the
// completed trace exactly once — only the top-level caller should pass an
// observer; child/recursive calls pass nil so a trace is recorded only at
// the outermost resolution boundary, per "TraceObserver ... called once
// per top-level resolve".
func (e *Engine) Resolve(ctx *Context, observer Observer) (any, error) {
	trace := &Trace{ServiceId: ctx.ServiceId}
	if ctx.Frame != nil {
		trace.ScopeID = ctx.Frame.ID()
	}

	result, err := e.resolveTraced(ctx, trace)

	if observer != nil {
		observer.Record(trace)
	}

	return result, err
}

func (e *Engine) resolveTraced(ctx *Context, trace *Trace) (any, error) {
	if err := e.checkDepthAndCycle(ctx, trace); err != nil {
		return nil, err
	}

	if e.guard != nil {
		if err := e.guard.Check(ctx.ServiceId, ctx.Parent); err != nil {
			trace.append(NotFound, "GuardPolicy", OutcomeError, err)
			return nil, &ResolutionError{Kind: KindPolicyBlocked, ServiceId: ctx.ServiceId, Cause: err, Trace: trace}
		}
	}

	candidate, err := e.discover(ctx, trace)
	if err != nil {
		return nil, err
	}
	if candidate.IsNone() {
		trace.append(NotFound, "NotFound", OutcomeMiss, nil)
		return nil, &ResolutionError{Kind: KindNotFound, ServiceId: ctx.ServiceId, Trace: trace}
	}

	trace.append(Evaluate, "Evaluate", OutcomeStart, nil)
	value, isClassRef, err := e.evaluateCandidate(ctx, candidate, trace)
	if err != nil {
		trace.append(Evaluate, "Evaluate", OutcomeError, err)
		return nil, err
	}
	trace.append(Evaluate, "Evaluate", OutcomeHit, nil)

	trace.append(Instantiate, "Instantiate", OutcomeStart, nil)
	var result any
	if isClassRef {
		result, err = e.instantiate(ctx, value.(string))
		if err != nil {
			trace.append(Instantiate, "Instantiate", OutcomeError, err)
			return nil, err
		}
	} else {
		result = value
	}
	trace.append(Instantiate, "Instantiate", OutcomeHit, nil)

	result, err = e.applyDecorators(ctx, result)
	if err != nil {
		return nil, err
	}

	result, err = e.applyLifetime(ctx, result)
	if err != nil {
		return nil, err
	}

	trace.append(Success, "Success", OutcomeHit, nil)
	ctx.Instance = result
	ctx.Success = true
	return result, nil
}

// checkDepthAndCycle enforces invariant 2 (acyclic, strictly increasing
// parent chain) and the configurable depth cap.
func (e *Engine) checkDepthAndCycle(ctx *Context, trace *Trace) error {
	if ctx.Depth > e.maxDepth {
		return &ResolutionError{Kind: KindDepthExceeded, ServiceId: ctx.ServiceId, Trace: trace}
	}

	var chain []string
	for cur := ctx.Parent; cur != nil; cur = cur.Parent {
		chain = append([]string{cur.ServiceId}, chain...)
		if cur.ServiceId == ctx.ServiceId {
			full := append(chain, ctx.ServiceId)
			return &ResolutionError{Kind: KindCycle, ServiceId: ctx.ServiceId, Chain: full, Trace: trace}
		}
	}
	return nil
}

// discover runs the three discovery stages in order, stopping at the
// first hit, per "the engine never branches on state type inline — it
// iterates the ordered states".
func (e *Engine) discover(ctx *Context, trace *Trace) (Candidate, error) {
	stages := []struct {
		state   State
		name    string
		handler func(*Context, *Trace) (Candidate, error)
	}{
		{ContextualLookup, "ContextualLookup", e.handleContextualLookup},
		{DefinitionLookup, "DefinitionLookup", e.handleDefinitionLookup},
		{Autowire, "Autowire", e.handleAutowire},
	}

	var candidate Candidate
	for _, stage := range stages {
		trace.append(stage.state, stage.name, OutcomeStart, nil)
		c, err := stage.handler(ctx, trace)
		if err != nil {
			trace.append(stage.state, stage.name, OutcomeError, err)
			return Candidate{}, err
		}
		if !c.IsNone() {
			candidate = c
			trace.append(stage.state, stage.name, OutcomeHit, nil)
			break
		}
		trace.append(stage.state, stage.name, OutcomeMiss, nil)
	}

	return candidate, nil
}

// handleContextualLookup: if context.parent is set, ask the store for a
// contextual binding for (parent.serviceId, context.serviceId); if
// present, yield its concrete as the candidate. It is not evaluated here:
// the Evaluate stage evaluates it like any other candidate.
func (e *Engine) handleContextualLookup(ctx *Context, trace *Trace) (Candidate, error) {
	if ctx.Parent == nil {
		return Candidate{}, nil
	}
	concrete, ok := e.store.FindContextual(ctx.Parent.ServiceId, ctx.ServiceId)
	if !ok {
		return Candidate{}, nil
	}
	return fromConcrete(concrete), nil
}

// handleDefinitionLookup: ask the store for a definition; yield its
// concrete candidate.
func (e *Engine) handleDefinitionLookup(ctx *Context, trace *Trace) (Candidate, error) {
	def, ok := e.store.FindDefinition(ctx.ServiceId)
	if !ok {
		return Candidate{}, nil
	}
	if ctx.Overrides == nil && len(def.Arguments) > 0 {
		ctx.Overrides = def.Arguments
	} else if len(def.Arguments) > 0 {
		merged := make(map[string]any, len(def.Arguments)+len(ctx.Overrides))
		for k, v := range def.Arguments {
			merged[k] = v
		}
		for k, v := range ctx.Overrides {
			merged[k] = v
		}
		ctx.Overrides = merged
	}
	ctx.Metadata["lifetime"] = def.Lifetime
	return fromConcrete(def.Concrete), nil
}

// handleAutowire: if no candidate yet and the serviceId names an existing
// class, yield that class name as a deferred-instantiation candidate.
func (e *Engine) handleAutowire(ctx *Context, trace *Trace) (Candidate, error) {
	if e.strictMode {
		if _, hasDef := e.store.FindDefinition(ctx.ServiceId); !hasDef {
			return Candidate{}, nil
		}
	}
	if e.store.ClassExists(ctx.ServiceId) {
		return Candidate{Kind: CandidateClassRef, ClassName: ctx.ServiceId}, nil
	}
	return Candidate{}, nil
}

// evaluateCandidate dispatches on the Candidate's tag. Returns
// (value, isClassRef, err); when isClassRef is true, value is the class
// name string still awaiting Instantiate.
func (e *Engine) evaluateCandidate(ctx *Context, c Candidate, trace *Trace) (any, bool, error) {
	switch c.Kind {
	case CandidateInstance:
		return c.Instance, false, nil
	case CandidateFactory:
		v, err := c.Factory(ctx.ForCallback(), ctx.Overrides)
		if re, ok := err.(*ResolutionError); ok {
			// A failure of a nested resolution made through the container
			// handle (a cycle, a missing dependency) surfaces unchanged.
			return nil, false, re
		}
		if err != nil {
			return nil, false, &ResolutionError{Kind: KindFactoryThrew, ServiceId: ctx.ServiceId, Cause: err, Trace: trace}
		}
		return v, false, nil
	case CandidateDelegate:
		child := ctx.Child(c.ClassName, ctx.Overrides)
		v, err := e.Resolve(child, nil)
		if err != nil {
			return nil, false, err
		}
		return v, false, nil
	case CandidateClassRef:
		return c.ClassName, true, nil
	default:
		return nil, false, &ResolutionError{Kind: KindNotFound, ServiceId: ctx.ServiceId, Trace: trace}
	}
}

// applyDecorators runs every decorator registered for ctx.ServiceId, in
// registration order, each wrapping the previous result.
func (e *Engine) applyDecorators(ctx *Context, result any) (any, error) {
	decorators := e.store.Decorators(ctx.ServiceId)
	for _, d := range decorators {
		wrapped, err := d(result, ctx.ForCallback())
		if err != nil {
			return nil, &ResolutionError{Kind: KindFactoryThrew, ServiceId: ctx.ServiceId, Cause: err}
		}
		result = wrapped
	}
	return result, nil
}

// applyLifetime stores the freshly built value per its lifetime strategy.
// Singleton writes follow the setOnce race rule (the first write wins);
// Scoped writes go through Frame.Set, which overwrites an existing entry.
func (e *Engine) applyLifetime(ctx *Context, result any) (any, error) {
	lt, _ := ctx.Metadata["lifetime"].(store.Lifetime)
	strategy := e.strategyFor(lt, ctx.Frame)

	if existing, ok := strategy.retrieve(ctx.ServiceId); ok {
		return existing, nil
	}

	published, err := strategy.store(ctx.ServiceId, result)
	if err != nil {
		return nil, &ResolutionError{Kind: KindNotFound, ServiceId: ctx.ServiceId, Cause: err}
	}
	return published, nil
}
