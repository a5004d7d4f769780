package kernel

import "go.uber.org/zap"

// options holds the functional-options configuration consumed by New,
// mirroring the teacher's container_options.go approach: small typed
// option values applied against a private struct rather than a parsed
// config file.
type options struct {
	prototypeCacheCapacity int
	prototypeCachePath     string
	strictMode             bool
	maxResolutionDepth     int
	guard                  Guard
	observer               Observer
	metrics                MetricsCollector
	logger                 *zap.Logger
}

func defaultOptions() *options {
	return &options{
		prototypeCacheCapacity: 1024,
		maxResolutionDepth:     256,
		logger:                 zap.NewNop(),
	}
}

// Option configures a Kernel at construction time.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

// WithPrototypeCacheCapacity sets the L1 LRU capacity (default 1024).
func WithPrototypeCacheCapacity(capacity int) Option {
	return optionFunc(func(o *options) { o.prototypeCacheCapacity = capacity })
}

// WithPrototypeCachePath enables the L2 on-disk cache at path. Absent,
// L2 is disabled.
func WithPrototypeCachePath(path string) Option {
	return optionFunc(func(o *options) { o.prototypeCachePath = path })
}

// WithStrictMode rejects autowiring a ServiceId that has no explicit
// definition — the Autowire stage refuses to run for it.
func WithStrictMode(strict bool) Option {
	return optionFunc(func(o *options) { o.strictMode = strict })
}

// WithMaxResolutionDepth overrides the default depth cap of 256.
func WithMaxResolutionDepth(depth int) Option {
	return optionFunc(func(o *options) { o.maxResolutionDepth = depth })
}

// WithGuard installs a pre-resolve policy gate.
func WithGuard(g Guard) Option {
	return optionFunc(func(o *options) { o.guard = g })
}

// WithTraceObserver installs a ResolutionTrace sink, invoked once per
// top-level resolution.
func WithTraceObserver(observer Observer) Option {
	return optionFunc(func(o *options) { o.observer = observer })
}

// WithMetricsCollector installs a timing-event sink.
func WithMetricsCollector(collector MetricsCollector) Option {
	return optionFunc(func(o *options) { o.metrics = collector })
}

// WithLogger installs a structured logger; nil falls back to a no-op
// logger so the Kernel never needs a nil check before logging.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.logger = logger
	})
}
