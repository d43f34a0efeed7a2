// Package metrics exports scheduler activity of the reactive runtime as
// Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "sig").
	Namespace string

	// Subsystem is the metrics subsystem (default: "runtime").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "sig",
		Subsystem: "runtime",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records effect runs, flushes and suppressed update loops.
// It satisfies sig.Observer.
type Observer struct {
	effectRuns     prometheus.Counter
	effectPanics   prometheus.Counter
	effectDuration prometheus.Histogram
	flushes        prometheus.Counter
	flushPasses    prometheus.Histogram
	flushFailures  prometheus.Counter
	runaways       prometheus.Counter
}

// NewObserver creates the collectors and registers them.
func NewObserver(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs.",
			ConstLabels: config.ConstLabels,
		}),
		effectPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_panics_total",
			Help:        "Total number of effect runs that panicked.",
			ConstLabels: config.ConstLabels,
		}),
		effectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_duration_seconds",
			Help:        "Duration of effect runs.",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of completed flushes.",
			ConstLabels: config.ConstLabels,
		}),
		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Number of passes taken by a flush.",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.LinearBuckets(1, 10, 11),
		}),
		flushFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_failures_total",
			Help:        "Total number of flushes that re-raised an effect panic.",
			ConstLabels: config.ConstLabels,
		}),
		runaways: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "runaway_flushes_total",
			Help:        "Total number of flushes that hit the iteration limit.",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (o *Observer) EffectRan(depth int, elapsed time.Duration, recovered any) {
	o.effectRuns.Inc()
	o.effectDuration.Observe(elapsed.Seconds())

	if recovered != nil {
		o.effectPanics.Inc()
	}
}

func (o *Observer) Flushed(passes int, effects int, recovered any) {
	o.flushes.Inc()
	o.flushPasses.Observe(float64(passes))

	if recovered != nil {
		o.flushFailures.Inc()
	}
}

func (o *Observer) Runaway(passes int) {
	o.runaways.Inc()
}
