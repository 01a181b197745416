// Package metrics exports reconciler and live-session activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/retained/pkg/reconcile"
)

type config struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry
}

// Option configures a Collector.
type Option func(*config)

// WithNamespace sets the metric namespace (default "retained").
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithRegistry registers the metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(b []float64) Option {
	return func(c *config) { c.buckets = b }
}

// Collector holds the metrics. Its methods are safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	mounts    *prometheus.CounterVec
	updates   *prometheus.CounterVec
	unmounts  *prometheus.CounterVec
	flushes   prometheus.Histogram
	mutations prometheus.Counter
	events    *prometheus.CounterVec
	sessions  prometheus.Gauge
}

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	cfg := config{
		namespace: "retained",
		buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}
	factory := promauto.With(cfg.registry)

	return &Collector{
		registry: cfg.registry,
		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "component_mounts_total",
			Help:      "Components mounted, by class.",
		}, []string{"component"}),
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "component_updates_total",
			Help:      "Component re-renders that reached the host tree, by class.",
		}, []string{"component"}),
		unmounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "component_unmounts_total",
			Help:      "Components unmounted, by class.",
		}, []string{"component"}),
		flushes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "flush_duration_seconds",
			Help:      "Time spent encoding and sending one mutation batch.",
			Buckets:   cfg.buckets,
		}),
		mutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "mutations_total",
			Help:      "Host-tree mutations sent to clients.",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "events_total",
			Help:      "Client events processed, by type and status.",
		}, []string{"type", "status"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "active_sessions",
			Help:      "Open live sessions.",
		}),
	}
}

// Install chains the collector onto the observation hooks of o. Hooks
// already set keep running first.
func (c *Collector) Install(o *reconcile.Options) {
	o.AfterMount = chain(o.AfterMount, func(comp reconcile.Component) {
		c.mounts.WithLabelValues(className(comp)).Inc()
	})
	o.AfterUpdate = chain(o.AfterUpdate, func(comp reconcile.Component) {
		c.updates.WithLabelValues(className(comp)).Inc()
	})
	o.BeforeUnmount = chain(o.BeforeUnmount, func(comp reconcile.Component) {
		c.unmounts.WithLabelValues(className(comp)).Inc()
	})
}

// ObserveFlush records one mutation batch.
func (c *Collector) ObserveFlush(d time.Duration, mutations int) {
	c.flushes.Observe(d.Seconds())
	c.mutations.Add(float64(mutations))
}

// ObserveEvent records one client event. A non-nil err counts as an error.
func (c *Collector) ObserveEvent(typ string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.events.WithLabelValues(typ, status).Inc()
}

// SessionOpened and SessionClosed track the active session gauge.
func (c *Collector) SessionOpened() { c.sessions.Inc() }
func (c *Collector) SessionClosed() { c.sessions.Dec() }

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func chain(prev, next func(reconcile.Component)) func(reconcile.Component) {
	if prev == nil {
		return next
	}
	return func(comp reconcile.Component) {
		prev(comp)
		next(comp)
	}
}

func className(comp reconcile.Component) string {
	if cl := reconcile.ClassOf(comp); cl != nil && cl.Name != "" {
		return cl.Name
	}
	return "anonymous"
}
