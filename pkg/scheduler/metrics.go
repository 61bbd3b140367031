package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/livetree/pkg/dom"
)

// MetricsConfig configures scheduler metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "livetree").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for batch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures scheduler metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "livetree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of one runtime. A nil
// *Metrics records nothing.
type Metrics struct {
	batches         prometheus.Counter
	polls           prometheus.Counter
	batchDuration   prometheus.Histogram
	renderables     prometheus.Gauge
	cascadesDropped prometheus.Counter
	mutations       *prometheus.CounterVec
}

// NewMetrics registers the collectors.
//
// Metrics collected:
//   - livetree_scheduler_batches_total: batches run
//   - livetree_scheduler_polls_total: renderables polled
//   - livetree_scheduler_batch_duration_seconds: batch duration
//   - livetree_scheduler_renderables: registered renderables
//   - livetree_scheduler_cascades_dropped_total: batches dropped by the cascade bound
//   - livetree_dom_mutations_total: output-tree mutations by op
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "batches_total",
			Help:        "Total number of revalidation batches run",
			ConstLabels: config.ConstLabels,
		}),

		polls: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "polls_total",
			Help:        "Total number of renderables polled",
			ConstLabels: config.ConstLabels,
		}),

		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "batch_duration_seconds",
			Help:        "Revalidation batch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderables: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "renderables",
			Help:        "Number of registered renderables",
			ConstLabels: config.ConstLabels,
		}),

		cascadesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "scheduler",
			Name:        "cascades_dropped_total",
			Help:        "Batches dropped because the cascade bound was exceeded",
			ConstLabels: config.ConstLabels,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "dom",
			Name:        "mutations_total",
			Help:        "Total output-tree mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

// RecordMutation counts one output-tree mutation. It has the signature
// of a MemoryDocument observer.
func (m *Metrics) RecordMutation(mut dom.Mutation) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(mut.Op.String()).Inc()
}

func (m *Metrics) recordBatch(polled int, seconds float64) {
	if m == nil {
		return
	}
	m.batches.Inc()
	m.polls.Add(float64(polled))
	m.batchDuration.Observe(seconds)
}

func (m *Metrics) setRenderables(n int) {
	if m == nil {
		return
	}
	m.renderables.Set(float64(n))
}

func (m *Metrics) recordCascadeDropped() {
	if m == nil {
		return
	}
	m.cascadesDropped.Inc()
}
