package livetree

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/livetree/pkg/scheduler"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the runtime configuration.
type Config struct {
	// Logger is the structured logger for the runtime.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Queue is where revalidation batches run. If nil, a manually
	// drained scheduler.Queue is created; Settle drains it.
	Queue scheduler.Microtasks

	// MaxCascade bounds how many batches may be scheduled in a row from
	// inside running batches. Zero disables the bound.
	// Default: 100.
	MaxCascade int

	// Metrics is the Prometheus registerer for runtime metrics.
	// If nil, no metrics are recorded.
	Metrics prometheus.Registerer

	// MetricsNamespace is the metrics namespace.
	// Default: "livetree".
	MetricsNamespace string

	// TracerName names the OpenTelemetry tracer for batch spans.
	// Default: "livetree".
	TracerName string
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{
		Logger:           slog.Default(),
		MaxCascade:       100,
		MetricsNamespace: "livetree",
		TracerName:       "livetree",
	}
}

// withDefaults fills the zero fields that have defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.TracerName == "" {
		c.TracerName = d.TracerName
	}
	return c
}
