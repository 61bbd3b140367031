package scheduler

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithQueue sets where batches are enqueued. The default is a new Queue.
func WithQueue(q Microtasks) Option {
	return func(s *Scheduler) {
		s.queue = q
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithMetrics records batch metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for batch spans. The default is the
// global provider's "livetree" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = tracer
	}
}

// WithMaxCascade bounds how many batches may be scheduled in a row from
// inside running batches. Zero disables the bound.
func WithMaxCascade(n int) Option {
	return func(s *Scheduler) {
		s.maxCascade = n
	}
}
