// Package middleware provides HTTP middleware for the livetree inspector.
//
// This package includes:
//   - OpenTelemetry tracing of every request
//   - Prometheus request metrics
//
// Both label requests by their chi route pattern ("/cells/{name}"), never
// by the raw path, to keep cardinality bounded.
//
// # OpenTelemetry Middleware
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("livetree"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/metrics"
//	    }),
//	))
//
// The tracer comes from the global OpenTelemetry tracer provider.
//
// # Prometheus Metrics
//
// The Prometheus middleware records:
//   - livetree_inspector_requests_total: requests by route and status code
//   - livetree_inspector_request_duration_seconds: request duration by route
//   - livetree_inspector_requests_in_flight: requests being served
//
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
package middleware
