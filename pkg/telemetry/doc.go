// Package telemetry records router navigations as Prometheus metrics and
// OpenTelemetry spans.
//
// Navigation implements router.Instrumentation:
//
//	nav := telemetry.New(
//	    telemetry.WithNamespace("cms"),
//	    telemetry.WithRegistry(prometheus.NewRegistry()),
//	)
//	r := router.New(reg, h, router.WithInstrumentation(nav))
//
// Metrics:
//   - navigator_navigations_total{action,route,outcome}
//   - navigator_navigation_duration_seconds{action}
//   - navigator_navigation_errors_total{action,error_code}
//   - navigator_active_sessions
//
// Spans are named "navigator.<action>" and carry the route name and the
// outcome. Failed navigations record the error and set the span status.
package telemetry
