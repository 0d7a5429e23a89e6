package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/navigator/pkg/router"
)

// Default tracer name for navigator spans.
const defaultTracerName = "navigator"

// Config configures navigation telemetry.
type Config struct {
	// Namespace is the metrics namespace (default: "navigator").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// TracerName is the name of the tracer (default: "navigator").
	TracerName string

	// TracerProvider provides the tracer.
	// Default: the global OpenTelemetry tracer provider.
	TracerProvider trace.TracerProvider
}

// Option configures navigation telemetry.
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

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:  "navigator",
		Buckets:    prometheus.DefBuckets,
		Registry:   prometheus.DefaultRegisterer,
		TracerName: defaultTracerName,
	}
}

// Navigation records navigations. It is safe for concurrent use, so one
// instance can serve many routers.
type Navigation struct {
	tracer trace.Tracer

	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	activeSessions     prometheus.Gauge
}

var _ router.Instrumentation = (*Navigation)(nil)

// New creates navigation telemetry and registers its metrics.
// It panics if the metrics are already registered with the registry.
func New(opts ...Option) *Navigation {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	factory := promauto.With(config.Registry)

	return &Navigation{
		tracer: config.TracerProvider.Tracer(config.TracerName),

		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by action, route and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "route", "outcome"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation resolution and commit duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "error_code"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of routers currently driven by inspector sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// StartNavigation starts a span and a timer for one navigation.
func (n *Navigation) StartNavigation(action router.Action, name string) func(router.Outcome, error) {
	start := time.Now()
	_, span := n.tracer.Start(context.Background(), "navigator."+string(action),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("navigator.action", string(action)),
			attribute.String("navigator.route", name),
		),
		trace.WithTimestamp(start),
	)

	return func(outcome router.Outcome, err error) {
		defer span.End()

		n.navigationsTotal.WithLabelValues(string(action), name, outcome.String()).Inc()
		n.navigationDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())

		span.SetAttributes(attribute.String("navigator.outcome", outcome.String()))
		if err != nil {
			n.navigationErrors.WithLabelValues(string(action), errorCode(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}

// SessionStarted increments the active session gauge.
func (n *Navigation) SessionStarted() {
	n.activeSessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (n *Navigation) SessionEnded() {
	n.activeSessions.Dec()
}

// coded is implemented by errors that carry a registered error code.
type coded interface {
	ErrorCode() string
}

func errorCode(err error) string {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return "unknown"
}
