package router

import "log/slog"

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInstrumentation sets the navigation instrumentation.
func WithInstrumentation(instr Instrumentation) Option {
	return func(r *Router) {
		if instr != nil {
			r.instr = instr
		}
	}
}
