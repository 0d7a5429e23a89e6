package router

// Action names the operation that started a navigation.
type Action string

const (
	ActionNavigate Action = "navigate"
	ActionRedirect Action = "redirect"
	ActionRestore  Action = "restore"
	ActionBinding  Action = "binding"
	ActionLocation Action = "location"
)

// Outcome is the result of a navigation.
type Outcome int

const (
	// OutcomeCommitted means the route and attributes were updated.
	OutcomeCommitted Outcome = iota

	// OutcomeCancelled means a route hook vetoed the navigation.
	OutcomeCancelled

	// OutcomeFailed means the navigation returned an error.
	OutcomeFailed
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Instrumentation observes navigations. StartNavigation is called before
// the route is resolved; the returned function is called exactly once with
// the outcome.
type Instrumentation interface {
	StartNavigation(action Action, name string) func(outcome Outcome, err error)
}

type noopInstrumentation struct{}

func (noopInstrumentation) StartNavigation(Action, string) func(Outcome, error) {
	return func(Outcome, error) {}
}
