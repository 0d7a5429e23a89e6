package route

import (
	"errors"
	"sync"
)

// Registry maps route names to routes in insertion order.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]*Route
	order  []*Route
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		routes: make(map[string]*Route),
	}
}

// Add registers a single route. It fails if the name already exists.
func (reg *Registry) Add(r *Route) error {
	return reg.AddCollection([]*Route{r})
}

// AddCollection registers routes in order. Either all routes are added or,
// if any name is already taken (by the registry or earlier in the
// collection), none are.
func (reg *Registry) AddCollection(routes []*Route) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	pending := make(map[string]bool, len(routes))
	for _, r := range routes {
		if r == nil {
			return errors.New("route: nil route")
		}
		if _, exists := reg.routes[r.name]; exists || pending[r.name] {
			return &DuplicateRouteError{Name: r.name}
		}
		pending[r.name] = true
	}

	for _, r := range routes {
		reg.routes[r.name] = r
		reg.order = append(reg.order, r)
	}
	reg.link()
	return nil
}

// link attaches routes to their parents once both are registered.
// Must be called with mu held.
func (reg *Registry) link() {
	for _, r := range reg.order {
		if r.parentName == "" || r.parent != nil {
			continue
		}
		parent, ok := reg.routes[r.parentName]
		if !ok || parent == r {
			continue
		}
		r.parent = parent
		parent.children = append(parent.children, r)
	}
}

// Get returns the route registered under name.
func (reg *Registry) Get(name string) (*Route, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.routes[name]
	return r, ok
}

// GetAll returns all routes in insertion order.
func (reg *Registry) GetAll() []*Route {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Route, len(reg.order))
	copy(out, reg.order)
	return out
}

// Names returns the route names in insertion order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]string, len(reg.order))
	for i, r := range reg.order {
		out[i] = r.name
	}
	return out
}

// Len returns the number of registered routes.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.order)
}

// Validate reports every route whose parent is not registered.
func (reg *Registry) Validate() error {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	var errs []error
	for _, r := range reg.order {
		if r.parentName != "" && r.parent == nil {
			errs = append(errs, &UnknownParentError{Route: r.name, Parent: r.parentName})
		}
	}
	return errors.Join(errs...)
}

// Clear removes every route and detaches parent/children links.
func (reg *Registry) Clear() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, r := range reg.order {
		r.parent = nil
		r.children = nil
	}
	reg.routes = make(map[string]*Route)
	reg.order = nil
}
