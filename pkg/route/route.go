package route

import "fmt"

// Definition is the static description a Route is built from.
type Definition struct {
	// Name is the unique route identifier.
	Name string

	// View identifies the UI component that renders the route.
	// It is not interpreted by the router.
	View string

	// Path is the URL pattern (e.g., "/snippets/:id/:tab?").
	Path string

	// Parent is the name of the parent route, if any.
	Parent string

	// AttributeDefaults are applied when an attribute is absent after
	// parsing the URL or resolving a navigation.
	AttributeDefaults map[string]any

	// RerenderAttributes are the attributes whose values form the view key.
	RerenderAttributes []string

	// Options is passed through to the view untouched.
	Options map[string]any
}

// Route is a named, pattern-addressable navigable location.
// A Route is immutable after construction except for the parent/children
// links set by the Registry.
type Route struct {
	name               string
	view               string
	parentName         string
	pattern            *Pattern
	attributeDefaults  map[string]any
	rerenderAttributes []string
	options            map[string]any

	parent   *Route
	children []*Route
}

// New creates a Route from its definition and compiles the path pattern.
func New(def Definition) (*Route, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("route: name is required")
	}

	pattern, err := Compile(def.Path)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", def.Name, err)
	}

	r := &Route{
		name:               def.Name,
		view:               def.View,
		parentName:         def.Parent,
		pattern:            pattern,
		attributeDefaults:  copyMap(def.AttributeDefaults),
		rerenderAttributes: append([]string(nil), def.RerenderAttributes...),
		options:            copyMap(def.Options),
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for static route tables.
func MustNew(def Definition) *Route {
	r, err := New(def)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the route name.
func (r *Route) Name() string { return r.name }

// View returns the view identifier.
func (r *Route) View() string { return r.view }

// Path returns the source path pattern.
func (r *Route) Path() string { return r.pattern.String() }

// Pattern returns the compiled path pattern.
func (r *Route) Pattern() *Pattern { return r.pattern }

// ParentName returns the declared parent route name.
func (r *Route) ParentName() string { return r.parentName }

// Parent returns the linked parent route, or nil.
func (r *Route) Parent() *Route { return r.parent }

// Children returns the linked child routes in registration order.
func (r *Route) Children() []*Route {
	out := make([]*Route, len(r.children))
	copy(out, r.children)
	return out
}

// AttributeDefaults returns the default attribute values, inherited from the
// parent chain. Defaults declared on the route itself win.
func (r *Route) AttributeDefaults() map[string]any {
	var out map[string]any
	if r.parent != nil {
		out = r.parent.AttributeDefaults()
	} else {
		out = make(map[string]any, len(r.attributeDefaults))
	}
	for k, v := range r.attributeDefaults {
		out[k] = v
	}
	return out
}

// RerenderAttributes returns the rerender attributes of the parent chain
// followed by the route's own, without duplicates.
func (r *Route) RerenderAttributes() []string {
	var out []string
	if r.parent != nil {
		out = r.parent.RerenderAttributes()
	}
	for _, name := range r.rerenderAttributes {
		if !containsString(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// Options returns a copy of the route's own options.
func (r *Route) Options() map[string]any {
	return copyMap(r.options)
}

// Option looks up an option on the route and then up the parent chain.
func (r *Route) Option(key string) (any, bool) {
	for cur := r; cur != nil; cur = cur.parent {
		if v, ok := cur.options[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// String implements fmt.Stringer.
func (r *Route) String() string {
	return r.name + " " + r.pattern.String()
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
