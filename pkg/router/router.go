package router

import (
	"log/slog"

	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/route"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

// Router is the navigation state machine. See the package documentation
// for the resolution rules. A Router is not safe for concurrent use.
type Router struct {
	registry *route.Registry
	history  history.History
	logger   *slog.Logger
	instr    Instrumentation

	route      *route.Route
	attributes Attributes
	url        string
	revision   uint64

	attributesHistory map[string][]Attributes
	bindings          map[string]*binding

	routeHooks      []hookBucket
	attributesHooks []attributesHookEntry
	nextHookID      int

	// writing is set while the router writes to the history, so the
	// resulting change notification is not parsed again.
	writing bool

	// syncing is set while the router writes to bound cells, so the
	// cells' observers and interceptors do not feed back.
	syncing bool

	stopHistory func()
	stopUnload  func()
}

// New creates a Router over registry and h. It subscribes to location
// changes and unload interception on h and matches the current location
// immediately.
func New(registry *route.Registry, h history.History, opts ...Option) *Router {
	r := &Router{
		registry:          registry,
		history:           h,
		logger:            slog.Default(),
		instr:             noopInstrumentation{},
		attributes:        Attributes{},
		attributesHistory: make(map[string][]Attributes),
		bindings:          make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.stopHistory = h.Listen(r.onLocation)
	r.stopUnload = h.OnBeforeUnload(r.onBeforeUnload)
	r.match(h.Location())
	return r
}

// Route returns the active route, or nil if the location matches none.
func (r *Router) Route() *route.Route { return r.route }

// Attributes returns the current attributes. The map is replaced, never
// modified, when the attributes change; callers must not modify it.
func (r *Router) Attributes() Attributes { return r.attributes }

// Attribute returns the current value of key, or nil.
func (r *Router) Attribute(key string) any { return r.attributes.Get(key) }

// URL returns the URL of the current state.
func (r *Router) URL() string { return r.url }

// Revision increases every time the attributes map is replaced.
func (r *Router) Revision() uint64 { return r.revision }

// Registry returns the route registry.
func (r *Router) Registry() *route.Registry { return r.registry }

// History returns the history adapter.
func (r *Router) History() history.History { return r.history }

// AttributesHistory returns a copy of the attribute snapshots recorded for
// the route name, oldest first.
func (r *Router) AttributesHistory(name string) []Attributes {
	stack := r.attributesHistory[name]
	out := make([]Attributes, len(stack))
	for i, a := range stack {
		out[i] = a.Clone()
	}
	return out
}

// Navigate moves to the route name and writes a new history entry.
func (r *Router) Navigate(name string, attrs Attributes) error {
	_, err := r.handle(ActionNavigate, name, attrs, r.Navigate, history.ModePush, true)
	return err
}

// Redirect is like Navigate but replaces the current history entry.
func (r *Router) Redirect(name string, attrs Attributes) error {
	_, err := r.handle(ActionRedirect, name, attrs, r.Redirect, history.ModeReplace, true)
	return err
}

// Restore returns to the most recent attribute snapshot of the route name
// with attrs merged over it. The snapshot is removed once the navigation
// commits. Without a snapshot Restore behaves like Navigate.
func (r *Router) Restore(name string, attrs Attributes) error {
	stack := r.attributesHistory[name]
	if len(stack) == 0 {
		return r.Navigate(name, attrs)
	}

	merged := stack[len(stack)-1].Clone()
	for k, v := range attrs {
		if v != nil {
			merged[k] = v
		}
	}

	committed, err := r.handle(ActionRestore, name, merged, r.Restore, history.ModeReplace, false)
	if err != nil || !committed {
		return err
	}

	if cur := r.attributesHistory[name]; len(cur) > 1 {
		r.attributesHistory[name] = cur[:len(cur)-1]
	} else {
		delete(r.attributesHistory, name)
	}
	return nil
}

// HandleNavigation resolves the attributes for the route name, consults
// the route hooks with navigate and commits the result as a new history
// entry. It reports whether the navigation was committed. A nil navigate
// defaults to Navigate.
func (r *Router) HandleNavigation(name string, attrs Attributes, navigate NavigateFunc) (bool, error) {
	if navigate == nil {
		navigate = r.Navigate
	}
	return r.handle(ActionNavigate, name, attrs, navigate, history.ModePush, true)
}

// Reload matches the current history location again.
func (r *Router) Reload() {
	r.match(r.history.Location())
}

// Close releases every binding and unsubscribes from the history.
func (r *Router) Close() {
	r.ClearBindings()
	if r.stopHistory != nil {
		r.stopHistory()
		r.stopHistory = nil
	}
	if r.stopUnload != nil {
		r.stopUnload()
		r.stopUnload = nil
	}
}

func (r *Router) handle(action Action, name string, attrs Attributes, navigate NavigateFunc, mode history.Mode, record bool) (bool, error) {
	done := r.instr.StartNavigation(action, name)

	rt, ok := r.registry.Get(name)
	if !ok {
		err := &RouteNotFoundError{Name: name}
		done(OutcomeFailed, err)
		return false, err
	}

	resolved := r.resolve(rt, attrs)
	if !r.runRouteHooks(rt, resolved, navigate) {
		r.logger.Debug("navigation cancelled", "route", name, "action", string(action))
		done(OutcomeCancelled, nil)
		return false, nil
	}

	if err := r.commit(rt, resolved, mode, record); err != nil {
		done(OutcomeFailed, err)
		return false, err
	}
	done(OutcomeCommitted, nil)
	return true, nil
}

// resolve merges explicit attributes over attribute hook output, route
// defaults and binding defaults. Explicit and hook values are read as URL
// values, so "12345" commits as 12345.
func (r *Router) resolve(rt *route.Route, explicit Attributes) Attributes {
	out := parseAttributes(explicit)
	r.coerceBound(out)

	hooked := parseAttributes(r.runAttributesHooks(rt, out))
	r.coerceBound(hooked)
	mergeUnder(out, hooked)
	mergeUnder(out, rt.AttributeDefaults())
	for key, b := range r.bindings {
		if b.hasDefault && b.def != nil && !out.Has(key) {
			out[key] = b.def
		}
	}
	return out
}

// commit writes the URL for rt and attrs and then makes them the current
// state. A failed write leaves the state unchanged.
func (r *Router) commit(rt *route.Route, attrs Attributes, mode history.Mode, record bool) error {
	url, err := r.generateURL(rt, attrs)
	if err != nil {
		return err
	}

	if url != r.url {
		if err := r.write(url, mode); err != nil {
			return err
		}
		r.url = url
	}

	r.setState(rt, attrs)
	if record {
		r.recordAttributes(rt.Name(), r.attributes)
	}

	r.logger.Debug("navigation committed", "route", rt.Name(), "url", url, "mode", mode.String())
	r.syncBindings()
	return nil
}

// setState keeps the current attributes map if attrs is structurally equal.
func (r *Router) setState(rt *route.Route, attrs Attributes) {
	r.route = rt
	if AttributesEqual(r.attributes, attrs) {
		return
	}
	r.attributes = attrs
	r.revision++
}

// recordAttributes pushes attrs onto the snapshot stack of name unless the
// top entry is equal.
func (r *Router) recordAttributes(name string, attrs Attributes) {
	stack := r.attributesHistory[name]
	if n := len(stack); n > 0 && AttributesEqual(stack[n-1], attrs) {
		return
	}
	r.attributesHistory[name] = append(stack, attrs.Clone())
}

func (r *Router) write(url string, mode history.Mode) error {
	prev := r.writing
	r.writing = true
	defer func() { r.writing = prev }()
	return history.Write(r.history, url, mode)
}

// generateURL builds the URL for rt. Path parameters go into the path;
// every other attribute goes into the query unless it equals its route
// default or, for bound attributes without a route default, its binding
// default. Optional parameters that cannot appear in the path because an
// earlier one is absent go into the query as well.
func (r *Router) generateURL(rt *route.Route, attrs Attributes) (string, error) {
	pattern := rt.Pattern()

	values := make(map[string]string)
	for _, p := range pattern.Params() {
		if s, ok := urlparam.FormatValue(attrs[p]); ok {
			values[p] = s
		}
	}
	path, err := pattern.Generate(values)
	if err != nil {
		return "", err
	}

	inPath := make(map[string]bool)
	for _, p := range pattern.PathParams(values) {
		inPath[p] = true
	}

	defaults := rt.AttributeDefaults()
	query := make(map[string]any)
	for k, v := range attrs {
		if v == nil || inPath[k] {
			continue
		}
		if d, ok := defaults[k]; ok {
			if AttributesEqual(d, v) {
				continue
			}
		} else if b, ok := r.bindings[k]; ok && b.hasDefault && AttributesEqual(b.def, v) {
			continue
		}
		query[k] = v
	}

	if q := urlparam.EncodeQuery(query); q != "" {
		return path + "?" + q, nil
	}
	return path, nil
}

// URLFor returns the URL a navigation to name with attrs would produce,
// without running route hooks or changing state.
func (r *Router) URLFor(name string, attrs Attributes) (string, error) {
	rt, ok := r.registry.Get(name)
	if !ok {
		return "", &RouteNotFoundError{Name: name}
	}
	return r.generateURL(rt, r.resolve(rt, attrs))
}

// find returns the first route whose pattern matches path.
func (r *Router) find(path string) (*route.Route, map[string]string) {
	for _, rt := range r.registry.GetAll() {
		if params, ok := rt.Pattern().Match(path); ok {
			return rt, params
		}
	}
	return nil, nil
}

// match updates the state from a location. Route hooks are not consulted.
func (r *Router) match(loc history.Location) {
	attrs := Attributes(urlparam.DecodeQuery(loc.Query))
	rt, params := r.find(loc.Path)

	name := ""
	if rt != nil {
		name = rt.Name()
	}
	done := r.instr.StartNavigation(ActionLocation, name)

	if rt == nil {
		r.coerceBound(attrs)
		r.setState(nil, attrs)
		r.url = loc.String()
		r.logger.Debug("no route matches location", "url", r.url)
		r.syncBindings()
		done(OutcomeCommitted, nil)
		return
	}

	for k, v := range params {
		attrs[k] = urlparam.ParseValue(v)
	}
	r.coerceBound(attrs)
	resolved := r.resolve(rt, attrs)

	r.setState(rt, resolved)
	r.recordAttributes(name, r.attributes)
	r.url = loc.String()

	// Normalize the location to the generated URL (sorted query, defaults
	// dropped) without adding an entry.
	if url, err := r.generateURL(rt, resolved); err == nil && url != r.url {
		r.url = url
		if err := r.write(url, history.ModeReplace); err != nil {
			r.logger.Warn("location normalization failed", "url", url, "error", err)
		}
	}

	r.logger.Debug("location matched", "route", name, "url", r.url)
	r.syncBindings()
	done(OutcomeCommitted, nil)
}

func (r *Router) onLocation(loc history.Location) {
	if r.writing {
		return
	}
	r.match(loc)
}

// onBeforeUnload asks for confirmation if any route hook vetoes leaving.
func (r *Router) onBeforeUnload() bool {
	return !r.runRouteHooks(nil, nil, nil)
}
