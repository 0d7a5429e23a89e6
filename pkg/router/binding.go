package router

import (
	"reflect"
	"sort"
	"time"

	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

// Observable is a mutable cell with change notification and write
// interception. signal.Cell implements it.
type Observable interface {
	// Get returns the current value.
	Get() any

	// Set writes a new value, converting it to the cell's type.
	Set(value any) error

	// Observe registers fn for every change and returns a function that
	// removes it.
	Observe(fn func(value any)) func()

	// Intercept registers fn to be consulted before every change.
	// Returning false rejects the write.
	Intercept(fn func(next any) bool) func()
}

// BindOption configures a binding.
type BindOption func(*binding)

// WithDefault sets the value the cell receives while the attribute is
// absent. The router also fills it into the attributes of every route that
// has no default of its own.
func WithDefault(value any) BindOption {
	return func(b *binding) {
		b.def = value
		b.hasDefault = value != nil
	}
}

// AsBoolean parses the URL tokens "true" and "false" into booleans.
func AsBoolean() BindOption {
	return func(b *binding) {
		b.boolean = true
	}
}

type binding struct {
	key        string
	cell       Observable
	def        any
	hasDefault bool
	boolean    bool
	stop       []func()
}

// Bind links the attribute key to cell in both directions and returns a
// function that releases the binding. An existing binding for key is
// released first.
//
// On bind the router's value wins, unless the router has no value (or
// only a default) and the cell holds a non-zero value; then the cell value
// is pulled into the router and the current history entry is replaced.
func (r *Router) Bind(key string, cell Observable, opts ...BindOption) func() {
	if old, ok := r.bindings[key]; ok {
		r.unbind(old)
	}

	b := &binding{key: key, cell: cell}
	for _, opt := range opts {
		opt(b)
	}
	r.bindings[key] = b

	r.reconcile(b)

	b.stop = append(b.stop,
		cell.Intercept(func(next any) bool { return r.interceptBinding(b, next) }),
		cell.Observe(func(value any) { r.observeBinding(b, value) }),
	)

	return func() { r.unbind(b) }
}

// ClearBindings releases every binding.
func (r *Router) ClearBindings() {
	for _, b := range r.bindings {
		r.unbind(b)
	}
}

func (r *Router) unbind(b *binding) {
	for _, stop := range b.stop {
		stop()
	}
	b.stop = nil
	if r.bindings[b.key] == b {
		delete(r.bindings, b.key)
	}
}

func (r *Router) reconcile(b *binding) {
	routerValue := r.attributes.Get(b.key)
	if coerced := r.coerce(b, routerValue); !AttributesEqual(coerced, routerValue) {
		r.replaceAttribute(b.key, coerced)
		routerValue = coerced
	}
	cellValue := b.cell.Get()

	routerEmpty := routerValue == nil || r.isDefault(b, routerValue)
	if routerEmpty && !isZero(cellValue) && !AttributesEqual(cellValue, routerValue) &&
		!(b.hasDefault && AttributesEqual(cellValue, b.def)) {
		r.pull(b, cellValue)
		return
	}

	if routerValue == nil && b.hasDefault && r.route != nil {
		// Fill the binding default into the attributes; the URL omits it.
		r.pull(b, b.def)
		return
	}
	r.pushToCell(b, routerValue)
}

// replaceAttribute swaps the value of key in the current state without
// writing the URL. The newest snapshot of the route follows along.
func (r *Router) replaceAttribute(key string, value any) {
	old := r.attributes
	attrs := old.Clone()
	attrs[key] = value
	r.setState(r.route, attrs)

	if r.route == nil {
		return
	}
	stack := r.attributesHistory[r.route.Name()]
	if n := len(stack); n > 0 && AttributesEqual(stack[n-1], old) {
		stack[n-1] = r.attributes.Clone()
	}
}

// isDefault reports whether v is the route default or binding default of
// the bound attribute.
func (r *Router) isDefault(b *binding, v any) bool {
	if r.route != nil {
		if d, ok := r.route.AttributeDefaults()[b.key]; ok && AttributesEqual(d, v) {
			return true
		}
	}
	return b.hasDefault && AttributesEqual(b.def, v)
}

// pull writes a cell value into the router, replacing the history entry.
func (r *Router) pull(b *binding, value any) {
	attrs := r.attributes.Clone()
	attrs[b.key] = value

	if r.route == nil {
		r.setState(nil, attrs)
		return
	}
	if err := r.commit(r.route, r.resolve(r.route, attrs), history.ModeReplace, false); err != nil {
		r.logger.Warn("binding pull failed", "attribute", b.key, "error", err)
	}
}

// pushToCell writes a router value into the bound cell if it differs.
func (r *Router) pushToCell(b *binding, value any) {
	if value == nil && b.hasDefault {
		value = b.def
	}
	value = r.coerce(b, value)

	current := b.cell.Get()
	if value == nil && isZero(current) {
		return
	}
	if AttributesEqual(value, current) {
		return
	}

	prev := r.syncing
	r.syncing = true
	defer func() { r.syncing = prev }()

	if err := b.cell.Set(value); err != nil {
		r.logger.Warn("binding update failed", "attribute", b.key, "error", err)
	}
}

// syncBindings pushes the current attributes into every bound cell.
func (r *Router) syncBindings() {
	keys := make([]string, 0, len(r.bindings))
	for k := range r.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if b, ok := r.bindings[k]; ok {
			r.pushToCell(b, r.attributes.Get(k))
		}
	}
}

// coerceBound converts URL strings of bound attributes into the binding's
// type: booleans for boolean bindings, times for cells holding a time.
func (r *Router) coerceBound(attrs Attributes) {
	for k, b := range r.bindings {
		if v, ok := attrs[k]; ok {
			attrs[k] = r.coerce(b, v)
		}
	}
}

func (r *Router) coerce(b *binding, v any) any {
	if v == nil {
		return nil
	}
	if b.boolean {
		if parsed, ok := urlparam.ParseBool(v); ok {
			return parsed
		}
		return v
	}
	if _, isTime := b.cell.Get().(time.Time); isTime {
		if s, ok := v.(string); ok {
			if t, err := urlparam.ParseDate(s); err == nil {
				return t
			}
		}
	}
	return v
}

// interceptBinding lets the route hooks veto a cell change.
func (r *Router) interceptBinding(b *binding, next any) bool {
	if r.syncing || r.route == nil || r.bindings[b.key] != b {
		return true
	}
	attrs := r.attributes.Clone()
	setAttribute(attrs, b.key, next)
	return r.runRouteHooks(r.route, r.resolve(r.route, attrs), r.Navigate)
}

// observeBinding commits a cell change as a new history entry.
func (r *Router) observeBinding(b *binding, value any) {
	if r.syncing || r.bindings[b.key] != b {
		return
	}

	name := ""
	if r.route != nil {
		name = r.route.Name()
	}
	done := r.instr.StartNavigation(ActionBinding, name)

	attrs := r.attributes.Clone()
	setAttribute(attrs, b.key, value)

	if r.route == nil {
		r.setState(nil, attrs)
		done(OutcomeCommitted, nil)
		return
	}

	if err := r.commit(r.route, r.resolve(r.route, attrs), history.ModePush, true); err != nil {
		r.logger.Warn("binding commit failed", "attribute", b.key, "error", err)
		done(OutcomeFailed, err)
		return
	}
	done(OutcomeCommitted, nil)
}

// setAttribute stores value under key; nil, "" and the zero time remove
// the key.
func setAttribute(attrs Attributes, key string, value any) {
	if t, ok := value.(time.Time); ok && t.IsZero() {
		value = nil
	}
	if value == nil || value == "" {
		delete(attrs, key)
		return
	}
	attrs[key] = value
}

// isZero reports whether v is nil, the zero value of its type or an empty
// collection.
func isZero(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return rv.IsZero()
}
