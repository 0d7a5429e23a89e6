package router

import (
	"sort"

	"github.com/vango-dev/navigator/pkg/route"
)

// DefaultPriority is the priority of hooks added with AddUpdateRouteHook.
const DefaultPriority = 0

// NavigateFunc performs a navigation. Hooks receive the function of the
// action that triggered them, so a vetoing hook can replay the navigation
// later (for example after the user confirmed leaving a dirty form).
type NavigateFunc func(name string, attrs Attributes) error

// UpdateRouteHook is consulted before a navigation is committed. Returning
// false cancels the navigation.
//
// When the document is about to unload the hook is called with a nil
// route, nil attributes and a nil NavigateFunc; returning false then asks
// the user for confirmation.
type UpdateRouteHook func(r *route.Route, attrs Attributes, navigate NavigateFunc) bool

// UpdateAttributesHook contributes attribute values for a route. The
// returned values rank below explicit and URL attributes and above route
// defaults.
type UpdateAttributesHook func(r *route.Route, attrs Attributes) Attributes

type routeHookEntry struct {
	id int
	fn UpdateRouteHook
}

// hookBucket groups the hooks of one priority in registration order.
type hookBucket struct {
	priority int
	hooks    []routeHookEntry
}

type attributesHookEntry struct {
	id int
	fn UpdateAttributesHook
}

// AddUpdateRouteHook registers fn with DefaultPriority and returns a
// function that removes it.
func (r *Router) AddUpdateRouteHook(fn UpdateRouteHook) func() {
	return r.AddUpdateRouteHookWithPriority(fn, DefaultPriority)
}

// AddUpdateRouteHookWithPriority registers fn in the bucket of priority.
// Buckets run from the highest priority to the lowest, hooks inside a
// bucket in registration order.
func (r *Router) AddUpdateRouteHookWithPriority(fn UpdateRouteHook, priority int) func() {
	r.nextHookID++
	id := r.nextHookID

	i := sort.Search(len(r.routeHooks), func(i int) bool {
		return r.routeHooks[i].priority <= priority
	})
	if i == len(r.routeHooks) || r.routeHooks[i].priority != priority {
		r.routeHooks = append(r.routeHooks, hookBucket{})
		copy(r.routeHooks[i+1:], r.routeHooks[i:])
		r.routeHooks[i] = hookBucket{priority: priority}
	}
	r.routeHooks[i].hooks = append(r.routeHooks[i].hooks, routeHookEntry{id: id, fn: fn})

	return func() { r.removeRouteHook(priority, id) }
}

func (r *Router) removeRouteHook(priority, id int) {
	for i := range r.routeHooks {
		b := &r.routeHooks[i]
		if b.priority != priority {
			continue
		}
		for j, h := range b.hooks {
			if h.id != id {
				continue
			}
			b.hooks = append(b.hooks[:j:j], b.hooks[j+1:]...)
			if len(b.hooks) == 0 {
				r.routeHooks = append(r.routeHooks[:i:i], r.routeHooks[i+1:]...)
			}
			return
		}
		return
	}
}

// AddUpdateAttributesHook registers fn and returns a function that removes
// it. Attribute hooks run in registration order.
func (r *Router) AddUpdateAttributesHook(fn UpdateAttributesHook) func() {
	r.nextHookID++
	id := r.nextHookID
	r.attributesHooks = append(r.attributesHooks, attributesHookEntry{id: id, fn: fn})

	return func() {
		for i, h := range r.attributesHooks {
			if h.id == id {
				r.attributesHooks = append(r.attributesHooks[:i:i], r.attributesHooks[i+1:]...)
				return
			}
		}
	}
}

// runRouteHooks calls every route hook until one vetoes.
func (r *Router) runRouteHooks(rt *route.Route, attrs Attributes, navigate NavigateFunc) bool {
	for _, fn := range r.routeHookSnapshot() {
		var arg Attributes
		if attrs != nil {
			arg = attrs.Clone()
		}
		if !fn(rt, arg, navigate) {
			return false
		}
	}
	return true
}

// routeHookSnapshot flattens the buckets so hooks may add or remove hooks
// while running.
func (r *Router) routeHookSnapshot() []UpdateRouteHook {
	var out []UpdateRouteHook
	for _, b := range r.routeHooks {
		for _, h := range b.hooks {
			out = append(out, h.fn)
		}
	}
	return out
}

// runAttributesHooks collects the attribute hook output for rt. Every hook
// sees the higher-precedence attributes merged over the output of the
// hooks before it.
func (r *Router) runAttributesHooks(rt *route.Route, explicit Attributes) Attributes {
	out := Attributes{}
	hooks := append([]attributesHookEntry(nil), r.attributesHooks...)
	for _, h := range hooks {
		seen := explicit.Clone()
		mergeUnder(seen, out)

		for k, v := range h.fn(rt, seen) {
			if v == nil {
				delete(out, k)
				continue
			}
			out[k] = v
		}
	}
	return out
}
