// Package router implements a state-driven navigation engine on top of a
// route registry and a history adapter.
//
// A Router holds the active route and its attributes. Programmatic
// navigation resolves a route by name, merges attributes from the caller,
// attribute hooks and route defaults, lets the registered route hooks veto
// the transition and finally writes the generated URL to the history:
//
//	reg := route.NewRegistry()
//	reg.Add(route.MustNew(route.Definition{
//	    Name: "snippet",
//	    View: "form",
//	    Path: "/snippets/:id",
//	    AttributeDefaults: map[string]any{"locale": "en"},
//	}))
//
//	r := router.New(reg, history.NewMemory("/"))
//	defer r.Close()
//
//	_ = r.Navigate("snippet", router.Attributes{"id": 5, "page": 2})
//	r.URL() // "/snippets/5?page=2"
//
// Location changes reported by the history (back, forward, manual edits)
// are parsed back into a route and attributes without running route hooks.
//
// # Precedence
//
// Attributes resolve in this order, highest first: explicit navigation
// arguments (or URL values), updateAttributesHook output, route defaults,
// binding defaults. A nil value counts as absent at every level.
//
// # Bindings
//
// Bind links an attribute to an Observable cell in both directions. Router
// changes are written to the cell and cell changes are committed as new
// history entries. Values are only propagated when they differ
// structurally, see AttributesEqual.
//
// # Concurrency
//
// A Router is not safe for concurrent use. All operations, hooks and
// history callbacks run synchronously on the caller's goroutine; give
// every session its own Router.
package router
