// Package route defines navigable locations and the registry that holds them.
//
// A Route pairs a unique name with a path pattern, the identifier of the view
// that renders it, default attribute values and an opaque options bag. Path
// patterns use a slash-delimited grammar:
//
//	/snippets                 → static segment
//	/snippets/:id             → required parameter
//	/snippets/:id/:tab?       → optional trailing parameter
//
// Patterns are compiled once when the Route is created. A compiled Pattern
// matches a URL path into raw parameter strings and generates a path back
// from parameter strings, omitting trailing optional segments without a value.
//
// # Registry
//
// The Registry maps names to routes in insertion order and rejects duplicate
// names. Routes may name a parent; the registry links parent and children as
// routes are added so that options, attribute defaults and rerender
// attributes can be inherited down the tree:
//
//	reg := route.NewRegistry()
//	err := reg.AddCollection([]*route.Route{
//	    route.MustNew(route.Definition{Name: "snippet", View: "tabs", Path: "/snippets/:id"}),
//	    route.MustNew(route.Definition{Name: "snippet_details", View: "form", Path: "/snippets/:id/details", Parent: "snippet"}),
//	})
package route
