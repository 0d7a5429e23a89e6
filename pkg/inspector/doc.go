// Package inspector serves a route registry over HTTP and drives live
// router sessions over WebSocket.
//
// Each WebSocket connection gets its own in-memory history and Router.
// Clients send JSON commands and receive the router state after every
// command:
//
//	-> {"action": "navigate", "route": "snippet_edit", "attributes": {"id": 5}}
//	<- {"type": "state", "route": "snippet_edit", "url": "/snippets/5", ...}
//
// Supported actions are navigate, redirect, restore, location (push a raw
// URL as if typed into the address bar), back, forward and reload.
//
// HTTP endpoints:
//
//	GET /routes            registered routes in registration order
//	GET /routes/{name}     one route
//	GET /match?url=...     the state a router would reach for a URL
//	GET /url/{name}?a=b    the URL generated for a route and attributes
//	GET /metrics           Prometheus metrics
//	GET /ws                WebSocket sessions
package inspector
