// Package history defines the history adapter the router reads locations
// from and writes URLs to, together with an in-memory implementation.
//
// A History owns the serialized URL. The router never inspects anything
// else: it calls Push or Replace with a URL it generated, and it re-parses
// whatever Location a listener reports after back/forward or manual edits.
//
//	h := history.NewMemory("/snippets/123?locale=de")
//	stop := h.Listen(func(loc history.Location) {
//	    fmt.Println("now at", loc)
//	})
//	defer stop()
//
//	h.Push("/snippets/456")
//	h.Back()
package history
