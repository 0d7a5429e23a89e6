// Package signal provides observable value cells.
//
// A Signal holds one value. Writes that do not change the value are
// dropped; writes that do are first offered to interceptors, which may
// veto them, and then reported to observers:
//
//	page := signal.New(1)
//	page.Observe(func(v int) { fmt.Println("page", v) })
//	page.Intercept(func(next int) bool { return next > 0 })
//
//	page.Set(2)  // prints "page 2"
//	page.Set(-1) // vetoed
//
// Cell returns a type-erased view of a Signal. The router binds attributes
// to cells, converting URL values into the signal's type on the way in.
package signal
