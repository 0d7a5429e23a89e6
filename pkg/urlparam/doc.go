// Package urlparam converts router attribute values to and from their URL
// representation.
//
// Scalars:
//
//	"12345"    ↔ 12345      numeric strings that survive a round trip become numbers
//	"012345"   ↔ "012345"   leading zeros keep the value a string
//	true       → "true"     booleans are only parsed back for boolean bindings
//	time.Time  → "2024-03-01 14:30"
//
// Composite values use dot and bracket notation in the query string:
//
//	filter.firstName.eq=Max
//	filter.ids[0]=1&filter.ids[1]=2
//
// Empty and nil values are never emitted.
package urlparam
