// Package field describes the static shape of record and variant types.
//
// A record is any Go struct; every exported field is one record field.
// A variant is a Go struct whose exported fields are all pointers; each
// field is one alternative and the pointed-to type is its payload:
//
//	type Shape struct {
//		Circle    *Circle
//		Rectangle *Rectangle
//	}
//
// Fields are addressed by key: the `field:"..."` struct tag when present,
// otherwise the Go field name in snake case. A `field:"-"` tag hides a field.
//
// Schemas are derived with reflect once per type and cached; the cache is
// safe for concurrent use.
package field
