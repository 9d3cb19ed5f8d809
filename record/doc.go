// Package record composes Go structs from independently built fragments.
//
// A Partial[T] mirrors the struct T with every field marked present or
// absent. Producers fill fields one at a time with BuildField, whole records
// are folded in with BuildFrom or Merge, and Finalize turns a complete
// Partial back into a T:
//
//	p, _ := record.Builder[Employee]()
//	p, _ = record.BuildFrom(p, Person{FirstName: "John", LastName: "Smith"})
//	p, _ = p.BuildField("employee_id", uint64(1))
//	e, _ := p.Finalize() // Employee{EmployeeID: 1, FirstName: "John", LastName: "Smith"}
//
// Building a present field, taking an absent one, and finalizing an
// incomplete record are reported as errors; no operation mutates its input.
package record
