// Package component wires behaviour to contexts through lookup tables.
//
// A Table maps component names to providers, plain functions checked with
// reflect when they are registered:
//
//	t := component.NewTable("person")
//	_ = t.DelegateFunc("Greeter", greetHello)          // func(component.Context) (string, error)
//	_ = component.UseFields(t, map[component.Name]string{"FirstName": "first_name"})
//	t.Freeze()
//
//	s, _ := component.Call[string](t, "Greeter", Person{FirstName: "John"})
//
// A provider asking for a Context receives the table along with the value,
// so it can Use other components of the same context. Providers taking an
// interface are generic: they serve every context type satisfying it.
//
// Tables can also be described in YAML and built against a Catalog of
// named providers with LoadWiring and Build.
package component
