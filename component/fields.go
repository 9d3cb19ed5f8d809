package component

import (
	"fmt"
	"maps"
	"slices"

	"extensible-data/record"
)

// FieldPrefix marks a wiring entry that reads a context field instead of
// naming a catalog provider, e.g. "field:first_name".
const FieldPrefix = "field:"

// UseField returns a generic provider that reads the field key from any
// record context and asserts it to V.
func UseField[V any](key string) Provider {
	return MustProvider(FieldPrefix+key, func(ctx any) (V, error) {
		return record.Get[V](ctx, key)
	})
}

// UseFields wires every component in getters to a field getter, so a
// context implements e.g. "FirstName" by reading its first_name field.
func UseFields(t *Table, getters map[Name]string) error {
	for _, comp := range slices.Sorted(maps.Keys(getters)) {
		if err := t.Delegate(comp, UseField[any](getters[comp])); err != nil {
			return fmt.Errorf("use fields: %w", err)
		}
	}

	return nil
}
