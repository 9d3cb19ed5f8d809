package record

import (
	"fmt"
	"reflect"

	"extensible-data/field"
	"extensible-data/internal/common"
)

// Build is BuildField with a statically typed value.
func Build[T, V any](p Partial[T], key string, value V) (Partial[T], error) {
	return p.BuildField(key, value)
}

// Take is TakeField with the value asserted to V.
func Take[V, T any](p Partial[T], key string) (V, Partial[T], error) {
	var zero V

	v, rest, err := p.TakeField(key)
	if err != nil {
		return zero, p, err
	}

	out, ok := v.(V)
	if !ok && v != nil {
		return zero, p, fmt.Errorf("%w: %s holds %T, not %s",
			ErrTypeMismatch, key, v, common.TypeName(reflect.TypeFor[V]()))
	}

	return out, rest, nil
}

// Get reads one field of a complete record by key. rec may be a struct or a
// pointer to one. It is the by-key getter used by field-backed providers.
func Get[V any](rec any, key string) (V, error) {
	var zero V

	rv := reflect.ValueOf(rec)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return zero, fmt.Errorf("%w: nil %s", field.ErrNotStruct, common.TypeName(rv.Type()))
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return zero, fmt.Errorf("%w: <nil>", field.ErrNotStruct)
	}

	s, err := field.DescribeRecord(rv.Type())
	if err != nil {
		return zero, err
	}

	i, err := s.Require(key)
	if err != nil {
		return zero, err
	}

	v := rv.Field(s.Field(i).Index).Interface()

	out, ok := v.(V)
	if !ok && v != nil {
		return zero, fmt.Errorf("%w: %s.%s holds %s, not %s",
			ErrTypeMismatch, s.Name(), key, common.TypeName(s.Field(i).Type), common.TypeName(reflect.TypeFor[V]()))
	}

	return out, nil
}
