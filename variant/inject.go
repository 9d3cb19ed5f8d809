package variant

import (
	"fmt"
	"reflect"

	"extensible-data/field"
	"extensible-data/internal/common"
)

// Inject builds a variant S holding the alternative key. payload is either
// a value assignable to the payload type or a non-nil pointer to the
// payload type; a pointer is stored as is.
func Inject[S any](key string, payload any) (S, error) {
	var zero S

	s, _, err := lift[S](reflect.Value{})
	if err != nil {
		return zero, err
	}

	i, err := s.Require(key)
	if err != nil {
		return zero, err
	}

	want := s.Field(i).Type

	rv := reflect.ValueOf(payload)
	switch {
	case !rv.IsValid():
		return zero, fmt.Errorf("%w: %s.%s given nil", ErrNilPayload, s.Name(), key)
	case rv.Type() == reflect.PointerTo(want):
		if rv.IsNil() {
			return zero, fmt.Errorf("%w: %s.%s given nil pointer", ErrNilPayload, s.Name(), key)
		}
	case rv.Type().AssignableTo(want):
		v := reflect.New(want).Elem()
		v.Set(rv)
		rv = v
	default:
		return zero, fmt.Errorf("%w: %s.%s wants %s, got %s",
			ErrTypeMismatch, s.Name(), key, common.TypeName(want), common.TypeName(rv.Type()))
	}

	return injectAt[S](s, i, rv), nil
}

// injectAt sets alternative i of a fresh S. payload has already been checked
// to be the payload type or a pointer to it.
func injectAt[S any](s *field.Schema, i int, payload reflect.Value) S {
	var out S

	f := reflect.ValueOf(&out).Elem().Field(s.Field(i).Index)
	if payload.Kind() == reflect.Ptr && payload.Type().Elem() == s.Field(i).Type {
		f.Set(payload)
		return out
	}

	ptr := reflect.New(s.Field(i).Type)
	ptr.Elem().Set(payload)
	f.Set(ptr)

	return out
}
