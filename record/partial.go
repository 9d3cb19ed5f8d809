package record

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"extensible-data/field"
	"extensible-data/internal/common"
)

var (
	ErrFieldPresent = errors.New("field is already present")
	ErrFieldAbsent  = errors.New("field is absent")
	ErrIncomplete   = errors.New("record is incomplete")
	ErrTypeMismatch = errors.New("value type does not match field type")
)

// Partial is a record of type T under construction: every field of T is
// individually present or absent. Partial values are immutable; every
// operation returns a new Partial and leaves its receiver untouched.
//
// The zero value is a valid empty builder.
type Partial[T any] struct {
	schema *field.Schema
	slots  []slot
}

type slot struct {
	present bool
	value   reflect.Value
}

// Builder returns a partial T with every field absent.
func Builder[T any]() (Partial[T], error) {
	s, err := field.RecordOf[T]()
	if err != nil {
		return Partial[T]{}, err
	}

	if t := reflect.TypeFor[T](); s.Type() != t {
		return Partial[T]{}, fmt.Errorf("%w: %s (use the struct type, not a pointer)",
			field.ErrNotStruct, common.TypeName(t))
	}

	return Partial[T]{schema: s, slots: make([]slot, s.Len())}, nil
}

// IntoBuilder converts a complete record into a partial one with every field
// present, so it can act as the source of a merge.
func IntoBuilder[T any](rec T) (Partial[T], error) {
	p, err := Builder[T]()
	if err != nil {
		return p, err
	}

	rv := reflect.ValueOf(rec)
	for i := range p.slots {
		p.slots[i] = slot{present: true, value: rv.Field(p.schema.Field(i).Index)}
	}

	return p, nil
}

// resolve returns a Partial whose schema is set, deriving it for the zero value.
func (p Partial[T]) resolve() (Partial[T], error) {
	if p.schema != nil {
		return p, nil
	}

	return Builder[T]()
}

// Schema returns the record schema of T.
func (p Partial[T]) Schema() (*field.Schema, error) {
	p, err := p.resolve()
	if err != nil {
		return nil, err
	}

	return p.schema, nil
}

// BuildField returns a copy of p with key set to value. The field must be
// absent and value assignable to its type; a nil value is accepted for
// nillable field types.
func (p Partial[T]) BuildField(key string, value any) (Partial[T], error) {
	p, err := p.resolve()
	if err != nil {
		return p, err
	}

	i, err := p.schema.Require(key)
	if err != nil {
		return p, err
	}

	rv, err := coerce(p.schema.Field(i), value)
	if err != nil {
		return p, fmt.Errorf("%s: %w", p.schema.Name(), err)
	}

	return p.build(i, rv)
}

// TakeField returns the value of key and a copy of p with that field absent.
func (p Partial[T]) TakeField(key string) (any, Partial[T], error) {
	p, err := p.resolve()
	if err != nil {
		return nil, p, err
	}

	i, err := p.schema.Require(key)
	if err != nil {
		return nil, p, err
	}

	rv, rest, err := p.take(i)
	if err != nil {
		return nil, p, err
	}

	return rv.Interface(), rest, nil
}

// Finalize copies every field into a T. All fields must be present;
// otherwise the error names each missing key. Fields excluded from the
// schema keep their zero value.
func (p Partial[T]) Finalize() (T, error) {
	var out T

	p, err := p.resolve()
	if err != nil {
		return out, err
	}

	if missing := p.Missing(); len(missing) > 0 {
		return out, fmt.Errorf("%w: %s is missing %s",
			ErrIncomplete, p.schema.Name(), strings.Join(missing, ", "))
	}

	rv := reflect.ValueOf(&out).Elem()
	for i, s := range p.slots {
		rv.Field(p.schema.Field(i).Index).Set(s.value)
	}

	return out, nil
}

// State reports whether key is present.
func (p Partial[T]) State(key string) (field.State, error) {
	p, err := p.resolve()
	if err != nil {
		return field.StateAbsent, err
	}

	i, err := p.schema.Require(key)
	if err != nil {
		return field.StateAbsent, err
	}

	if p.slots[i].present {
		return field.StatePresent, nil
	}

	return field.StateAbsent, nil
}

// Missing returns the absent keys in declaration order.
func (p Partial[T]) Missing() []string {
	return p.keys(false)
}

// Present returns the present keys in declaration order.
func (p Partial[T]) Present() []string {
	return p.keys(true)
}

// Complete reports whether Finalize would succeed.
func (p Partial[T]) Complete() bool {
	p, err := p.resolve()
	return err == nil && len(p.Missing()) == 0
}

func (p Partial[T]) keys(present bool) []string {
	p, err := p.resolve()
	if err != nil {
		return nil
	}

	var keys []string

	for i, s := range p.slots {
		if s.present == present {
			keys = append(keys, p.schema.Field(i).Key)
		}
	}

	return keys
}

// String renders p as "Name{key:value, key:<absent>}".
func (p Partial[T]) String() string {
	p, err := p.resolve()
	if err != nil {
		return common.TypeName(reflect.TypeFor[T]()) + "{<invalid>}"
	}

	parts := make([]string, len(p.slots))
	for i, s := range p.slots {
		val := "<absent>"
		if s.present {
			val = fmt.Sprint(s.value.Interface())
		}

		parts[i] = p.schema.Field(i).Key + ":" + val
	}

	return p.schema.Name() + "{" + strings.Join(parts, ", ") + "}"
}

func (p Partial[T]) build(i int, rv reflect.Value) (Partial[T], error) {
	if p.slots[i].present {
		return p, fmt.Errorf("%w: %s.%s", ErrFieldPresent, p.schema.Name(), p.schema.Field(i).Key)
	}

	if t := p.schema.Field(i).Type; rv.Type() != t {
		conv := reflect.New(t).Elem()
		conv.Set(rv)
		rv = conv
	}

	return p.with(i, slot{present: true, value: rv}), nil
}

func (p Partial[T]) take(i int) (reflect.Value, Partial[T], error) {
	s := p.slots[i]
	if !s.present {
		return reflect.Value{}, p, fmt.Errorf("%w: %s.%s", ErrFieldAbsent, p.schema.Name(), p.schema.Field(i).Key)
	}

	return s.value, p.with(i, slot{}), nil
}

// with copies p and replaces slot i.
func (p Partial[T]) with(i int, s slot) Partial[T] {
	slots := make([]slot, len(p.slots))
	copy(slots, p.slots)
	slots[i] = s

	return Partial[T]{schema: p.schema, slots: slots}
}

// coerce converts value into a reflect.Value of the field's type.
func coerce(d field.Descriptor, value any) (reflect.Value, error) {
	out := reflect.New(d.Type).Elem()

	if value == nil {
		if !nillable(d.Type) {
			return reflect.Value{}, fmt.Errorf("%w: %s wants %s, got nil",
				ErrTypeMismatch, d.Key, common.TypeName(d.Type))
		}

		return out, nil
	}

	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(d.Type) {
		return reflect.Value{}, fmt.Errorf("%w: %s wants %s, got %s",
			ErrTypeMismatch, d.Key, common.TypeName(d.Type), common.TypeName(rv.Type()))
	}

	out.Set(rv)

	return out, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
