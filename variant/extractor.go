package variant

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"extensible-data/field"
	"extensible-data/internal/common"
	"extensible-data/internal/logging"
)

var (
	ErrNotSingleAlternative = errors.New("variant value must hold exactly one alternative")
	ErrAlreadyVoid          = errors.New("alternative was already tried")
	ErrConsumed             = errors.New("extractor is empty or was consumed by a match")
	ErrTypeMismatch         = errors.New("payload type does not match alternative")
	ErrUnreachable          = errors.New("unreachable: uninhabited remainder discharged")
	ErrNilPayload           = errors.New("payload is nil")
)

// Extractor is a variant value of type S being taken apart. Every
// alternative of S starts inhabitable; each failed ExtractField marks the
// tried alternative void, so a remainder has one fewer inhabitable
// alternative than its input. The alternative the value actually holds is
// never voided: trying it yields the payload.
//
// Extractors are immutable snapshots. The zero value is an empty extractor
// on which every operation fails with ErrConsumed.
type Extractor[S any] struct {
	schema *field.Schema
	active int
	value  reflect.Value // payload copy, or the payload pointer when byRef
	byRef  bool
	void   []bool
}

// ToExtractor lifts a variant value into an extractor. Extracted payloads
// are copies; v is not retained.
func ToExtractor[S any](v S) (Extractor[S], error) {
	s, rv, err := lift[S](reflect.ValueOf(v))
	if err != nil {
		return Extractor[S]{}, err
	}

	e, err := newExtractor[S](s, rv)
	if err != nil {
		return e, err
	}

	payload := reflect.New(e.value.Type().Elem()).Elem()
	payload.Set(e.value.Elem())
	e.value = payload

	return e, nil
}

// ToRefExtractor lifts a borrowed variant value. Extracted payloads are the
// pointers held by *v, so v survives the extraction and sees any changes a
// handler makes through them.
func ToRefExtractor[S any](v *S) (Extractor[S], error) {
	if v == nil {
		return Extractor[S]{}, fmt.Errorf("%w: nil %s", ErrNotSingleAlternative, common.TypeName(reflect.TypeFor[S]()))
	}

	s, rv, err := lift[S](reflect.ValueOf(v).Elem())
	if err != nil {
		return Extractor[S]{}, err
	}

	e, err := newExtractor[S](s, rv)
	if err != nil {
		return e, err
	}

	e.byRef = true

	return e, nil
}

func lift[S any](rv reflect.Value) (*field.Schema, reflect.Value, error) {
	s, err := field.VariantOf[S]()
	if err != nil {
		return nil, rv, err
	}

	if t := reflect.TypeFor[S](); s.Type() != t {
		return nil, rv, fmt.Errorf("%w: %s (use the struct type, not a pointer)", field.ErrNotStruct, common.TypeName(t))
	}

	return s, rv, nil
}

func newExtractor[S any](s *field.Schema, rv reflect.Value) (Extractor[S], error) {
	active := -1

	var set []string

	for i := range s.Len() {
		if f := rv.Field(s.Field(i).Index); !f.IsNil() {
			active = i
			set = append(set, s.Field(i).Key)
		}
	}

	if len(set) != 1 {
		return Extractor[S]{}, fmt.Errorf("%w: %s has %d set (%s)",
			ErrNotSingleAlternative, s.Name(), len(set), strings.Join(set, ", "))
	}

	return Extractor[S]{
		schema: s,
		active: active,
		value:  rv.Field(s.Field(active).Index),
		void:   make([]bool, s.Len()),
	}, nil
}

// ExtractField tries the alternative key. On a match it returns the payload
// with ok set; the returned extractor is then the zero value. On a mismatch
// it returns the remainder, in which key is void. Trying a key that is
// already void is ErrAlreadyVoid.
func (e Extractor[S]) ExtractField(key string) (value any, rest Extractor[S], ok bool, err error) {
	if e.schema == nil {
		return nil, e, false, ErrConsumed
	}

	i, err := e.schema.Require(key)
	if err != nil {
		return nil, e, false, err
	}

	rv, rest, ok, err := e.extractAt(i)
	if !ok || err != nil {
		return nil, rest, ok, err
	}

	return rv.Interface(), rest, true, nil
}

func (e Extractor[S]) extractAt(i int) (reflect.Value, Extractor[S], bool, error) {
	if e.void[i] {
		return reflect.Value{}, e, false, fmt.Errorf("%w: %s.%s", ErrAlreadyVoid, e.schema.Name(), e.schema.Field(i).Key)
	}

	if i == e.active {
		return e.value, Extractor[S]{}, true, nil
	}

	void := make([]bool, len(e.void))
	copy(void, e.void)
	void[i] = true

	rest := e
	rest.void = void

	return reflect.Value{}, rest, false, nil
}

// Extract is ExtractField with the payload asserted to V. For by-value
// extractors V is the payload type; for by-reference ones it is a pointer
// to it.
func Extract[V, S any](e Extractor[S], key string) (V, Extractor[S], bool, error) {
	var zero V

	v, rest, ok, err := e.ExtractField(key)
	if !ok || err != nil {
		return zero, rest, ok, err
	}

	out, isV := v.(V)
	if !isV {
		return zero, e, false, fmt.Errorf("%w: %s holds %T, not %s",
			ErrTypeMismatch, key, v, common.TypeName(reflect.TypeFor[V]()))
	}

	return out, rest, true, nil
}

// Schema returns the variant schema, or nil for an empty extractor.
func (e Extractor[S]) Schema() *field.Schema { return e.schema }

// Tag returns the key of the alternative the value holds.
func (e Extractor[S]) Tag() string {
	if e.schema == nil {
		return ""
	}

	return e.schema.Field(e.active).Key
}

// Value returns the payload the value holds without consuming it.
func (e Extractor[S]) Value() any {
	if e.schema == nil {
		return nil
	}

	return e.value.Interface()
}

// ByRef reports whether payloads are handed out as pointers into the
// original value.
func (e Extractor[S]) ByRef() bool { return e.byRef }

// State returns StatePresent for an inhabitable alternative and StateVoid
// for one that was tried.
func (e Extractor[S]) State(key string) (field.State, error) {
	if e.schema == nil {
		return field.StateVoid, ErrConsumed
	}

	i, err := e.schema.Require(key)
	if err != nil {
		return field.StateVoid, err
	}

	if e.void[i] {
		return field.StateVoid, nil
	}

	return field.StatePresent, nil
}

// Inhabited returns the keys not yet voided, in declaration order.
func (e Extractor[S]) Inhabited() []string {
	if e.schema == nil {
		return nil
	}

	var keys []string

	for i, v := range e.void {
		if !v {
			keys = append(keys, e.schema.Field(i).Key)
		}
	}

	return keys
}

// Exhausted reports whether every alternative is void. An extractor built
// from a valid value never gets there.
func (e Extractor[S]) Exhausted() bool {
	return e.schema != nil && len(e.Inhabited()) == 0
}

// String renders the extractor as "Name::tag(payload) void[a, b]".
func (e Extractor[S]) String() string {
	if e.schema == nil {
		return common.TypeName(reflect.TypeFor[S]()) + "::<empty>"
	}

	var voided []string

	for i, v := range e.void {
		if v {
			voided = append(voided, e.schema.Field(i).Key)
		}
	}

	payload := e.value.Interface()
	if e.byRef {
		payload = e.value.Elem().Interface()
	}

	return fmt.Sprintf("%s::%s(%+v) void[%s]", e.schema.Name(), e.Tag(), payload, strings.Join(voided, ", "))
}

// FinalizeExtract discharges a remainder that a complete extraction fold has
// left behind. A fold that tried every alternative never reaches it, so the
// call always panics; the panic value wraps ErrUnreachable and names the
// alternative that was never handled.
func FinalizeExtract[T, S any](rest Extractor[S]) T {
	var err error

	switch {
	case rest.schema == nil:
		err = fmt.Errorf("%w: %s extractor is empty", ErrUnreachable, common.TypeName(reflect.TypeFor[S]()))
	case rest.Exhausted():
		err = fmt.Errorf("%w: %s has no inhabitable alternative", ErrUnreachable, rest.schema.Name())
	default:
		err = fmt.Errorf("%w: %s still holds %q (untried: %s)",
			ErrUnreachable, rest.schema.Name(), rest.Tag(), strings.Join(rest.Inhabited(), ", "))
	}

	logging.Named("variant").Error("unreachable remainder discharged", zap.Error(err))
	panic(err)
}
