package field

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"

	"extensible-data/internal/common"
	"extensible-data/internal/logging"
	"extensible-data/internal/match"
)

// TagName is the struct tag that overrides a field key.
const TagName = "field"

var (
	ErrNotStruct    = errors.New("type is not a struct")
	ErrNotVariant   = errors.New("variant alternative is not a pointer to its payload")
	ErrDuplicateKey = errors.New("two fields share one key")
	ErrUnknownField = errors.New("unknown field")
)

// Descriptor pairs a field key with its declared value type.
type Descriptor struct {
	Key   string       // e.g. "first_name"
	Name  string       // Go field name, e.g. "FirstName"
	Index int          // struct field index
	Type  reflect.Type // value type; for variants the payload type (pointer element)
}

// Schema is the ordered descriptor list of one record or variant type.
type Schema struct {
	kind   Kind
	typ    reflect.Type
	fields []Descriptor
	byKey  map[string]int
}

// Kind returns whether the schema describes a record or a variant.
func (s *Schema) Kind() Kind { return s.kind }

// Type returns the described Go type.
func (s *Schema) Type() reflect.Type { return s.typ }

// Name returns a short printable name of the described type.
func (s *Schema) Name() string { return common.TypeName(s.typ) }

// Len returns the number of fields or alternatives.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the i-th descriptor in declaration order.
func (s *Schema) Field(i int) Descriptor { return s.fields[i] }

// Fields returns a copy of the descriptor list in declaration order.
func (s *Schema) Fields() []Descriptor {
	return append([]Descriptor(nil), s.fields...)
}

// Keys returns every key in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, d := range s.fields {
		keys[i] = d.Key
	}

	return keys
}

// Index returns the position of key in the descriptor list.
func (s *Schema) Index(key string) (int, bool) {
	i, ok := s.byKey[key]
	return i, ok
}

// Lookup returns the descriptor for key.
func (s *Schema) Lookup(key string) (Descriptor, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Descriptor{}, false
	}

	return s.fields[i], true
}

// Require returns the position of key, or an ErrUnknownField error that
// suggests the closest known key.
func (s *Schema) Require(key string) (int, error) {
	if i, ok := s.byKey[key]; ok {
		return i, nil
	}

	if hint, ok := match.Suggest(key, s.Keys()); ok {
		return -1, fmt.Errorf("%w %q on %s (did you mean %q?)", ErrUnknownField, key, s.Name(), hint)
	}

	return -1, fmt.Errorf("%w %q on %s", ErrUnknownField, key, s.Name())
}

// String lists the schema as "Name{key:type, ...}".
func (s *Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, d := range s.fields {
		parts[i] = d.Key + ":" + common.TypeName(d.Type)
	}

	sep := ", "
	if s.kind == KindVariant {
		sep = " | "
	}

	return s.Name() + "{" + strings.Join(parts, sep) + "}"
}

type cacheKey struct {
	typ  reflect.Type
	kind Kind
}

var cache sync.Map // cacheKey -> *Schema

// Describe returns the schema of t interpreted as kind. Pointer types are
// dereferenced. Results are cached per type and kind.
func Describe(t reflect.Type, kind Kind) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, common.TypeName(t))
	}

	ck := cacheKey{typ: t, kind: kind}
	if s, ok := cache.Load(ck); ok {
		return s.(*Schema), nil
	}

	s, err := build(t, kind)
	if err != nil {
		return nil, err
	}

	actual, loaded := cache.LoadOrStore(ck, s)
	if !loaded {
		logging.Named("field").Debug("schema derived",
			zap.String("kind", kind.String()),
			zap.Stringer("schema", s))
	}

	return actual.(*Schema), nil
}

// DescribeRecord is Describe with KindRecord.
func DescribeRecord(t reflect.Type) (*Schema, error) { return Describe(t, KindRecord) }

// DescribeVariant is Describe with KindVariant.
func DescribeVariant(t reflect.Type) (*Schema, error) { return Describe(t, KindVariant) }

// RecordOf returns the record schema of T.
func RecordOf[T any]() (*Schema, error) { return DescribeRecord(reflect.TypeFor[T]()) }

// VariantOf returns the variant schema of S.
func VariantOf[S any]() (*Schema, error) { return DescribeVariant(reflect.TypeFor[S]()) }

// KeyOf returns the key of a struct field and whether the field takes part
// in a schema at all.
func KeyOf(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}

	tag, hasTag := sf.Tag.Lookup(TagName)
	if hasTag {
		name, _, _ := strings.Cut(tag, ",")
		switch name {
		case "-":
			return "", false
		case "":
		default:
			return name, true
		}
	}

	return match.FieldKey(sf.Name), true
}

func build(t reflect.Type, kind Kind) (*Schema, error) {
	s := &Schema{
		kind:  kind,
		typ:   t,
		byKey: make(map[string]int, t.NumField()),
	}

	for i := range t.NumField() {
		sf := t.Field(i)

		key, ok := KeyOf(sf)
		if !ok {
			continue
		}

		if prev, dup := s.byKey[key]; dup {
			return nil, fmt.Errorf("%w: %s.%s and %s.%s both map to %q",
				ErrDuplicateKey, s.Name(), s.fields[prev].Name, s.Name(), sf.Name, key)
		}

		valueType := sf.Type
		if kind == KindVariant {
			if sf.Type.Kind() != reflect.Ptr || sf.Type.Elem().Kind() == reflect.Ptr {
				return nil, fmt.Errorf("%w: %s.%s has type %s",
					ErrNotVariant, s.Name(), sf.Name, common.TypeName(sf.Type))
			}

			valueType = sf.Type.Elem()
		}

		s.byKey[key] = len(s.fields)
		s.fields = append(s.fields, Descriptor{
			Key:   key,
			Name:  sf.Name,
			Index: i,
			Type:  valueType,
		})
	}

	return s, nil
}
