package variant

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"extensible-data/field"
	"extensible-data/internal/common"
	"extensible-data/internal/diagnostic"
	"extensible-data/internal/logging"
)

var ErrNotSubset = errors.New("alternatives are not a subset of the target")

// pair identifies a cast between two variant types: every alternative of
// sub must exist in super with an identical payload type.
type pair struct{ sub, super reflect.Type }

// castPlan maps each alternative of Sub to its position in Super.
type castPlan struct {
	sub, super *field.Schema
	index      []int
}

type planResult struct {
	plan *castPlan
	err  error
}

var plans sync.Map // pair -> planResult

// planFor compiles the subset check for a pair once; later calls reuse the
// cached plan or the cached error.
func planFor(sub, super reflect.Type) (*castPlan, error) {
	key := pair{sub: sub, super: super}
	if r, ok := plans.Load(key); ok {
		return r.(planResult).plan, r.(planResult).err
	}

	p, err := compile(sub, super)

	r, loaded := plans.LoadOrStore(key, planResult{plan: p, err: err})
	if !loaded {
		log := logging.Named("variant")
		if err != nil {
			log.Debug("cast rejected", zap.Stringer("sub", sub), zap.Stringer("super", super), zap.Error(err))
		} else {
			log.Debug("cast plan compiled", zap.Stringer("sub", sub), zap.Stringer("super", super), zap.Ints("index", p.index))
		}
	}

	return r.(planResult).plan, r.(planResult).err
}

func compile(sub, super reflect.Type) (*castPlan, error) {
	subSchema, err := field.DescribeVariant(sub)
	if err != nil {
		return nil, err
	}

	superSchema, err := field.DescribeVariant(super)
	if err != nil {
		return nil, err
	}

	if subSchema.Type() != sub || superSchema.Type() != super {
		return nil, fmt.Errorf("%w: %s <= %s (use the struct types, not pointers)",
			field.ErrNotStruct, common.TypeName(sub), common.TypeName(super))
	}

	p := &castPlan{sub: subSchema, super: superSchema, index: make([]int, subSchema.Len())}

	var diags diagnostic.Diagnostics

	subject := subSchema.Name() + " <= " + superSchema.Name()

	for i, d := range subSchema.Fields() {
		j, ok := superSchema.Index(d.Key)
		if !ok {
			diags.AddError(ErrNotSubset, "missing_alternative", subject, d.Key,
				"alternative does not exist in "+superSchema.Name())

			continue
		}

		if got := superSchema.Field(j).Type; got != d.Type {
			diags.AddError(ErrNotSubset, "payload_mismatch", subject, d.Key,
				fmt.Sprintf("payload %s differs from %s", common.TypeName(d.Type), common.TypeName(got)))

			continue
		}

		p.index[i] = j
	}

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

// CanUpcast reports whether every alternative of S exists in T with the
// same payload type.
func CanUpcast[T, S any]() bool {
	_, err := planFor(reflect.TypeFor[S](), reflect.TypeFor[T]())
	return err == nil
}

// Upcast converts v into the wider variant T, keeping tag and payload.
// The subset check runs once per type pair; after it passes the conversion
// cannot fail.
func Upcast[T, S any](v S) (T, error) {
	var zero T

	p, err := planFor(reflect.TypeFor[S](), reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	e, err := ToExtractor(v)
	if err != nil {
		return zero, err
	}

	for i := range p.sub.Len() {
		payload, rest, ok, err := e.extractAt(i)
		if err != nil {
			return zero, err
		}

		if ok {
			return injectAt[T](p.super, p.index[i], payload), nil
		}

		e = rest
	}

	return FinalizeExtract[T](e), nil
}

// Downcast converts v into the narrower variant T. It tries every
// alternative of T against v; on the first match it returns the T with ok
// set. Otherwise the remainder still holds v's own tag and payload, with
// every alternative of T void, ready for another DowncastRest.
func Downcast[T, S any](v S) (T, Extractor[S], bool, error) {
	e, err := ToExtractor(v)
	if err != nil {
		var zero T
		return zero, e, false, err
	}

	return DowncastRest[T](e)
}

// DowncastRest continues a downcast from a remainder. Alternatives that are
// already void are skipped, so a remainder can be offered to several
// disjoint or overlapping targets in turn.
func DowncastRest[T, S any](e Extractor[S]) (T, Extractor[S], bool, error) {
	var zero T

	if e.schema == nil {
		return zero, e, false, ErrConsumed
	}

	p, err := planFor(reflect.TypeFor[T](), reflect.TypeFor[S]())
	if err != nil {
		return zero, e, false, err
	}

	for j := range p.sub.Len() {
		i := p.index[j]
		if e.void[i] {
			continue
		}

		payload, rest, ok, err := e.extractAt(i)
		if err != nil {
			return zero, e, false, err
		}

		if ok {
			return injectAt[T](p.sub, j, payload), Extractor[S]{}, true, nil
		}

		e = rest
	}

	return zero, e, false, nil
}
