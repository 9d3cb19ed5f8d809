package record

import (
	"fmt"
	"reflect"

	"extensible-data/field"
	"extensible-data/internal/common"
	"extensible-data/internal/diagnostic"
)

// move is one planned take-then-build step of a merge.
type move struct {
	src, dst int
}

// Merge moves every present field of src whose key also exists in dst.
// It returns the new target and the residue of src, in which each moved
// field is absent again. Source fields without a counterpart in dst stay in
// the residue; target fields not supplied by src stay as they were.
//
// A source field that lands on a target field which is already present, or
// whose type is not assignable to the target's, is a precondition violation.
// The whole merge is checked up front: on error nothing moves and both
// inputs are returned unchanged.
func Merge[T, S any](dst Partial[T], src Partial[S]) (Partial[T], Partial[S], error) {
	dst, err := dst.resolve()
	if err != nil {
		return dst, src, err
	}

	src, err = src.resolve()
	if err != nil {
		return dst, src, err
	}

	moves, err := plan(dst.schema, dst.slots, src.schema, src.slots)
	if err != nil {
		return dst, src, err
	}

	for _, m := range moves {
		var rv reflect.Value

		rv, src, err = src.take(m.src)
		if err != nil {
			return dst, src, err
		}

		dst, err = dst.build(m.dst, rv)
		if err != nil {
			return dst, src, err
		}
	}

	return dst, src, nil
}

// BuildFrom copies every field of the complete record src that dst also
// declares. It is Merge with src lifted by IntoBuilder; the residue is dropped.
func BuildFrom[T, S any](dst Partial[T], src S) (Partial[T], error) {
	from, err := IntoBuilder(src)
	if err != nil {
		return dst, err
	}

	out, _, err := Merge(dst, from)

	return out, err
}

// plan pairs source slots with target slots by key and checks every pair.
func plan(dst *field.Schema, dstSlots []slot, src *field.Schema, srcSlots []slot) ([]move, error) {
	var (
		moves []move
		diags diagnostic.Diagnostics
	)

	subject := src.Name() + "->" + dst.Name()

	for si := range src.Len() {
		if !srcSlots[si].present {
			continue
		}

		sd := src.Field(si)

		di, ok := dst.Index(sd.Key)
		if !ok {
			continue
		}

		dd := dst.Field(di)

		if dstSlots[di].present {
			diags.AddError(ErrFieldPresent, "overlapping_field", subject, sd.Key,
				"target field is already present")

			continue
		}

		if !sd.Type.AssignableTo(dd.Type) {
			diags.AddError(ErrTypeMismatch, "field_type_mismatch", subject, sd.Key,
				fmt.Sprintf("%s is not assignable to %s", common.TypeName(sd.Type), common.TypeName(dd.Type)))

			continue
		}

		moves = append(moves, move{src: si, dst: di})
	}

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return moves, nil
}
