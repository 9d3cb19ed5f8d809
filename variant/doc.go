// Package variant takes tagged unions apart one alternative at a time and
// converts between structurally related unions.
//
// A variant type is a struct of payload pointers with exactly one set (see
// package field). ToExtractor lifts a value into an Extractor; each failed
// ExtractField returns a remainder with the tried alternative void, so a
// chain of attempts narrows until one matches:
//
//	e, _ := variant.ToExtractor(shape)
//	c, e, ok, _ := variant.Extract[Circle](e, "circle")
//	if !ok {
//		r, e, ok, _ = variant.Extract[Rectangle](e, "rectangle")
//	}
//
// Upcast widens a union into one that has every source alternative with the
// same payload type; it cannot fail once the pair passes its subset check.
// Downcast narrows and, when the value is one of the excluded alternatives,
// returns the remainder so the caller can try another target.
package variant
