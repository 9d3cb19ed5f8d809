// Package match derives field keys from Go identifiers and ranks
// near-miss keys for error suggestions.
//
// Key functions:
//   - FieldKey: converts a Go field name into its snake_case key
//   - NormalizeIdent: folds an identifier for fuzzy comparison
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest known key for an unknown one
package match
