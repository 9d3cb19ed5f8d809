package field

//go:generate go tool stringer -type=Kind,State -linecomment -output=enum_string.go

// Kind says how a Go struct is interpreted.
type Kind int

const (
	KindRecord  Kind = iota // record
	KindVariant             // variant
)

// State is the presence of one slot of a partial record or variant.
//
// Record slots move between StateAbsent and StatePresent. Variant slots
// start StatePresent (inhabitable) and move to StateVoid once tried; a void
// slot never holds a value again.
type State int

const (
	StateAbsent  State = iota // absent
	StatePresent              // present
	StateVoid                 // void
)
