package common

// Unpack2 returns the first two elements of s, leaving missing ones zero.
func Unpack2[S ~[]E, E any](s S) (first, second E) {
	switch len(s) {
	case 0:
	case 1:
		first = s[0]
	default:
		first, second = s[0], s[1]
	}

	return first, second
}
