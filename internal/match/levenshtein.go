package match

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions needed to turn
// one into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// keep a as the shorter string so the rows stay small
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity returns a score between 0 and 1 for two identifiers after
// normalization; 1 means they normalize to the same string.
func Similarity(a, b string) float64 {
	na, nb := NormalizeIdent(a), NormalizeIdent(b)
	if len(na) == 0 && len(nb) == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(na, nb))/float64(max(len(na), len(nb)))
}

// SuggestThreshold is the minimum Similarity a candidate needs to be offered
// as a suggestion.
const SuggestThreshold = 0.5

// Suggest returns the candidate closest to key, if any is similar enough.
// Ties keep the earliest candidate.
func Suggest(key string, candidates []string) (string, bool) {
	best, bestScore := "", 0.0

	for _, c := range candidates {
		if score := Similarity(key, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < SuggestThreshold {
		return "", false
	}

	return best, true
}
