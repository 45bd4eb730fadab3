package textmetrics

import (
	"strings"
)

// TextSimilarity measures character-level similarity of two texts with the
// Ratcliff/Obershelp algorithm after lowercasing. Best-effort: it never
// fails, returning 0.0 when a score cannot be computed.
func TextSimilarity(text1, text2 string) float64 {
	a := []rune(strings.ToLower(text1))
	b := []rune(strings.ToLower(text2))
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matched := matchingRunes(a, b)
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// matchingRunes sums the lengths of the longest matching blocks, recursing
// into the unmatched regions on either side.
func matchingRunes(a, b []rune) int {
	aStart, bStart, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingRunes(a[:aStart], b[:bStart])
	total += matchingRunes(a[aStart+size:], b[bStart+size:])
	return total
}

// longestMatch finds the leftmost longest common substring via a rolling
// dynamic-programming row.
func longestMatch(a, b []rune) (aIdx, bIdx, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// positions of each rune in b
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	best := 0
	bestA, bestB := 0, 0
	lengths := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int)
		for _, j := range b2j[r] {
			k := lengths[j-1] + 1
			next[j] = k
			if k > best {
				best = k
				bestA = i - k + 1
				bestB = j - k + 1
			}
		}
		lengths = next
	}
	return bestA, bestB, best
}

// WordOverlap returns the Jaccard similarity of the lowercase word sets of
// two texts. An empty text on either side yields 0.0.
func WordOverlap(text1, text2 string) float64 {
	words1 := wordSet(text1)
	words2 := wordSet(text2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range words1 {
		if words2[w] {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}
