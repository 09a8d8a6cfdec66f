package reconcile

import (
	"github.com/rowform/rowform/pkg/constants"
)

// levenshtein returns the edit distance between a and b, computed over
// runes with the two-row dynamic programming form.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Thresholds is the length-scaled edit-distance schedule for fuzzy
// matching. Inputs of up to ShortLength runes may differ by at most
// ShortDistance edits, inputs of up to MediumLength runes by
// MediumDistance, and anything longer by LongDistance.
type Thresholds struct {
	ShortLength  int
	MediumLength int

	ShortDistance  int
	MediumDistance int
	LongDistance   int
}

// DefaultThresholds returns the standard schedule. Short strings get a
// tight budget so that distinct four-letter values cannot cross-match.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShortLength:    constants.FuzzyShortLength,
		MediumLength:   constants.FuzzyMediumLength,
		ShortDistance:  constants.FuzzyShortDistance,
		MediumDistance: constants.FuzzyMediumDistance,
		LongDistance:   constants.FuzzyLongDistance,
	}
}

// budget returns the edit-distance budget for a normalized input of
// the given rune length.
func (t Thresholds) budget(length int) int {
	switch {
	case length <= t.ShortLength:
		return t.ShortDistance
	case length <= t.MediumLength:
		return t.MediumDistance
	default:
		return t.LongDistance
	}
}
