package allocator

import (
	"math"
	"sort"
)

// Two candidates whose scores are within this many points are considered
// tied; the one needing the least scaling distortion wins the tie.
const tieBreakWindow = 5

// SelectBest picks the winning candidate for a slot. Candidates are ranked
// by macro score descending; near-ties are broken by how close the scale
// factor is to 1 (the recipe closest to "as cooked"). Returns false when
// the scored list is empty, which leaves the slot unassigned.
func SelectBest(scored []ScaledCandidate) (ScaledCandidate, bool) {
	if len(scored) == 0 {
		return ScaledCandidate{}, false
	}

	ranked := make([]ScaledCandidate, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if diff := a.MacroScore - b.MacroScore; diff > tieBreakWindow || diff < -tieBreakWindow {
			return a.MacroScore > b.MacroScore
		}
		return distortion(a) < distortion(b)
	})

	return ranked[0], true
}

// distortion is how far the scale factor strays from serving the recipe as
// written.
func distortion(c ScaledCandidate) float64 {
	return math.Abs(c.ScaleFactor - 1)
}

// RoundServings rounds a scale factor to two decimals for storage as the
// assignment's servings value.
func RoundServings(scale float64) float64 {
	return math.Round(scale*100) / 100
}
