package allocator

import (
	"math"

	"nutriplan/internal/corpus"
)

// Scale bounds for a single assignment. A recipe that would need more than
// doubling or less than halving to hit the slot target is rejected.
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// Ideal macro percentage split and the per-macro weights used when scoring.
const (
	idealProteinPct = 30.0
	idealCarbsPct   = 40.0
	idealFatPct     = 30.0

	proteinWeight = 0.5
	carbsWeight   = 0.3
	fatWeight     = 0.2

	// Score penalty per percentage point of deviation from the ideal.
	deviationSlope = 1.5
)

// ScaledCandidate is one in-bounds candidate with the multiplier needed to
// hit the slot target and its macro-balance score. Ephemeral, never stored.
type ScaledCandidate struct {
	RecipeID       string
	ScaleFactor    float64
	ScaledCalories float64
	MacroScore     int
}

// ScaleAndScore computes, for every candidate, the scale factor required to
// hit targetCalories and a 0-100 macro-balance score against the 30/40/30
// ideal. Candidates outside the scale bounds are dropped; an empty result
// means no feasible candidate, which is data, not an error.
func ScaleAndScore(candidates []corpus.Recipe, targetCalories float64) []ScaledCandidate {
	scored := make([]ScaledCandidate, 0, len(candidates))
	for _, rec := range candidates {
		if rec.BaseCalories <= 0 {
			continue
		}
		scale := targetCalories / rec.BaseCalories
		if scale < MinScale || scale > MaxScale {
			continue
		}

		scored = append(scored, ScaledCandidate{
			RecipeID:       rec.ID,
			ScaleFactor:    scale,
			ScaledCalories: rec.BaseCalories * scale,
			MacroScore:     macroScore(rec),
		})
	}
	return scored
}

// macroScore rates how close the recipe's own macro split is to the ideal.
// Scaling a recipe uniformly does not change its macro percentages, so the
// unscaled per-serving values are used.
func macroScore(rec corpus.Recipe) int {
	proteinPct := math.Round(rec.Macros.ProteinG * 4 / rec.BaseCalories * 100)
	carbsPct := math.Round(rec.Macros.CarbsG * 4 / rec.BaseCalories * 100)
	fatPct := math.Round(rec.Macros.FatG * 9 / rec.BaseCalories * 100)

	proteinScore := macroAxisScore(idealProteinPct, proteinPct)
	carbsScore := macroAxisScore(idealCarbsPct, carbsPct)
	fatScore := macroAxisScore(idealFatPct, fatPct)

	return int(math.Round(proteinScore*proteinWeight + carbsScore*carbsWeight + fatScore*fatWeight))
}

func macroAxisScore(ideal, actual float64) float64 {
	return math.Max(0, 100-math.Abs(ideal-actual)*deviationSlope)
}
