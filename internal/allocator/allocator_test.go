package allocator

import (
	"testing"

	"nutriplan/internal/corpus"
)

func recipeWith(id string, calories float64, mealTypes ...string) corpus.Recipe {
	return corpus.Recipe{
		ID:           id,
		Name:         id,
		BaseCalories: calories,
		Macros:       corpus.Macros{ProteinG: 30, CarbsG: 40, FatG: 13.3},
		MealTypes:    mealTypes,
		Visible:      true,
	}
}

func TestFilterCandidates(t *testing.T) {
	recipes := []corpus.Recipe{
		recipeWith("oats", 300, "breakfast"),
		recipeWith("green-smoothie", 200, "smoothies"),
		recipeWith("chicken-bowl", 500, "lunch"),
		recipeWith("steak", 600, "dinner"),
	}

	t.Run("BreakfastAcceptsSmoothies", func(t *testing.T) {
		got := FilterCandidates(recipes, "breakfast", false)
		if len(got) != 2 {
			t.Fatalf("Expected 2 candidates, got %d", len(got))
		}
		if got[0].ID != "oats" || got[1].ID != "green-smoothie" {
			t.Errorf("Unexpected candidates: %v, %v", got[0].ID, got[1].ID)
		}
	})

	t.Run("IftarMapsToLunch", func(t *testing.T) {
		got := FilterCandidates(recipes, "iftar", false)
		if len(got) != 1 || got[0].ID != "chicken-bowl" {
			t.Fatalf("Expected only chicken-bowl for iftar, got %v", got)
		}
	})

	t.Run("UnmappedSlotFallsBackToFullCorpus", func(t *testing.T) {
		got := FilterCandidates(recipes, "second-breakfast", false)
		if len(got) != len(recipes) {
			t.Errorf("Expected unfiltered corpus for unmapped slot, got %d of %d", len(got), len(recipes))
		}
	})

	t.Run("SearchBypassesFilter", func(t *testing.T) {
		got := FilterCandidates(recipes, "breakfast", true)
		if len(got) != len(recipes) {
			t.Errorf("Expected search to bypass filtering, got %d of %d", len(got), len(recipes))
		}
	})
}

func TestFilterCandidates_FastingOrdering(t *testing.T) {
	plain := recipeWith("plain-dates", 150, "smoothies")
	ramadan := recipeWith("harira", 180, "smoothies")
	ramadan.RecommendationTags = []string{"ramadan"}
	explicit := recipeWith("iftar-smoothie", 160, "smoothies", "pre-iftar")

	t.Run("RamadanTagSortsFirst", func(t *testing.T) {
		got := FilterCandidates([]corpus.Recipe{plain, ramadan}, "snack-taraweeh", false)
		if len(got) != 2 {
			t.Fatalf("Ordering must not drop candidates, got %d", len(got))
		}
		if got[0].ID != "harira" {
			t.Errorf("Expected ramadan-tagged recipe first, got %s", got[0].ID)
		}
	})

	t.Run("PreIftarTagBeatsGenericSmoothie", func(t *testing.T) {
		got := FilterCandidates([]corpus.Recipe{plain, explicit}, "pre-iftar", false)
		if got[0].ID != "iftar-smoothie" {
			t.Errorf("Expected explicitly tagged pre-iftar recipe first, got %s", got[0].ID)
		}
	})

	t.Run("NoReorderOutsideFastingSlots", func(t *testing.T) {
		got := FilterCandidates([]corpus.Recipe{plain, ramadan}, "snacks", false)
		if got[0].ID != "plain-dates" {
			t.Errorf("Expected corpus order preserved for non-fasting slot, got %s first", got[0].ID)
		}
	})
}

func TestScaleAndScore(t *testing.T) {
	t.Run("PerfectMacroSplitScoresHundred", func(t *testing.T) {
		// 30g protein / 40g carbs / 13.3g fat on 400 kcal is exactly 30/40/30.
		scored := ScaleAndScore([]corpus.Recipe{recipeWith("ideal", 400)}, 400)
		if len(scored) != 1 {
			t.Fatalf("Expected 1 scored candidate, got %d", len(scored))
		}
		if scored[0].MacroScore != 100 {
			t.Errorf("Expected score 100, got %d", scored[0].MacroScore)
		}
		if scored[0].ScaleFactor != 1.0 {
			t.Errorf("Expected scale factor 1.0, got %v", scored[0].ScaleFactor)
		}
	})

	t.Run("RejectsOutOfBoundsScale", func(t *testing.T) {
		recipes := []corpus.Recipe{
			recipeWith("tiny", 100),  // would need 5x
			recipeWith("huge", 2000), // would need 0.25x
			recipeWith("fits", 400),  // needs 1.25x
		}
		scored := ScaleAndScore(recipes, 500)
		if len(scored) != 1 || scored[0].RecipeID != "fits" {
			t.Fatalf("Expected only 'fits' to survive, got %v", scored)
		}
		if scored[0].ScaleFactor != 1.25 {
			t.Errorf("Expected scale 1.25, got %v", scored[0].ScaleFactor)
		}
	})

	t.Run("DropsNonPositiveCalories", func(t *testing.T) {
		bad := recipeWith("bad", 0)
		if scored := ScaleAndScore([]corpus.Recipe{bad}, 400); len(scored) != 0 {
			t.Errorf("Expected no candidates for zero-calorie recipe, got %v", scored)
		}
	})

	t.Run("ScoresStayInRange", func(t *testing.T) {
		recipes := []corpus.Recipe{
			{ID: "all-fat", BaseCalories: 450, Macros: corpus.Macros{FatG: 50}},
			{ID: "all-carbs", BaseCalories: 400, Macros: corpus.Macros{CarbsG: 100}},
			{ID: "all-protein", BaseCalories: 400, Macros: corpus.Macros{ProteinG: 100}},
		}
		for _, sc := range ScaleAndScore(recipes, 400) {
			if sc.MacroScore < 0 || sc.MacroScore > 100 {
				t.Errorf("%s: score %d out of [0,100]", sc.RecipeID, sc.MacroScore)
			}
		}
	})
}

func TestSelectBest(t *testing.T) {
	t.Run("ProximityTieBreak", func(t *testing.T) {
		// 83 vs 80 is within the 5-point window, so the candidate closer to
		// scale 1.0 must win despite the nominally lower score.
		scored := []ScaledCandidate{
			{RecipeID: "distorted", ScaleFactor: 1.05, MacroScore: 80},
			{RecipeID: "higher", ScaleFactor: 1.3, MacroScore: 83},
		}
		best, ok := SelectBest(scored)
		if !ok {
			t.Fatal("Expected a selection")
		}
		if best.RecipeID != "distorted" {
			t.Errorf("Expected proximity tie-break to pick 'distorted', got %s", best.RecipeID)
		}
	})

	t.Run("ClearScoreGapWins", func(t *testing.T) {
		scored := []ScaledCandidate{
			{RecipeID: "close", ScaleFactor: 1.0, MacroScore: 70},
			{RecipeID: "better", ScaleFactor: 1.9, MacroScore: 90},
		}
		best, _ := SelectBest(scored)
		if best.RecipeID != "better" {
			t.Errorf("Expected score gap >5 to ignore distortion, got %s", best.RecipeID)
		}
	})

	t.Run("EmptyListIsNotAnError", func(t *testing.T) {
		if _, ok := SelectBest(nil); ok {
			t.Error("Expected no selection for an empty list")
		}
	})
}

func TestRoundServings(t *testing.T) {
	if got := RoundServings(1.256); got != 1.26 {
		t.Errorf("Expected 1.26, got %v", got)
	}
	if got := RoundServings(0.5); got != 0.5 {
		t.Errorf("Expected 0.5, got %v", got)
	}
}
