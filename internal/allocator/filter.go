// Package allocator narrows, scales and scores recipe candidates for a
// calorie slot, then picks the best assignment.
package allocator

import (
	"sort"

	"nutriplan/internal/corpus"
	"nutriplan/internal/mealslot"
)

// slotAcceptedTags maps a slot name to the meal-type tags eligible for it.
// A slot with no entry gets the unfiltered corpus; that is a deliberate
// fallback, not an error.
var slotAcceptedTags = map[string][]string{
	"breakfast":                   {"breakfast", "smoothies"},
	"lunch":                       {"lunch"},
	"dinner":                      {"dinner"},
	"snacks":                      {"snacks", "smoothies"},
	"morning-snack":               {"snacks", "smoothies"},
	"afternoon-snack":             {"snacks", "smoothies"},
	mealslot.SlotPreIftar:         {"smoothies", "pre-iftar"},
	mealslot.SlotIftar:            {"lunch"},
	mealslot.SlotFullMealTaraweeh: {"dinner"},
	mealslot.SlotSnackTaraweeh:    {"snacks", "smoothies"},
	mealslot.SlotSuhoor:           {"breakfast", "dinner"},
}

// FilterCandidates narrows the corpus to the recipes eligible for a slot.
// When isSearch is set the caller is browsing free text and the meal-type
// filter is bypassed entirely. For fasting slots the result is re-ordered
// so ramadan-recommended recipes come first; ordering never drops anyone.
func FilterCandidates(recipes []corpus.Recipe, slotName string, isSearch bool) []corpus.Recipe {
	if isSearch {
		return recipes
	}

	candidates := recipes
	if accepted, ok := slotAcceptedTags[slotName]; ok {
		candidates = make([]corpus.Recipe, 0, len(recipes))
		for _, rec := range recipes {
			if intersects(rec.MealTypes, accepted) {
				candidates = append(candidates, rec)
			}
		}
	}

	if mealslot.IsFastingSlot(slotName) {
		candidates = orderForFasting(candidates, slotName)
	}
	return candidates
}

func intersects(tags, accepted []string) bool {
	for _, tag := range tags {
		for _, a := range accepted {
			if tag == a {
				return true
			}
		}
	}
	return false
}

// orderForFasting sorts ramadan-recommended candidates first. Within the
// pre-iftar slot, recipes explicitly tagged pre-iftar additionally outrank
// generic smoothies.
func orderForFasting(candidates []corpus.Recipe, slotName string) []corpus.Recipe {
	ordered := make([]corpus.Recipe, len(candidates))
	copy(ordered, candidates)

	rank := func(rec corpus.Recipe) int {
		r := 0
		if rec.HasRecommendationTag("ramadan") {
			r -= 2
		}
		if slotName == mealslot.SlotPreIftar && rec.HasMealType(mealslot.SlotPreIftar) {
			r--
		}
		return r
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i]) < rank(ordered[j])
	})
	return ordered
}
