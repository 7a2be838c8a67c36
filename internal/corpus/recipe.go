// Package corpus supplies the recipe candidates the allocator draws from.
package corpus

// Macros holds per-serving macronutrient grams.
type Macros struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Recipe is one candidate row from the corpus. Nutrition is per serving.
// Well-known nutrients live in Macros; anything beyond that goes into the
// Extra extension map instead of being mixed into an untyped record.
type Recipe struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	BaseCalories       float64            `json:"base_calories"`
	Macros             Macros             `json:"macros"`
	MealTypes          []string           `json:"meal_types"`
	RecommendationTags []string           `json:"recommendation_tags,omitempty"`
	Extra              map[string]float64 `json:"extra_nutrients,omitempty"`
	Visible            bool               `json:"visible"`
}

// HasMealType reports whether the recipe is tagged with the given meal type.
func (r Recipe) HasMealType(tag string) bool {
	for _, t := range r.MealTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// HasRecommendationTag reports whether the recipe carries the given
// recommendation tag.
func (r Recipe) HasRecommendationTag(tag string) bool {
	for _, t := range r.RecommendationTags {
		if t == tag {
			return true
		}
	}
	return false
}
