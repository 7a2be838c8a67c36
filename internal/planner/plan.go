package planner

import "time"

// Plan generation modes. A (user, date, mode) triple identifies one plan.
const (
	ModeStandard = "standard"
	ModeFasting  = "fasting"
)

// SlotAssignment is the chosen recipe for one slot. Servings is the scale
// factor rounded to two decimals: how many recipe-servings to prepare to
// hit the slot's calorie target.
type SlotAssignment struct {
	RecipeID string  `json:"recipe_id"`
	Servings float64 `json:"servings"`
}

// PlanAssignment maps slot names to their assignments. Slots that could
// not be filled are simply absent.
type PlanAssignment map[string]SlotAssignment

// DailyPlan is the stored plan for one user and date.
type DailyPlan struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Date        string         `json:"date"`
	Mode        string         `json:"mode"`
	Assignments PlanAssignment `json:"assignments"`
	CreatedAt   time.Time      `json:"created_at"`
}

// PlanResult wraps a generated or reused plan together with per-slot
// warnings. An unfillable slot is reported here, never as an error.
type PlanResult struct {
	Plan     *DailyPlan
	Warnings []string
	Reused   bool
}
