package energy

import (
	"fmt"
	"math"
)

// Sex is the biological sex used by the Mifflin-St Jeor equation.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel describes habitual daily activity.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// GoalType is the user's body-composition goal.
type GoalType string

const (
	GoalLoseWeight    GoalType = "lose_weight"
	GoalMaintain      GoalType = "maintain"
	GoalBuildMuscle   GoalType = "build_muscle"
	GoalRecomposition GoalType = "recomposition"
)

// Pace controls how aggressively the calorie adjustment is applied.
// Ignored when the goal is maintain.
type Pace string

const (
	PaceSlow       Pace = "slow"
	PaceModerate   Pace = "moderate"
	PaceAggressive Pace = "aggressive"
)

// MetabolicProfile is the per-calculation input. It is never stored here.
type MetabolicProfile struct {
	Age      int
	Sex      Sex
	WeightKG float64
	HeightCM float64
	Activity ActivityLevel
}

// GoalAdjustment pairs a goal with a pace.
type GoalAdjustment struct {
	Goal GoalType
	Pace Pace
}

// Targets holds the computed daily energy and macro targets.
// CarbsClamped is set when the macro split would have produced negative
// carbohydrate grams and the value was clamped to zero.
type Targets struct {
	BMR               int `json:"bmr"`
	TDEE              int `json:"tdee"`
	DailyCalories     int `json:"daily_calories"`
	CalorieAdjustment int `json:"calorie_adjustment"`
	ProteinG          int `json:"protein_g"`
	CarbsG            int `json:"carbs_g"`
	FatG              int `json:"fat_g"`

	CarbsClamped bool `json:"carbs_clamped,omitempty"`
}

// InvalidProfileError reports a malformed or out-of-range profile/goal field.
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}

// activityMultipliers is the single source of truth for valid activity
// levels; it doubles as the validation set.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.20,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.90,
}

// goalPercents maps (goal, pace) to the TDEE adjustment fraction.
// Maintain is always zero regardless of pace.
var goalPercents = map[GoalType]map[Pace]float64{
	GoalLoseWeight: {
		PaceSlow:       -0.10,
		PaceModerate:   -0.20,
		PaceAggressive: -0.25,
	},
	GoalMaintain: {
		PaceSlow:       0,
		PaceModerate:   0,
		PaceAggressive: 0,
	},
	GoalBuildMuscle: {
		PaceSlow:       0.10,
		PaceModerate:   0.15,
		PaceAggressive: 0.20,
	},
	GoalRecomposition: {
		PaceSlow:       -0.05,
		PaceModerate:   0,
		PaceAggressive: 0.05,
	},
}

// CalculateTargets computes BMR, TDEE, daily calories and macro grams for a
// profile and goal. It fails with *InvalidProfileError before computing
// anything if a field is out of range.
func CalculateTargets(profile MetabolicProfile, goal GoalAdjustment) (*Targets, error) {
	if err := validate(profile, goal); err != nil {
		return nil, err
	}

	// Mifflin-St Jeor, different constant for male vs female.
	bmrF := 10*profile.WeightKG + 6.25*profile.HeightCM - 5*float64(profile.Age)
	if profile.Sex == SexMale {
		bmrF += 5
	} else {
		bmrF -= 161
	}
	bmr := int(math.Round(bmrF))

	tdee := int(math.Round(float64(bmr) * activityMultipliers[profile.Activity]))

	percent := goalPercents[goal.Goal][effectivePace(goal)]
	adjustment := int(math.Round(float64(tdee) * percent))
	daily := tdee + adjustment

	// Protein: the higher of 2 g per kg bodyweight and 30% of calories.
	proteinByWeight := int(math.Round(profile.WeightKG * 2))
	proteinByCalories := int(math.Round(float64(daily) * 0.30 / 4))
	protein := proteinByWeight
	if proteinByCalories > protein {
		protein = proteinByCalories
	}

	fat := int(math.Round(float64(daily) * 0.25 / 9))
	carbs := int(math.Round(float64(daily-protein*4-fat*9) / 4))

	t := &Targets{
		BMR:               bmr,
		TDEE:              tdee,
		DailyCalories:     daily,
		CalorieAdjustment: adjustment,
		ProteinG:          protein,
		CarbsG:            carbs,
		FatG:              fat,
	}
	if t.CarbsG < 0 {
		// Extreme low-calorie, high-bodyweight inputs can drive the carb
		// remainder negative. Clamp and flag rather than emit negative grams.
		t.CarbsG = 0
		t.CarbsClamped = true
	}
	return t, nil
}

// effectivePace normalizes the pace for goals where it matters. Maintain
// ignores pace entirely, so any value collapses to slow (all zero anyway).
func effectivePace(goal GoalAdjustment) Pace {
	if goal.Goal == GoalMaintain {
		return PaceSlow
	}
	return goal.Pace
}

func validate(profile MetabolicProfile, goal GoalAdjustment) error {
	if profile.Age <= 0 {
		return &InvalidProfileError{Field: "age", Reason: "must be positive"}
	}
	if profile.WeightKG <= 0 {
		return &InvalidProfileError{Field: "weight_kg", Reason: "must be positive"}
	}
	if profile.HeightCM <= 0 {
		return &InvalidProfileError{Field: "height_cm", Reason: "must be positive"}
	}
	if profile.Sex != SexMale && profile.Sex != SexFemale {
		return &InvalidProfileError{Field: "sex", Reason: fmt.Sprintf("unknown value %q", profile.Sex)}
	}
	if _, ok := activityMultipliers[profile.Activity]; !ok {
		return &InvalidProfileError{Field: "activity_level", Reason: fmt.Sprintf("unknown value %q", profile.Activity)}
	}
	paces, ok := goalPercents[goal.Goal]
	if !ok {
		return &InvalidProfileError{Field: "goal_type", Reason: fmt.Sprintf("unknown value %q", goal.Goal)}
	}
	if goal.Goal != GoalMaintain {
		if _, ok := paces[goal.Pace]; !ok {
			return &InvalidProfileError{Field: "pace", Reason: fmt.Sprintf("unknown value %q", goal.Pace)}
		}
	}
	return nil
}
