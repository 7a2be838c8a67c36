// Package planner turns a metabolic profile and a meal structure into a
// stored daily plan, assigning the best-scoring recipe to every slot.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutriplan/internal/allocator"
	"nutriplan/internal/corpus"
	"nutriplan/internal/energy"
	"nutriplan/internal/mealslot"
	"nutriplan/internal/ratelimit"
)

// PlanStore persists daily plans. Implementations map "not found" to
// (nil, nil) rather than an error.
type PlanStore interface {
	Get(ctx context.Context, userID, date, mode string) (*DailyPlan, error)
	Save(ctx context.Context, plan *DailyPlan) error
	Delete(ctx context.Context, userID, date, mode string) error
}

// CorpusLister supplies the candidate recipes in one batched read.
type CorpusLister interface {
	ListVisible(ctx context.Context) ([]corpus.Recipe, error)
}

// RateLimitedError reports that plan generation for a user was throttled.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("plan generation rate limited until %s", e.ResetAt.Format(time.RFC3339))
}

// GenerateRequest carries everything one plan generation needs. When
// FastingSlots is non-empty the fasting templates are used and MealsPerDay
// is ignored.
type GenerateRequest struct {
	UserID       string
	Date         string
	Profile      energy.MetabolicProfile
	Goal         energy.GoalAdjustment
	MealsPerDay  int
	FastingSlots []string
}

// Mode returns the plan mode implied by the request.
func (r GenerateRequest) Mode() string {
	if len(r.FastingSlots) > 0 {
		return ModeFasting
	}
	return ModeStandard
}

// Service orchestrates target calculation, slot resolution and per-slot
// allocation. It is stateless between calls; every invocation handles one
// user's one date.
type Service struct {
	store   PlanStore
	recipes CorpusLister
	limiter ratelimit.Limiter
}

// NewService creates a planner Service. limiter may be nil, which disables
// generation throttling.
func NewService(store PlanStore, recipes CorpusLister, limiter ratelimit.Limiter) *Service {
	return &Service{
		store:   store,
		recipes: recipes,
		limiter: limiter,
	}
}

// GeneratePlan computes and stores the plan for (user, date). If a
// non-empty plan already exists the call is a no-op success returning the
// stored plan: re-requesting never overwrites. Unfillable slots surface as
// warnings on the result, not as errors.
func (s *Service) GeneratePlan(ctx context.Context, req GenerateRequest) (*PlanResult, error) {
	mode := req.Mode()

	// Idempotency guard: an existing non-empty plan wins over freshness.
	existing, err := s.store.Get(ctx, req.UserID, req.Date, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing plan: %w", err)
	}
	if existing != nil {
		if len(existing.Assignments) > 0 {
			return &PlanResult{Plan: existing, Reused: true}, nil
		}
		// A stored plan with no assignments is a leftover from a run
		// against an empty corpus. Clear it so the insert-if-absent save
		// below can persist the recomputed plan.
		if err := s.store.Delete(ctx, req.UserID, req.Date, mode); err != nil {
			return nil, fmt.Errorf("failed to clear empty plan: %w", err)
		}
	}

	if s.limiter != nil {
		if d := s.limiter.Check(req.UserID); !d.Allowed {
			return nil, &RateLimitedError{ResetAt: d.ResetAt}
		}
	}

	targets, err := energy.CalculateTargets(req.Profile, req.Goal)
	if err != nil {
		return nil, err
	}

	template, err := s.resolveTemplate(req)
	if err != nil {
		return nil, err
	}

	// One batched read for the whole day; slots filter it in memory.
	recipes, err := s.recipes.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe corpus: %w", err)
	}

	plan := &DailyPlan{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Date:        req.Date,
		Mode:        mode,
		Assignments: make(PlanAssignment, len(template)),
		CreatedAt:   time.Now().UTC(),
	}

	var warnings []string
	for _, slot := range template {
		target := slot.Percentage / 100 * float64(targets.DailyCalories)

		candidates := allocator.FilterCandidates(recipes, slot.Name, false)
		scored := allocator.ScaleAndScore(candidates, target)
		best, ok := allocator.SelectBest(scored)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("no feasible candidate for slot %q", slot.Name))
			continue
		}

		plan.Assignments[slot.Name] = SlotAssignment{
			RecipeID: best.RecipeID,
			Servings: allocator.RoundServings(best.ScaleFactor),
		}
	}

	if err := s.store.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	return &PlanResult{Plan: plan, Warnings: warnings}, nil
}

// RegeneratePlan discards any stored plan for (user, date) and generates a
// fresh one. This is the explicit counterpart to the idempotent
// GeneratePlan; regeneration never happens implicitly.
func (s *Service) RegeneratePlan(ctx context.Context, req GenerateRequest) (*PlanResult, error) {
	if err := s.store.Delete(ctx, req.UserID, req.Date, req.Mode()); err != nil {
		return nil, fmt.Errorf("failed to delete existing plan: %w", err)
	}
	return s.GeneratePlan(ctx, req)
}

func (s *Service) resolveTemplate(req GenerateRequest) (mealslot.Template, error) {
	if len(req.FastingSlots) > 0 {
		return mealslot.ResolveFasting(req.FastingSlots)
	}
	return mealslot.ResolveMealsPerDay(req.MealsPerDay)
}
