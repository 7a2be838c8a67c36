// Package app wires the repositories and services together behind the CLI.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"nutriplan/internal/allocator"
	"nutriplan/internal/config"
	"nutriplan/internal/corpus"
	"nutriplan/internal/database"
	"nutriplan/internal/planner"
	"nutriplan/internal/ratelimit"
	"nutriplan/internal/suggest"
)

// App holds the application's dependencies.
type App struct {
	cfg     *config.Config
	db      *database.DB
	recipes *corpus.Repository
	plans   *planner.PlanRepository
	service *planner.Service
	clipper *corpus.Clipper
}

// NewApp opens the database and builds the service graph.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	recipes := corpus.NewRepository(db.SQL)
	plans := planner.NewPlanRepository(db.SQL)

	var limiter ratelimit.Limiter
	if cfg.PlanRateLimitPerHour > 0 {
		limiter = ratelimit.NewKeyed(cfg.PlanRateLimitPerHour, time.Hour)
	}

	return &App{
		cfg:     cfg,
		db:      db,
		recipes: recipes,
		plans:   plans,
		service: planner.NewService(plans, recipes, limiter),
		clipper: corpus.NewClipper(),
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}

// DefaultUserID exposes the configured fallback user.
func (a *App) DefaultUserID() string {
	return a.cfg.DefaultUserID
}

// GeneratePlan generates (or returns the existing) plan and prints it.
// When regenerate is set the stored plan is discarded first.
func (a *App) GeneratePlan(ctx context.Context, req planner.GenerateRequest, regenerate bool) error {
	generate := a.service.GeneratePlan
	if regenerate {
		generate = a.service.RegeneratePlan
	}

	result, err := generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	if result.Reused {
		fmt.Printf("Plan for %s already exists; returning the stored plan.\n", req.Date)
	}

	fmt.Printf("\n=== PLAN %s (%s) ===\n", result.Plan.Date, result.Plan.Mode)
	for _, slot := range sortedSlots(result.Plan.Assignments) {
		assignment := result.Plan.Assignments[slot]
		name := assignment.RecipeID
		if rec, err := a.recipes.Get(ctx, assignment.RecipeID); err == nil && rec != nil {
			name = rec.Name
		}
		fmt.Printf("%-20s %s (%.2f servings)\n", slot+":", name, assignment.Servings)
	}
	for _, warning := range result.Warnings {
		log.Printf("Warning: %s", warning)
	}
	return nil
}

// SuggestMeal prints the deterministic suggestion for a date and slot.
// Read-only: nothing is stored, so the same call always previews the same
// recipe.
func (a *App) SuggestMeal(ctx context.Context, date, slot string) error {
	recipes, err := a.recipes.ListVisible(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recipe corpus: %w", err)
	}

	candidates := allocator.FilterCandidates(recipes, slot, false)
	if len(candidates) == 0 {
		fmt.Printf("No candidates available for slot %q.\n", slot)
		return nil
	}

	idx := suggest.Index(date, slot, len(candidates))
	fmt.Printf("Suggestion for %s %s: %s\n", date, slot, candidates[idx].Name)
	return nil
}

// SearchRecipes prints corpus recipes matching a free-text query. A slot
// context never narrows the results; search always spans the whole corpus.
func (a *App) SearchRecipes(ctx context.Context, query, slot string) error {
	results, err := a.recipes.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search recipes: %w", err)
	}
	if slot != "" {
		results = allocator.FilterCandidates(results, slot, true)
	}
	if len(results) == 0 {
		fmt.Printf("No recipes match %q.\n", query)
		return nil
	}

	for _, rec := range results {
		fmt.Printf("%-30s %.0f kcal  P:%.0fg C:%.0fg F:%.0fg\n",
			rec.Name, rec.BaseCalories, rec.Macros.ProteinG, rec.Macros.CarbsG, rec.Macros.FatG)
	}
	return nil
}

// ImportRecipe clips a recipe page into the corpus.
func (a *App) ImportRecipe(ctx context.Context, url string) error {
	rec, err := a.clipper.ClipURL(url)
	if err != nil {
		return fmt.Errorf("failed to clip %s: %w", url, err)
	}
	if err := a.recipes.Save(ctx, *rec); err != nil {
		return fmt.Errorf("failed to save clipped recipe: %w", err)
	}
	fmt.Printf("Imported %q (%.0f kcal/serving).\n", rec.Name, rec.BaseCalories)
	return nil
}

// SeedRecipes loads corpus rows from a JSON file.
func (a *App) SeedRecipes(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var recipes []corpus.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	saved := 0
	for _, rec := range recipes {
		if rec.ID == "" || rec.BaseCalories <= 0 {
			log.Printf("Skipping seed entry %q: missing id or calories", rec.Name)
			continue
		}
		if err := a.recipes.Save(ctx, rec); err != nil {
			log.Printf("Failed to save %q: %v", rec.Name, err)
			continue
		}
		saved++
	}
	fmt.Printf("Seeded %d of %d recipes.\n", saved, len(recipes))
	return nil
}

func sortedSlots(assignments planner.PlanAssignment) []string {
	slots := make([]string, 0, len(assignments))
	for slot := range assignments {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
