package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var recipeColumns = []string{
	"id", "name", "description", "base_calories",
	"protein_g", "carbs_g", "fat_g",
	"meal_types", "recommendation_tags", "extra_nutrients", "visible",
}

// Repository is a database-backed repository for corpus recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a recipe.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	mealTypes, err := json.Marshal(rec.MealTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal meal types: %w", err)
	}
	tags, err := json.Marshal(rec.RecommendationTags)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation tags: %w", err)
	}
	extra, err := json.Marshal(rec.Extra)
	if err != nil {
		return fmt.Errorf("failed to marshal extra nutrients: %w", err)
	}

	query, args, err := sq.Insert("recipes").
		Columns(append(recipeColumns, "updated_at")...).
		Values(rec.ID, rec.Name, rec.Description, rec.BaseCalories,
			rec.Macros.ProteinG, rec.Macros.CarbsG, rec.Macros.FatG,
			string(mealTypes), string(tags), string(extra), rec.Visible,
			time.Now().UTC()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			base_calories = excluded.base_calories,
			protein_g = excluded.protein_g,
			carbs_g = excluded.carbs_g,
			fat_g = excluded.fat_g,
			meal_types = excluded.meal_types,
			recommendation_tags = excluded.recommendation_tags,
			extra_nutrients = excluded.extra_nutrients,
			visible = excluded.visible,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a recipe by ID. Returns (nil, nil) when not found.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	return rec, nil
}

// ListVisible returns every publicly visible recipe with usable nutrition
// data in a single batched read. The allocator filters this list per slot
// in memory; it never goes back to the database per recipe.
func (r *Repository) ListVisible(ctx context.Context) ([]Recipe, error) {
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"visible": true}).
		Where(sq.Gt{"base_calories": 0}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}
	return r.queryRecipes(ctx, query, args)
}

// Search returns visible recipes whose name or description contains the
// query substring. Used by the free-text search path, which bypasses the
// slot meal-type filter.
func (r *Repository) Search(ctx context.Context, text string) ([]Recipe, error) {
	pattern := "%" + text + "%"
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		Where(sq.Eq{"visible": true}).
		Where(sq.Gt{"base_calories": 0}).
		Where(sq.Or{
			sq.Like{"name": pattern},
			sq.Like{"description": pattern},
		}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}
	return r.queryRecipes(ctx, query, args)
}

// Count returns the number of recipes in the corpus.
func (r *Repository) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("recipes").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

func (r *Repository) queryRecipes(ctx context.Context, query string, args []interface{}) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return recipes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var rec Recipe
	var mealTypes, tags, extra string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.BaseCalories,
		&rec.Macros.ProteinG, &rec.Macros.CarbsG, &rec.Macros.FatG,
		&mealTypes, &tags, &extra, &rec.Visible); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(mealTypes), &rec.MealTypes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal types for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &rec.RecommendationTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation tags for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(extra), &rec.Extra); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extra nutrients for %s: %w", rec.ID, err)
	}
	return &rec, nil
}
