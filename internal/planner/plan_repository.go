package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// PlanRepository is the database-backed PlanStore.
type PlanRepository struct {
	db *sql.DB
}

var _ PlanStore = (*PlanRepository)(nil)

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a plan unless one already exists for (user, date, mode).
// The conflict clause turns the race between two concurrent generations
// into first-writer-wins at the database, instead of silently overwriting.
func (r *PlanRepository) Save(ctx context.Context, plan *DailyPlan) error {
	assignments, err := json.Marshal(plan.Assignments)
	if err != nil {
		return fmt.Errorf("failed to marshal plan assignments: %w", err)
	}

	query, args, err := sq.Insert("daily_plans").
		Columns("id", "user_id", "plan_date", "mode", "assignments", "created_at").
		Values(plan.ID, plan.UserID, plan.Date, plan.Mode, string(assignments), plan.CreatedAt).
		Suffix("ON CONFLICT (user_id, plan_date, mode) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert plan for user %s: %w", plan.UserID, err)
	}
	return nil
}

// Get retrieves the plan for (user, date, mode). Returns (nil, nil) when
// no plan is stored.
func (r *PlanRepository) Get(ctx context.Context, userID, date, mode string) (*DailyPlan, error) {
	query, args, err := sq.Select("id", "user_id", "plan_date", "mode", "assignments", "created_at").
		From("daily_plans").
		Where(sq.Eq{"user_id": userID, "plan_date": date, "mode": mode}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var plan DailyPlan
	var assignments string
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&plan.ID, &plan.UserID, &plan.Date, &plan.Mode, &assignments, &plan.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan for user %s: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(assignments), &plan.Assignments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan assignments: %w", err)
	}
	return &plan, nil
}

// Delete removes the stored plan for (user, date, mode). Deleting a plan
// that does not exist is not an error.
func (r *PlanRepository) Delete(ctx context.Context, userID, date, mode string) error {
	query, args, err := sq.Delete("daily_plans").
		Where(sq.Eq{"user_id": userID, "plan_date": date, "mode": mode}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete plan for user %s: %w", userID, err)
	}
	return nil
}
