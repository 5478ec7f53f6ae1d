package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/model"
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrActiveGoalExists = errors.New("another active goal exists")
)

type GoalRepository interface {
	// Supersede deactivates the user's active goal and inserts goal as the new
	// active one in a single transaction.
	Supersede(ctx context.Context, goal *model.Goal) error
	Active(ctx context.Context, userID string) (*model.Goal, error)
	History(ctx context.Context, userID string) ([]*model.Goal, error)
	Count(ctx context.Context, userID string) (int, error)
	Deactivate(ctx context.Context, userID string, at time.Time) (bool, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Supersede(ctx context.Context, goal *model.Goal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deactivate := `UPDATE goals SET is_active = FALSE, updated_at = $1
	               WHERE user_id = $2 AND is_active = TRUE`
	_, err = tx.ExecContext(ctx, deactivate, goal.CreatedAt, goal.UserID)
	if err != nil {
		return fmt.Errorf("failed to deactivate goal: %w", err)
	}

	insert := `INSERT INTO goals (id, user_id, duration_category, weekly_frequency_target, exercise_type,
	                              session_time_target_minutes, is_active, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, insert,
		goal.ID,
		goal.UserID,
		goal.DurationCategory,
		goal.WeeklyFrequencyTarget,
		goal.ExerciseType,
		goal.SessionTimeTargetMinutes,
		true,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrActiveGoalExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	goal.Active = true
	return tx.Commit()
}

func (r *goalRepository) Active(ctx context.Context, userID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 AND is_active = TRUE`

	err := r.db.GetContext(ctx, goal, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) History(ctx context.Context, userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// Deactivate clears the active flag without a replacement. It reports whether
// a goal was active.
func (r *goalRepository) Deactivate(ctx context.Context, userID string, at time.Time) (bool, error) {
	query := `UPDATE goals SET is_active = FALSE, updated_at = $1
	          WHERE user_id = $2 AND is_active = TRUE`

	result, err := r.db.ExecContext(ctx, query, at, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
