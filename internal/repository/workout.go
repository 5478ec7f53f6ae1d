package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/model"
)

var (
	ErrWorkoutNotFound        = errors.New("workout session not found")
	ErrWorkoutInProgress      = errors.New("workout session already in progress")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

type WorkoutRepository interface {
	Create(ctx context.Context, session *model.WorkoutSession) error
	ByID(ctx context.Context, id string) (*model.WorkoutSession, error)
	InProgress(ctx context.Context, userID string) (*model.WorkoutSession, error)
	Sessions(ctx context.Context, userID string) ([]*model.WorkoutSession, error)
	SessionsBetween(ctx context.Context, userID, fromDate, toDate string) ([]*model.WorkoutSession, error)
	Complete(ctx context.Context, id string, endTime time.Time, durationSeconds int64, comment *string) error
	Cancel(ctx context.Context, id string, endTime time.Time) error
}

type workoutRepository struct {
	db *sqlx.DB
}

func NewWorkoutRepository(db *sqlx.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, s *model.WorkoutSession) error {
	query := `INSERT INTO workout_sessions (id, user_id, workout_date, start_time, end_time, duration_seconds,
	                                       exercise_type, comment, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.DurationSeconds,
		s.ExerciseType,
		s.Comment,
		s.Status,
		s.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrWorkoutInProgress
	}
	return err
}

func (r *workoutRepository) ByID(ctx context.Context, id string) (*model.WorkoutSession, error) {
	session := &model.WorkoutSession{}
	query := `SELECT * FROM workout_sessions WHERE id = $1`

	err := r.db.GetContext(ctx, session, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *workoutRepository) InProgress(ctx context.Context, userID string) (*model.WorkoutSession, error) {
	session := &model.WorkoutSession{}
	query := `SELECT * FROM workout_sessions WHERE user_id = $1 AND status = $2`

	err := r.db.GetContext(ctx, session, query, userID, model.WorkoutStatusInProgress)
	if err == sql.ErrNoRows {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *workoutRepository) Sessions(ctx context.Context, userID string) ([]*model.WorkoutSession, error) {
	var sessions []*model.WorkoutSession
	query := `SELECT * FROM workout_sessions WHERE user_id = $1 ORDER BY workout_date DESC, start_time DESC`

	err := r.db.SelectContext(ctx, &sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// SessionsBetween returns sessions whose date falls in [fromDate, toDate].
func (r *workoutRepository) SessionsBetween(ctx context.Context, userID, fromDate, toDate string) ([]*model.WorkoutSession, error) {
	var sessions []*model.WorkoutSession
	query := `SELECT * FROM workout_sessions
	          WHERE user_id = $1 AND workout_date >= $2 AND workout_date <= $3
	          ORDER BY workout_date ASC, start_time ASC`

	err := r.db.SelectContext(ctx, &sessions, query, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// Complete moves an in-progress session to completed. Exactly one of several
// concurrent callers succeeds; the rest get ErrInvalidStateTransition.
func (r *workoutRepository) Complete(ctx context.Context, id string, endTime time.Time, durationSeconds int64, comment *string) error {
	query := `UPDATE workout_sessions
	          SET end_time = $1, duration_seconds = $2, comment = $3, status = $4
	          WHERE id = $5 AND status = $6`

	result, err := r.db.ExecContext(ctx, query,
		endTime,
		durationSeconds,
		comment,
		model.WorkoutStatusCompleted,
		id,
		model.WorkoutStatusInProgress,
	)
	if err != nil {
		return err
	}

	return r.checkTransition(ctx, result, id)
}

func (r *workoutRepository) Cancel(ctx context.Context, id string, endTime time.Time) error {
	query := `UPDATE workout_sessions
	          SET end_time = $1, status = $2
	          WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, endTime, model.WorkoutStatusCancelled, id, model.WorkoutStatusInProgress)
	if err != nil {
		return err
	}

	return r.checkTransition(ctx, result, id)
}

func (r *workoutRepository) checkTransition(ctx context.Context, result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	_, err = r.ByID(ctx, id)
	if err != nil {
		return err
	}
	return ErrInvalidStateTransition
}
