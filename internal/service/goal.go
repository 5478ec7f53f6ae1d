package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
	"github.com/templui/workoutbuddy/internal/validation"
)

// supersedeAttempts bounds retries when another process sharing the database
// activates a goal for the same user between our deactivate and insert. Within
// one process the per-user lock already serializes SetGoal, so the retry only
// fires across processes; the partial unique index keeps either outcome valid.
const supersedeAttempts = 3

type GoalInput struct {
	DurationCategory         string `json:"durationCategory"`
	WeeklyFrequencyTarget    int    `json:"weeklyFrequencyTarget"`
	ExerciseType             string `json:"exerciseType"`
	SessionTimeTargetMinutes int    `json:"sessionTimeTargetMinutes"`
}

func (in GoalInput) validate() error {
	err := validation.ValidateWeeklyFrequency(in.WeeklyFrequencyTarget)
	if err != nil {
		return validationError("weekly_frequency_target", err)
	}
	err = validation.ValidateSessionTime(in.SessionTimeTargetMinutes)
	if err != nil {
		return validationError("session_time_target", err)
	}
	err = validation.ValidateDurationCategory(in.DurationCategory)
	if err != nil {
		return validationError("duration_category", err)
	}
	err = validation.ValidateExerciseType(in.ExerciseType)
	if err != nil {
		return validationError("exercise_type", err)
	}
	return nil
}

type GoalService struct {
	repo  repository.GoalRepository
	locks *KeyedMutex
	now   func() time.Time
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo:  repo,
		locks: NewKeyedMutex(),
		now:   time.Now,
	}
}

// SetGoal replaces the user's active goal. The previous goal is kept as inactive history.
func (s *GoalService) SetGoal(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	err := in.validate()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		now := s.now().UTC()
		goal := &model.Goal{
			ID:                       uuid.New().String(),
			UserID:                   userID,
			DurationCategory:         in.DurationCategory,
			WeeklyFrequencyTarget:    in.WeeklyFrequencyTarget,
			ExerciseType:             strings.TrimSpace(in.ExerciseType),
			SessionTimeTargetMinutes: in.SessionTimeTargetMinutes,
			CreatedAt:                now,
			UpdatedAt:                now,
		}

		err = s.repo.Supersede(ctx, goal)
		if errors.Is(err, repository.ErrActiveGoalExists) && attempt < supersedeAttempts {
			slog.Warn("concurrent goal activation, retrying", "user_id", userID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to set goal: %w", err)
		}

		slog.Info("goal set", "user_id", userID, "goal_id", goal.ID, "weekly_frequency", goal.WeeklyFrequencyTarget)
		return goal, nil
	}
}

func (s *GoalService) ActiveGoal(ctx context.Context, userID string) (*model.Goal, error) {
	goal, err := s.repo.Active(ctx, userID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrNoActiveGoal
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active goal: %w", err)
	}
	return goal, nil
}

// GoalHistory returns every goal version, newest first.
func (s *GoalService) GoalHistory(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := s.repo.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal history: %w", err)
	}
	return goals, nil
}

func (s *GoalService) State(ctx context.Context, userID string) (*model.GoalState, error) {
	goal, err := s.ActiveGoal(ctx, userID)
	if err == nil {
		return &model.GoalState{Kind: model.GoalStateActive, Active: goal}, nil
	}
	if !errors.Is(err, ErrNoActiveGoal) {
		return nil, err
	}

	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count goals: %w", err)
	}
	if count == 0 {
		return &model.GoalState{Kind: model.GoalStateNeverSet}, nil
	}
	return &model.GoalState{Kind: model.GoalStateInactive}, nil
}

// ClearGoal deactivates the active goal without a replacement.
func (s *GoalService) ClearGoal(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	cleared, err := s.repo.Deactivate(ctx, userID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to clear goal: %w", err)
	}
	if cleared {
		slog.Info("goal cleared", "user_id", userID)
	}
	return nil
}
