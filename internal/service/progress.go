package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
)

// DefaultBuddyTargetFrequency is shown for buddies who have no active goal.
const DefaultBuddyTargetFrequency = 3

type ProgressService struct {
	goals                *GoalService
	workouts             repository.WorkoutRepository
	users                repository.UserRepository
	buddyTargetFrequency int
}

func NewProgressService(
	goals *GoalService,
	workouts repository.WorkoutRepository,
	users repository.UserRepository,
	buddyTargetFrequency int,
) *ProgressService {
	if buddyTargetFrequency <= 0 {
		buddyTargetFrequency = DefaultBuddyTargetFrequency
	}
	return &ProgressService{
		goals:                goals,
		workouts:             workouts,
		users:                users,
		buddyTargetFrequency: buddyTargetFrequency,
	}
}

// WeeklyProgress aggregates the Monday-to-Sunday week containing referenceDate.
func (s *ProgressService) WeeklyProgress(ctx context.Context, userID string, referenceDate time.Time) (*model.WeeklyProgress, error) {
	goal, err := s.goals.ActiveGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	start, end := model.WeekBounds(referenceDate)
	weekStart := start.Format(model.DateLayout)
	weekEnd := end.Format(model.DateLayout)

	sessions, err := s.workouts.SessionsBetween(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load week sessions: %w", err)
	}

	days := model.QualifyingDays(model.SummarizeDailyDurations(sessions), goal.SessionTimeTargetMinutes)
	percent := model.ProgressPercent(days, goal.WeeklyFrequencyTarget)

	return &model.WeeklyProgress{
		UserID:          userID,
		WeekStart:       weekStart,
		WeekEnd:         weekEnd,
		QualifyingDays:  days,
		TargetFrequency: goal.WeeklyFrequencyTarget,
		ProgressPercent: percent,
		Message:         model.EncouragementMessage(percent),
		GoalSet:         true,
	}, nil
}

// BuddyProgressList returns one entry per accepted buddy. A buddy whose progress
// cannot be computed gets a "goal not set" placeholder instead.
func (s *ProgressService) BuddyProgressList(ctx context.Context, userID string, referenceDate time.Time) ([]*model.BuddyProgress, error) {
	buddies, err := s.users.Buddies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load buddies: %w", err)
	}

	list := make([]*model.BuddyProgress, 0, len(buddies))
	for _, buddy := range buddies {
		entry := &model.BuddyProgress{BuddyID: buddy.ID, BuddyName: buddy.Name}

		progress, err := s.WeeklyProgress(ctx, buddy.ID, referenceDate)
		if err != nil {
			if !errors.Is(err, ErrNoActiveGoal) {
				slog.Warn("failed to compute buddy progress", "error", err, "user_id", userID, "buddy_id", buddy.ID)
			}
			progress = s.placeholder(buddy.ID, referenceDate)
		}

		entry.WeeklyProgress = *progress
		list = append(list, entry)
	}

	return list, nil
}

func (s *ProgressService) placeholder(userID string, referenceDate time.Time) *model.WeeklyProgress {
	start, end := model.WeekBounds(referenceDate)
	return &model.WeeklyProgress{
		UserID:          userID,
		WeekStart:       start.Format(model.DateLayout),
		WeekEnd:         end.Format(model.DateLayout),
		TargetFrequency: s.buddyTargetFrequency,
		Message:         model.MessageGoalNotSet,
	}
}
