package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/workoutbuddy/internal/apperr"
	"github.com/templui/workoutbuddy/internal/metrics"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
	"github.com/templui/workoutbuddy/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var errInvalidReactionType = apperr.Validation("invalid_reaction_type", "reaction type must be one of like, great, fire")

type WorkoutService struct {
	repo      repository.WorkoutRepository
	reactions repository.ReactionRepository
	users     repository.UserRepository
	goals     *GoalService
	notifier  Dispatcher
	locks     *KeyedMutex
	now       func() time.Time
}

func NewWorkoutService(
	repo repository.WorkoutRepository,
	reactions repository.ReactionRepository,
	users repository.UserRepository,
	goals *GoalService,
	notifier Dispatcher,
) *WorkoutService {
	return &WorkoutService{
		repo:      repo,
		reactions: reactions,
		users:     users,
		goals:     goals,
		notifier:  notifier,
		locks:     NewKeyedMutex(),
		now:       time.Now,
	}
}

// StartSession opens a session for the user. It requires an active goal and no
// other session in progress.
func (s *WorkoutService) StartSession(ctx context.Context, userID, exerciseType string) (*model.WorkoutSession, error) {
	err := validation.ValidateExerciseType(exerciseType)
	if err != nil {
		return nil, validationError("exercise_type", err)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	_, err = s.goals.ActiveGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.InProgress(ctx, userID)
	if err == nil {
		return nil, ErrSessionAlreadyInProgress
	}
	if !errors.Is(err, repository.ErrWorkoutNotFound) {
		return nil, fmt.Errorf("failed to check session in progress: %w", err)
	}

	now := s.now().UTC()
	session := &model.WorkoutSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		Date:         now.Format(model.DateLayout),
		StartTime:    now,
		ExerciseType: strings.TrimSpace(exerciseType),
		Status:       model.WorkoutStatusInProgress,
		CreatedAt:    now,
	}

	err = s.repo.Create(ctx, session)
	if errors.Is(err, repository.ErrWorkoutInProgress) {
		return nil, ErrSessionAlreadyInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	metrics.Workout(metrics.WorkoutStarted)
	slog.Info("workout started", "user_id", userID, "session_id", session.ID, "exercise_type", session.ExerciseType)
	return session, nil
}

// StartSessionWithGoalExerciseType starts a session using the active goal's exercise type.
func (s *WorkoutService) StartSessionWithGoalExerciseType(ctx context.Context, userID string) (*model.WorkoutSession, error) {
	goal, err := s.goals.ActiveGoal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.StartSession(ctx, userID, goal.ExerciseType)
}

// CompleteSession ends an in-progress session and notifies the owner's buddies.
// Notification failures never fail the completion.
func (s *WorkoutService) CompleteSession(ctx context.Context, sessionID, comment string) (*model.WorkoutSession, error) {
	err := validation.ValidateComment(comment)
	if err != nil {
		return nil, validationError("comment", err)
	}

	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.InProgress() {
		return nil, ErrInvalidTransition
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	end := s.now().UTC()
	duration := max(0, int64(end.Sub(session.StartTime)/time.Second))

	var note *string
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		note = &trimmed
	}

	err = s.repo.Complete(ctx, session.ID, end, duration, note)
	if err != nil {
		return nil, s.transitionError(err)
	}

	session.EndTime = &end
	session.DurationSeconds = &duration
	session.Comment = note
	session.Status = model.WorkoutStatusCompleted

	metrics.Workout(metrics.WorkoutCompleted)
	slog.Info("workout completed", "user_id", session.UserID, "session_id", session.ID, "duration_seconds", duration)

	delivered := s.notifier.FanOutWorkoutCompleted(ctx, session)
	slog.Debug("workout fan-out finished", "session_id", session.ID, "delivered", delivered)

	return session, nil
}

// CancelSession abandons an in-progress session. No one is notified.
func (s *WorkoutService) CancelSession(ctx context.Context, sessionID string) (*model.WorkoutSession, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.InProgress() {
		return nil, ErrInvalidTransition
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	end := s.now().UTC()
	err = s.repo.Cancel(ctx, session.ID, end)
	if err != nil {
		return nil, s.transitionError(err)
	}

	session.EndTime = &end
	session.Status = model.WorkoutStatusCancelled

	metrics.Workout(metrics.WorkoutCancelled)
	slog.Info("workout cancelled", "user_id", session.UserID, "session_id", session.ID)
	return session, nil
}

func (s *WorkoutService) transitionError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidStateTransition):
		return ErrInvalidTransition
	case errors.Is(err, repository.ErrWorkoutNotFound):
		return ErrSessionNotFound
	default:
		return fmt.Errorf("failed to update session: %w", err)
	}
}

// AddReaction appends a reaction to a session and tells the owner about it.
func (s *WorkoutService) AddReaction(ctx context.Context, sessionID, reactorUserID, reactionType string) (*model.Reaction, error) {
	if !model.ValidReactionType(reactionType) {
		return nil, errInvalidReactionType
	}

	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reaction := &model.Reaction{
		ID:           uuid.New().String(),
		SessionID:    session.ID,
		UserID:       reactorUserID,
		ReactionType: reactionType,
		CreatedAt:    s.now().UTC(),
	}

	err = s.reactions.Create(ctx, reaction)
	if err != nil {
		return nil, fmt.Errorf("failed to add reaction: %w", err)
	}

	if reactorUserID != session.UserID {
		s.notifier.NotifyReaction(ctx, reactorUserID, session.UserID, session.ID, reactionType)
	}

	return reaction, nil
}

func (s *WorkoutService) Reactions(ctx context.Context, sessionID string) ([]*model.Reaction, error) {
	_, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reactions, err := s.reactions.BySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	return reactions, nil
}

func (s *WorkoutService) Session(ctx context.Context, sessionID string) (*model.WorkoutSession, error) {
	session, err := s.repo.ByID(ctx, sessionID)
	if errors.Is(err, repository.ErrWorkoutNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// Sessions lists a user's sessions, latest first.
func (s *WorkoutService) Sessions(ctx context.Context, userID string) ([]*model.WorkoutSession, error) {
	sessions, err := s.repo.Sessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *WorkoutService) InProgress(ctx context.Context, userID string) (*model.WorkoutSession, error) {
	session, err := s.repo.InProgress(ctx, userID)
	if errors.Is(err, repository.ErrWorkoutNotFound) {
		return nil, ErrNoSessionInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session in progress: %w", err)
	}
	return session, nil
}

// InProgressView returns the running session of userID with its target and elapsed time.
func (s *WorkoutService) InProgressView(ctx context.Context, userID, sessionID string) (*model.InProgressView, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if !session.InProgress() {
		return nil, ErrInvalidTransition
	}

	view := &model.InProgressView{
		Session:       session,
		ExerciseLabel: ExerciseLabel(session.ExerciseType),
	}

	goal, err := s.goals.ActiveGoal(ctx, userID)
	if err == nil {
		view.TargetSessionMinutes = goal.SessionTimeTargetMinutes
	} else if !errors.Is(err, ErrNoActiveGoal) {
		return nil, err
	}

	user, err := s.users.ByID(ctx, userID)
	if err == nil {
		view.UserName = user.Name
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	elapsed := max(0, int64(s.now().Sub(session.StartTime)/time.Second))
	view.ElapsedSeconds = elapsed
	view.Elapsed = FormatElapsed(elapsed)
	return view, nil
}

// FormatElapsed renders seconds as MM:SS; minutes grow past 59.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ExerciseLabel is the display form of an exercise type, e.g. "trail running" -> "Trail Running".
func ExerciseLabel(exerciseType string) string {
	return cases.Title(language.English).String(strings.TrimSpace(exerciseType))
}
