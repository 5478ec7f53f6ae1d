package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/repository"
	"github.com/templui/workoutbuddy/internal/testutil"
)

type harness struct {
	db            *sqlx.DB
	clock         *testutil.Clock
	users         *UserService
	goals         *GoalService
	workouts      *WorkoutService
	progress      *ProgressService
	buddies       *BuddyService
	notifications *NotificationService
	workoutRepo   repository.WorkoutRepository
}

// Monday 2024-05-13 07:00 UTC
var monday = time.Date(2024, 5, 13, 7, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()

	database := testutil.NewDB(t)
	clock := testutil.NewClock(monday)

	userRepo := repository.NewUserRepository(database)
	goalRepo := repository.NewGoalRepository(database)
	workoutRepo := repository.NewWorkoutRepository(database)
	reactionRepo := repository.NewReactionRepository(database)
	buddyRepo := repository.NewBuddyRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	users := NewUserService(userRepo)
	users.now = clock.Now
	notifications := NewNotificationService(notificationRepo, userRepo)
	notifications.now = clock.Now
	goals := NewGoalService(goalRepo)
	goals.now = clock.Now
	workouts := NewWorkoutService(workoutRepo, reactionRepo, userRepo, goals, notifications)
	workouts.now = clock.Now
	buddies := NewBuddyService(buddyRepo, userRepo, notifications, 0)
	buddies.now = clock.Now
	progress := NewProgressService(goals, workoutRepo, userRepo, 0)

	return &harness{
		db:            database,
		clock:         clock,
		users:         users,
		goals:         goals,
		workouts:      workouts,
		progress:      progress,
		buddies:       buddies,
		notifications: notifications,
		workoutRepo:   workoutRepo,
	}
}

func (h *harness) user(t *testing.T, id, name string) {
	t.Helper()
	testutil.CreateUser(t, h.db, id, name)
}

func defaultGoal() GoalInput {
	return GoalInput{
		DurationCategory:         "3months",
		WeeklyFrequencyTarget:    3,
		ExerciseType:             "running",
		SessionTimeTargetMinutes: 30,
	}
}
