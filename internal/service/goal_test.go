package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/workoutbuddy/internal/apperr"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
)

func TestSetGoalSupersedes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "u1", "Aiko")

	state, err := h.goals.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStateNeverSet, state.Kind)

	first, err := h.goals.SetGoal(ctx, "u1", defaultGoal())
	require.NoError(t, err)

	h.clock.Advance(time.Hour)
	in := defaultGoal()
	in.WeeklyFrequencyTarget = 5
	in.ExerciseType = "  swimming "
	second, err := h.goals.SetGoal(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "swimming", second.ExerciseType)

	active, err := h.goals.ActiveGoal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	history, err := h.goals.GoalHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.False(t, history[1].Active)
}

func TestSetGoalValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "u1", "Aiko")

	tests := map[string]func(in *GoalInput){
		"zero frequency":   func(in *GoalInput) { in.WeeklyFrequencyTarget = 0 },
		"zero minutes":     func(in *GoalInput) { in.SessionTimeTargetMinutes = 0 },
		"unknown duration": func(in *GoalInput) { in.DurationCategory = "1year" },
		"missing exercise": func(in *GoalInput) { in.ExerciseType = " " },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := defaultGoal()
			mutate(&in)

			_, err := h.goals.SetGoal(ctx, "u1", in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	_, err := h.goals.ActiveGoal(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveGoal)
}

func TestSetGoalConcurrentLeavesOneActive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "u1", "Aiko")

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(freq int) {
			defer wg.Done()
			in := defaultGoal()
			in.WeeklyFrequencyTarget = freq
			_, err := h.goals.SetGoal(ctx, "u1", in)
			assert.NoError(t, err)
		}(i%7 + 1)
	}
	wg.Wait()

	var active int
	require.NoError(t, h.db.Get(&active, `SELECT COUNT(*) FROM goals WHERE user_id = 'u1' AND is_active = TRUE`))
	assert.Equal(t, 1, active)

	history, err := h.goals.GoalHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, workers)
}

func TestClearGoal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "u1", "Aiko")

	require.NoError(t, h.goals.ClearGoal(ctx, "u1"))

	_, err := h.goals.SetGoal(ctx, "u1", defaultGoal())
	require.NoError(t, err)
	require.NoError(t, h.goals.ClearGoal(ctx, "u1"))

	_, err = h.goals.ActiveGoal(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveGoal)

	state, err := h.goals.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.GoalStateInactive, state.Kind)
	assert.Nil(t, state.Active)
}

// contendedGoalRepo fails the first n Supersede calls as if another process
// had just activated a goal for the same user.
type contendedGoalRepo struct {
	repository.GoalRepository
	conflicts int
	calls     int
}

func (r *contendedGoalRepo) Supersede(ctx context.Context, goal *model.Goal) error {
	r.calls++
	if r.calls <= r.conflicts {
		return repository.ErrActiveGoalExists
	}
	return r.GoalRepository.Supersede(ctx, goal)
}

func TestSetGoalRetriesCrossProcessConflict(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "u1", "Aiko")

	repo := &contendedGoalRepo{GoalRepository: repository.NewGoalRepository(h.db), conflicts: supersedeAttempts - 1}
	goals := NewGoalService(repo)

	goal, err := goals.SetGoal(ctx, "u1", defaultGoal())
	require.NoError(t, err)
	assert.True(t, goal.Active)
	assert.Equal(t, supersedeAttempts, repo.calls)

	repo = &contendedGoalRepo{GoalRepository: repository.NewGoalRepository(h.db), conflicts: supersedeAttempts}
	goals = NewGoalService(repo)

	_, err = goals.SetGoal(ctx, "u1", defaultGoal())
	assert.ErrorIs(t, err, repository.ErrActiveGoalExists)
	assert.Equal(t, supersedeAttempts, repo.calls)
}
