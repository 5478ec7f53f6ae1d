package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/workoutbuddy/internal/metrics"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
)

func TestNotifyAndReadState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "a", "Aiko")
	h.user(t, "b", "Ben")

	first := h.notifications.NotifyBuddyRequest(ctx, "a", "b")
	require.NotNil(t, first)
	h.clock.Advance(1)
	second := h.notifications.NotifyReaction(ctx, "a", "b", "w1", model.ReactionGreat)
	require.NotNil(t, second)
	assert.Equal(t, "Aiko sent a great to your workout", second.Message)

	check, err := h.notifications.CheckNew(ctx, "b")
	require.NoError(t, err)
	assert.True(t, check.HasNew)
	assert.Equal(t, 2, check.Count)

	// marking someone else's notification is a silent no-op
	require.NoError(t, h.notifications.MarkRead(ctx, first.ID, "a"))
	require.NoError(t, h.notifications.MarkRead(ctx, "missing", "b"))
	count, err := h.notifications.UnreadCount(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, h.notifications.MarkRead(ctx, first.ID, "b"))
	unread, err := h.notifications.ListUnread(ctx, "b")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	for i := 0; i < 2; i++ {
		require.NoError(t, h.notifications.MarkAllRead(ctx, "b"))
		count, err := h.notifications.UnreadCount(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	}

	all, err := h.notifications.ListAll(ctx, "b")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
}

func TestNotificationGetAndDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "a", "Aiko")
	h.user(t, "b", "Ben")

	n := h.notifications.NotifyBuddyAccepted(ctx, "a", "b")
	require.NotNil(t, n)
	assert.Equal(t, "a", n.ToUserID)

	_, err := h.notifications.Get(ctx, n.ID, "b")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.ErrorIs(t, h.notifications.Delete(ctx, n.ID, "b"), ErrNotificationNotFound)

	got, err := h.notifications.Get(ctx, n.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ben accepted your buddy request", got.Message)

	require.NoError(t, h.notifications.Delete(ctx, n.ID, "a"))
	_, err = h.notifications.Get(ctx, n.ID, "a")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationSkippedWhenActorMissing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "b", "Ben")

	skipped := metrics.NotificationsTotal.WithLabelValues(string(model.NotificationBuddyRequest), metrics.NotificationSkipped)
	before := testutil.ToFloat64(skipped)

	assert.Nil(t, h.notifications.NotifyBuddyRequest(ctx, "ghost", "b"))
	assert.Equal(t, before+1, testutil.ToFloat64(skipped))

	list, err := h.notifications.ListAll(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotifyFailureIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "a", "Aiko")

	broken := NewNotificationService(failingNotificationRepo{}, repository.NewUserRepository(h.db))
	failed := metrics.NotificationsTotal.WithLabelValues(string(model.NotificationReaction), metrics.NotificationFailed)
	before := testutil.ToFloat64(failed)

	assert.Nil(t, broken.NotifyReaction(ctx, "a", "a", "w1", model.ReactionLike))
	assert.Equal(t, before+1, testutil.ToFloat64(failed))
}

func TestFanOutCountsDeliveries(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "a", "Aiko")
	h.user(t, "b", "Ben")
	h.user(t, "c", "Chris")

	for _, other := range []string{"b", "c"} {
		rel, err := h.buddies.SendRequest(ctx, "a", other)
		require.NoError(t, err)
		_, err = h.buddies.AcceptRequest(ctx, rel.ID)
		require.NoError(t, err)
	}

	comment := "new PR"
	session := &model.WorkoutSession{ID: "w1", UserID: "a", ExerciseType: "running", Comment: &comment}
	assert.Equal(t, 2, h.notifications.FanOutWorkoutCompleted(ctx, session))

	list, err := h.notifications.ListUnread(ctx, "c")
	require.NoError(t, err)
	var found bool
	for _, n := range list {
		if n.Type == model.NotificationWorkoutCompleted {
			found = true
			assert.Equal(t, `"new PR"`, n.Message)
		}
	}
	assert.True(t, found)

	orphan := &model.WorkoutSession{ID: "w2", UserID: "ghost"}
	assert.Equal(t, 0, h.notifications.FanOutWorkoutCompleted(ctx, orphan))
}
