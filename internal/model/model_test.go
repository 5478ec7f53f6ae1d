package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("a", "b"), PairKey("b", "a"))
	assert.Equal(t, "a:b", PairKey("b", "a"))
}

func TestBuddyRelationOther(t *testing.T) {
	r := &BuddyRelation{RequesterID: "a", RequestedID: "b"}
	assert.Equal(t, "b", r.Other("a"))
	assert.Equal(t, "a", r.Other("b"))
}

func TestPayloadScan(t *testing.T) {
	var p Payload
	require.NoError(t, p.Scan(`{"workoutId":"w1","liked":false}`))
	assert.Equal(t, "w1", p.String("workoutId"))
	assert.Equal(t, false, p["liked"])

	require.NoError(t, p.Scan([]byte(`{}`)))
	assert.Empty(t, p)

	require.NoError(t, p.Scan(nil))
	assert.NotNil(t, p)

	assert.Error(t, p.Scan(42))
}

func TestPayloadValue(t *testing.T) {
	v, err := Payload{"requesterId": "u1"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"requesterId":"u1"}`, v.(string))

	v, err = Payload(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestNotificationTypeLabels(t *testing.T) {
	assert.Equal(t, "Workout completed", NotificationWorkoutCompleted.Label())
	assert.Equal(t, "Buddy request", NotificationBuddyRequest.Label())
	assert.Equal(t, "Other", NotificationType("unknown").Label())
	assert.Equal(t, "🔔", NotificationType("").Icon())
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidDurationCategory(GoalDuration6Months))
	assert.False(t, ValidDurationCategory("forever"))
	assert.True(t, ValidReactionType(ReactionFire))
	assert.False(t, ValidReactionType("meh"))
}
