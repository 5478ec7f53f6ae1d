package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/testutil"
)

func newRelation(requester, requested string, at time.Time) *model.BuddyRelation {
	return &model.BuddyRelation{
		ID:          uuid.New().String(),
		RequesterID: requester,
		RequestedID: requested,
		Status:      model.BuddyStatusPending,
		RequestedAt: at,
	}
}

func TestBuddyRepositoryLivePairIsUnique(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	testutil.CreateUser(t, database, "a", "Aiko")
	testutil.CreateUser(t, database, "b", "Ben")
	repo := NewBuddyRepository(database)

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newRelation("a", "b", now)))

	// reverse direction collides on the same pair key
	err := repo.Create(ctx, newRelation("b", "a", now))
	assert.ErrorIs(t, err, ErrRelationExists)

	live, err := repo.Live(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", live.RequesterID)
	assert.Equal(t, model.PairKey("a", "b"), live.PairKey)
}

func TestBuddyRepositoryRespondAndDelete(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	testutil.CreateUser(t, database, "a", "Aiko")
	testutil.CreateUser(t, database, "b", "Ben")
	repo := NewBuddyRepository(database)

	now := time.Now().UTC()
	rel := newRelation("a", "b", now)
	require.NoError(t, repo.Create(ctx, rel))

	pending, err := repo.PendingFor(ctx, "b")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.Respond(ctx, rel.ID, model.BuddyStatusAccepted, now.Add(time.Minute)))
	assert.ErrorIs(t, repo.Respond(ctx, rel.ID, model.BuddyStatusRejected, now), ErrInvalidStateTransition)
	assert.ErrorIs(t, repo.Respond(ctx, "missing", model.BuddyStatusAccepted, now), ErrRelationNotFound)

	for _, user := range []string{"a", "b"} {
		accepted, err := repo.Accepted(ctx, user)
		require.NoError(t, err)
		require.Len(t, accepted, 1, user)
		assert.NotNil(t, accepted[0].RespondedAt)
	}

	require.NoError(t, repo.DeleteAccepted(ctx, "b", "a"))
	assert.ErrorIs(t, repo.DeleteAccepted(ctx, "a", "b"), ErrRelationNotFound)

	_, err = repo.ByID(ctx, rel.ID)
	assert.ErrorIs(t, err, ErrRelationNotFound)

	// removal frees the pair for a new request
	require.NoError(t, repo.Create(ctx, newRelation("b", "a", now)))
}

func TestBuddyRepositoryRejectedDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	testutil.CreateUser(t, database, "a", "Aiko")
	testutil.CreateUser(t, database, "b", "Ben")
	repo := NewBuddyRepository(database)

	now := time.Now().UTC()
	rel := newRelation("a", "b", now)
	require.NoError(t, repo.Create(ctx, rel))
	require.NoError(t, repo.Respond(ctx, rel.ID, model.BuddyStatusRejected, now))

	_, err := repo.Live(ctx, "a", "b")
	assert.ErrorIs(t, err, ErrRelationNotFound)
	require.NoError(t, repo.Create(ctx, newRelation("a", "b", now)))
}

func TestUserRepositorySearchAndBuddies(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	users := NewUserRepository(database)
	buddies := NewBuddyRepository(database)

	now := time.Now().UTC()
	for _, u := range []*model.User{
		{ID: "a", Name: "Aiko Tanaka", CreatedAt: now},
		{ID: "b", Name: "Ben Tanaka", CreatedAt: now},
		{ID: "c", Name: "Chris", CreatedAt: now},
		{ID: "d", Name: "100%_Dana", CreatedAt: now},
	} {
		require.NoError(t, users.Create(ctx, u))
	}
	assert.ErrorIs(t, users.Create(ctx, &model.User{ID: "a", Name: "dup", CreatedAt: now}), ErrUserExists)

	found, err := users.Search(ctx, "a", "tanaka", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].ID)

	found, err = users.Search(ctx, "a", "c", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c", found[0].ID)

	found, err = users.Search(ctx, "a", "%", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "d", found[0].ID)

	found, err = users.Search(ctx, "a", "a", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = users.ByID(ctx, "zzz")
	assert.ErrorIs(t, err, ErrUserNotFound)

	rel := newRelation("b", "a", now)
	require.NoError(t, buddies.Create(ctx, rel))
	require.NoError(t, buddies.Respond(ctx, rel.ID, model.BuddyStatusAccepted, now))
	require.NoError(t, buddies.Create(ctx, newRelation("a", "c", now)))

	list, err := users.Buddies(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	list, err = users.Buddies(ctx, "b")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}
