package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/workoutbuddy/internal/apperr"
	"github.com/templui/workoutbuddy/internal/ctxkeys"
	"github.com/templui/workoutbuddy/internal/repository"
	"github.com/templui/workoutbuddy/internal/service"
	"github.com/templui/workoutbuddy/internal/testutil"
)

type handlers struct {
	goal         *GoalHandler
	workout      *WorkoutHandler
	buddy        *BuddyHandler
	notification *NotificationHandler
	health       *HealthHandler
}

func newHandlers(t *testing.T) *handlers {
	t.Helper()

	database := testutil.NewDB(t)
	testutil.CreateUser(t, database, "alice", "Alice")
	testutil.CreateUser(t, database, "bob", "Bob")

	users := repository.NewUserRepository(database)
	workouts := repository.NewWorkoutRepository(database)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(database), users)
	goals := service.NewGoalService(repository.NewGoalRepository(database))

	return &handlers{
		goal: NewGoalHandler(goals),
		workout: NewWorkoutHandler(service.NewWorkoutService(
			workouts, repository.NewReactionRepository(database), users, goals, notifications,
		)),
		buddy:        NewBuddyHandler(service.NewBuddyService(repository.NewBuddyRepository(database), users, notifications, 0)),
		notification: NewNotificationHandler(notifications),
		health:       NewHealthHandler(database),
	}
}

// call runs fn as userID with an optional JSON body and path values.
func call(t *testing.T, fn http.HandlerFunc, method, userID, body string, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(ctxkeys.WithUserID(req.Context(), userID))
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}

	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]errorBody](t, rec)
	return body["error"].Code
}

const goalJSON = `{"durationCategory":"3months","weeklyFrequencyTarget":3,"exerciseType":"running","sessionTimeTargetMinutes":30}`

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindSelfReference, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindInvalidTransition, http.StatusConflict},
		{apperr.KindDuplicate, http.StatusConflict},
		{apperr.KindInternal, http.StatusInternalServerError},
		{"unauthorized", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.kind), tt.kind)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Equal(t, "internal", errorCode(t, rec))
}

func TestDecodeJSON(t *testing.T) {
	var in struct {
		Comment string `json:"comment"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, decodeJSON(req, &in))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"comment":`))
	assert.ErrorIs(t, decodeJSON(req, &in), errInvalidBody)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	assert.ErrorIs(t, decodeJSON(req, &in), errInvalidBody)
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	h := newHandlers(t)

	rec := call(t, h.goal.State, http.MethodGet, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoalHandlers(t *testing.T) {
	h := newHandlers(t)

	rec := call(t, h.goal.State, http.MethodGet, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "never_set", decode[map[string]any](t, rec)["kind"])

	rec = call(t, h.goal.Set, http.MethodPut, "alice", `{"durationCategory":"1year","weeklyFrequencyTarget":3,"exerciseType":"running","sessionTimeTargetMinutes":30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.goal.Set, http.MethodPut, "alice", goalJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["active"])

	rec = call(t, h.goal.History, http.MethodGet, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = call(t, h.goal.Clear, http.MethodDelete, "alice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h.goal.State, http.MethodGet, "alice", "")
	assert.Equal(t, "inactive", decode[map[string]any](t, rec)["kind"])
}

func TestWorkoutHandlers(t *testing.T) {
	h := newHandlers(t)

	rec := call(t, h.workout.Start, http.MethodPost, "alice", `{"exerciseType":"running"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_active_goal", errorCode(t, rec))

	require.Equal(t, http.StatusOK, call(t, h.goal.Set, http.MethodPut, "alice", goalJSON).Code)

	rec = call(t, h.workout.StartWithGoal, http.MethodPost, "alice", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[map[string]any](t, rec)
	id := session["id"].(string)
	assert.Equal(t, "running", session["exerciseType"])

	rec = call(t, h.workout.Start, http.MethodPost, "alice", `{"exerciseType":"yoga"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h.workout.Current, http.MethodGet, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[map[string]any](t, rec)["id"])

	rec = call(t, h.workout.InProgress, http.MethodGet, "alice", "", "id", id)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[map[string]any](t, rec)
	assert.Equal(t, "Running", view["exerciseLabel"])
	assert.Equal(t, "Alice", view["userName"])

	// bob cannot see or complete alice's session
	assert.Equal(t, http.StatusNotFound, call(t, h.workout.Show, http.MethodGet, "bob", "", "id", id).Code)
	assert.Equal(t, http.StatusNotFound, call(t, h.workout.Complete, http.MethodPost, "bob", "", "id", id).Code)

	rec = call(t, h.workout.Complete, http.MethodPost, "alice", `{"comment":"  felt good "}`, "id", id)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[map[string]any](t, rec)
	assert.Equal(t, "completed", done["status"])
	assert.Equal(t, "felt good", done["comment"])

	rec = call(t, h.workout.Cancel, http.MethodPost, "alice", "", "id", id)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h.workout.React, http.MethodPost, "bob", `{"type":"fire"}`, "id", id)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = call(t, h.workout.React, http.MethodPost, "bob", `{"type":"meh"}`, "id", id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.workout.Reactions, http.MethodGet, "alice", "", "id", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = call(t, h.workout.List, http.MethodGet, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestBuddyAndNotificationHandlers(t *testing.T) {
	h := newHandlers(t)

	rec := call(t, h.buddy.SendRequest, http.MethodPost, "alice", `{"userId":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "self_request", errorCode(t, rec))

	rec = call(t, h.buddy.SendRequest, http.MethodPost, "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.buddy.SendRequest, http.MethodPost, "alice", `{"userId":"bob"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	relID := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h.buddy.SendRequest, http.MethodPost, "alice", `{"userId":"bob"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_pending", errorCode(t, rec))

	rec = call(t, h.buddy.Pending, http.MethodGet, "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	// only the requested user may answer
	assert.Equal(t, http.StatusNotFound, call(t, h.buddy.Accept, http.MethodPost, "alice", "", "id", relID).Code)
	rec = call(t, h.buddy.Accept, http.MethodPost, "bob", "", "id", relID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "accepted", decode[map[string]any](t, rec)["status"])

	rec = call(t, h.buddy.List, http.MethodGet, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	buddies := decode[[]map[string]any](t, rec)
	require.Len(t, buddies, 1)
	assert.Equal(t, "bob", buddies[0]["id"])

	rec = call(t, h.notification.CheckNew, http.MethodGet, "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	check := decode[map[string]any](t, rec)
	assert.Equal(t, true, check["hasNew"])
	assert.Equal(t, float64(1), check["count"])

	rec = call(t, h.notification.Unread, http.MethodGet, "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	unread := decode[[]map[string]any](t, rec)
	require.Len(t, unread, 1)
	assert.Equal(t, "buddy_request", unread[0]["type"])
	assert.NotEmpty(t, unread[0]["label"])
	noteID := unread[0]["id"].(string)

	assert.Equal(t, http.StatusNotFound, call(t, h.notification.Show, http.MethodGet, "alice", "", "id", noteID).Code)
	assert.Equal(t, http.StatusOK, call(t, h.notification.Show, http.MethodGet, "bob", "", "id", noteID).Code)

	assert.Equal(t, http.StatusNoContent, call(t, h.notification.MarkRead, http.MethodPost, "bob", "", "id", noteID).Code)
	assert.Equal(t, http.StatusNoContent, call(t, h.notification.MarkAllRead, http.MethodPost, "bob", "").Code)
	rec = call(t, h.notification.CheckNew, http.MethodGet, "bob", "")
	assert.Equal(t, false, decode[map[string]any](t, rec)["hasNew"])

	assert.Equal(t, http.StatusNoContent, call(t, h.notification.Delete, http.MethodDelete, "bob", "", "id", noteID).Code)
	assert.Equal(t, http.StatusNotFound, call(t, h.notification.Delete, http.MethodDelete, "bob", "", "id", noteID).Code)

	assert.Equal(t, http.StatusNoContent, call(t, h.buddy.Remove, http.MethodDelete, "alice", "", "userId", "bob").Code)
	assert.Equal(t, http.StatusNotFound, call(t, h.buddy.Remove, http.MethodDelete, "alice", "", "userId", "bob").Code)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("down") }

func TestHealthz(t *testing.T) {
	h := newHandlers(t)

	rec := call(t, h.health.Healthz, http.MethodGet, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, NewHealthHandler(failingPinger{}).Healthz, http.MethodGet, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
