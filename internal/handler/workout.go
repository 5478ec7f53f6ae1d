package handler

import (
	"context"
	"net/http"

	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/service"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
}

func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
	}
}

type startRequest struct {
	ExerciseType string `json:"exerciseType"`
}

type completeRequest struct {
	Comment string `json:"comment"`
}

type reactionRequest struct {
	Type string `json:"type"`
}

func (h *WorkoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req startRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.workoutService.StartSession(r.Context(), userID, req.ExerciseType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *WorkoutHandler) StartWithGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	session, err := h.workoutService.StartSessionWithGoalExerciseType(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.workoutService.Sessions(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(sessions))
}

func (h *WorkoutHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	session, err := h.workoutService.InProgress(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *WorkoutHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	session, err := h.owned(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *WorkoutHandler) InProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	view, err := h.workoutService.InProgressView(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *WorkoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req completeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.owned(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err = h.workoutService.CompleteSession(r.Context(), session.ID, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *WorkoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	session, err := h.owned(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err = h.workoutService.CancelSession(r.Context(), session.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// React lets any authenticated user react to a session; the owner is only
// notified when someone else reacts.
func (h *WorkoutHandler) React(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req reactionRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reaction, err := h.workoutService.AddReaction(r.Context(), r.PathValue("id"), userID, req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, reaction)
}

func (h *WorkoutHandler) Reactions(w http.ResponseWriter, r *http.Request) {
	reactions, err := h.workoutService.Reactions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(reactions))
}

// owned hides sessions of other users behind not found.
func (h *WorkoutHandler) owned(ctx context.Context, userID, sessionID string) (*model.WorkoutSession, error) {
	session, err := h.workoutService.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}
