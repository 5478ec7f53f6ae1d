package handler

import (
	"net/http"
	"strings"

	"github.com/templui/workoutbuddy/internal/service"
)

type BuddyHandler struct {
	buddyService *service.BuddyService
}

func NewBuddyHandler(buddyService *service.BuddyService) *BuddyHandler {
	return &BuddyHandler{
		buddyService: buddyService,
	}
}

type buddyRequest struct {
	UserID string `json:"userId"`
}

func (h *BuddyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	buddies, err := h.buddyService.ListAccepted(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(buddies))
}

func (h *BuddyHandler) Pending(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	pending, err := h.buddyService.ListPending(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(pending))
}

func (h *BuddyHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.buddyService.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(users))
}

func (h *BuddyHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req buddyRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, r, errMissingParams)
		return
	}

	rel, err := h.buddyService.SendRequest(r.Context(), userID, strings.TrimSpace(req.UserID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rel)
}

func (h *BuddyHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rel, err := h.buddyService.AcceptRequestAs(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rel)
}

func (h *BuddyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rel, err := h.buddyService.RejectRequestAs(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rel)
}

func (h *BuddyHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	err := h.buddyService.RemoveBuddy(r.Context(), userID, r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
