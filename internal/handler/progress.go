package handler

import (
	"net/http"
	"time"

	"github.com/templui/workoutbuddy/internal/apperr"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/service"
)

var errInvalidDate = apperr.Validation("invalid_date", "date must be formatted as YYYY-MM-DD")

type ProgressHandler struct {
	progressService *service.ProgressService
	now             func() time.Time
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		now:             time.Now,
	}
}

func (h *ProgressHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	ref, err := h.referenceDate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	progress, err := h.progressService.WeeklyProgress(r.Context(), userID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) Buddies(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	ref, err := h.referenceDate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := h.progressService.BuddyProgressList(r.Context(), userID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

// referenceDate reads ?date=YYYY-MM-DD, defaulting to today in UTC.
func (h *ProgressHandler) referenceDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.now().UTC(), nil
	}
	ref, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return ref, nil
}
