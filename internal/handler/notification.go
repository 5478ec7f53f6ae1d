package handler

import (
	"net/http"

	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// notificationView adds the display label and icon of the type.
type notificationView struct {
	*model.Notification
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

func newNotificationView(n *model.Notification) notificationView {
	return notificationView{Notification: n, Label: n.Type.Label(), Icon: n.Type.Icon()}
}

func views(list []*model.Notification) []notificationView {
	out := make([]notificationView, 0, len(list))
	for _, n := range list {
		out = append(out, newNotificationView(n))
	}
	return out
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.notificationService.ListAll(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views(list))
}

func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.notificationService.ListUnread(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views(list))
}

func (h *NotificationHandler) CheckNew(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	check, err := h.notificationService.CheckNew(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, check)
}

func (h *NotificationHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.notificationService.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newNotificationView(n))
}

// MarkRead always answers 204, also for unknown ids.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	err := h.notificationService.MarkRead(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	err := h.notificationService.Delete(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
