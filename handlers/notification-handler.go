package handlers

import (
	"net/http"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/services"
)

type MarkReadRequest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler accepts a nil service; every route then answers 503.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	notifications, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req MarkReadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == "" || req.CreatedAt.IsZero() {
		writeError(w, r, apperrors.InvalidArgument("id and createdAt are required"))
		return
	}
	if err := h.service.MarkRead(r.Context(), caller, req.ID, req.CreatedAt); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) available(w http.ResponseWriter) bool {
	if h.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "notifications are not configured"})
		return false
	}
	return true
}
