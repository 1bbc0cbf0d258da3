package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
)

// NotificationHandler handles the notification feed endpoints.
type NotificationHandler struct {
	service *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/notifications: one consistent snapshot of the
// caller's feed, newest first, with the unread count derived from it.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	snapshot, err := h.service.List(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("listing notifications failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load notifications", requestID)
		return
	}

	response.Success(w, http.StatusOK, snapshot, requestID)
}

// Stream handles GET /api/notifications/stream: a live SSE feed. Each event
// carries a full snapshot; the client replaces its local mirror wholesale on
// every event rather than patching it. The subscription is explicitly closed
// when the request context ends.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Err(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming is not supported", requestID)
		return
	}

	sub, err := h.service.Subscribe(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("feed subscription failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to open notification stream", requestID)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-sub.C:
			if !ok {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				slog.Error("encoding snapshot failed", "error", err, "requestId", requestID)
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// MarkRead handles PATCH /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Notification ID must be a valid UUID", requestID)
		return
	}

	if err := h.service.MarkRead(r.Context(), id, state.Identity.ID); err != nil {
		h.writeNotificationError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// MarkAllRead handles POST /api/notifications/read-all and reports the
// aggregate outcome; partially failed batches are not rolled back.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	result, err := h.service.MarkAllRead(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("mark-all-read failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications read", requestID)
		return
	}

	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	response.Success(w, status, result, requestID)
}

// Delete handles DELETE /api/notifications/{id}.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Notification ID must be a valid UUID", requestID)
		return
	}

	if err := h.service.Delete(r.Context(), id, state.Identity.ID); err != nil {
		h.writeNotificationError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

func (h *NotificationHandler) writeNotificationError(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, notification.ErrNotFound) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", requestID)
		return
	}
	slog.Error("notification operation failed", "error", err, "requestId", requestID)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Notification operation failed", requestID)
}
