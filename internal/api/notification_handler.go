package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fernwork/taskboard-api/internal/api/shared"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// defaultNotificationLimit caps a notification listing when the client does
// not ask for a specific page size.
const defaultNotificationLimit = 50

// NotificationHandler serves read access to the notification feed.
type NotificationHandler struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifications store.NotificationStore, log *slog.Logger) *NotificationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationHandler{
		notifications: notifications,
		logger:        log,
	}
}

// ListByUser handles GET /users/{id}/notifications. Results are newest first;
// an optional limit query parameter bounds the page size.
func (h *NotificationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.notifications.ListByUser(r.Context(), userID, limit)
	if err != nil {
		log.Warn("notification listing failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NotificationListResponse{Notifications: records})
}

// GetByID handles GET /notifications/{id}.
func (h *NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	record, err := h.notifications.GetByID(r.Context(), id)
	if err != nil {
		log.Debug("notification lookup failed",
			slog.String("notification_id", id.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}
