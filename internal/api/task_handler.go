package api

import (
	"log/slog"
	"net/http"

	"github.com/fernwork/taskboard-api/internal/api/shared"
	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/service"
)

// TaskHandler serves the task status transition endpoint.
type TaskHandler struct {
	statusService service.StatusService
	logger        *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(statusService service.StatusService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		statusService: statusService,
		logger:        log,
	}
}

// ChangeStatus handles POST /tasks/{id}/status. It applies the transition and
// reports whether anything changed; a transition to the current status is a
// valid no-op.
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ChangeStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Status is required")
		return
	}

	changed, err := h.statusService.ChangeStatus(r.Context(), taskID, domain.TaskStatus(req.Status))
	if err != nil {
		log.Warn("status change failed",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ChangeStatusResponse{Changed: changed})
}
