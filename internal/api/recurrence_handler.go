package api

import (
	"log/slog"
	"net/http"

	"github.com/fernwork/taskboard-api/internal/api/shared"
	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/service"
)

// RecurrenceHandler serves the recurring-template lifecycle endpoints.
type RecurrenceHandler struct {
	recurrenceService service.RecurrenceService
	logger            *slog.Logger
}

// NewRecurrenceHandler creates a RecurrenceHandler.
func NewRecurrenceHandler(recurrenceService service.RecurrenceService, log *slog.Logger) *RecurrenceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RecurrenceHandler{
		recurrenceService: recurrenceService,
		logger:            log,
	}
}

// Create handles POST /recurrences: it validates the rule and first-instance
// fields, then creates the template and materializes the task instances.
func (h *RecurrenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateRecurrenceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	first, err := domain.NewTask(req.Title, req.DueDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	first.Description = req.Description
	first.AssigneeID = req.AssigneeID

	templateID, err := h.recurrenceService.Create(r.Context(), req.OwnerID, req.Rule, first)
	if err != nil {
		log.Warn("recurrence create failed", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateRecurrenceResponse{TemplateID: templateID})
}

// Update handles PUT /recurrences/{id}: it replaces the rule and reshapes the
// template's future instances.
func (h *RecurrenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	templateID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateRecurrenceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.recurrenceService.Update(r.Context(), templateID, req.Rule); err != nil {
		log.Warn("recurrence update failed",
			slog.String("template_id", templateID.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "updated"})
}

// Disable handles DELETE /recurrences/{id}: it detaches future instances and
// deactivates the template. Completed or past instances keep their history.
func (h *RecurrenceHandler) Disable(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	templateID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.recurrenceService.Disable(r.Context(), templateID); err != nil {
		log.Warn("recurrence disable failed",
			slog.String("template_id", templateID.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "disabled"})
}
