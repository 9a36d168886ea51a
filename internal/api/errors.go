package api

import (
	"errors"
	"net/http"

	"github.com/fernwork/taskboard-api/internal/api/shared"
	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/service"
	"github.com/fernwork/taskboard-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTemplateNotFound),
		errors.Is(err, store.ErrNotificationNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrTemplateInactive):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrInvalidRecurrenceType),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTemplateNotFound):
		return "Recurring template not found"

	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrConflict):
		return "The record was modified concurrently, retry the request"

	case errors.Is(err, service.ErrTemplateInactive):
		return "Recurring template is disabled"

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.Is(err, domain.ErrInvalidRecurrenceType):
		return "Invalid recurrence type"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes an error response for the given internal error. When
// userMessage is empty the sanitized message derived from the error type is
// used.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), userMessage)
}
