package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// ChangeStatusRequest is the request body for a task status transition.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ChangeStatusResponse reports whether the transition changed anything. A
// transition to the current status is accepted but changes nothing.
type ChangeStatusResponse struct {
	Changed bool `json:"changed"`
}

// CreateRecurrenceRequest describes a new recurring task series: the rule
// plus the fields of the first task instance.
type CreateRecurrenceRequest struct {
	OwnerID     uuid.UUID             `json:"owner_id"    validate:"required"`
	Title       string                `json:"title"       validate:"required,max=255"`
	Description string                `json:"description"`
	DueDate     time.Time             `json:"due_date"    validate:"required"`
	AssigneeID  *uuid.UUID            `json:"assignee_id,omitempty"`
	Rule        domain.RecurrenceRule `json:"rule"`
}

// CreateRecurrenceResponse returns the new template's ID.
type CreateRecurrenceResponse struct {
	TemplateID uuid.UUID `json:"template_id"`
}

// UpdateRecurrenceRequest carries the replacement rule for a template.
type UpdateRecurrenceRequest struct {
	Rule domain.RecurrenceRule `json:"rule"`
}

// NotificationListResponse wraps a page of notification records.
type NotificationListResponse struct {
	Notifications []*domain.NotificationRecord `json:"notifications"`
}
