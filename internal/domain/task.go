package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskDueDateZero is returned when a task's due date is unset.
	ErrTaskDueDateZero = errors.New("task due date cannot be zero")
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusUnassigned    TaskStatus = "unassigned"
	TaskStatusOngoing       TaskStatus = "ongoing"
	TaskStatusPendingReview TaskStatus = "pending_review"
	TaskStatusCompleted     TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusUnassigned, TaskStatusOngoing, TaskStatusPendingReview, TaskStatusCompleted:
		return true
	}
	return false
}

// StatusChange is a single entry in a task's status history ledger.
// OldStatus is nil only for the synthetic bootstrap entry written for tasks
// that predate the history feature.
type StatusChange struct {
	Timestamp time.Time   `json:"timestamp"`
	OldStatus *TaskStatus `json:"old_status"`
	NewStatus TaskStatus  `json:"new_status"`
}

// Task represents a unit of work assigned to a user. Tasks generated from a
// recurring template carry a back-reference to it in RecurringTemplateID.
//
// StatusHistory is append-only and non-decreasing in timestamp; when present,
// its last entry's NewStatus matches the task's current Status. Version guards
// compare-and-set writes that update Status and StatusHistory together.
type Task struct {
	ID                  uuid.UUID      `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description,omitempty"`
	DueDate             time.Time      `json:"due_date"`
	Status              TaskStatus     `json:"status"`
	AssigneeID          *uuid.UUID     `json:"assignee_id,omitempty"`
	Archived            bool           `json:"archived"`
	RecurringTemplateID *uuid.UUID     `json:"recurring_template_id,omitempty"`
	StatusHistory       []StatusChange `json:"status_history"`
	Version             int64          `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NewTask creates a new Task with the given title and due date.
// It generates a new UUID for the task ID, starts the task unassigned and
// sets the creation/update timestamps. Returns an error if validation fails.
func NewTask(title string, dueDate time.Time) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Title:     title,
		DueDate:   dueDate,
		Status:    TaskStatusUnassigned,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if t.DueDate.IsZero() {
		return ErrTaskDueDateZero
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// Clone returns a copy of the task with a fresh ID, the given due date and a
// reset status. Used when materializing instances from a recurring template;
// history does not carry over to the new instance.
func (t *Task) Clone(dueDate time.Time) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:                  uuid.New(),
		Title:               t.Title,
		Description:         t.Description,
		DueDate:             dueDate,
		Status:              TaskStatusUnassigned,
		AssigneeID:          t.AssigneeID,
		RecurringTemplateID: t.RecurringTemplateID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
