package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a single task to the store.
	// Returns validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// CreateMultiple saves multiple tasks to the store.
	// IMPORTANT: This method MUST be run within a transaction for atomicity.
	// Use the WithTx method with store.RunInTransaction to ensure proper
	// transaction handling; calling it outside a transaction may result in
	// partial insertion if failures occur.
	CreateMultiple(ctx context.Context, tasks []*domain.Task) error

	// GetByID retrieves a task by its unique ID, including its status history.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListActiveByAssignee retrieves the non-archived tasks assigned to the
	// given user, ordered by due date ascending. This is the scan the deadline
	// reminder scheduler runs per opted-in user.
	ListActiveByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error)

	// ListByTemplate retrieves every task instance generated from the given
	// recurring template, ordered by due date ascending.
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*domain.Task, error)

	// UpdateDueDate rewrites a task's due date.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error

	// DetachFromTemplate clears the recurring-template back-reference on the
	// given tasks in one batched update. Tasks that no longer exist are
	// skipped; the update is best-effort, not cross-document-atomic.
	DetachFromTemplate(ctx context.Context, ids []uuid.UUID) error

	// ApplyStatusChange writes a task's new status and its full status history
	// as a single compare-and-set update guarded by the task's version. A
	// crash can therefore never leave status and history inconsistent.
	// Returns ErrConflict if the task's version no longer matches, and
	// ErrTaskNotFound if the task does not exist.
	ApplyStatusChange(
		ctx context.Context,
		id uuid.UUID,
		newStatus domain.TaskStatus,
		history []domain.StatusChange,
		expectedVersion int64,
	) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
