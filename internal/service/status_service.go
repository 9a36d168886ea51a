package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/events"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// StatusServiceError is a custom error type for status service errors.
type StatusServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StatusServiceError.
func (e *StatusServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("status service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StatusServiceError) Unwrap() error {
	return e.Err
}

// NewStatusServiceError creates a new StatusServiceError.
func NewStatusServiceError(operation, message string, err error) *StatusServiceError {
	return &StatusServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// StatusService applies status transitions and maintains the status history
// ledger.
type StatusService interface {
	// ChangeStatus transitions a task to newStatus and appends a history
	// entry, as one atomic write. A transition to the task's current status
	// appends nothing and returns changed=false, which is not an error:
	// callers use it to skip downstream notification.
	ChangeStatus(ctx context.Context, taskID uuid.UUID, newStatus domain.TaskStatus) (changed bool, err error)
}

// statusServiceImpl implements the StatusService interface.
type statusServiceImpl struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
}

// NewStatusService creates a new StatusService. The emitter may be nil, in
// which case no status-change events are published.
func NewStatusService(
	tasks store.TaskStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) (StatusService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("%w: task store cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &statusServiceImpl{
		tasks:   tasks,
		emitter: emitter,
		logger:  log.With(slog.String("component", "status_service")),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// ChangeStatus implements StatusService.ChangeStatus.
func (s *statusServiceImpl) ChangeStatus(
	ctx context.Context,
	taskID uuid.UUID,
	newStatus domain.TaskStatus,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !newStatus.IsValid() {
		return false, NewStatusServiceError("change_status", "invalid status", domain.ErrInvalidTaskStatus)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return false, NewStatusServiceError("change_status", "failed to load task", err)
	}

	// No-op transition: nothing to append, nothing to notify.
	if task.Status == newStatus {
		log.Debug("status unchanged",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(newStatus)))
		return false, nil
	}

	history := task.StatusHistory

	// Tasks that predate the history feature get a synthetic bootstrap entry
	// first, so history is never observed as empty for a task with a status.
	if len(history) == 0 {
		history = append(history, domain.StatusChange{
			Timestamp: task.CreatedAt,
			OldStatus: nil,
			NewStatus: task.Status,
		})
	}

	oldStatus := task.Status
	history = append(history, domain.StatusChange{
		Timestamp: s.now(),
		OldStatus: &oldStatus,
		NewStatus: newStatus,
	})

	// Status and history land in one compare-and-set write; a crash cannot
	// leave them inconsistent.
	err = s.tasks.ApplyStatusChange(ctx, taskID, newStatus, history, task.Version)
	if err != nil {
		return false, NewStatusServiceError("change_status", "failed to apply transition", err)
	}

	s.emitStatusChanged(ctx, task, oldStatus, newStatus)

	log.Info("task status changed",
		slog.String("task_id", taskID.String()),
		slog.String("old_status", string(oldStatus)),
		slog.String("new_status", string(newStatus)))
	return true, nil
}

// emitStatusChanged publishes the status-change event. Emission failures are
// logged, never propagated: the transition is already durable and downstream
// notification is best effort.
func (s *statusServiceImpl) emitStatusChanged(
	ctx context.Context,
	task *domain.Task,
	oldStatus, newStatus domain.TaskStatus,
) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.EventTaskStatusChanged, events.TaskStatusChangedPayload{
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: task.AssigneeID,
		OldStatus:  string(oldStatus),
		NewStatus:  string(newStatus),
	})
	if err != nil {
		s.logger.Error("failed to build status change event",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("status change event handling failed",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
	}
}
