package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/events"
)

// StatusChangeNotifier handles task status-change events by dispatching an
// in-app notification to the task's assignee. Push only; status changes do
// not email.
type StatusChangeNotifier struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewStatusChangeNotifier creates a StatusChangeNotifier.
func NewStatusChangeNotifier(dispatcher *Dispatcher, log *slog.Logger) *StatusChangeNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &StatusChangeNotifier{
		dispatcher: dispatcher,
		logger:     log.With("component", "status_change_notifier"),
	}
}

// HandleEvent implements events.EventHandler.
func (n *StatusChangeNotifier) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.EventTaskStatusChanged {
		return nil
	}

	var payload events.TaskStatusChangedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal status change payload: %w", err)
	}

	// Unassigned tasks have nobody to notify.
	if payload.AssigneeID == nil {
		return nil
	}

	taskID := payload.TaskID
	body := fmt.Sprintf("%q moved from %s to %s",
		payload.TaskTitle,
		statusLabel(payload.OldStatus),
		statusLabel(payload.NewStatus),
	)

	_, err := n.dispatcher.Dispatch(ctx, *payload.AssigneeID, Payload{
		Title:  "Task status updated",
		Body:   body,
		Type:   domain.NotificationInfo,
		TaskID: &taskID,
	}, DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to dispatch status change notification: %w", err)
	}

	n.logger.Debug("dispatched status change notification",
		"task_id", payload.TaskID,
		"assignee_id", payload.AssigneeID,
		"new_status", payload.NewStatus)
	return nil
}

// statusLabel renders a status value for user-facing copy.
func statusLabel(status string) string {
	switch domain.TaskStatus(status) {
	case domain.TaskStatusUnassigned:
		return "Unassigned"
	case domain.TaskStatusOngoing:
		return "Ongoing"
	case domain.TaskStatusPendingReview:
		return "Pending Review"
	case domain.TaskStatusCompleted:
		return "Completed"
	default:
		return status
	}
}
