package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/events"
	"github.com/fernwork/taskboard-api/internal/mocks"
)

func statusChangedEvent(t *testing.T, assigneeID *uuid.UUID) *events.Event {
	t.Helper()

	event, err := events.NewEvent(events.EventTaskStatusChanged, events.TaskStatusChangedPayload{
		TaskID:     uuid.New(),
		TaskTitle:  "Quarterly report",
		AssigneeID: assigneeID,
		OldStatus:  string(domain.TaskStatusOngoing),
		NewStatus:  string(domain.TaskStatusCompleted),
	})
	require.NoError(t, err)
	return event
}

func TestStatusChangeNotifier_DispatchesToAssignee(t *testing.T) {
	assigneeID := uuid.New()

	notifications := &mocks.NotificationStore{}
	var recorded *domain.NotificationRecord
	notifications.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.NotificationRecord)
		}).
		Return(nil)

	d := NewDispatcher(notifications, &mocks.UserStore{}, nil, nil, 0, 0, nil)
	notifier := NewStatusChangeNotifier(d, nil)

	err := notifier.HandleEvent(context.Background(), statusChangedEvent(t, &assigneeID))
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, assigneeID, recorded.UserID)
	assert.Equal(t, domain.NotificationInfo, recorded.Type)
	assert.Equal(t, "Task status updated", recorded.Title)
	assert.Contains(t, recorded.Body, "Quarterly report")
	assert.Contains(t, recorded.Body, "Ongoing")
	assert.Contains(t, recorded.Body, "Completed")
}

func TestStatusChangeNotifier_NoAssignee_NoDispatch(t *testing.T) {
	notifications := &mocks.NotificationStore{}

	d := NewDispatcher(notifications, &mocks.UserStore{}, nil, nil, 0, 0, nil)
	notifier := NewStatusChangeNotifier(d, nil)

	err := notifier.HandleEvent(context.Background(), statusChangedEvent(t, nil))
	require.NoError(t, err)

	notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStatusChangeNotifier_IgnoresOtherEventTypes(t *testing.T) {
	notifications := &mocks.NotificationStore{}

	d := NewDispatcher(notifications, &mocks.UserStore{}, nil, nil, 0, 0, nil)
	notifier := NewStatusChangeNotifier(d, nil)

	event, err := events.NewEvent("something_else", map[string]string{"k": "v"})
	require.NoError(t, err)

	require.NoError(t, notifier.HandleEvent(context.Background(), event))
	notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
