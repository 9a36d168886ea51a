package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/mocks"
)

func testPayload() Payload {
	taskID := uuid.New()
	return Payload{
		Title:  "Deadline reminder",
		Body:   `"Quarterly report" is due in 3 days`,
		Type:   domain.NotificationWarning,
		TaskID: &taskID,
	}
}

func TestDispatch_RecordFailureIsFatal(t *testing.T) {
	notifications := &mocks.NotificationStore{}
	notifications.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	users := &mocks.UserStore{}
	push := &mocks.PushSender{}

	d := NewDispatcher(notifications, users, push, nil, 0, 0, nil)

	_, err := d.Dispatch(context.Background(), uuid.New(), testPayload(), DefaultOptions())
	require.Error(t, err)

	// Nothing downstream may run when the durable record fails.
	push.AssertNotCalled(t, "SendBatch",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_PushFailureStillReturnsRecordID(t *testing.T) {
	userID := uuid.New()

	notifications := &mocks.NotificationStore{}
	var recorded *domain.NotificationRecord
	notifications.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.NotificationRecord)
		}).
		Return(nil)

	users := &mocks.UserStore{}
	users.On("GetPushTokens", mock.Anything, userID).Return([]string{"tok-1"}, nil)

	push := &mocks.PushSender{}
	push.On("SendBatch", mock.Anything, []string{"tok-1"}, mock.Anything, mock.Anything, mock.Anything).
		Return(0, errors.New("gateway unreachable"))

	d := NewDispatcher(notifications, users, push, nil, 0, 0, nil)

	id, err := d.Dispatch(context.Background(), userID, testPayload(), DefaultOptions())
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, recorded.ID, id)
	assert.Equal(t, userID, recorded.UserID)
	assert.False(t, recorded.IsRead)
}

func TestDispatch_PushBatching(t *testing.T) {
	userID := uuid.New()

	notifications := &mocks.NotificationStore{}
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	tokens := []string{"a", "b", "c", "d", "e"}
	users := &mocks.UserStore{}
	users.On("GetPushTokens", mock.Anything, userID).Return(tokens, nil)

	push := &mocks.PushSender{}
	push.On("SendBatch", mock.Anything, []string{"a", "b"}, mock.Anything, mock.Anything, mock.Anything).
		Return(2, nil)
	push.On("SendBatch", mock.Anything, []string{"c", "d"}, mock.Anything, mock.Anything, mock.Anything).
		Return(1, nil)
	push.On("SendBatch", mock.Anything, []string{"e"}, mock.Anything, mock.Anything, mock.Anything).
		Return(1, nil)

	d := NewDispatcher(notifications, users, push, nil, 2, 0, nil)

	_, err := d.Dispatch(context.Background(), userID, testPayload(), DefaultOptions())
	require.NoError(t, err)

	push.AssertExpectations(t)
}

func TestDispatch_NoTokens_SkipsPush(t *testing.T) {
	userID := uuid.New()

	notifications := &mocks.NotificationStore{}
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	users := &mocks.UserStore{}
	users.On("GetPushTokens", mock.Anything, userID).Return([]string{}, nil)

	push := &mocks.PushSender{}

	d := NewDispatcher(notifications, users, push, nil, 0, 0, nil)

	_, err := d.Dispatch(context.Background(), userID, testPayload(), DefaultOptions())
	require.NoError(t, err)

	push.AssertNotCalled(t, "SendBatch",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_EmailSentToEnabledRecipient(t *testing.T) {
	userID := uuid.New()

	notifications := &mocks.NotificationStore{}
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	users := &mocks.UserStore{}
	users.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID:           userID,
		Email:        "staff@example.com",
		EmailEnabled: true,
	}, nil)

	email := &mocks.EmailSender{}
	var sentBody string
	email.On("Send", mock.Anything, "staff@example.com", "Deadline reminder", mock.Anything).
		Run(func(args mock.Arguments) {
			sentBody = args.Get(3).(string)
		}).
		Return(nil)

	d := NewDispatcher(notifications, users, nil, email, 0, 0, nil)

	opts := Options{
		SendEmail: true,
		TaskTitle: "Quarterly report",
		DueDate:   time.Date(2024, time.July, 10, 17, 0, 0, 0, time.UTC),
		HoursLeft: 71,
	}
	_, err := d.Dispatch(context.Background(), userID, testPayload(), opts)
	require.NoError(t, err)

	email.AssertExpectations(t)
	assert.Contains(t, sentBody, "Quarterly report")
	assert.Contains(t, sentBody, "71 hours")
}

func TestDispatch_EmailDisabledRecipient_Skipped(t *testing.T) {
	userID := uuid.New()

	notifications := &mocks.NotificationStore{}
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	users := &mocks.UserStore{}
	users.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID:           userID,
		Email:        "staff@example.com",
		EmailEnabled: false,
	}, nil)

	email := &mocks.EmailSender{}

	d := NewDispatcher(notifications, users, nil, email, 0, 0, nil)

	_, err := d.Dispatch(context.Background(), userID, testPayload(), Options{SendEmail: true})
	require.NoError(t, err)

	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_EmailFailureSwallowed(t *testing.T) {
	userID := uuid.New()

	notifications := &mocks.NotificationStore{}
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	users := &mocks.UserStore{}
	users.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID:           userID,
		Email:        "staff@example.com",
		EmailEnabled: true,
	}, nil)

	email := &mocks.EmailSender{}
	email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp refused"))

	d := NewDispatcher(notifications, users, nil, email, 0, 0, nil)

	id, err := d.Dispatch(context.Background(), userID, testPayload(), Options{SendEmail: true})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestDispatch_InvalidPayload(t *testing.T) {
	d := NewDispatcher(&mocks.NotificationStore{}, &mocks.UserStore{}, nil, nil, 0, 0, nil)

	_, err := d.Dispatch(context.Background(), uuid.New(), Payload{
		Title: "",
		Type:  domain.NotificationInfo,
	}, DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrNotificationTitleEmpty)
}
