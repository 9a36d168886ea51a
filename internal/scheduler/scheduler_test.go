package scheduler

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
	"github.com/fernwork/taskboard-api/internal/notify"
	"github.com/fernwork/taskboard-api/internal/store"
)

// mockDispatcher is a mock of the Dispatcher interface.
type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(
	ctx context.Context,
	userID uuid.UUID,
	payload notify.Payload,
	opts notify.Options,
) (uuid.UUID, error) {
	args := m.Called(ctx, userID, payload, opts)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func presetUser() *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Email:        "staff@example.com",
		Timezone:     "UTC",
		EmailEnabled: true,
		ReminderMode: domain.ReminderModePreset,
	}
}

func taskDueIn(d time.Duration, now time.Time, assignee uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:         uuid.New(),
		Title:      "Quarterly report",
		DueDate:    now.Add(d),
		Status:     domain.TaskStatusOngoing,
		AssigneeID: &assignee,
	}
}

func newTestScheduler(
	users *mocks.UserStore,
	tasks *mocks.TaskStore,
	reminders *mocks.ReminderStore,
	dispatcher Dispatcher,
	now time.Time,
) *Scheduler {
	s := New(users, tasks, reminders, dispatcher, DefaultConfig(), nil)
	s.now = func() time.Time { return now }
	return s
}

func TestReminderDue(t *testing.T) {
	intervals := []float64{1, 3, 7}

	tests := []struct {
		name      string
		daysLeft  float64
		hoursLeft float64
		want      bool
	}{
		{"well within three-day window", 3.2, 76.8, true},
		{"exactly on an interval", 3.0, 72.0, true},
		{"between intervals", 5.0, 120.0, false},
		{"just outside seven days", 7.6, 182.4, false},
		{"imminent deadline below any interval window", 0.8, 19.2, true},
		{"window boundary is exclusive", 3.5, 84.0, false},
		{"just inside window boundary", 3.49, 83.76, true},
		{"far future", 30.0, 720.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reminderDue(tt.daysLeft, tt.hoursLeft, intervals))
		})
	}
}

func TestRunTick_DispatchesAndRecordsReminder(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	user := presetUser()
	task := taskDueIn(72*time.Hour, now, user.ID) // 3 days, matches preset interval

	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{user}, nil)

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, user.ID).Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	reminders.On("Exists", mock.Anything, user.ID, task.ID, 3).Return(false, nil)

	var recorded *domain.ReminderLedgerEntry
	reminders.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.ReminderLedgerEntry)
		}).
		Return(nil)

	dispatcher := &mockDispatcher{}
	var sentPayload notify.Payload
	var sentOpts notify.Options
	dispatcher.On("Dispatch", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentPayload = args.Get(2).(notify.Payload)
			sentOpts = args.Get(3).(notify.Options)
		}).
		Return(uuid.New(), nil)

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(context.Background())

	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	assert.Equal(t, domain.NotificationWarning, sentPayload.Type)
	assert.Contains(t, sentPayload.Body, "Quarterly report")
	assert.Contains(t, sentPayload.Body, "3 days")
	assert.True(t, sentOpts.SendPush)
	assert.True(t, sentOpts.SendEmail)
	assert.Equal(t, task.DueDate, sentOpts.DueDate)

	require.NotNil(t, recorded)
	assert.Equal(t, user.ID, recorded.UserID)
	assert.Equal(t, task.ID, recorded.TaskID)
	assert.Equal(t, 3, recorded.DaysLeft)
	assert.Equal(t, now, recorded.SentAt)
}

func TestRunTick_LedgerSuppressesRepeatSend(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	user := presetUser()
	task := taskDueIn(72*time.Hour, now, user.ID)

	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{user}, nil)

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, user.ID).Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	reminders.On("Exists", mock.Anything, user.ID, task.ID, 3).Return(true, nil)

	dispatcher := &mockDispatcher{}

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(context.Background())

	dispatcher.AssertNotCalled(t, "Dispatch",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	reminders.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestRunTick_OverdueTaskNeverReminds(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	user := presetUser()
	task := taskDueIn(-2*time.Hour, now, user.ID)

	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{user}, nil)

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, user.ID).Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	dispatcher := &mockDispatcher{}

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(context.Background())

	dispatcher.AssertNotCalled(t, "Dispatch",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	reminders.AssertNotCalled(t, "Exists",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTick_ImminentDeadlineUsesHourWording(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	user := presetUser()
	task := taskDueIn(5*time.Hour+30*time.Minute, now, user.ID)

	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{user}, nil)

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, user.ID).Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	reminders.On("Exists", mock.Anything, user.ID, task.ID, 0).Return(false, nil)
	reminders.On("Record", mock.Anything, mock.Anything).Return(nil)

	dispatcher := &mockDispatcher{}
	var sentPayload notify.Payload
	dispatcher.On("Dispatch", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentPayload = args.Get(2).(notify.Payload)
		}).
		Return(uuid.New(), nil)

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(context.Background())

	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	assert.Contains(t, sentPayload.Body, "5 hours 30 minutes")
	assert.NotContains(t, sentPayload.Body, "0 days")
}

func TestRunTick_DuplicateRecordIsNoOp(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	user := presetUser()
	task := taskDueIn(24*time.Hour, now, user.ID)

	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{user}, nil)

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, user.ID).Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	reminders.On("Exists", mock.Anything, user.ID, task.ID, 1).Return(false, nil)
	// A concurrent worker recorded the same key between the check and the write.
	reminders.On("Record", mock.Anything, mock.Anything).Return(store.ErrReminderAlreadySent)

	dispatcher := &mockDispatcher{}
	dispatcher.On("Dispatch", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Return(uuid.New(), nil)

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(context.Background())

	reminders.AssertExpectations(t)
}

func TestRunTick_UserListFailureEndsTick(t *testing.T) {
	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return(nil, errors.New("db down"))

	tasks := &mocks.TaskStore{}
	dispatcher := &mockDispatcher{}

	s := newTestScheduler(users, tasks, &mocks.ReminderStore{}, dispatcher, time.Now().UTC())
	s.RunTick(context.Background())

	tasks.AssertNotCalled(t, "ListActiveByAssignee", mock.Anything, mock.Anything)
}

func TestRunTick_TaskListFailureDoesNotAbortOtherUsers(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	broken := presetUser()
	healthy := presetUser()
	task := taskDueIn(72*time.Hour, now, healthy.ID)

	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{broken, healthy}, nil)

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, broken.ID).Return(nil, errors.New("query failed"))
	tasks.On("ListActiveByAssignee", mock.Anything, healthy.ID).Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	reminders.On("Exists", mock.Anything, healthy.ID, task.ID, 3).Return(false, nil)
	reminders.On("Record", mock.Anything, mock.Anything).Return(nil)

	dispatcher := &mockDispatcher{}
	dispatcher.On("Dispatch", mock.Anything, healthy.ID, mock.Anything, mock.Anything).
		Return(uuid.New(), nil)

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(context.Background())

	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestRunTick_ShutdownSignalDoesNotAbortInFlightTick(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	user := presetUser()
	task := taskDueIn(72*time.Hour, now, user.ID)

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel the parent context while the tick is inside the user listing,
	// the way a shutdown signal lands mid-scan.
	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return([]*domain.User{user}, nil)

	var seenErrs []error
	recordCtxErr := func(args mock.Arguments) {
		seenErrs = append(seenErrs, args.Get(0).(context.Context).Err())
	}

	tasks := &mocks.TaskStore{}
	tasks.On("ListActiveByAssignee", mock.Anything, user.ID).
		Run(recordCtxErr).
		Return([]*domain.Task{task}, nil)

	reminders := &mocks.ReminderStore{}
	reminders.On("Exists", mock.Anything, user.ID, task.ID, 3).
		Run(recordCtxErr).
		Return(false, nil)
	reminders.On("Record", mock.Anything, mock.Anything).Return(nil)

	dispatcher := &mockDispatcher{}
	dispatcher.On("Dispatch", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Run(recordCtxErr).
		Return(uuid.New(), nil)

	s := newTestScheduler(users, tasks, reminders, dispatcher, now)
	s.RunTick(ctx)

	require.Error(t, ctx.Err())
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	reminders.AssertExpectations(t)
	require.Len(t, seenErrs, 3)
	for _, err := range seenErrs {
		assert.NoError(t, err)
	}
}

func TestRunTick_SkipsWhenPreviousTickStillRunning(t *testing.T) {
	users := &mocks.UserStore{}

	s := newTestScheduler(users, &mocks.TaskStore{}, &mocks.ReminderStore{}, &mockDispatcher{}, time.Now().UTC())

	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.RunTick(context.Background())

	users.AssertNotCalled(t, "ListEmailEnabled", mock.Anything)
}

func TestStartAndStop(t *testing.T) {
	users := &mocks.UserStore{}
	users.On("ListEmailEnabled", mock.Anything).Return([]*domain.User{}, nil).Maybe()

	s := New(users, &mocks.TaskStore{}, &mocks.ReminderStore{}, &mockDispatcher{}, Config{
		TickInterval: time.Hour,
		Workers:      2,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	// Starting twice is a no-op.
	require.NoError(t, s.Start(ctx))

	s.Stop()
	// Stopping twice is safe.
	s.Stop()
}
