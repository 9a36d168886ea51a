package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/store"
)

// TaskStore is a mock of store.TaskStore for use with testify/mock.
type TaskStore struct {
	mock.Mock
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// CreateMultiple is a mock implementation of store.TaskStore.CreateMultiple
func (m *TaskStore) CreateMultiple(ctx context.Context, tasks []*domain.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListActiveByAssignee is a mock implementation of store.TaskStore.ListActiveByAssignee
func (m *TaskStore) ListActiveByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, assigneeID)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByTemplate is a mock implementation of store.TaskStore.ListByTemplate
func (m *TaskStore) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, templateID)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateDueDate is a mock implementation of store.TaskStore.UpdateDueDate
func (m *TaskStore) UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error {
	args := m.Called(ctx, id, dueDate)
	return args.Error(0)
}

// DetachFromTemplate is a mock implementation of store.TaskStore.DetachFromTemplate
func (m *TaskStore) DetachFromTemplate(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// ApplyStatusChange is a mock implementation of store.TaskStore.ApplyStatusChange
func (m *TaskStore) ApplyStatusChange(
	ctx context.Context,
	id uuid.UUID,
	newStatus domain.TaskStatus,
	history []domain.StatusChange,
	expectedVersion int64,
) error {
	args := m.Called(ctx, id, newStatus, history, expectedVersion)
	return args.Error(0)
}

// WithTx is a mock implementation of store.TaskStore.WithTx
func (m *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.TaskStore); ok {
		return ret
	}
	return m
}
