package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// ReminderStore is a mock of store.ReminderStore for use with testify/mock.
type ReminderStore struct {
	mock.Mock
}

// Exists is a mock implementation of store.ReminderStore.Exists
func (m *ReminderStore) Exists(ctx context.Context, userID, taskID uuid.UUID, daysLeft int) (bool, error) {
	args := m.Called(ctx, userID, taskID, daysLeft)
	return args.Bool(0), args.Error(1)
}

// Record is a mock implementation of store.ReminderStore.Record
func (m *ReminderStore) Record(ctx context.Context, entry *domain.ReminderLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
