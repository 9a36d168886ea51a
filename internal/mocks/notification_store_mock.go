package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// NotificationStore is a mock of store.NotificationStore for use with testify/mock.
type NotificationStore struct {
	mock.Mock
}

// Create is a mock implementation of store.NotificationStore.Create
func (m *NotificationStore) Create(ctx context.Context, rec *domain.NotificationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// GetByID is a mock implementation of store.NotificationStore.GetByID
func (m *NotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationRecord, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*domain.NotificationRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByUser is a mock implementation of store.NotificationStore.ListByUser
func (m *NotificationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.NotificationRecord, error) {
	args := m.Called(ctx, userID, limit)
	if recs, ok := args.Get(0).([]*domain.NotificationRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}
