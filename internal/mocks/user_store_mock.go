package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// UserStore is a mock of store.UserStore for use with testify/mock.
type UserStore struct {
	mock.Mock
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListEmailEnabled is a mock implementation of store.UserStore.ListEmailEnabled
func (m *UserStore) ListEmailEnabled(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetPushTokens is a mock implementation of store.UserStore.GetPushTokens
func (m *UserStore) GetPushTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if tokens, ok := args.Get(0).([]string); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}
