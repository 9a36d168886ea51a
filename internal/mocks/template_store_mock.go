package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/store"
)

// TemplateStore is a mock of store.TemplateStore for use with testify/mock.
type TemplateStore struct {
	mock.Mock
}

// Create is a mock implementation of store.TemplateStore.Create
func (m *TemplateStore) Create(ctx context.Context, tmpl *domain.RecurringTemplate) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TemplateStore.GetByID
func (m *TemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, id)
	if tmpl, ok := args.Get(0).(*domain.RecurringTemplate); ok {
		return tmpl, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateRule is a mock implementation of store.TemplateStore.UpdateRule
func (m *TemplateStore) UpdateRule(ctx context.Context, id uuid.UUID, rule domain.RecurrenceRule) error {
	args := m.Called(ctx, id, rule)
	return args.Error(0)
}

// Deactivate is a mock implementation of store.TemplateStore.Deactivate
func (m *TemplateStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx is a mock implementation of store.TemplateStore.WithTx
func (m *TemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.TemplateStore); ok {
		return ret
	}
	return m
}
