package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// NotificationStore defines the interface for durable notification records.
// Exactly one record is written per dispatch call; the record is the source
// of truth for the in-app feed regardless of delivery-channel outcomes.
type NotificationStore interface {
	// Create saves a new notification record to the store.
	// Returns validation errors if the record data is invalid.
	Create(ctx context.Context, rec *domain.NotificationRecord) error

	// GetByID retrieves a notification record by its unique ID.
	// Returns ErrNotificationNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationRecord, error)

	// ListByUser retrieves up to limit notification records for a user,
	// ordered by creation time descending (newest first). A limit <= 0 means
	// no limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.NotificationRecord, error)
}
