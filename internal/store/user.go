package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// UserStore defines the read interface for user records and their
// notification preferences. User lifecycle (registration, profile edits,
// push-token registration) is owned by the external CRUD layer; this
// subsystem only consumes the records.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListEmailEnabled retrieves every user with email notifications enabled.
	// This drives the scheduler's per-tick scan.
	ListEmailEnabled(ctx context.Context) ([]*domain.User, error)

	// GetPushTokens retrieves the registered push tokens for a user. An empty
	// slice (no error) means the user has no registered devices or has
	// disabled push notifications.
	GetPushTokens(ctx context.Context, userID uuid.UUID) ([]string, error)
}
