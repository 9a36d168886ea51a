package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// TemplateStore defines the interface for recurring-template persistence.
// Templates are deactivated, never deleted, so instances keep a resolvable
// back-reference.
type TemplateStore interface {
	// Create saves a new recurring template to the store.
	// Returns validation errors if the template data is invalid.
	Create(ctx context.Context, tmpl *domain.RecurringTemplate) error

	// GetByID retrieves a template by its unique ID.
	// Returns ErrTemplateNotFound if the template does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTemplate, error)

	// UpdateRule replaces a template's recurrence rule.
	// Returns ErrTemplateNotFound if the template does not exist.
	UpdateRule(ctx context.Context, id uuid.UUID, rule domain.RecurrenceRule) error

	// Deactivate marks a template inactive. Idempotent: deactivating an
	// already-inactive template is not an error.
	// Returns ErrTemplateNotFound if the template does not exist.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TemplateStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) TemplateStore
}
