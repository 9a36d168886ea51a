package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// PostgresTemplateStore implements the store.TemplateStore interface using
// PostgreSQL. The recurrence rule is stored as a JSONB document.
type PostgresTemplateStore struct {
	db store.DBTX
}

// NewPostgresTemplateStore creates a new PostgresTemplateStore.
func NewPostgresTemplateStore(db store.DBTX) *PostgresTemplateStore {
	return &PostgresTemplateStore{db: db}
}

// WithTx returns a new TemplateStore instance that uses the provided transaction.
func (s *PostgresTemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	return &PostgresTemplateStore{db: tx}
}

// Create saves a new recurring template to the store.
func (s *PostgresTemplateStore) Create(
	ctx context.Context,
	tmpl *domain.RecurringTemplate,
) error {
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	ruleJSON, err := json.Marshal(tmpl.Rule)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence rule: %w", err)
	}

	query := `
		INSERT INTO recurring_templates (id, owner_id, rule, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.db.ExecContext(ctx, query,
		tmpl.ID,
		tmpl.OwnerID,
		ruleJSON,
		tmpl.Active,
		tmpl.CreatedAt,
		tmpl.UpdatedAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to create recurring template",
			"template_id", tmpl.ID,
			"error", err)
		return MapError(err)
	}
	return nil
}

// GetByID retrieves a template by its unique ID.
func (s *PostgresTemplateStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.RecurringTemplate, error) {
	query := `
		SELECT id, owner_id, rule, active, created_at, updated_at
		FROM recurring_templates
		WHERE id = $1
	`

	var (
		tmpl     domain.RecurringTemplate
		ruleJSON []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&tmpl.ID,
		&tmpl.OwnerID,
		&ruleJSON,
		&tmpl.Active,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTemplateNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(ruleJSON, &tmpl.Rule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recurrence rule: %w", err)
	}
	return &tmpl, nil
}

// UpdateRule replaces a template's recurrence rule.
func (s *PostgresTemplateStore) UpdateRule(
	ctx context.Context,
	id uuid.UUID,
	rule domain.RecurrenceRule,
) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	ruleJSON, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence rule: %w", err)
	}

	query := `UPDATE recurring_templates SET rule = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, ruleJSON, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "recurring template")
}

// Deactivate marks a template inactive.
func (s *PostgresTemplateStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE recurring_templates SET active = FALSE, updated_at = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to deactivate recurring template",
			"template_id", id,
			"error", err)
		return MapError(err)
	}
	return CheckRowsAffected(result, "recurring template")
}
