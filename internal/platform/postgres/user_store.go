package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

const userColumns = `id, email, name, role, timezone, email_enabled, push_enabled,
	reminder_mode, preset_reminder_days, custom_reminder_hours, push_tokens,
	created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface using PostgreSQL.
// It is read-only: user mutation belongs to the external CRUD layer.
type PostgresUserStore struct {
	db store.DBTX
}

// NewPostgresUserStore creates a new PostgresUserStore.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// GetByID retrieves a user by their unique ID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	return user, nil
}

// ListEmailEnabled retrieves every user with email notifications enabled.
func (s *PostgresUserStore) ListEmailEnabled(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email_enabled = TRUE ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Error("failed to query email-enabled users", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// GetPushTokens retrieves the registered push tokens for a user. A user who
// has disabled push gets an empty set, so callers fall into their no-tokens
// skip path without a second preference lookup.
func (s *PostgresUserStore) GetPushTokens(
	ctx context.Context,
	userID uuid.UUID,
) ([]string, error) {
	query := `SELECT CASE WHEN push_enabled THEN push_tokens ELSE '[]'::jsonb END FROM users WHERE id = $1`

	var tokensJSON []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&tokensJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	var tokens []string
	if len(tokensJSON) > 0 {
		if err := json.Unmarshal(tokensJSON, &tokens); err != nil {
			return nil, fmt.Errorf("failed to unmarshal push tokens: %w", err)
		}
	}
	return tokens, nil
}

// scanUser scans one user row, decoding the JSONB preference columns.
func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user        domain.User
		presetJSON  []byte
		customJSON  []byte
		tokensJSON  []byte
		name        sql.NullString
		timezone    sql.NullString
		reminderRaw sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&name,
		&user.Role,
		&timezone,
		&user.EmailEnabled,
		&user.PushEnabled,
		&reminderRaw,
		&presetJSON,
		&customJSON,
		&tokensJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Name = name.String
	user.Timezone = timezone.String
	user.ReminderMode = domain.ReminderMode(reminderRaw.String)

	if len(presetJSON) > 0 {
		if err := json.Unmarshal(presetJSON, &user.PresetReminderDays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preset reminder days: %w", err)
		}
	}
	if len(customJSON) > 0 {
		if err := json.Unmarshal(customJSON, &user.CustomReminderHours); err != nil {
			return nil, fmt.Errorf("failed to unmarshal custom reminder hours: %w", err)
		}
	}
	if len(tokensJSON) > 0 {
		if err := json.Unmarshal(tokensJSON, &user.PushTokens); err != nil {
			return nil, fmt.Errorf("failed to unmarshal push tokens: %w", err)
		}
	}

	return &user, nil
}
