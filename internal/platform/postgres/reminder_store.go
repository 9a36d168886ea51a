package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// PostgresReminderStore implements the store.ReminderStore interface using
// PostgreSQL. Dedup is enforced by the table's primary key on
// (user_id, task_id, days_left), so a concurrent duplicate insert is a
// store-level no-op rather than a race.
type PostgresReminderStore struct {
	db store.DBTX
}

// NewPostgresReminderStore creates a new PostgresReminderStore.
func NewPostgresReminderStore(db store.DBTX) *PostgresReminderStore {
	return &PostgresReminderStore{db: db}
}

// Exists reports whether a ledger entry for the given key has already been
// written.
func (s *PostgresReminderStore) Exists(
	ctx context.Context,
	userID, taskID uuid.UUID,
	daysLeft int,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reminder_log
			WHERE user_id = $1 AND task_id = $2 AND days_left = $3
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, userID, taskID, daysLeft).Scan(&exists)
	if err != nil {
		logger.FromContext(ctx).Error("failed to check reminder ledger",
			"user_id", userID,
			"task_id", taskID,
			"days_left", daysLeft,
			"error", err)
		return false, MapError(err)
	}
	return exists, nil
}

// Record appends a ledger entry. ON CONFLICT DO NOTHING makes the write
// idempotent; a collision surfaces as ErrReminderAlreadySent so callers can
// treat it as a recoverable no-op.
func (s *PostgresReminderStore) Record(
	ctx context.Context,
	entry *domain.ReminderLedgerEntry,
) error {
	query := `
		INSERT INTO reminder_log (user_id, task_id, days_left, sent_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, task_id, days_left) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		entry.UserID,
		entry.TaskID,
		entry.DaysLeft,
		entry.SentAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to record reminder ledger entry",
			"user_id", entry.UserID,
			"task_id", entry.TaskID,
			"days_left", entry.DaysLeft,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrReminderAlreadySent
	}
	return nil
}
