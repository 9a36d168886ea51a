package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore interface
// using PostgreSQL.
type PostgresNotificationStore struct {
	db store.DBTX
}

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db store.DBTX) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db}
}

// Create saves a new notification record to the store.
func (s *PostgresNotificationStore) Create(
	ctx context.Context,
	rec *domain.NotificationRecord,
) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO notifications (id, user_id, title, body, type, task_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.Body,
		rec.Type,
		uuidOrNil(rec.TaskID),
		rec.IsRead,
		rec.CreatedAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to create notification",
			"notification_id", rec.ID,
			"user_id", rec.UserID,
			"error", err)
		return MapError(err)
	}
	return nil
}

// GetByID retrieves a notification record by its unique ID.
func (s *PostgresNotificationStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.NotificationRecord, error) {
	query := `
		SELECT id, user_id, title, body, type, task_id, is_read, created_at, read_at
		FROM notifications
		WHERE id = $1
	`

	rec, err := scanNotification(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, MapError(err)
	}
	return rec, nil
}

// ListByUser retrieves up to limit notification records for a user, newest
// first.
func (s *PostgresNotificationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.NotificationRecord, error) {
	query := `
		SELECT id, user_id, title, body, type, task_id, is_read, created_at, read_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to query notifications",
			"user_id", userID,
			"error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.NotificationRecord
	for rows.Next() {
		rec, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return records, nil
}

// scanNotification scans one notification row.
func scanNotification(row rowScanner) (*domain.NotificationRecord, error) {
	var (
		rec    domain.NotificationRecord
		taskID uuid.NullUUID
		readAt sql.NullTime
	)

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.Body,
		&rec.Type,
		&taskID,
		&rec.IsRead,
		&rec.CreatedAt,
		&readAt,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		id := taskID.UUID
		rec.TaskID = &id
	}
	if readAt.Valid {
		t := readAt.Time.UTC()
		rec.ReadAt = &t
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	return &rec, nil
}
