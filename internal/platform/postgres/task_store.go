package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// taskColumns is the select list shared by every task query in this store.
const taskColumns = `id, title, description, due_date, status, assignee_id,
	archived, recurring_template_id, status_history, version, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// WithTx returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

// Create saves a single task to the store.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	history, err := json.Marshal(historyOrEmpty(task.StatusHistory))
	if err != nil {
		return fmt.Errorf("failed to marshal status history: %w", err)
	}

	query := `
		INSERT INTO tasks (id, title, description, due_date, status, assignee_id,
			archived, recurring_template_id, status_history, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		uuidOrNil(task.AssigneeID),
		task.Archived,
		uuidOrNil(task.RecurringTemplateID),
		history,
		1,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to create task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	task.Version = 1
	return nil
}

// CreateMultiple saves multiple tasks to the store. Run it within a
// transaction via WithTx so a mid-batch failure does not leave a partial
// set of generated instances behind.
func (s *PostgresTaskStore) CreateMultiple(ctx context.Context, tasks []*domain.Task) error {
	for _, task := range tasks {
		if err := s.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task %s: %w", task.ID, err)
		}
	}
	return nil
}

// GetByID retrieves a task by its unique ID, including its status history.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// ListActiveByAssignee retrieves the non-archived tasks assigned to the given
// user, ordered by due date ascending.
func (s *PostgresTaskStore) ListActiveByAssignee(
	ctx context.Context,
	assigneeID uuid.UUID,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE assignee_id = $1 AND archived = FALSE
		ORDER BY due_date ASC`

	return s.queryTasks(ctx, query, assigneeID)
}

// ListByTemplate retrieves every task instance generated from the given
// recurring template, ordered by due date ascending.
func (s *PostgresTaskStore) ListByTemplate(
	ctx context.Context,
	templateID uuid.UUID,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE recurring_template_id = $1
		ORDER BY due_date ASC`

	return s.queryTasks(ctx, query, templateID)
}

// UpdateDueDate rewrites a task's due date.
func (s *PostgresTaskStore) UpdateDueDate(
	ctx context.Context,
	id uuid.UUID,
	dueDate time.Time,
) error {
	query := `UPDATE tasks SET due_date = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, dueDate, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "task")
}

// DetachFromTemplate clears the recurring-template back-reference on the
// given tasks in one batched update.
func (s *PostgresTaskStore) DetachFromTemplate(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UTC())
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`UPDATE tasks SET recurring_template_id = NULL, updated_at = $1 WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Error("failed to detach tasks from template",
			"task_count", len(ids),
			"error", err)
		return MapError(err)
	}
	return nil
}

// ApplyStatusChange writes a task's new status and its full status history as
// one compare-and-set update guarded by the task's version, so the status
// field and its history ledger can never diverge across a crash.
func (s *PostgresTaskStore) ApplyStatusChange(
	ctx context.Context,
	id uuid.UUID,
	newStatus domain.TaskStatus,
	history []domain.StatusChange,
	expectedVersion int64,
) error {
	historyJSON, err := json.Marshal(historyOrEmpty(history))
	if err != nil {
		return fmt.Errorf("failed to marshal status history: %w", err)
	}

	query := `
		UPDATE tasks
		SET status = $1, status_history = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		newStatus,
		historyJSON,
		time.Now().UTC(),
		id,
		expectedVersion,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to apply status change",
			"task_id", id,
			"new_status", newStatus,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the task vanished or another writer bumped the version.
		var exists bool
		checkErr := s.db.QueryRowContext(
			ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id,
		).Scan(&exists)
		if checkErr != nil {
			return MapError(checkErr)
		}
		if !exists {
			return store.ErrTaskNotFound
		}
		return fmt.Errorf("%w: task %s version %d", store.ErrConflict, id, expectedVersion)
	}

	return nil
}

// queryTasks runs a multi-row task query and scans the results.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to query tasks", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans one task row, decoding the JSONB status history.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		assignee    uuid.NullUUID
		templateID  uuid.NullUUID
		historyJSON []byte
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.DueDate,
		&task.Status,
		&assignee,
		&task.Archived,
		&templateID,
		&historyJSON,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if assignee.Valid {
		id := assignee.UUID
		task.AssigneeID = &id
	}
	if templateID.Valid {
		id := templateID.UUID
		task.RecurringTemplateID = &id
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &task.StatusHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status history: %w", err)
		}
	}

	return &task, nil
}

// uuidOrNil adapts an optional UUID to a scannable nullable value.
func uuidOrNil(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// historyOrEmpty guarantees an empty history marshals as [] rather than null.
func historyOrEmpty(history []domain.StatusChange) []domain.StatusChange {
	if history == nil {
		return []domain.StatusChange{}
	}
	return history
}
