package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/store"
)

func newTaskStoreFixture(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresTaskStore(db), mock
}

func taskRows(task *domain.Task) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "due_date", "status", "assignee_id",
		"archived", "recurring_template_id", "status_history", "version",
		"created_at", "updated_at",
	}).AddRow(
		task.ID, task.Title, task.Description, task.DueDate, task.Status,
		nil, task.Archived, nil, []byte(`[]`), task.Version,
		task.CreatedAt, task.UpdatedAt,
	)
}

func TestApplyStatusChange_Success(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	id := uuid.New()
	old := domain.TaskStatusOngoing
	history := []domain.StatusChange{
		{Timestamp: time.Now().UTC(), OldStatus: &old, NewStatus: domain.TaskStatusCompleted},
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WithArgs(domain.TaskStatusCompleted, sqlmock.AnyArg(), sqlmock.AnyArg(), id, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.ApplyStatusChange(context.Background(), id, domain.TaskStatusCompleted, history, 4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStatusChange_VersionConflict(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := s.ApplyStatusChange(context.Background(), id, domain.TaskStatusCompleted, nil, 4)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStatusChange_TaskGone(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := s.ApplyStatusChange(context.Background(), id, domain.TaskStatusCompleted, nil, 4)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestUpdateDueDate_NotFound(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET due_date")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateDueDate(context.Background(), id, time.Now().UTC())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListActiveByAssignee_ScansHistory(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	assignee := uuid.New()
	task := &domain.Task{
		ID:        uuid.New(),
		Title:     "Quarterly report",
		DueDate:   time.Now().UTC().Add(48 * time.Hour),
		Status:    domain.TaskStatusOngoing,
		Version:   1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
		WithArgs(assignee).
		WillReturnRows(taskRows(task))

	got, err := s.ListActiveByAssignee(context.Background(), assignee)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, task.ID, got[0].ID)
	assert.Empty(t, got[0].StatusHistory)
}

func TestDetachFromTemplate_EmptyIDs_NoQuery(t *testing.T) {
	s, mock := newTaskStoreFixture(t)

	require.NoError(t, s.DetachFromTemplate(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
