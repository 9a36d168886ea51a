package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/domain/recur"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// ErrTemplateInactive is returned when attempting to update a recurrence
// that has already been disabled.
var ErrTemplateInactive = errors.New("recurring template is inactive")

// RecurrenceServiceError is a custom error type for recurrence service errors.
type RecurrenceServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for RecurrenceServiceError.
func (e *RecurrenceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recurrence service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("recurrence service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *RecurrenceServiceError) Unwrap() error {
	return e.Err
}

// NewRecurrenceServiceError creates a new RecurrenceServiceError.
func NewRecurrenceServiceError(operation, message string, err error) *RecurrenceServiceError {
	return &RecurrenceServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// RecurrenceService owns the recurring-template lifecycle: expanding a rule
// into concrete task instances at creation time, reshaping future instances
// when the rule changes, and detaching them when recurrence is disabled.
type RecurrenceService interface {
	// Create validates the rule, creates an active template, persists the
	// first instance with the template attached, and materializes the
	// remaining instances the rule describes. A rule without a start date is
	// anchored on the first instance's due date. Everything happens in one
	// transaction. Returns the new template's ID.
	Create(
		ctx context.Context,
		ownerID uuid.UUID,
		rule domain.RecurrenceRule,
		first *domain.Task,
	) (uuid.UUID, error)

	// Update replaces the template's rule and reshapes its future,
	// non-completed instances to the new occurrence dates. Completed or past
	// instances are left untouched as historical record.
	Update(ctx context.Context, templateID uuid.UUID, newRule domain.RecurrenceRule) error

	// Disable detaches future, non-completed instances from the template and
	// marks the template inactive. Completed or past instances keep their
	// back-reference.
	Disable(ctx context.Context, templateID uuid.UUID) error
}

// recurrenceServiceImpl implements the RecurrenceService interface.
type recurrenceServiceImpl struct {
	db        *sql.DB
	tasks     store.TaskStore
	templates store.TemplateStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecurrenceService creates a new RecurrenceService.
// It returns an error if any of the required dependencies are nil.
func NewRecurrenceService(
	db *sql.DB,
	tasks store.TaskStore,
	templates store.TemplateStore,
	log *slog.Logger,
) (RecurrenceService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, fmt.Errorf("%w: task store cannot be nil", domain.ErrValidation)
	}
	if templates == nil {
		return nil, fmt.Errorf("%w: template store cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &recurrenceServiceImpl{
		db:        db,
		tasks:     tasks,
		templates: templates,
		logger:    log.With(slog.String("component", "recurrence_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create implements RecurrenceService.Create.
func (s *recurrenceServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	rule domain.RecurrenceRule,
	first *domain.Task,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if first == nil {
		return uuid.Nil, NewRecurrenceServiceError("create", "first task is required", domain.ErrValidation)
	}
	// An unset start date anchors the series on the first instance's due date.
	if rule.StartDate.IsZero() {
		rule.StartDate = first.DueDate
	}
	if err := rule.Validate(); err != nil {
		return uuid.Nil, NewRecurrenceServiceError("create", "invalid recurrence rule", err)
	}

	tmpl, err := domain.NewRecurringTemplate(ownerID, rule)
	if err != nil {
		return uuid.Nil, NewRecurrenceServiceError("create", "invalid template", err)
	}

	// The first instance keeps the task's own due date; the rest follow the
	// expanded occurrences with the rule's due offset applied.
	occurrences := recur.Expand(rule, first.DueDate)
	dues := recur.DueDates(rule, occurrences)

	first.RecurringTemplateID = &tmpl.ID

	var extras []*domain.Task
	if len(dues) > 1 {
		extras = make([]*domain.Task, 0, len(dues)-1)
		for _, due := range dues[1:] {
			extras = append(extras, first.Clone(due))
		}
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTemplates := s.templates.WithTx(tx)
		txTasks := s.tasks.WithTx(tx)

		if err := txTemplates.Create(ctx, tmpl); err != nil {
			return NewRecurrenceServiceError("create", "failed to save template", err)
		}
		if err := txTasks.Create(ctx, first); err != nil {
			return NewRecurrenceServiceError("create", "failed to save first instance", err)
		}
		if len(extras) > 0 {
			if err := txTasks.CreateMultiple(ctx, extras); err != nil {
				return NewRecurrenceServiceError("create", "failed to save generated instances", err)
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	log.Info("created recurring template",
		slog.String("template_id", tmpl.ID.String()),
		slog.Int("instance_count", len(extras)+1))
	return tmpl.ID, nil
}

// Update implements RecurrenceService.Update.
func (s *recurrenceServiceImpl) Update(
	ctx context.Context,
	templateID uuid.UUID,
	newRule domain.RecurrenceRule,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := newRule.Validate(); err != nil {
		return NewRecurrenceServiceError("update", "invalid recurrence rule", err)
	}

	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return NewRecurrenceServiceError("update", "failed to load template", err)
	}
	if !tmpl.Active {
		return NewRecurrenceServiceError("update", "template is disabled", ErrTemplateInactive)
	}

	now := s.now()

	// Occurrence dates of the new rule that are still ahead of us; past
	// occurrences have nothing to reshape.
	dues := recur.DueDates(newRule, recur.Expand(newRule, newRule.StartDate))
	var futureDues []time.Time
	for _, due := range dues {
		if !due.Before(now) {
			futureDues = append(futureDues, due)
		}
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTemplates := s.templates.WithTx(tx)
		txTasks := s.tasks.WithTx(tx)

		if err := txTemplates.UpdateRule(ctx, templateID, newRule); err != nil {
			return NewRecurrenceServiceError("update", "failed to update rule", err)
		}

		instances, err := txTasks.ListByTemplate(ctx, templateID)
		if err != nil {
			return NewRecurrenceServiceError("update", "failed to load instances", err)
		}

		future := filterFutureIncomplete(instances, now)

		// Pair future instances with the new occurrence dates in order.
		// Surplus instances are detached; surplus occurrences become new
		// instances cloned from the first future one.
		n := len(future)
		if len(futureDues) < n {
			n = len(futureDues)
		}
		for i := 0; i < n; i++ {
			if err := txTasks.UpdateDueDate(ctx, future[i].ID, futureDues[i]); err != nil {
				return NewRecurrenceServiceError("update", "failed to reschedule instance", err)
			}
		}

		if len(future) > n {
			surplus := make([]uuid.UUID, 0, len(future)-n)
			for _, task := range future[n:] {
				surplus = append(surplus, task.ID)
			}
			if err := txTasks.DetachFromTemplate(ctx, surplus); err != nil {
				return NewRecurrenceServiceError("update", "failed to detach surplus instances", err)
			}
		}

		if len(futureDues) > n && len(future) > 0 {
			extras := make([]*domain.Task, 0, len(futureDues)-n)
			for _, due := range futureDues[n:] {
				extras = append(extras, future[0].Clone(due))
			}
			if err := txTasks.CreateMultiple(ctx, extras); err != nil {
				return NewRecurrenceServiceError("update", "failed to create new instances", err)
			}
		}

		log.Info("updated recurring template",
			slog.String("template_id", templateID.String()),
			slog.Int("rescheduled", n),
			slog.Int("future_instances", len(future)),
			slog.Int("future_occurrences", len(futureDues)))
		return nil
	})
}

// Disable implements RecurrenceService.Disable.
func (s *recurrenceServiceImpl) Disable(ctx context.Context, templateID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return NewRecurrenceServiceError("disable", "failed to load template", err)
	}

	now := s.now()

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTemplates := s.templates.WithTx(tx)
		txTasks := s.tasks.WithTx(tx)

		instances, err := txTasks.ListByTemplate(ctx, templateID)
		if err != nil {
			return NewRecurrenceServiceError("disable", "failed to load instances", err)
		}

		future := filterFutureIncomplete(instances, now)
		if len(future) > 0 {
			ids := make([]uuid.UUID, 0, len(future))
			for _, task := range future {
				ids = append(ids, task.ID)
			}
			if err := txTasks.DetachFromTemplate(ctx, ids); err != nil {
				return NewRecurrenceServiceError("disable", "failed to detach instances", err)
			}
		}

		if err := txTemplates.Deactivate(ctx, templateID); err != nil {
			return NewRecurrenceServiceError("disable", "failed to deactivate template", err)
		}

		log.Info("disabled recurring template",
			slog.String("template_id", templateID.String()),
			slog.Int("detached", len(future)),
			slog.Int("kept", len(instances)-len(future)))
		return nil
	})
}

// filterFutureIncomplete returns the instances that are still ahead of now
// and not completed. Only these may be reshaped or detached; the rest are
// historical record.
func filterFutureIncomplete(tasks []*domain.Task, now time.Time) []*domain.Task {
	var future []*domain.Task
	for _, task := range tasks {
		if task.Status != domain.TaskStatusCompleted && !task.DueDate.Before(now) {
			future = append(future, task)
		}
	}
	return future
}
