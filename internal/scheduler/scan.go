package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/notify"
	"github.com/fernwork/taskboard-api/internal/store"
)

// dueTolerance is the window around each candidate interval within which a
// reminder fires: |daysUntilDue - interval| < 0.5, i.e. twelve hours either
// side.
const dueTolerance = 0.5

// leadTimeHours is the unconditional trigger for imminent deadlines: any
// task due within this many hours reminds regardless of the user's
// configured intervals.
const leadTimeHours = 24.0

// scanUser loads one user's assigned, non-archived tasks and processes each.
// A failure for one task is logged and must not abort the rest of the scan.
func (s *Scheduler) scanUser(ctx context.Context, user *domain.User, now time.Time) {
	tasks, err := s.tasks.ListActiveByAssignee(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load tasks for user",
			"user_id", user.ID,
			"error", err)
		return
	}

	intervals := user.ReminderIntervalsDays()

	for _, task := range tasks {
		if err := s.processTask(ctx, user, task, intervals, now); err != nil {
			s.logger.Error("failed to process reminder",
				"user_id", user.ID,
				"task_id", task.ID,
				"error", err)
		}
	}
}

// processTask decides whether a reminder for (user, task) is due, consults
// the ledger, and dispatches at most one reminder.
func (s *Scheduler) processTask(
	ctx context.Context,
	user *domain.User,
	task *domain.Task,
	intervals []float64,
	now time.Time,
) error {
	hoursLeft := task.DueDate.Sub(now).Hours()

	// Overdue tasks never trigger.
	if hoursLeft <= 0 {
		return nil
	}

	daysLeft := hoursLeft / 24.0
	if !reminderDue(daysLeft, hoursLeft, intervals) {
		return nil
	}

	rounded := int(math.Round(daysLeft))

	// Suppression check. The final Record is the authoritative dedup (unique
	// constraint); this read just avoids the dispatch for the common case.
	exists, err := s.reminders.Exists(ctx, user.ID, task.ID, rounded)
	if err != nil {
		return fmt.Errorf("ledger check failed: %w", err)
	}
	if exists {
		return nil
	}

	wholeHours := int(hoursLeft)
	minutes := int(math.Round((hoursLeft - float64(wholeHours)) * 60))
	if minutes == 60 {
		wholeHours++
		minutes = 0
	}

	payload := notify.Payload{
		Title:  "Deadline reminder",
		Body:   reminderBody(task.Title, rounded, wholeHours, minutes),
		Type:   domain.NotificationWarning,
		TaskID: &task.ID,
	}
	opts := notify.Options{
		SendPush:    true,
		SendEmail:   true,
		TaskTitle:   task.Title,
		DueDate:     task.DueDate,
		HoursLeft:   wholeHours,
		MinutesLeft: minutes,
		Timezone:    user.Timezone,
	}

	if _, err := s.dispatcher.Dispatch(ctx, user.ID, payload, opts); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	entry := &domain.ReminderLedgerEntry{
		UserID:   user.ID,
		TaskID:   task.ID,
		DaysLeft: rounded,
		SentAt:   now,
	}
	if err := s.reminders.Record(ctx, entry); err != nil {
		if errors.Is(err, store.ErrReminderAlreadySent) {
			// A concurrent worker won the race; their entry suppresses
			// further sends, so this is a no-op.
			s.logger.Debug("reminder ledger entry already recorded",
				"user_id", user.ID,
				"task_id", task.ID,
				"days_left", rounded)
			return nil
		}
		return fmt.Errorf("ledger record failed: %w", err)
	}

	return nil
}

// reminderDue reports whether a reminder should fire: either some candidate
// interval is within the tolerance window of the time remaining, or the
// deadline is within the unconditional 24-hour lead time. The two conditions
// can overlap near t-24h; the ledger's per-daysLeft dedup suppresses the
// second intent.
func reminderDue(daysLeft, hoursLeft float64, intervals []float64) bool {
	for _, interval := range intervals {
		if math.Abs(daysLeft-interval) < dueTolerance {
			return true
		}
	}
	return hoursLeft > 0 && hoursLeft <= leadTimeHours
}
