package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReminderLedgerEntry records that a deadline reminder for a given
// (user, task, daysLeft) combination was sent. Entries are immutable once
// written; the entry's existence is the suppression signal the scheduler
// consults before dispatching again.
type ReminderLedgerEntry struct {
	UserID   uuid.UUID `json:"user_id"`
	TaskID   uuid.UUID `json:"task_id"`
	DaysLeft int       `json:"days_left"`
	SentAt   time.Time `json:"sent_at"`
}
