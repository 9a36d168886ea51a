package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernwork/taskboard-api/internal/domain"
)

// ReminderStore defines the interface for the reminder dedup ledger.
//
// The ledger is append-only and keyed for uniqueness by
// (userID, taskID, daysLeft). Implementations must enforce that uniqueness
// atomically in the store (unique constraint / conditional put), not with a
// read-then-write, so concurrent scheduler workers cannot double-send.
type ReminderStore interface {
	// Exists reports whether a ledger entry for the given key has already
	// been written.
	Exists(ctx context.Context, userID, taskID uuid.UUID, daysLeft int) (bool, error)

	// Record appends a ledger entry. A collision with an existing entry for
	// the same key returns ErrReminderAlreadySent, which callers treat as a
	// recoverable no-op rather than a failure.
	Record(ctx context.Context, entry *domain.ReminderLedgerEntry) error
}
