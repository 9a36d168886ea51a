package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Recurrence-specific validation errors
var (
	// ErrTemplateIDEmpty is returned when a template ID is empty or nil.
	ErrTemplateIDEmpty = errors.New("template ID cannot be empty")

	// ErrTemplateOwnerEmpty is returned when a template's owner ID is empty or nil.
	ErrTemplateOwnerEmpty = errors.New("template owner ID cannot be empty")

	// ErrRecurrenceIntervalInvalid is returned when a custom rule's interval
	// is not a positive number of days.
	ErrRecurrenceIntervalInvalid = errors.New("custom recurrence interval must be positive")

	// ErrRecurrenceStartZero is returned when a rule's start date is unset.
	ErrRecurrenceStartZero = errors.New("recurrence start date cannot be zero")

	// ErrDueOffsetInvalid is returned when a due offset has a negative amount
	// or an unknown unit.
	ErrDueOffsetInvalid = errors.New("invalid due offset")
)

// RecurrenceType is the cadence of a recurrence rule.
type RecurrenceType string

// Supported cadences
const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceCustom  RecurrenceType = "custom"
)

// IsValid reports whether the cadence is one of the known values.
func (t RecurrenceType) IsValid() bool {
	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// OffsetUnit is the unit of a due-date offset.
type OffsetUnit string

const (
	OffsetDays  OffsetUnit = "days"
	OffsetWeeks OffsetUnit = "weeks"
)

// DueOffset shifts each generated occurrence forward to produce the
// instance's due date.
type DueOffset struct {
	Amount int        `json:"amount"`
	Unit   OffsetUnit `json:"unit"`
}

// Duration converts the offset to a time.Duration.
func (o DueOffset) Duration() time.Duration {
	switch o.Unit {
	case OffsetWeeks:
		return time.Duration(o.Amount) * 7 * 24 * time.Hour
	default:
		return time.Duration(o.Amount) * 24 * time.Hour
	}
}

// RecurrenceRule describes how task instances are generated from a template:
// a cadence, a validity window and an optional due-date offset. Interval is
// the step in days and is only consulted for the custom cadence.
type RecurrenceRule struct {
	Type      RecurrenceType `json:"type"`
	Interval  int            `json:"interval,omitempty"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	DueOffset *DueOffset     `json:"due_offset,omitempty"`
}

// Validate checks if the rule has valid data.
// Returns an error if any field fails validation.
func (r RecurrenceRule) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidRecurrenceType
	}

	if r.Type == RecurrenceCustom && r.Interval <= 0 {
		return ErrRecurrenceIntervalInvalid
	}

	if r.StartDate.IsZero() {
		return ErrRecurrenceStartZero
	}

	if r.DueOffset != nil {
		if r.DueOffset.Amount < 0 {
			return ErrDueOffsetInvalid
		}
		switch r.DueOffset.Unit {
		case OffsetDays, OffsetWeeks:
		default:
			return ErrDueOffsetInvalid
		}
	}

	return nil
}

// RecurringTemplate is the durable record a recurrence rule lives under.
// Templates are deactivated when a user disables recurrence, never deleted,
// so historical instances keep a resolvable back-reference.
type RecurringTemplate struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Rule      RecurrenceRule `json:"rule"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewRecurringTemplate creates an active template owned by the given user.
// Returns an error if validation fails.
func NewRecurringTemplate(ownerID uuid.UUID, rule RecurrenceRule) (*RecurringTemplate, error) {
	tmpl := &RecurringTemplate{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Rule:      rule,
		Active:    true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	return tmpl, nil
}

// Validate checks if the RecurringTemplate has valid data.
// Returns an error if any field fails validation.
func (t *RecurringTemplate) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTemplateIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTemplateOwnerEmpty
	}

	return t.Rule.Validate()
}
