package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("invalid email format")
)

// Role identifies the visibility scope a user operates under.
type Role string

// Known roles
const (
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleDirector Role = "director"
	RoleHR       Role = "hr"
)

// ReminderMode selects how a user's candidate reminder intervals are derived.
type ReminderMode string

const (
	// ReminderModePreset uses the user's PresetReminderDays (or the default
	// [1, 3, 7] when unset).
	ReminderModePreset ReminderMode = "preset"

	// ReminderModeCustom converts the user's CustomReminderHours to days.
	ReminderModeCustom ReminderMode = "custom"
)

// DefaultPresetReminderDays is used when a preset-mode user has not chosen
// their own reminder days.
var DefaultPresetReminderDays = []int{1, 3, 7}

// User represents an account in the organization, including the notification
// preferences the reminder scheduler reads. Authentication is handled outside
// this service, so no credential material lives here.
type User struct {
	ID                  uuid.UUID    `json:"id"`
	Email               string       `json:"email"`
	Name                string       `json:"name"`
	Role                Role         `json:"role"`
	Timezone            string       `json:"timezone"`
	EmailEnabled        bool         `json:"email_enabled"`
	PushEnabled         bool         `json:"push_enabled"`
	ReminderMode        ReminderMode `json:"reminder_mode"`
	PresetReminderDays  []int        `json:"preset_reminder_days,omitempty"`
	CustomReminderHours []int        `json:"custom_reminder_hours,omitempty"`
	PushTokens          []string     `json:"push_tokens,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// ReminderIntervalsDays returns the candidate reminder intervals, in days,
// for this user. Custom hours are converted by dividing by 24; preset mode
// falls back to DefaultPresetReminderDays when no days were chosen.
func (u *User) ReminderIntervalsDays() []float64 {
	if u.ReminderMode == ReminderModeCustom && len(u.CustomReminderHours) > 0 {
		intervals := make([]float64, 0, len(u.CustomReminderHours))
		for _, h := range u.CustomReminderHours {
			intervals = append(intervals, float64(h)/24.0)
		}
		return intervals
	}

	days := u.PresetReminderDays
	if len(days) == 0 {
		days = DefaultPresetReminderDays
	}
	intervals := make([]float64, 0, len(days))
	for _, d := range days {
		intervals = append(intervals, float64(d))
	}
	return intervals
}

// Location resolves the user's IANA timezone, falling back to UTC when the
// field is empty or unparseable.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
