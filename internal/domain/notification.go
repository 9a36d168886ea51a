package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notification-specific validation errors
var (
	// ErrNotificationIDEmpty is returned when a notification ID is empty or nil.
	ErrNotificationIDEmpty = errors.New("notification ID cannot be empty")

	// ErrNotificationUserEmpty is returned when a notification's user ID is empty or nil.
	ErrNotificationUserEmpty = errors.New("notification user ID cannot be empty")

	// ErrNotificationTitleEmpty is returned when a notification's title is empty.
	ErrNotificationTitleEmpty = errors.New("notification title cannot be empty")
)

// NotificationType classifies a notification for UI presentation.
type NotificationType string

// Possible notification types
const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

// IsValid reports whether the type is one of the known values.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationError, NotificationSuccess:
		return true
	}
	return false
}

// NotificationRecord is the durable per-recipient record written once per
// dispatch. It is the source of truth for the in-app notification feed;
// read/unread state is mutated independently by the UI layer.
type NotificationRecord struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Type      NotificationType `json:"type"`
	TaskID    *uuid.UUID       `json:"task_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
}

// NewNotificationRecord creates an unread notification for the given user.
// It generates a new UUID for the record and sets the creation timestamp.
// Returns an error if validation fails.
func NewNotificationRecord(
	userID uuid.UUID,
	title, body string,
	notifType NotificationType,
	taskID *uuid.UUID,
) (*NotificationRecord, error) {
	rec := &NotificationRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      notifType,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the NotificationRecord has valid data.
// Returns an error if any field fails validation.
func (n *NotificationRecord) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNotificationIDEmpty
	}

	if n.UserID == uuid.Nil {
		return ErrNotificationUserEmpty
	}

	if n.Title == "" {
		return ErrNotificationTitleEmpty
	}

	if !n.Type.IsValid() {
		return ErrInvalidNotificationType
	}

	return nil
}
