// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTaskStatus is returned when a task status is not one of the
	// known status values.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidRecurrenceType is returned when a recurrence rule names an
	// unknown cadence.
	ErrInvalidRecurrenceType = errors.New("invalid recurrence type")

	// ErrInvalidNotificationType is returned when a notification type is not
	// one of the known values.
	ErrInvalidNotificationType = errors.New("invalid notification type")
)
