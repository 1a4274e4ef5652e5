package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// ValidationError matches it through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRole is returned when a role is not patient, doctor or caretaker.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidTime is returned when a clock time is not in HH:mm form.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrInvalidDoseStatus is returned when a dose is recorded with a status
	// other than taken or skipped.
	ErrInvalidDoseStatus = errors.New("invalid dose status")

	// ErrDoseNotPending is returned when a dose that was already taken or
	// skipped is recorded again.
	ErrDoseNotPending = errors.New("dose is not pending")

	// ErrDoseNotFound is returned when no dose is scheduled at the given time.
	ErrDoseNotFound = errors.New("dose not found")

	// ErrMedicationNotFound is returned when a patient has no such medication.
	ErrMedicationNotFound = errors.New("medication not found")

	// ErrContactNotFound is returned when a patient has no such emergency contact.
	ErrContactNotFound = errors.New("emergency contact not found")

	// ErrInvalidAppointmentStatus is returned for unknown appointment statuses.
	ErrInvalidAppointmentStatus = errors.New("invalid appointment status")
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of an entity.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(entity, field, message string) *ValidationError {
	return &ValidationError{Entity: entity, Fields: []FieldError{{Field: field, Message: message}}}
}
