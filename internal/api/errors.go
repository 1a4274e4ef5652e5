package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking their types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Upstream failures
	case errors.Is(err, service.ErrNotificationFailed),
		errors.Is(err, generation.ErrSchemaMismatch):
		return http.StatusBadGateway
	case errors.Is(err, generation.ErrBackend):
		return http.StatusServiceUnavailable

	// Not found errors
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, domain.ErrMedicationNotFound),
		errors.Is(err, domain.ErrContactNotFound),
		errors.Is(err, domain.ErrDoseNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrDoseNotPending):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, generation.ErrInputValidation),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidDoseStatus),
		errors.Is(err, domain.ErrInvalidAppointmentStatus),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Validation
// messages name fields only; nothing from lower layers is echoed.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	var inputErr *generation.InputValidationError

	switch {
	case errors.Is(err, service.ErrNotificationFailed):
		return "Failed to deliver the report"
	case errors.Is(err, generation.ErrSchemaMismatch):
		return "The assistant returned an unusable answer"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by the assistant's safety filters"
	case errors.Is(err, generation.ErrBackend):
		return "The assistant is temporarily unavailable"

	case errors.Is(err, service.ErrPatientNotFound):
		return "Patient not found"
	case errors.Is(err, service.ErrAppointmentNotFound):
		return "Appointment not found"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, domain.ErrMedicationNotFound):
		return "Medication not found"
	case errors.Is(err, domain.ErrContactNotFound):
		return "Emergency contact not found"
	case errors.Is(err, domain.ErrDoseNotFound):
		return "No dose is scheduled at that time"
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrDoseNotPending):
		return "Dose has already been recorded"
	case errors.Is(err, store.ErrDuplicate):
		return "Entity already exists"

	case errors.As(err, &validationErr):
		return validationMessage(validationErr)
	case errors.As(err, &inputErr):
		return "Invalid input: " + inputErr.Violations.String()
	case errors.Is(err, domain.ErrInvalidRole):
		return "Role must be patient, doctor or caretaker"
	case errors.Is(err, domain.ErrInvalidTime):
		return "Times must be in HH:mm format"
	case errors.Is(err, domain.ErrInvalidDoseStatus):
		return "Dose status must be taken or skipped"
	case errors.Is(err, domain.ErrInvalidAppointmentStatus):
		return "Status must be scheduled, completed or cancelled"
	case errors.Is(err, service.ErrInvalidInput):
		return "Invalid request"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

func validationMessage(err *domain.ValidationError) string {
	if len(err.Fields) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "Invalid " + err.Entity + ": " + strings.Join(parts, "; ")
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted cause. fallback replaces the generic message of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		// Conflicting dose updates are logged at WARN.
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns request validation failures into a short
// message naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationMessage(validationErr)
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required", "required_without":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too short"
	case "max", "lte":
		return "too long"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "invalid date or time format"
	default:
		return "validation failed"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
