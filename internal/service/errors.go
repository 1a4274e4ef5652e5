package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/pocket-doctor/internal/store"
)

// Sentinel errors returned by the services. Store and domain failures are
// wrapped in a ServiceError that keeps them reachable through errors.Is.
var (
	// ErrNotFound is wrapped by every entity-specific "not found" error.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrPatientNotFound indicates the patient does not exist.
	ErrPatientNotFound = fmt.Errorf("%w: patient", ErrNotFound)

	// ErrAppointmentNotFound indicates the appointment does not exist.
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment", ErrNotFound)

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrInvalidInput indicates a request the service cannot act on, such as a
	// session request naming neither a user nor a role.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotificationFailed indicates the notification provider rejected or
	// could not deliver a message.
	ErrNotificationFailed = errors.New("notification failed")
)

// ServiceError wraps an error with the service and operation that produced it.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// wrapError converts a lower-layer error into a service error. Store
// "not found" errors become notFound when one is given; everything else is
// wrapped in a ServiceError.
func wrapError(service, op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && store.IsNotFoundError(err) {
		return notFound
	}
	return NewServiceError(service, op, err)
}
