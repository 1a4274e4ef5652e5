package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package. The typed errors below
// match these sentinels through errors.Is.
var (
	// ErrInputValidation is returned when caller input does not match a flow's input schema.
	ErrInputValidation = errors.New("input does not match flow schema")

	// ErrTemplate is returned when a prompt template is malformed or references undeclared fields.
	ErrTemplate = errors.New("invalid prompt template")

	// ErrBackend is returned when the generation backend could not produce a response.
	ErrBackend = errors.New("generation backend failed")

	// ErrSchemaMismatch is returned when the backend response does not match the output schema.
	ErrSchemaMismatch = errors.New("generation output does not match schema")

	// ErrContentBlocked is returned by backends when the provider refused to answer
	// because of its safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrEmptyResponse is returned by backends when the provider returned no content.
	ErrEmptyResponse = errors.New("language model returned an empty response")

	// ErrInvalidConfig is returned when a flow or backend configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generation configuration")
)

// InputValidationError reports caller input that failed schema validation.
// It is raised before any external call is made.
type InputValidationError struct {
	Flow       string
	Violations Violations
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("flow %s: invalid input: %s", e.Flow, e.Violations)
}

// Is matches ErrInputValidation.
func (e *InputValidationError) Is(target error) bool {
	return target == ErrInputValidation
}

// TemplateError reports a prompt template that cannot be used with its flow.
// It is a configuration error surfaced when the flow is defined.
type TemplateError struct {
	Flow   string
	Field  string
	Reason string
}

func (e *TemplateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("flow %s: template field %q: %s", e.Flow, e.Field, e.Reason)
	}
	return fmt.Sprintf("flow %s: template: %s", e.Flow, e.Reason)
}

// Is matches ErrTemplate.
func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplate
}

// GenerationBackendError reports a failed call to the generation backend
// (network, quota, timeout, safety block).
type GenerationBackendError struct {
	Flow  string
	Model string
	Err   error
}

func (e *GenerationBackendError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("flow %s: backend call to %s failed: %v", e.Flow, e.Model, e.Err)
	}
	return fmt.Sprintf("flow %s: backend call failed: %v", e.Flow, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *GenerationBackendError) Unwrap() error {
	return e.Err
}

// Is matches ErrBackend.
func (e *GenerationBackendError) Is(target error) bool {
	return target == ErrBackend
}

// SchemaMismatchError reports a backend response that does not conform to
// the flow's output schema.
type SchemaMismatchError struct {
	Flow       string
	Violations Violations
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("flow %s: output does not match schema: %s", e.Flow, e.Violations)
}

// Is matches ErrSchemaMismatch.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
