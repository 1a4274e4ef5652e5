package generation

import (
	"context"
	"encoding/json"
)

// GenerationRequest is everything a backend needs for one generation call.
type GenerationRequest struct {
	// Flow names the flow issuing the request, for logging.
	Flow string

	// Prompt is the rendered instruction text.
	Prompt string

	// Media holds attachments extracted from the template, if any.
	Media []Media

	// OutputSchema is the shape the response must conform to.
	OutputSchema []FieldSpec

	// Model selects a specific model. Empty means the backend default.
	Model string
}

// GenerationResult is the raw payload returned by a backend. It has not been
// validated; see ValidateOutput.
type GenerationResult struct {
	Raw json.RawMessage

	// Model is the model that served the request, when the backend reports it.
	Model string
}

// Backend submits a rendered prompt to an external LLM service.
// This interface is the boundary between the application core and
// provider SDKs.
//
// Implementations make exactly one attempt per call and do not apply their
// own timeout; the context passed in governs cancellation.
type Backend interface {
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// BackendFunc adapts a plain function to the Backend interface.
type BackendFunc func(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

// Generate calls f.
func (f BackendFunc) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	return f(ctx, req)
}
