// Package gemini implements generation.Backend on top of Google's Gemini API.
//
// The backend translates a flow's output schema into a Gemini response schema
// and asks for a JSON response, so the model's answer can be handed straight
// to the output validator. Prompt media (prescription photos) are sent as
// inline data parts next to the prompt text.
//
// Each Generate call makes exactly one request. Safety blocks are reported
// as generation.ErrContentBlocked and empty candidates as
// generation.ErrEmptyResponse; the flow wraps both as backend errors.
package gemini
