// Package generation provides the structured-generation flow used for the
// LLM-backed features of the application. A flow declares typed input and
// output schemas and a restricted prompt template, calls an external LLM
// backend through the Backend interface, and only hands a result back to the
// caller once it conforms to the declared output schema.
//
// Backends for specific providers (Gemini, OpenAI-compatible, Claude) live in
// internal/platform and are selected at startup.
package generation
