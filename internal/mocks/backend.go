package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/phrazzld/pocket-doctor/internal/generation"
)

// MockBackend implements generation.Backend for testing.
type MockBackend struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req *generation.GenerationRequest) (*generation.GenerationResult, error)

	// Default response values, used when GenerateFn is nil
	Result *generation.GenerationResult
	Err    error

	mu       sync.Mutex
	requests []*generation.GenerationRequest
}

// Generate implements generation.Backend.
func (m *MockBackend) Generate(
	ctx context.Context,
	req *generation.GenerationRequest,
) (*generation.GenerationResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Result, m.Err
}

// Calls returns how many times Generate was called.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil.
func (m *MockBackend) LastRequest() *generation.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// JSONResult wraps a raw JSON string as a generation result.
func JSONResult(raw string) *generation.GenerationResult {
	return &generation.GenerationResult{Raw: json.RawMessage(raw), Model: "mock-model"}
}

// NewMockBackendWithJSON creates a MockBackend that always returns raw.
func NewMockBackendWithJSON(raw string) *MockBackend {
	return &MockBackend{Result: JSONResult(raw)}
}

// NewMockBackendWithError creates a MockBackend that always fails with err.
func NewMockBackendWithError(err error) *MockBackend {
	return &MockBackend{Err: err}
}
