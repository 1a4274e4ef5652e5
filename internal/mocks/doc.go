// Package mocks holds hand-written test doubles shared across packages.
//
// Every mock exposes one function field per interface method (GenerateFn,
// GetPatientFn, ...). A nil field falls back to a fixed default (an empty
// list, or the not-found error for lookups), so a test only sets the
// behaviour it cares about. MockBackend also records the
// last GenerationRequest and counts calls, which lets flow tests check the
// rendered prompt and that nothing was retried.
//
//	backend := mocks.NewMockBackendWithJSON(`{"response":"ok","disclaimer":""}`)
//	svc, err := assistant.NewService(backend, log)
//	// ...
//	req := backend.LastRequest()
package mocks
