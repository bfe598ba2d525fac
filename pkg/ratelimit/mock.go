package ratelimit

import (
	"context"
	"net/http"
)

// MockLimiter provides a mock implementation for testing
type MockLimiter struct {
	// Function stubs for customizing behavior in tests
	WaitFunc           func(ctx context.Context) error
	HandleResponseFunc func(response *http.Response) error
	AcquireSlotFunc    func(ctx context.Context) error
	ReleaseSlotFunc    func()

	// Call tracking for verification in tests
	WaitCalls           int
	HandleResponseCalls []*http.Response
	AcquireSlotCalls    int
	ReleaseSlotCalls    int
}

// NewMockLimiter creates a new mock limiter with permissive default behavior
func NewMockLimiter() *MockLimiter {
	return &MockLimiter{
		WaitFunc:           func(context.Context) error { return nil },
		HandleResponseFunc: func(*http.Response) error { return nil },
		AcquireSlotFunc:    func(context.Context) error { return nil },
		ReleaseSlotFunc:    func() {},
	}
}

// Wait implements the Limiter interface
func (m *MockLimiter) Wait(ctx context.Context) error {
	m.WaitCalls++
	if m.WaitFunc != nil {
		return m.WaitFunc(ctx)
	}
	return nil
}

// HandleResponse implements the Limiter interface
func (m *MockLimiter) HandleResponse(response *http.Response) error {
	m.HandleResponseCalls = append(m.HandleResponseCalls, response)
	if m.HandleResponseFunc != nil {
		return m.HandleResponseFunc(response)
	}
	return nil
}

// AcquireSlot implements the Limiter interface
func (m *MockLimiter) AcquireSlot(ctx context.Context) error {
	m.AcquireSlotCalls++
	if m.AcquireSlotFunc != nil {
		return m.AcquireSlotFunc(ctx)
	}
	return nil
}

// ReleaseSlot implements the Limiter interface
func (m *MockLimiter) ReleaseSlot() {
	m.ReleaseSlotCalls++
	if m.ReleaseSlotFunc != nil {
		m.ReleaseSlotFunc()
	}
}
