package ratelimit

import (
	"net/http"
)

// Transport wraps an HTTP transport with rate limiting. It sits below the
// authentication transport so every request, including pagination and report
// fan-outs, passes through the same limiter.
type Transport struct {
	// Base transport for actual HTTP operations
	Base http.RoundTripper

	// Limiter controlling request frequency and concurrency
	Limiter Limiter
}

// NewTransport creates a new rate-limited HTTP transport
func NewTransport(base http.RoundTripper, limiter Limiter) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		Base:    base,
		Limiter: limiter,
	}
}

// RoundTrip implements http.RoundTripper with rate limiting
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// Acquire concurrency slot
	if err := t.Limiter.AcquireSlot(ctx); err != nil {
		return nil, err
	}
	defer t.Limiter.ReleaseSlot()

	// Wait for rate limiting
	if err := t.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	response, err := t.Base.RoundTrip(req)

	// Feed response headers back into the limiter. A 429 surfaces there as
	// a RateLimitError, but the response itself is still returned so the
	// client's error translation sees the real status code.
	if response != nil {
		_ = t.Limiter.HandleResponse(response)
	}

	return response, err
}
