package ratelimit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting operations
// This enables dependency injection and testing with mock implementations
type Limiter interface {
	// Wait blocks until it's safe to make a request based on rate limiting rules
	Wait(ctx context.Context) error

	// HandleResponse processes response headers to adjust rate limiting behavior
	HandleResponse(response *http.Response) error

	// AcquireSlot attempts to acquire a concurrency slot for parallel requests
	AcquireSlot(ctx context.Context) error

	// ReleaseSlot releases a concurrency slot
	ReleaseSlot()
}

// Config holds the rate limiting knobs. Zero values fall back to the
// defaults returned by DefaultConfig.
type Config struct {
	RequestsPerSecond     float64
	Burst                 int
	MaxConcurrentRequests int
	BackoffBase           time.Duration
	MaxBackoff            time.Duration
}

// DefaultConfig returns the limits appropriate for Jira Cloud's documented
// behavior: a modest steady rate with headroom for short bursts.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond:     10,
		Burst:                 20,
		MaxConcurrentRequests: 5,
		BackoffBase:           1 * time.Second,
		MaxBackoff:            30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = def.RequestsPerSecond
	}
	if c.Burst < 1 {
		c.Burst = def.Burst
	}
	if c.MaxConcurrentRequests < 1 {
		c.MaxConcurrentRequests = def.MaxConcurrentRequests
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = def.BackoffBase
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = def.MaxBackoff
	}
	return c
}

// APILimiter implements the Limiter interface with JIRA-specific logic:
// a token bucket for steady-state pacing, a semaphore for concurrency,
// exponential backoff after 429s, and respect for the X-RateLimit-* and
// Retry-After headers Jira Cloud sends.
type APILimiter struct {
	bucket      *rate.Limiter
	semaphore   chan struct{}
	backoffBase time.Duration
	maxBackoff  time.Duration

	mutex             sync.Mutex
	consecutiveErrors int
	backoffUntil      time.Time

	// Rate limit detection from headers
	rateLimitRemaining int
	rateLimitReset     time.Time
}

// defaultRemaining is the quota assumed until the upstream tells us better.
const defaultRemaining = 1000

// NewLimiter creates a rate limiter with the provided configuration.
func NewLimiter(cfg Config) Limiter {
	cfg = cfg.withDefaults()

	return &APILimiter{
		bucket:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		semaphore:   make(chan struct{}, cfg.MaxConcurrentRequests),
		backoffBase: cfg.BackoffBase,
		maxBackoff:  cfg.MaxBackoff,

		rateLimitRemaining: defaultRemaining,
		rateLimitReset:     time.Now().Add(1 * time.Hour),
	}
}

// Wait blocks until it's safe to make a request
func (r *APILimiter) Wait(ctx context.Context) error {
	if err := r.waitForBackoff(ctx); err != nil {
		return err
	}
	if err := r.waitForQuotaWindow(ctx); err != nil {
		return err
	}
	return r.bucket.Wait(ctx)
}

// waitForBackoff sleeps out any active exponential backoff window
func (r *APILimiter) waitForBackoff(ctx context.Context) error {
	r.mutex.Lock()
	until := r.backoffUntil
	r.mutex.Unlock()

	if wait := time.Until(until); wait > 0 {
		return sleep(ctx, wait)
	}
	return nil
}

// waitForQuotaWindow sleeps until the upstream quota window resets when the
// reported remaining quota has run dry
func (r *APILimiter) waitForQuotaWindow(ctx context.Context) error {
	r.mutex.Lock()
	remaining, reset := r.rateLimitRemaining, r.rateLimitReset
	r.mutex.Unlock()

	if remaining <= 1 && time.Now().Before(reset) {
		if err := sleep(ctx, time.Until(reset)); err != nil {
			return err
		}
		r.mutex.Lock()
		r.rateLimitRemaining = defaultRemaining
		r.mutex.Unlock()
	}
	return nil
}

// HandleResponse processes response headers to adjust rate limiting behavior
func (r *APILimiter) HandleResponse(response *http.Response) error {
	if response == nil {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Handle rate limit responses (429 Too Many Requests)
	if response.StatusCode == http.StatusTooManyRequests {
		r.consecutiveErrors++

		backoffDelay := r.calculateBackoffDelay()
		r.backoffUntil = time.Now().Add(backoffDelay)

		// Prefer the upstream's Retry-After when it is more conservative
		if retryAfterStr := response.Header.Get("Retry-After"); retryAfterStr != "" {
			if retryAfter, err := strconv.Atoi(retryAfterStr); err == nil {
				suggestedDelay := time.Duration(retryAfter) * time.Second
				if suggestedDelay > backoffDelay {
					r.backoffUntil = time.Now().Add(suggestedDelay)
				}
			}
		}

		return &RateLimitError{
			StatusCode: response.StatusCode,
			RetryAfter: time.Until(r.backoffUntil),
			Message:    "rate limit exceeded, backing off",
		}
	}

	// Parse JIRA rate limit headers if present
	if remaining := response.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if count, err := strconv.Atoi(remaining); err == nil {
			r.rateLimitRemaining = count
		}
	}

	if reset := response.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.rateLimitReset = time.Unix(resetTime, 0)
		}
	}

	// Success response - reset consecutive errors
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		r.consecutiveErrors = 0
	}

	return nil
}

// AcquireSlot attempts to acquire a concurrency slot
func (r *APILimiter) AcquireSlot(ctx context.Context) error {
	select {
	case r.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseSlot releases a concurrency slot
func (r *APILimiter) ReleaseSlot() {
	select {
	case <-r.semaphore:
		// Slot released
	default:
		// No slot to release (shouldn't happen in normal operation)
	}
}

// calculateBackoffDelay calculates exponential backoff: base * 2^(errors-1),
// capped at the configured maximum. Callers must hold the mutex.
func (r *APILimiter) calculateBackoffDelay() time.Duration {
	if r.consecutiveErrors <= 0 {
		return 0
	}

	exponent := float64(r.consecutiveErrors - 1)
	multiplier := math.Pow(2, exponent)

	delay := time.Duration(float64(r.backoffBase) * multiplier)
	if delay > r.maxBackoff {
		delay = r.maxBackoff
	}

	return delay
}

// sleep waits for d or until the context is cancelled
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RateLimitError represents a rate limiting error
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit error (HTTP %d): %s (retry after %v)",
		e.StatusCode, e.Message, e.RetryAfter)
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	_, ok := err.(*RateLimitError)
	return ok
}
