// Package ratelimit provides rate limiting for the content-security
// endpoints. It implements the token bucket algorithm with per-category
// rates so that scan, secure-storage and privacy requests can be
// throttled independently.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket for a single client identity. Tokens are
// added at a fixed rate and each request consumes one token.
type Limiter struct {
	// tokens is the current number of tokens in the bucket
	tokens float64

	// lastTime is the last time tokens were added to the bucket
	lastTime time.Time

	// lastAccess is the last time the limiter was consulted, used by
	// the store's cleanup to evict idle clients
	lastAccess time.Time

	// rate is the token refill rate (tokens per second)
	rate float64

	// capacity is the maximum number of tokens the bucket can hold
	capacity float64

	// mu protects concurrent access to the bucket
	mu sync.Mutex
}

// Rate controls how many requests per second are allowed.
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// NewLimiter creates a new rate limiter with the specified rate and
// burst capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	now := time.Now()
	return &Limiter{
		tokens:     float64(burst),
		lastTime:   now,
		lastAccess: now,
		rate:       rate,
		capacity:   float64(burst),
	}
}

// Allow checks if a request should be allowed based on the rate limit.
//
// Returns:
//   - true if the request is allowed
//   - false if the rate limit has been exceeded
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Refill tokens for the time elapsed since the last request
	now := time.Now()
	elapsed := now.Sub(l.lastTime).Seconds()
	l.lastTime = now
	l.lastAccess = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// LastAccess returns the last time the limiter was consulted.
func (l *Limiter) LastAccess() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastAccess
}

// ResetTokens refills the bucket to capacity. Useful for
// administrative actions and tests.
func (l *Limiter) ResetTokens() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = l.capacity
	l.lastTime = time.Now()
}
