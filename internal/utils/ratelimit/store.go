package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultCategory is used when no category-specific rate is configured.
const defaultCategory = "default"

// Store manages rate limiters for multiple clients and endpoint
// categories. Limiters are created lazily and evicted after a period of
// inactivity.
type Store struct {
	// limiters maps client+category keys to their rate limiters
	limiters map[string]*Limiter

	// rates defines the rate limit per endpoint category
	rates map[string]Rate

	// mu protects concurrent access to the limiters map
	mu sync.RWMutex

	// maxIdle is how long an unused limiter survives before eviction
	maxIdle time.Duration
}

// NewStore creates a new store for managing rate limiters.
//
// Parameters:
//   - defaultRate: The rate applied to categories with no explicit rate
//   - maxIdle: How long an unused limiter survives before eviction
//
// Returns:
//   - A configured limiter store
func NewStore(defaultRate Rate, maxIdle time.Duration) *Store {
	store := &Store{
		limiters: make(map[string]*Limiter),
		rates:    map[string]Rate{defaultCategory: defaultRate},
		maxIdle:  maxIdle,
	}

	go store.cleanupRoutine()

	return store
}

// GetLimiter returns the rate limiter for the specified client and
// category, creating one if none exists yet.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: The endpoint category ("scan", "secure", "privacy", ...)
//
// Returns:
//   - A rate limiter for the client in that category
func (s *Store) GetLimiter(clientID, category string) *Limiter {
	key := clientID + ":" + category

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()

	if exists {
		return limiter
	}

	rate, ok := s.rates[category]
	if !ok {
		rate = s.rates[defaultCategory]
	}

	limiter = NewLimiter(rate.RequestsPerSecond, rate.Burst)

	s.mu.Lock()
	// Another goroutine may have created the limiter in the meantime
	if existing, ok := s.limiters[key]; ok {
		limiter = existing
	} else {
		s.limiters[key] = limiter
	}
	s.mu.Unlock()

	return limiter
}

// SetRate sets the rate limit for a specific endpoint category.
func (s *Store) SetRate(category string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = rate
}

// cleanupRoutine periodically evicts idle limiters to bound memory use.
func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(s.maxIdle)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// cleanup removes limiters that have been idle longer than maxIdle.
func (s *Store) cleanup() {
	cutoff := time.Now().Add(-s.maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if limiter.LastAccess().Before(cutoff) {
			delete(s.limiters, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().
			Int("removed", removed).
			Int("remaining", len(s.limiters)).
			Msg("Evicted idle rate limiters")
	}
}
