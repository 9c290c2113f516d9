package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllow(t *testing.T) {
	t.Run("Allows requests within burst", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(10, 5)

		// Act & Assert
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow(), "request %d within burst should be allowed", i)
		}
	})

	t.Run("Rejects requests beyond burst", func(t *testing.T) {
		// Arrange: refill rate is effectively zero for the test window
		limiter := NewLimiter(0.0001, 2)

		// Act
		first := limiter.Allow()
		second := limiter.Allow()
		third := limiter.Allow()

		// Assert
		assert.True(t, first)
		assert.True(t, second)
		assert.False(t, third, "request beyond burst should be rejected")
	})

	t.Run("Refills tokens over time", func(t *testing.T) {
		// Arrange: 100 tokens/sec so a short sleep refills the bucket
		limiter := NewLimiter(100, 1)
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())

		// Act
		time.Sleep(30 * time.Millisecond)

		// Assert
		assert.True(t, limiter.Allow(), "bucket should have refilled")
	})

	t.Run("ResetTokens refills the bucket", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(0.0001, 1)
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())

		// Act
		limiter.ResetTokens()

		// Assert
		assert.True(t, limiter.Allow())
	})

	t.Run("Safe under concurrent access", func(t *testing.T) {
		// Arrange
		limiter := NewLimiter(1000, 100)
		var wg sync.WaitGroup

		// Act
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				limiter.Allow()
			}()
		}
		wg.Wait()

		// Assert: the limiter still works after concurrent use
		assert.NotPanics(t, func() { limiter.Allow() })
	})
}
