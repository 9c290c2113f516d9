package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/utils"
)

// RetryingStore decorates a Store with per-call timeouts and a single
// retry. A call that exceeds the timeout fails with the storage timeout
// sentinel; a call that fails once is retried exactly once before the
// error is surfaced.
type RetryingStore struct {
	inner   Store
	timeout time.Duration
	retries int
}

// NewRetryingStore wraps a store with the default timeout and retry
// policy.
func NewRetryingStore(inner Store) *RetryingStore {
	return &RetryingStore{
		inner:   inner,
		timeout: constants.StorageTimeout,
		retries: constants.StorageMaxRetries,
	}
}

// NewRetryingStoreWithTimeout wraps a store with an explicit timeout.
func NewRetryingStoreWithTimeout(inner Store, timeout time.Duration) *RetryingStore {
	if timeout <= 0 {
		timeout = constants.StorageTimeout
	}
	return &RetryingStore{
		inner:   inner,
		timeout: timeout,
		retries: constants.StorageMaxRetries,
	}
}

// do runs fn under the configured timeout, retrying failed attempts up
// to the retry budget. Context cancellation from the caller is not
// retried.
func (s *RetryingStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= s.retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			err = utils.ErrStorageTimeout
		}
		lastErr = err

		// The caller gave up; retrying would race a dead request
		if ctx.Err() != nil {
			return lastErr
		}

		if attempt < s.retries {
			log.Warn().
				Err(err).
				Str("operation", op).
				Int("attempt", attempt+1).
				Msg("Storage operation failed, retrying")
		}
	}

	return lastErr
}

// Get retrieves a plain value by key.
func (s *RetryingStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.do(ctx, "get", func(ctx context.Context) error {
		var innerErr error
		value, innerErr = s.inner.Get(ctx, key)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Save persists a plain value under a key.
func (s *RetryingStore) Save(ctx context.Context, key string, value []byte) error {
	return s.do(ctx, "save", func(ctx context.Context) error {
		return s.inner.Save(ctx, key, value)
	})
}

// Delete removes a plain value.
func (s *RetryingStore) Delete(ctx context.Context, key string) error {
	return s.do(ctx, "delete", func(ctx context.Context) error {
		return s.inner.Delete(ctx, key)
	})
}

// GetSecureData retrieves a secure container by logical key.
func (s *RetryingStore) GetSecureData(ctx context.Context, key string) (*models.SecureDataContainer, error) {
	var container *models.SecureDataContainer
	err := s.do(ctx, "get_secure", func(ctx context.Context) error {
		var innerErr error
		container, innerErr = s.inner.GetSecureData(ctx, key)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return container, nil
}

// SaveSecureData persists a secure container under a logical key.
func (s *RetryingStore) SaveSecureData(ctx context.Context, key string, container *models.SecureDataContainer) error {
	return s.do(ctx, "save_secure", func(ctx context.Context) error {
		return s.inner.SaveSecureData(ctx, key, container)
	})
}

// DeleteSecureData removes a secure container.
func (s *RetryingStore) DeleteSecureData(ctx context.Context, key string) error {
	return s.do(ctx, "delete_secure", func(ctx context.Context) error {
		return s.inner.DeleteSecureData(ctx, key)
	})
}

// ListSecureKeys returns the logical keys with the given prefix.
func (s *RetryingStore) ListSecureKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.do(ctx, "list_secure", func(ctx context.Context) error {
		var innerErr error
		keys, innerErr = s.inner.ListSecureKeys(ctx, prefix)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// GetUserPreferences retrieves a user's content preferences.
func (s *RetryingStore) GetUserPreferences(ctx context.Context, userID string) (*models.UserContentPreferences, error) {
	var prefs *models.UserContentPreferences
	err := s.do(ctx, "get_preferences", func(ctx context.Context) error {
		var innerErr error
		prefs, innerErr = s.inner.GetUserPreferences(ctx, userID)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveUserPreferences persists a user's content preferences.
func (s *RetryingStore) SaveUserPreferences(ctx context.Context, prefs *models.UserContentPreferences) error {
	return s.do(ctx, "save_preferences", func(ctx context.Context) error {
		return s.inner.SaveUserPreferences(ctx, prefs)
	})
}

// DeleteUserPreferences removes a user's content preferences.
func (s *RetryingStore) DeleteUserPreferences(ctx context.Context, userID string) error {
	return s.do(ctx, "delete_preferences", func(ctx context.Context) error {
		return s.inner.DeleteUserPreferences(ctx, userID)
	})
}
