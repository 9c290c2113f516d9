// Package storage defines the external storage collaborator consumed
// by the content-security core, together with an in-memory
// implementation, a database/sql implementation, and a retry decorator
// that adds the timeout semantics the core requires.
package storage

import (
	"context"

	"github.com/hanachat/contentguard/internal/models"
)

// Store is the persistent key-value collaborator. Implementations may
// fail any call with a storage error; callers must not assume
// atomicity across multiple calls.
//
// Lookups return (nil, nil) when the key is absent: absence is a
// normal outcome, not an error.
type Store interface {
	// Get retrieves a plain value by key
	Get(ctx context.Context, key string) ([]byte, error)

	// Save persists a plain value under a key
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes a plain value; deleting an absent key is not an
	// error
	Delete(ctx context.Context, key string) error

	// GetSecureData retrieves a secure container by logical key
	GetSecureData(ctx context.Context, key string) (*models.SecureDataContainer, error)

	// SaveSecureData persists a secure container under a logical key
	SaveSecureData(ctx context.Context, key string, container *models.SecureDataContainer) error

	// DeleteSecureData removes a secure container; deleting an absent
	// key is not an error
	DeleteSecureData(ctx context.Context, key string) error

	// ListSecureKeys returns the logical keys with the given prefix
	ListSecureKeys(ctx context.Context, prefix string) ([]string, error)

	// GetUserPreferences retrieves a user's content preferences
	GetUserPreferences(ctx context.Context, userID string) (*models.UserContentPreferences, error)

	// SaveUserPreferences persists a user's content preferences
	SaveUserPreferences(ctx context.Context, prefs *models.UserContentPreferences) error

	// DeleteUserPreferences removes a user's content preferences;
	// deleting absent preferences is not an error
	DeleteUserPreferences(ctx context.Context, userID string) error
}
