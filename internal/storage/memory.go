package storage

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/hanachat/contentguard/internal/models"
)

// MemoryStore is an in-process Store implementation. It backs tests
// and single-node deployments that do not need durable storage.
type MemoryStore struct {
	mu          sync.RWMutex
	values      map[string][]byte
	secure      map[string]*models.SecureDataContainer
	preferences map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:      make(map[string][]byte),
		secure:      make(map[string]*models.SecureDataContainer),
		preferences: make(map[string][]byte),
	}
}

// Get retrieves a plain value by key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Save persists a plain value under a key.
func (s *MemoryStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = stored
	return nil
}

// Delete removes a plain value. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// GetSecureData retrieves a secure container by logical key.
func (s *MemoryStore) GetSecureData(ctx context.Context, key string) (*models.SecureDataContainer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	container, ok := s.secure[key]
	if !ok {
		return nil, nil
	}
	// Containers are immutable once created; a shallow copy keeps
	// callers from sharing the stored pointer
	out := *container
	return &out, nil
}

// SaveSecureData persists a secure container under a logical key.
func (s *MemoryStore) SaveSecureData(ctx context.Context, key string, container *models.SecureDataContainer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := *container

	s.mu.Lock()
	defer s.mu.Unlock()
	s.secure[key] = &stored
	return nil
}

// DeleteSecureData removes a secure container. Deleting an absent key
// is not an error.
func (s *MemoryStore) DeleteSecureData(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secure, key)
	return nil
}

// ListSecureKeys returns the logical keys with the given prefix.
func (s *MemoryStore) ListSecureKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for key := range s.secure {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// GetUserPreferences retrieves a user's content preferences.
func (s *MemoryStore) GetUserPreferences(ctx context.Context, userID string) (*models.UserContentPreferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	raw, ok := s.preferences[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	var prefs models.UserContentPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SaveUserPreferences persists a user's content preferences.
func (s *MemoryStore) SaveUserPreferences(ctx context.Context, prefs *models.UserContentPreferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[prefs.UserID] = raw
	return nil
}

// DeleteUserPreferences removes a user's content preferences.
func (s *MemoryStore) DeleteUserPreferences(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.preferences, userID)
	return nil
}
