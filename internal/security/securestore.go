package security

import (
	"context"
	"encoding/json"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/storage"
	"github.com/hanachat/contentguard/internal/utils"
)

// SecureStore is the facade applications use to persist user data under
// encryption. It serializes values, routes them through the encryption
// engine, and records every store, retrieve, and delete in the audit
// log.
type SecureStore struct {
	engine *Engine
	store  storage.Store
	audit  *AuditLog
}

// NewSecureStore creates the secure storage facade.
func NewSecureStore(engine *Engine, store storage.Store, audit *AuditLog) *SecureStore {
	return &SecureStore{
		engine: engine,
		store:  store,
		audit:  audit,
	}
}

// userKey namespaces a logical key by its owner so per-user listing,
// export, and deletion stay a prefix scan.
func userKey(userID, key string) string {
	return userID + ":" + key
}

// Store serializes a value as JSON, seals it for the user, and persists
// the container under the user's namespaced key.
//
// Parameters:
//   - ctx: the request context
//   - userID: the owning user
//   - key: the logical key within the user's namespace
//   - value: any JSON-serializable value
//   - opts: protection options; a zero value means the encrypted level
//
// Returns:
//   - error: an AppError if serialization, sealing, or persistence failed
func (s *SecureStore) Store(ctx context.Context, userID, key string, value interface{}, opts models.StoreOptions) error {
	level := opts.EncryptionLevel
	if level == "" {
		level = models.LevelEncrypted
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.record(userID, constants.AuditActionSecureStore, key, models.AuditFailure, nil)
		return utils.NewBadRequestError("value is not serializable")
	}

	container, err := s.engine.EncryptForUser(payload, userID, level)
	if err != nil {
		s.record(userID, constants.AuditActionSecureStore, key, models.AuditFailure, nil)
		return err
	}

	if err := s.store.SaveSecureData(ctx, userKey(userID, key), container); err != nil {
		s.record(userID, constants.AuditActionSecureStore, key, models.AuditFailure, nil)
		return err
	}

	s.record(userID, constants.AuditActionSecureStore, key, models.AuditSuccess, map[string]interface{}{
		"encryption_level": string(level),
	})
	return nil
}

// Retrieve opens the container at the user's key and deserializes it
// into out.
//
// Returns:
//   - bool: false when no value exists at the key (not an error)
//   - error: an AppError if retrieval, decryption, or deserialization
//     failed
func (s *SecureStore) Retrieve(ctx context.Context, userID, key string, out interface{}) (bool, error) {
	container, err := s.store.GetSecureData(ctx, userKey(userID, key))
	if err != nil {
		s.record(userID, constants.AuditActionSecureRead, key, models.AuditFailure, nil)
		return false, err
	}
	if container == nil {
		return false, nil
	}

	payload, err := s.engine.DecryptForUser(container, userID)
	if err != nil {
		result := models.AuditFailure
		if utils.IsIntegrityError(err) {
			result = models.AuditBlocked
		}
		s.record(userID, constants.AuditActionSecureRead, key, result, nil)
		return false, err
	}

	if err := json.Unmarshal(payload, out); err != nil {
		s.record(userID, constants.AuditActionSecureRead, key, models.AuditFailure, nil)
		return false, utils.NewInternalServerError(err)
	}

	s.record(userID, constants.AuditActionSecureRead, key, models.AuditSuccess, nil)
	return true, nil
}

// Delete removes the container at the user's key. Deleting an absent
// key succeeds.
func (s *SecureStore) Delete(ctx context.Context, userID, key string) error {
	if err := s.store.DeleteSecureData(ctx, userKey(userID, key)); err != nil {
		s.record(userID, constants.AuditActionSecureDelete, key, models.AuditFailure, nil)
		return err
	}

	s.record(userID, constants.AuditActionSecureDelete, key, models.AuditSuccess, nil)
	return nil
}

// ListKeys returns the logical keys the user has data under, with the
// namespace prefix stripped.
func (s *SecureStore) ListKeys(ctx context.Context, userID string) ([]string, error) {
	prefix := userID + ":"
	raw, err := s.store.ListSecureKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k[len(prefix):])
	}
	return keys, nil
}

// record appends a facade-level audit entry.
func (s *SecureStore) record(userID, action, key string, result models.AuditResult, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["key"] = key
	s.audit.Record(models.NewAuditEntry(userID, action, "secure_data", result, details))
}
