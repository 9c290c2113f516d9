package models

import (
	"time"

	"github.com/hanachat/contentguard/internal/constants"
)

// EncryptionLevel selects how strongly data is protected at rest.
type EncryptionLevel string

// Available encryption levels
const (
	// LevelPublic stores data verbatim with only an integrity hash
	LevelPublic EncryptionLevel = constants.EncryptionLevelPublic
	// LevelEncrypted applies authenticated encryption
	LevelEncrypted EncryptionLevel = constants.EncryptionLevelEncrypted
	// LevelSensitive applies authenticated encryption and marks the
	// container for restricted handling in exports
	LevelSensitive EncryptionLevel = constants.EncryptionLevelSensitive
)

// ValidEncryptionLevel checks if the provided level is one of the known
// values.
func ValidEncryptionLevel(l EncryptionLevel) bool {
	switch l {
	case LevelPublic, LevelEncrypted, LevelSensitive:
		return true
	}
	return false
}

// SecureDataContainer is the persisted envelope holding ciphertext plus
// the parameters needed to decrypt and verify it. Containers are
// immutable once created; decryption never mutates them.
type SecureDataContainer struct {
	// ID uniquely identifies the container
	ID string `json:"id"`

	// EncryptedData is the base64-encoded ciphertext, or the plaintext
	// verbatim when Algorithm is "none"
	EncryptedData string `json:"encrypted_data"`

	// Algorithm names the cipher used ("none" for the public level)
	Algorithm string `json:"algorithm"`

	// IV is the base64-encoded initialization vector (empty for "none")
	IV string `json:"iv"`

	// Salt is the base64-encoded KDF salt (empty for "none")
	Salt string `json:"salt"`

	// Timestamp records when the container was created
	Timestamp time.Time `json:"timestamp"`

	// Version is the container format version
	Version string `json:"version"`

	// Integrity is the hex-encoded integrity tag: an HMAC over
	// plaintext||salt||iv for encrypted containers, a plain SHA-256
	// hash for the "none" algorithm
	Integrity string `json:"integrity"`
}

// IsEncrypted reports whether the container actually carries ciphertext.
func (c *SecureDataContainer) IsEncrypted() bool {
	return c.Algorithm != constants.AlgorithmNone
}

// StoreOptions configures how the secure storage facade protects a value.
type StoreOptions struct {
	// EncryptionLevel selects the protection applied (defaults to
	// "encrypted" when empty)
	EncryptionLevel EncryptionLevel `json:"encryption_level,omitempty" validate:"omitempty,oneof=public encrypted sensitive"`
}
