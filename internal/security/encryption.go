// Package security implements the secure storage subsystem: the
// encryption engine, the audit log, the secure storage facade, and the
// privacy compliance workflows.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/utils"
)

// Engine performs password-based authenticated encryption and produces
// the container envelope persisted by the storage layer. Every call is
// recorded in the audit log, including failures.
type Engine struct {
	appSecret  string
	iterations int
	audit      *AuditLog
}

// NewEngine creates an encryption engine.
//
// Parameters:
//   - appSecret: the process-wide secret used to derive per-user keys
//   - iterations: the KDF iteration count (values below the default are
//     raised to it)
//   - audit: the audit log every operation is recorded in
func NewEngine(appSecret string, iterations int, audit *AuditLog) *Engine {
	if iterations < constants.KDFIterations {
		iterations = constants.KDFIterations
	}
	return &Engine{
		appSecret:  appSecret,
		iterations: iterations,
		audit:      audit,
	}
}

// deriveKey stretches a password into an AES-256 key using the
// container's salt.
func (e *Engine) deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, e.iterations, constants.KDFKeyLength, sha256.New)
}

// userPassword derives the password for user-keyed encryption. The user
// never supplies a password on this path; the key material comes from
// the app secret and the user identity.
func (e *Engine) userPassword(userID string) string {
	return e.appSecret + ":" + userID
}

// integrityTag computes the integrity tag over plaintext||salt||iv. The
// tag is keyed for encrypted containers so it cannot be recomputed
// without the password.
func integrityTag(key, plaintext, salt, iv []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(plaintext)
	mac.Write(salt)
	mac.Write(iv)
	return hex.EncodeToString(mac.Sum(nil))
}

// plainHash computes the unkeyed integrity hash used by the public
// level, where there is no key to seal a tag with.
func plainHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// EncryptWithPassword seals data with a caller-supplied password.
//
// The "public" level bypasses encryption entirely: the container holds
// the data verbatim with algorithm "none" and a plain hash for
// integrity. The "encrypted" and "sensitive" levels apply AES-256-GCM
// under a key derived from the password with a fresh random salt.
//
// Parameters:
//   - data: the plaintext to protect
//   - password: the caller's password
//   - level: the protection level
//   - userID: the acting user, recorded in the audit log
//
// Returns:
//   - *models.SecureDataContainer: the sealed container
//   - error: an AppError if sealing failed
func (e *Engine) EncryptWithPassword(data []byte, password string, level models.EncryptionLevel, userID string) (*models.SecureDataContainer, error) {
	if level == "" {
		level = models.LevelEncrypted
	}
	if !models.ValidEncryptionLevel(level) {
		e.recordCrypto(userID, constants.AuditActionEncryption, models.AuditFailure, string(level))
		return nil, utils.NewBadRequestError(fmt.Sprintf("unknown encryption level: %s", level))
	}

	if level == models.LevelPublic {
		container := e.publicContainer(data)
		e.recordCrypto(userID, constants.AuditActionEncryption, models.AuditSuccess, string(level))
		return container, nil
	}

	container, err := e.seal(data, password)
	if err != nil {
		e.recordCrypto(userID, constants.AuditActionEncryption, models.AuditFailure, string(level))
		return nil, err
	}

	e.recordCrypto(userID, constants.AuditActionEncryption, models.AuditSuccess, string(level))
	return container, nil
}

// EncryptForUser seals data under a key derived from the app secret and
// the user's identity. It exists for callers that store on a user's
// behalf without ever holding a user password.
func (e *Engine) EncryptForUser(data []byte, userID string, level models.EncryptionLevel) (*models.SecureDataContainer, error) {
	return e.EncryptWithPassword(data, e.userPassword(userID), level, userID)
}

// DecryptWithPassword opens a container with a caller-supplied password
// and verifies its integrity tag.
//
// A failed GCM open (wrong password or corrupted ciphertext) surfaces
// as a decryption error; a successful open whose integrity tag does not
// match surfaces as an integrity error. The two are distinct so callers
// can tell tampering apart from a bad password.
func (e *Engine) DecryptWithPassword(container *models.SecureDataContainer, password string, userID string) ([]byte, error) {
	if container == nil {
		return nil, utils.NewBadRequestError("no container to decrypt")
	}

	if !container.IsEncrypted() {
		data := []byte(container.EncryptedData)
		if plainHash(data) != container.Integrity {
			e.recordCrypto(userID, constants.AuditActionDecryption, models.AuditBlocked, container.Algorithm)
			return nil, utils.NewIntegrityError()
		}
		e.recordCrypto(userID, constants.AuditActionDecryption, models.AuditSuccess, container.Algorithm)
		return data, nil
	}

	plaintext, err := e.open(container, password)
	if err != nil {
		result := models.AuditFailure
		if utils.IsIntegrityError(err) {
			result = models.AuditBlocked
		}
		e.recordCrypto(userID, constants.AuditActionDecryption, result, container.Algorithm)
		return nil, err
	}

	e.recordCrypto(userID, constants.AuditActionDecryption, models.AuditSuccess, container.Algorithm)
	return plaintext, nil
}

// DecryptForUser opens a container sealed by EncryptForUser.
func (e *Engine) DecryptForUser(container *models.SecureDataContainer, userID string) ([]byte, error) {
	return e.DecryptWithPassword(container, e.userPassword(userID), userID)
}

// publicContainer builds the unencrypted envelope for the public level.
func (e *Engine) publicContainer(data []byte) *models.SecureDataContainer {
	return &models.SecureDataContainer{
		ID:            uuid.NewString(),
		EncryptedData: string(data),
		Algorithm:     constants.AlgorithmNone,
		Timestamp:     timeNow(),
		Version:       constants.ContainerVersion,
		Integrity:     plainHash(data),
	}
}

// seal performs the KDF and AES-256-GCM encryption.
func (e *Engine) seal(data []byte, password string) (*models.SecureDataContainer, error) {
	salt := make([]byte, constants.KDFSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, utils.NewInternalServerError(fmt.Errorf("failed to generate salt: %w", err))
	}

	iv := make([]byte, constants.GCMNonceSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, utils.NewInternalServerError(fmt.Errorf("failed to generate nonce: %w", err))
	}

	key := e.deriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, utils.NewInternalServerError(fmt.Errorf("failed to create cipher: %w", err))
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, constants.GCMNonceSize)
	if err != nil {
		return nil, utils.NewInternalServerError(fmt.Errorf("failed to create GCM: %w", err))
	}

	ciphertext := gcm.Seal(nil, iv, data, nil)

	return &models.SecureDataContainer{
		ID:            uuid.NewString(),
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
		Algorithm:     constants.AlgorithmAESGCM,
		IV:            base64.StdEncoding.EncodeToString(iv),
		Salt:          base64.StdEncoding.EncodeToString(salt),
		Timestamp:     timeNow(),
		Version:       constants.ContainerVersion,
		Integrity:     integrityTag(key, data, salt, iv),
	}, nil
}

// open reverses seal and verifies the integrity tag.
func (e *Engine) open(container *models.SecureDataContainer, password string) ([]byte, error) {
	if container.Algorithm != constants.AlgorithmAESGCM {
		return nil, utils.NewDecryptionError(fmt.Errorf("unsupported algorithm: %s", container.Algorithm))
	}

	salt, err := base64.StdEncoding.DecodeString(container.Salt)
	if err != nil {
		return nil, utils.NewDecryptionError(fmt.Errorf("malformed salt: %w", err))
	}
	iv, err := base64.StdEncoding.DecodeString(container.IV)
	if err != nil {
		return nil, utils.NewDecryptionError(fmt.Errorf("malformed nonce: %w", err))
	}
	ciphertext, err := base64.StdEncoding.DecodeString(container.EncryptedData)
	if err != nil {
		return nil, utils.NewDecryptionError(fmt.Errorf("malformed ciphertext: %w", err))
	}

	key := e.deriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, utils.NewDecryptionError(err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, constants.GCMNonceSize)
	if err != nil {
		return nil, utils.NewDecryptionError(err)
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, utils.NewDecryptionError(err)
	}

	// GCM already authenticated the ciphertext; the tag additionally
	// binds the plaintext to the KDF parameters it was sealed with
	if !hmac.Equal([]byte(integrityTag(key, plaintext, salt, iv)), []byte(container.Integrity)) {
		return nil, utils.NewIntegrityError()
	}

	return plaintext, nil
}

// recordCrypto records an encryption or decryption event. A nil audit
// log disables recording, which only tests use.
func (e *Engine) recordCrypto(userID, action string, result models.AuditResult, algorithm string) {
	if e.audit == nil {
		return
	}
	e.audit.Record(models.NewAuditEntry(userID, action, "container", result, map[string]interface{}{
		"algorithm": algorithm,
	}))
}
