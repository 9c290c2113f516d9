package constants

import "time"

// Encryption Levels
const (
	EncryptionLevelPublic    = "public"
	EncryptionLevelEncrypted = "encrypted"
	EncryptionLevelSensitive = "sensitive"
)

// Encryption Algorithm Identifiers
const (
	AlgorithmNone   = "none"
	AlgorithmAESGCM = "aes-256-gcm"
)

// Key Derivation Parameters
const (
	KDFIterations = 100000
	KDFKeyLength  = 32
	KDFSaltLength = 16
	GCMNonceSize  = 12
)

// ContainerVersion is the current SecureDataContainer format version.
const ContainerVersion = "1.0"

// Audit Results
const (
	AuditResultSuccess = "success"
	AuditResultFailure = "failure"
	AuditResultBlocked = "blocked"
)

// Risk Levels
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Audit Actions
const (
	AuditActionEncryption    = "encryption"
	AuditActionDecryption    = "decryption"
	AuditActionSecureStore   = "secure_store"
	AuditActionSecureRead    = "secure_retrieve"
	AuditActionSecureDelete  = "secure_delete"
	AuditActionDataExport    = "data_export"
	AuditActionDataDeletion  = "data_deletion"
	AuditActionAnonymization = "anonymization"
	AuditActionPrivacyReport = "privacy_report"
)

// Audit Log Retention
const (
	AuditRetentionPeriod = 30 * 24 * time.Hour
	AuditMaxEntries      = 10000
	AuditTrimTarget      = 5000
)

// Storage behavior
const (
	StorageTimeout    = 3 * time.Second
	StorageMaxRetries = 1
)

// Deletion Scopes
const (
	DeletionScopePartial  = "partial"
	DeletionScopeComplete = "complete"
)

// Export Formats
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
	ExportFormatXML  = "xml"
)

// Anonymization
const (
	AnonymizeVisiblePrefix = 2
	AnonymizeMask          = "***"
)
